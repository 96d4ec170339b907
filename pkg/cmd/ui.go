package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/formatter"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorDim    = lipgloss.Color("240")
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleHunk    = lipgloss.NewStyle().Foreground(colorCyan)
	styleAdded   = lipgloss.NewStyle().Foreground(colorGreen)
	styleRemoved = lipgloss.NewStyle().Foreground(colorRed)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconError   = "✗"
)

// printer writes diffs and summaries, coloured when w is a terminal
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &printer{w: w, color: color}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// printDiff writes a unified diff, colouring it line by line
func (p *printer) printDiff(diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"):
			text = p.render(styleHeader, text)
		case strings.HasPrefix(text, "@@"):
			text = p.render(styleHunk, text)
		case strings.HasPrefix(text, "+"):
			text = p.render(styleAdded, text)
		case strings.HasPrefix(text, "-"):
			text = p.render(styleRemoved, text)
		}
		fmt.Fprintln(p.w, text)
	}
}

// printReport writes per-file results followed by a summary line
func (p *printer) printReport(report formatter.Report, showDiffs, checkOnly bool) {
	pending := showDiffs || checkOnly
	// Failures and warnings are logged to stderr as they happen
	for _, res := range report.Files {
		switch {
		case !res.Changed:
		case showDiffs:
			p.printDiff(res.Diff)
		case pending:
			fmt.Fprintf(p.w, "%s %s: %s\n", p.render(styleWarning, iconWarning), res.Path, errors.InfoMsgWouldSortFile)
		default:
			fmt.Fprintf(p.w, "%s %s: %s\n", p.render(styleSuccess, iconSuccess), res.Path, errors.InfoMsgSortedFile)
		}
	}
	p.printSummary(report, pending)
}

func (p *printer) printSummary(report formatter.Report, pending bool) {
	if len(report.Files) == 0 {
		return
	}
	summary := fmt.Sprintf(errors.InfoMsgProcessedCount, len(report.Files))
	if changed := report.Changed(); changed > 0 {
		if pending {
			summary += fmt.Sprintf(errors.InfoMsgPendingCount, changed)
		} else {
			summary += fmt.Sprintf(errors.InfoMsgChangedCount, changed)
		}
	}
	if failed := len(report.Failed()); failed > 0 {
		summary += fmt.Sprintf(errors.InfoMsgErrorCount, failed)
		fmt.Fprintf(p.w, "%s %s\n", p.render(styleError, iconError), summary)
		return
	}
	fmt.Fprintln(p.w, p.render(styleDim, summary))
}
