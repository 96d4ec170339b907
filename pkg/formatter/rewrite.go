package formatter

import (
	"strings"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/imports"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/sorter"
)

// Rewrite reassembles a file from its extracted parts and a sort result:
// the preamble unchanged, the reordered block, then the body unchanged. When
// the result reports no change, the original text is returned as is.
func Rewrite(split imports.Split, result sorter.Result) string {
	if split.Block == nil {
		return split.Preamble + split.Body
	}
	if !result.Changed || len(result.Statements) == 0 {
		return split.Preamble + split.Block.Text + split.Body
	}
	trailing := strings.HasSuffix(split.Block.Text, "\n")
	return split.Preamble + renderBlock(result.Groups, split.Newline, trailing) + split.Body
}

// renderBlock serializes groups of statements, separating groups with one
// blank line.
func renderBlock(groups [][]*imports.Statement, newline string, trailingNewline bool) string {
	var lines []string
	for gi, group := range groups {
		if gi > 0 && len(group) > 0 && len(lines) > 0 {
			lines = append(lines, "")
		}
		for _, s := range group {
			lines = append(lines, s.Leading...)
			lines = append(lines, s.Format(newline))
		}
	}

	out := strings.Join(lines, newline)
	if trailingNewline {
		out += newline
	}
	return out
}
