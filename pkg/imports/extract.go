package imports

import (
	"fmt"
	"strings"
)

const bom = "\ufeff"

// physical is one source line with its line ending
type physical struct {
	text   string // without line ending
	full   string // with line ending
	offset int
}

func splitLines(src string) []physical {
	var lines []physical
	offset := 0
	for offset < len(src) {
		end := strings.IndexByte(src[offset:], '\n')
		var full string
		if end < 0 {
			full = src[offset:]
		} else {
			full = src[offset : offset+end+1]
		}
		text := strings.TrimSuffix(strings.TrimSuffix(full, "\n"), "\r")
		lines = append(lines, physical{text: text, full: full, offset: offset})
		offset += len(full)
	}
	return lines
}

func detectNewline(src string) string {
	if i := strings.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// isImportStart reports whether line opens an import statement at column 0.
func isImportStart(line string) bool {
	for _, kw := range []string{"import", "from"} {
		if !strings.HasPrefix(line, kw) {
			continue
		}
		rest := line[len(kw):]
		if rest == "" {
			return true
		}
		r := []rune(rest)[0]
		return !isIdentPart(r)
	}
	return false
}

// docstringQuote returns the opening quote of a module docstring starting on
// line, or "" if line does not start a string literal.
func docstringQuote(line string) (prefixLen int, quote string) {
	i := 0
	for i < len(line) && i < 2 && strings.ContainsRune("rRuUbBfF", rune(line[i])) {
		i++
	}
	rest := line[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(rest, q) {
			return i, q
		}
	}
	return 0, ""
}

// skipDocstring returns the index of the line following the module docstring
// that starts on lines[i]. ok is false when the string is unterminated or is
// followed by code on its closing line.
func skipDocstring(src string, lines []physical, i int) (next int, ok bool) {
	prefixLen, quote := docstringQuote(lines[i].text)
	pos := lines[i].offset + prefixLen + len(quote)
	raw := strings.ContainsAny(lines[i].text[:prefixLen], "rR")
	closeAt := -1
	for j := pos; j < len(src); j++ {
		c := src[j]
		if c == '\\' && !raw {
			j++
			continue
		}
		if len(quote) == 1 && c == '\n' {
			return 0, false
		}
		if strings.HasPrefix(src[j:], quote) {
			closeAt = j + len(quote)
			break
		}
	}
	if closeAt < 0 {
		return 0, false
	}
	for k := i; k < len(lines); k++ {
		end := lines[k].offset + len(lines[k].text)
		if closeAt > end {
			continue
		}
		rest := strings.TrimSpace(src[closeAt:end])
		if rest != "" && !strings.HasPrefix(rest, "#") {
			return 0, false
		}
		return k + 1, true
	}
	return 0, false
}

// gather returns the index of the last physical line of the statement that
// starts on lines[i], following parentheses and backslash continuations.
func gather(lines []physical, i int) (int, error) {
	depth := 0
	for k := i; k < len(lines); k++ {
		line := lines[k].text
		commented := false
		for _, c := range line {
			if c == '#' {
				commented = true
				break
			}
			switch c {
			case '(':
				depth++
			case ')':
				depth--
			}
		}
		if depth < 0 {
			return 0, fmt.Errorf("unbalanced parentheses")
		}
		continued := !commented && strings.HasSuffix(line, "\\")
		if depth == 0 && !continued {
			return k, nil
		}
	}
	if depth > 0 {
		return 0, fmt.Errorf("unbalanced parentheses")
	}
	return 0, fmt.Errorf("unexpected end of file in line continuation")
}

// Extract isolates the leading import block of src. Statements are collected
// while they follow each other from the top of the file, with only blank and
// comment lines between them. A statement that does not parse ends the block;
// it and everything after it become the body.
func Extract(src string) Split {
	split := Split{Newline: detectNewline(src)}
	lines := splitLines(src)
	// A byte order mark stays in the preamble
	if len(lines) > 0 && strings.HasPrefix(lines[0].full, bom) {
		lines[0].text = lines[0].text[len(bom):]
		lines[0].full = lines[0].full[len(bom):]
		lines[0].offset = len(bom)
	}

	i := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0].text, "#!") {
		i++
	}
	docstring := false
	for i < len(lines) {
		line := lines[i].text
		if isBlank(line) || isComment(line) {
			i++
			continue
		}
		if _, q := docstringQuote(line); q != "" && !docstring {
			next, ok := skipDocstring(src, lines, i)
			if !ok {
				break
			}
			docstring = true
			i = next
			continue
		}
		break
	}

	start := len(src)
	if i < len(lines) {
		start = lines[i].offset
	}
	split.Preamble = src[:start]
	split.Body = src[start:]
	if i >= len(lines) || !isImportStart(lines[i].text) {
		return split
	}

	block := &Block{Start: start, End: start}
	var leading []string
	blank := false
	for i < len(lines) {
		line := lines[i].text
		if isBlank(line) {
			blank = true
			i++
			continue
		}
		if isComment(line) {
			leading = append(leading, strings.TrimRight(line, " \t"))
			i++
			continue
		}
		if !isImportStart(line) {
			break
		}

		last, err := gather(lines, i)
		var stmts []*Statement
		if err == nil {
			stmts, err = parseStatement(joinLines(lines[i : last+1]))
		}
		if err != nil {
			split.Stopped = &SyntaxError{Line: i + 1, Reason: err.Error()}
			break
		}

		raw := strings.TrimSuffix(strings.TrimSuffix(src[lines[i].offset:lines[last].offset+len(lines[last].full)], "\n"), "\r")
		for n, s := range stmts {
			s.Raw = raw
			s.Line = i + 1
			s.Index = len(block.Statements)
			s.Wrapped = s.Kind == KindFrom && last > i && strings.Contains(raw, "(")
			if n == 0 {
				s.Leading = leading
				s.BlankBefore = blank && len(block.Statements) > 0
			}
			block.Statements = append(block.Statements, s)
		}
		if len(stmts) > 1 {
			block.Expanded = true
		}
		block.End = lines[last].offset + len(lines[last].full)
		leading = nil
		blank = false
		i = last + 1
	}

	if len(block.Statements) == 0 {
		return split
	}
	block.Text = src[block.Start:block.End]
	split.Block = block
	split.Body = src[block.End:]
	return split
}

func joinLines(lines []physical) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.full)
	}
	return b.String()
}
