package imports

import "strings"

// indent used for the names of a wrapped from-import
const indent = "    "

// Format returns the canonical text of s, without its leading comments and
// without a final line ending.
func (s *Statement) Format(newline string) string {
	var b strings.Builder
	switch s.Kind {
	case KindImport:
		b.WriteString("import ")
		b.WriteString(s.Module.String())
		if s.Alias != "" {
			b.WriteString(" as ")
			b.WriteString(s.Alias)
		}
	case KindFrom:
		b.WriteString("from ")
		b.WriteString(s.Module.String())
		b.WriteString(" import ")
		if (s.Wrapped || s.HasListComments()) && !s.HasWildcard() {
			b.WriteString("(")
			writeComment(&b, s.OpenComment)
			b.WriteString(newline)
			for _, n := range s.Names {
				writeLines(&b, n.Leading, newline)
				b.WriteString(indent)
				b.WriteString(n.String())
				b.WriteString(",")
				writeComment(&b, n.Comment)
				b.WriteString(newline)
			}
			writeLines(&b, s.Footer, newline)
			b.WriteString(")")
		} else {
			for i, n := range s.Names {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(n.String())
			}
		}
	}
	writeComment(&b, s.Comment)
	return b.String()
}

func writeComment(b *strings.Builder, comment string) {
	if comment != "" {
		b.WriteString("  ")
		b.WriteString(comment)
	}
}

// writeLines writes indented comment lines of a wrapped name list
func writeLines(b *strings.Builder, lines []string, newline string) {
	for _, l := range lines {
		b.WriteString(indent)
		b.WriteString(l)
		b.WriteString(newline)
	}
}

// Key returns the normalized single-line text of s, used to detect duplicate
// statements. Comments and wrapping do not take part in it.
func (s *Statement) Key() string {
	c := *s
	c.Comment = ""
	c.OpenComment = ""
	c.Footer = nil
	c.Wrapped = false
	c.Names = make([]Name, len(s.Names))
	for i, n := range s.Names {
		c.Names[i] = Name{Name: n.Name, Alias: n.Alias}
	}
	return c.Format("\n")
}
