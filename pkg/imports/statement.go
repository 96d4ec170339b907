package imports

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two import statement forms
type Kind int

const (
	KindImport Kind = iota // import a.b [as c]
	KindFrom               // from a.b import c [as d]
)

func (k Kind) String() string {
	if k == KindFrom {
		return "from-import"
	}
	return "plain-import"
}

// Origin represents where an imported module comes from
type Origin int

const (
	OriginSystem Origin = iota
	OriginThirdParty
	OriginLocal
)

func (o Origin) String() string {
	switch o {
	case OriginSystem:
		return "system"
	case OriginThirdParty:
		return "third-party"
	case OriginLocal:
		return "local"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// ModulePath is a dotted module path. Level counts the leading dots of a
// relative import.
type ModulePath struct {
	Level    int
	Segments []string
}

func (m ModulePath) String() string {
	return strings.Repeat(".", m.Level) + strings.Join(m.Segments, ".")
}

// Top returns the top-level segment, or "" for a bare relative path.
func (m ModulePath) Top() string {
	if len(m.Segments) == 0 {
		return ""
	}
	return m.Segments[0]
}

func (m ModulePath) IsRelative() bool {
	return m.Level > 0
}

// Name is one entry of a from-import name list. Comments only occur in a
// parenthesized list and travel with the name when the list is sorted.
type Name struct {
	Name    string
	Alias   string   // empty if no alias
	Comment string   // comment at the end of the name's line
	Leading []string // comment lines directly above the name
}

// HasComments reports whether n carries any comment.
func (n Name) HasComments() bool {
	return n.Comment != "" || len(n.Leading) > 0
}

func (n Name) String() string {
	if n.Alias == "" {
		return n.Name
	}
	return n.Name + " as " + n.Alias
}

// Statement represents a single logical import statement
type Statement struct {
	Raw         string // original source text, without the final line ending
	Kind        Kind
	Module      ModulePath
	Names       []Name   // from-import names
	Alias       string   // plain import alias, empty if no alias
	Comment     string   // trailing comment including the leading '#'
	OpenComment string   // comment after the opening parenthesis of a name list
	Footer      []string // comment lines before the closing parenthesis
	Leading     []string // comment lines directly above the statement
	BlankBefore bool     // separated from the previous statement by a blank line
	Wrapped     bool     // name list was parenthesized across several lines
	Origin      Origin
	Index       int // position in the original block
	Line        int // 1-based line of the first physical line
}

// IsFuture reports whether s is a `from __future__ import ...` statement.
func (s *Statement) IsFuture() bool {
	return s.Kind == KindFrom && s.Module.Level == 0 &&
		len(s.Module.Segments) == 1 && s.Module.Segments[0] == "__future__"
}

// HasListComments reports whether any comment sits inside the parenthesized
// name list of s.
func (s *Statement) HasListComments() bool {
	if s.OpenComment != "" || len(s.Footer) > 0 {
		return true
	}
	for _, n := range s.Names {
		if n.HasComments() {
			return true
		}
	}
	return false
}

// HasWildcard reports whether s is a `from x import *` statement.
func (s *Statement) HasWildcard() bool {
	return s.Kind == KindFrom && len(s.Names) == 1 && s.Names[0].Name == "*"
}

// Block is the leading import region of a source file
type Block struct {
	Statements []*Statement
	Start      int    // byte offset of the first statement
	End        int    // byte offset just past the last statement's line ending
	Text       string // source[Start:End]
	Expanded   bool   // a multi-target `import a, b` was split into statements
}

// Split is the result of extracting the import block from a file.
// Preamble + Block.Text + Body always reconstructs the source; when Block is
// nil, Preamble + Body does.
type Split struct {
	Preamble string
	Block    *Block
	Body     string
	Newline  string
	Stopped  *SyntaxError // set when extraction stopped at a malformed statement
}

// SyntaxError describes the statement at which extraction stopped
type SyntaxError struct {
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
