package imports

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokDot
	tokComma
	tokLParen
	tokRParen
	tokStar
	tokComment
)

type token struct {
	kind tokenKind
	text string
	line int // physical line within the statement, from 0
}

// keywords that can never appear as a module or name segment
var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// tokenize splits a logical import statement into tokens. Line endings and
// backslash continuations are treated as whitespace.
func tokenize(s string) ([]token, error) {
	var toks []token
	line := 0
	emit := func(kind tokenKind, text string) {
		toks = append(toks, token{kind: kind, text: text, line: line})
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\n':
			line++
			i += size
		case r == ' ' || r == '\t' || r == '\f' || r == '\r':
			i += size
		case r == '\\':
			rest := s[i+1:]
			switch {
			case strings.HasPrefix(rest, "\r\n"):
				i += 3
			case strings.HasPrefix(rest, "\n"):
				i += 2
			default:
				return nil, fmt.Errorf("unexpected backslash")
			}
			line++
		case r == '#':
			end := strings.IndexAny(s[i:], "\r\n")
			if end < 0 {
				end = len(s) - i
			}
			emit(tokComment, strings.TrimRight(s[i:i+end], " \t"))
			i += end
		case r == '.':
			emit(tokDot, ".")
			i += size
		case r == ',':
			emit(tokComma, ",")
			i += size
		case r == '(':
			emit(tokLParen, "(")
			i += size
		case r == ')':
			emit(tokRParen, ")")
			i += size
		case r == '*':
			emit(tokStar, "*")
			i += size
		case isIdentStart(r):
			j := i + size
			for j < len(s) {
				r2, size2 := utf8.DecodeRuneInString(s[j:])
				if !isIdentPart(r2) {
					break
				}
				j += size2
			}
			emit(tokName, s[i:j])
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	return toks, nil
}

// stmtParser is a recognizer for the two import statement forms over a
// token slice.
type stmtParser struct {
	toks []token
	pos  int
}

func (p *stmtParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *stmtParser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *stmtParser) accept(kind tokenKind) bool {
	if t, ok := p.peek(); ok && t.kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *stmtParser) acceptKeyword(word string) bool {
	if t, ok := p.peek(); ok && t.kind == tokName && t.text == word {
		p.pos++
		return true
	}
	return false
}

func (p *stmtParser) ident(what string) (string, error) {
	t, ok := p.next()
	if !ok {
		return "", fmt.Errorf("expected %s, found end of statement", what)
	}
	if t.kind != tokName || keywords[t.text] {
		return "", fmt.Errorf("expected %s, found %q", what, t.text)
	}
	return t.text, nil
}

func (p *stmtParser) dotted() ([]string, error) {
	first, err := p.ident("module name")
	if err != nil {
		return nil, err
	}
	segments := []string{first}
	for p.accept(tokDot) {
		seg, err := p.ident("module name")
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func (p *stmtParser) alias() (string, error) {
	if !p.acceptKeyword("as") {
		return "", nil
	}
	return p.ident("alias")
}

// lineComment consumes a comment on the same physical line as the previous
// token.
func (p *stmtParser) lineComment() string {
	t, ok := p.peek()
	if !ok || t.kind != tokComment || p.pos == 0 || p.toks[p.pos-1].line != t.line {
		return ""
	}
	p.pos++
	return t.text
}

// comments consumes a run of comment tokens.
func (p *stmtParser) comments() []string {
	var out []string
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokComment {
			return out
		}
		out = append(out, t.text)
		p.pos++
	}
}

// closingAhead reports whether the next token other than a comment closes
// the name list.
func (p *stmtParser) closingAhead() bool {
	for _, t := range p.toks[p.pos:] {
		if t.kind != tokComment {
			return t.kind == tokRParen
		}
	}
	return false
}

// trailer consumes an optional trailing comment and requires the end of the
// statement.
func (p *stmtParser) trailer() (string, error) {
	var comment string
	if t, ok := p.peek(); ok && t.kind == tokComment {
		comment = t.text
		p.pos++
	}
	if t, ok := p.peek(); ok {
		if t.kind == tokComment {
			return "", fmt.Errorf("comment inside import statement")
		}
		return "", fmt.Errorf("unexpected %q after import statement", t.text)
	}
	return comment, nil
}

// parseStatement parses the text of one logical import statement. A plain
// import with several targets yields one Statement per target.
func parseStatement(text string) ([]*Statement, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &stmtParser{toks: toks}
	switch {
	case p.acceptKeyword("import"):
		return p.parseImport()
	case p.acceptKeyword("from"):
		s, err := p.parseFrom()
		if err != nil {
			return nil, err
		}
		return []*Statement{s}, nil
	}
	return nil, fmt.Errorf("not an import statement")
}

func (p *stmtParser) parseImport() ([]*Statement, error) {
	var stmts []*Statement
	for {
		segments, err := p.dotted()
		if err != nil {
			return nil, err
		}
		alias, err := p.alias()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, &Statement{
			Kind:   KindImport,
			Module: ModulePath{Segments: segments},
			Alias:  alias,
		})
		if !p.accept(tokComma) {
			break
		}
	}
	comment, err := p.trailer()
	if err != nil {
		return nil, err
	}
	stmts[0].Comment = comment
	return stmts, nil
}

func (p *stmtParser) parseFrom() (*Statement, error) {
	s := &Statement{Kind: KindFrom}
	for p.accept(tokDot) {
		s.Module.Level++
	}
	if !p.acceptKeyword("import") {
		segments, err := p.dotted()
		if err != nil {
			return nil, err
		}
		s.Module.Segments = segments
		if !p.acceptKeyword("import") {
			return nil, fmt.Errorf("expected 'import' after module path")
		}
	} else if s.Module.Level == 0 {
		return nil, fmt.Errorf("missing module path")
	}

	if p.accept(tokStar) {
		s.Names = []Name{{Name: "*"}}
		comment, err := p.trailer()
		if err != nil {
			return nil, err
		}
		s.Comment = comment
		return s, nil
	}

	// Comments are only legal inside parentheses
	parens := p.accept(tokLParen)
	if parens {
		s.OpenComment = p.lineComment()
	}
	for {
		var n Name
		if parens {
			n.Leading = p.comments()
		}
		if t, ok := p.peek(); ok && t.kind == tokStar {
			return nil, fmt.Errorf("wildcard must be the only imported name")
		}
		name, err := p.ident("imported name")
		if err != nil {
			return nil, err
		}
		alias, err := p.alias()
		if err != nil {
			return nil, err
		}
		n.Name, n.Alias = name, alias
		if parens {
			n.Comment = p.lineComment()
		}
		more := p.accept(tokComma)
		if more && parens && n.Comment == "" {
			n.Comment = p.lineComment()
		}
		s.Names = append(s.Names, n)
		if !more {
			break
		}
		// a trailing comma is only legal inside parentheses
		if parens && p.closingAhead() {
			break
		}
	}
	if parens {
		s.Footer = p.comments()
		if !p.accept(tokRParen) {
			return nil, fmt.Errorf("unbalanced parentheses")
		}
	}
	comment, err := p.trailer()
	if err != nil {
		return nil, err
	}
	s.Comment = comment
	return s, nil
}
