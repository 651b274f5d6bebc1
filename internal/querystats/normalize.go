// Package querystats collects per-request database query statistics: an HTTP
// middleware attaches a request-scoped collector, a database/sql driver
// wrapper feeds it one event per executed statement, and at the end of the
// request the middleware logs a summary plus threshold-gated diagnostics for
// repeated queries.
package querystats

import (
	"strings"
	"unicode"
)

// Normalize reduces a SQL statement to its structural form so that
// executions differing only in literal values group together:
//
//   - string literals ('...', with '' escapes) become ?
//   - numeric literals (including decimals, exponents, and a leading sign)
//     become ?
//   - bind placeholders (?, ?NNN, $1, :name, @name) become ?
//   - IN lists of literals or placeholders collapse to IN (?)
//   - line (--) and block (/* */) comments are removed
//   - whitespace collapses to single spaces
//
// Identifier case is preserved so logged text stays readable. Normalized
// text is a fixed point: Normalize(Normalize(q)) == Normalize(q).
func Normalize(query string) string {
	if query == "" {
		return ""
	}
	return normalizeLiterals(stripComments(query))
}

// normScanner walks a SQL string byte-wise during normalization.
type normScanner struct {
	src string
	pos int
}

func (s *normScanner) more() bool     { return s.pos < len(s.src) }
func (s *normScanner) cur() byte      { return s.src[s.pos] }
func (s *normScanner) hasNext() bool  { return s.pos+1 < len(s.src) }
func (s *normScanner) next() byte     { return s.src[s.pos+1] }
func (s *normScanner) advance()       { s.pos++ }
func (s *normScanner) advanceBy(n int) { s.pos += n }

// stripComments removes SQL comments and collapses whitespace runs to a
// single space. Runs before literal elision so quotes inside comments cannot
// be mistaken for string openers.
func stripComments(query string) string {
	var out strings.Builder
	out.Grow(len(query))
	s := &normScanner{src: query}
	lastWasSpace := true // trims leading whitespace

	for s.more() {
		c := s.cur()
		switch {
		case c == '\'':
			// Copy string literals untouched here; a -- or /* inside
			// quotes is data, not a comment.
			start := s.pos
			skipStringLiteral(s)
			out.WriteString(s.src[start:s.pos])
			lastWasSpace = false
		case c == '-' && s.hasNext() && s.next() == '-':
			skipLineComment(s)
			lastWasSpace = emitSpace(&out, lastWasSpace)
		case c == '/' && s.hasNext() && s.next() == '*':
			skipBlockComment(s)
			lastWasSpace = emitSpace(&out, lastWasSpace)
		case unicode.IsSpace(rune(c)):
			s.advance()
			lastWasSpace = emitSpace(&out, lastWasSpace)
		default:
			out.WriteByte(c)
			s.advance()
			lastWasSpace = false
		}
	}
	return strings.TrimSpace(out.String())
}

func emitSpace(out *strings.Builder, lastWasSpace bool) bool {
	if !lastWasSpace {
		out.WriteByte(' ')
	}
	return true
}

// normalizeLiterals replaces literals and placeholders with ? and collapses
// IN lists.
func normalizeLiterals(query string) string {
	var out strings.Builder
	out.Grow(len(query))
	s := &normScanner{src: query}

	for s.more() {
		c := s.cur()
		switch {
		case c == '\'':
			skipStringLiteral(s)
			out.WriteByte('?')
		case c == '(' && precededByIn(out.String()):
			out.WriteString(collapseInList(s))
		case isNumericStart(s):
			skipNumericLiteral(s)
			out.WriteByte('?')
		case isPlaceholderStart(s):
			skipPlaceholder(s)
			out.WriteByte('?')
		default:
			out.WriteByte(c)
			s.advance()
		}
	}
	return out.String()
}

// skipStringLiteral consumes a '...' literal, honoring doubled-quote escapes.
func skipStringLiteral(s *normScanner) {
	s.advance() // opening quote
	for s.more() {
		if s.cur() == '\'' {
			if s.hasNext() && s.next() == '\'' {
				s.advanceBy(2)
				continue
			}
			s.advance() // closing quote
			return
		}
		s.advance()
	}
}

func skipLineComment(s *normScanner) {
	for s.more() {
		c := s.cur()
		s.advance()
		if c == '\n' {
			return
		}
	}
}

func skipBlockComment(s *normScanner) {
	s.advanceBy(2)
	for s.more() {
		if s.cur() == '*' && s.hasNext() && s.next() == '/' {
			s.advanceBy(2)
			return
		}
		s.advance()
	}
}

// isNumericStart reports whether the scanner sits on a numeric literal. A
// digit that continues an identifier (table1, col_2) does not count, and a
// sign only counts when a digit follows it.
func isNumericStart(s *normScanner) bool {
	c := s.cur()
	if !isDigit(c) && c != '-' && c != '+' {
		return false
	}
	if c == '-' || c == '+' {
		if !s.hasNext() || !isDigit(s.next()) {
			return false
		}
	}
	if s.pos > 0 && isIdentChar(s.src[s.pos-1]) {
		return false // digit continuing an identifier, e.g. table1
	}
	return true
}

// skipNumericLiteral consumes digits, an optional decimal part, and an
// optional exponent.
func skipNumericLiteral(s *normScanner) {
	if s.cur() == '-' || s.cur() == '+' {
		s.advance()
	}
	for s.more() && isDigit(s.cur()) {
		s.advance()
	}
	if s.more() && s.cur() == '.' {
		s.advance()
		for s.more() && isDigit(s.cur()) {
			s.advance()
		}
	}
	if s.more() && (s.cur() == 'e' || s.cur() == 'E') {
		mark := s.pos
		s.advance()
		if s.more() && (s.cur() == '-' || s.cur() == '+') {
			s.advance()
		}
		if !s.more() || !isDigit(s.cur()) {
			s.pos = mark // not an exponent after all
			return
		}
		for s.more() && isDigit(s.cur()) {
			s.advance()
		}
	}
}

// isPlaceholderStart reports whether the scanner sits on an existing bind
// placeholder: ?, $1, :name, or @name.
func isPlaceholderStart(s *normScanner) bool {
	switch s.cur() {
	case '?':
		return true
	case '$', ':', '@':
		return s.hasNext() && isIdentChar(s.next())
	}
	return false
}

func skipPlaceholder(s *normScanner) {
	if s.cur() == '?' {
		s.advance()
		for s.more() && isDigit(s.cur()) { // ?NNN numbered form
			s.advance()
		}
		return
	}
	s.advance() // $ : @
	for s.more() && isIdentChar(s.cur()) {
		s.advance()
	}
}

// precededByIn reports whether the output so far ends with an IN keyword,
// so the upcoming parenthesized list is a candidate for collapsing.
func precededByIn(written string) bool {
	i := len(written) - 1
	for i >= 0 && written[i] == ' ' {
		i--
	}
	if i < 1 {
		return false
	}
	if (written[i] != 'n' && written[i] != 'N') || (written[i-1] != 'i' && written[i-1] != 'I') {
		return false
	}
	return i < 2 || !isIdentChar(written[i-2])
}

// collapseInList consumes a parenthesized list. When the list holds only
// literals, placeholders, commas, and whitespace it returns "(?)" so that
// IN (1, 2, 3) and IN (7) group identically; anything else (a subquery, a
// column reference) rewinds to just past the parenthesis so the main loop
// normalizes the contents without collapsing.
func collapseInList(s *normScanner) string {
	start := s.pos
	s.advance() // opening parenthesis
	values := 0

	for s.more() {
		c := s.cur()
		switch {
		case c == ')':
			s.advance()
			if values > 0 {
				return "(?)"
			}
			return s.src[start:s.pos]
		case c == ',':
			s.advance()
		case c == '\'':
			skipStringLiteral(s)
			values++
		case unicode.IsSpace(rune(c)):
			s.advance()
		case isNumericStart(s):
			skipNumericLiteral(s)
			values++
		case isPlaceholderStart(s):
			skipPlaceholder(s)
			values++
		default:
			s.pos = start + 1
			return "("
		}
	}
	s.pos = start + 1
	return "("
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentChar(c byte) bool {
	return c == '_' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
