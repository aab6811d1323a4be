// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"strconv"
	"strings"
	"unicode"

	"chartfold.dev/chartfold/pkg/filepos"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenField    // .a.b or bare .
	tokenVariable // $x, $ or $x.a.b
	tokenString   // val holds the unquoted string
	tokenNumber   // val holds the raw literal
	tokenPipe
	tokenLeftParen
	tokenRightParen
	tokenDeclare // :=
	tokenComma
)

type token struct {
	typ tokenType
	val string
	pos *filepos.Position
}

// lexAction tokenizes the inside of one {{ ... }} action. startLine and
// startCol locate the first inner character within the template source so
// every token carries an absolute position.
func lexAction(inner, source string, startLine, startCol int) ([]token, error) {
	l := &lexer{
		input:  inner,
		source: source,
		line:   startLine,
		col:    startCol,
	}
	return l.run()
}

type lexer struct {
	input  string
	source string
	offset int
	line   int
	col    int
}

func (l *lexer) run() ([]token, error) {
	var toks []token
	for {
		l.skipSpace()
		if l.offset >= len(l.input) {
			return toks, nil
		}

		pos := l.position()
		c := l.input[l.offset]

		switch {
		case c == '|':
			l.advance(1)
			toks = append(toks, token{tokenPipe, "|", pos})
		case c == '(':
			l.advance(1)
			toks = append(toks, token{tokenLeftParen, "(", pos})
		case c == ')':
			l.advance(1)
			toks = append(toks, token{tokenRightParen, ")", pos})
		case c == ',':
			l.advance(1)
			toks = append(toks, token{tokenComma, ",", pos})
		case c == ':':
			if !strings.HasPrefix(l.input[l.offset:], ":=") {
				return nil, NewError(ParseError, "expected := after :").WithPosition(pos)
			}
			l.advance(2)
			toks = append(toks, token{tokenDeclare, ":=", pos})
		case c == '"':
			val, err := l.scanQuotedString(pos)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokenString, val, pos})
		case c == '`':
			val, err := l.scanRawString(pos)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokenString, val, pos})
		case c == '.':
			toks = append(toks, token{tokenField, l.scanPath(), pos})
		case c == '$':
			toks = append(toks, token{tokenVariable, l.scanPath(), pos})
		case isDigit(c) || ((c == '-' || c == '+') && l.offset+1 < len(l.input) && isDigit(l.input[l.offset+1])):
			toks = append(toks, token{tokenNumber, l.scanNumber(), pos})
		case isIdentStart(c):
			toks = append(toks, token{tokenIdent, l.scanIdent(), pos})
		default:
			return nil, NewErrorf(ParseError, "unrecognized character in action: %q", rune(c)).WithPosition(pos)
		}
	}
}

func (l *lexer) position() *filepos.Position {
	return filepos.NewPositionInSource(l.line, l.source).SetCol(l.col)
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.offset < len(l.input); i++ {
		if l.input[l.offset] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.offset++
	}
}

func (l *lexer) skipSpace() {
	for l.offset < len(l.input) && isSpace(l.input[l.offset]) {
		l.advance(1)
	}
}

// scanPath consumes a field reference (".a.b", ".") or a variable
// reference ("$x", "$", "$x.a.b") and returns it verbatim.
func (l *lexer) scanPath() string {
	start := l.offset
	l.advance(1) // leading . or $
	for l.offset < len(l.input) {
		c := l.input[l.offset]
		if c == '.' || isPathChar(c) {
			l.advance(1)
			continue
		}
		break
	}
	return l.input[start:l.offset]
}

func (l *lexer) scanIdent() string {
	start := l.offset
	for l.offset < len(l.input) && isIdentChar(l.input[l.offset]) {
		l.advance(1)
	}
	return l.input[start:l.offset]
}

func (l *lexer) scanNumber() string {
	start := l.offset
	if c := l.input[l.offset]; c == '-' || c == '+' {
		l.advance(1)
	}
	for l.offset < len(l.input) {
		c := l.input[l.offset]
		if isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == 'x' || c == 'X' ||
			((c == '-' || c == '+') && l.offset > start && isExponent(l.input[l.offset-1])) {
			l.advance(1)
			continue
		}
		break
	}
	return l.input[start:l.offset]
}

func (l *lexer) scanQuotedString(pos *filepos.Position) (string, error) {
	start := l.offset
	l.advance(1) // opening quote
	for l.offset < len(l.input) {
		switch l.input[l.offset] {
		case '\\':
			l.advance(2)
		case '"':
			l.advance(1)
			val, err := strconv.Unquote(l.input[start:l.offset])
			if err != nil {
				return "", NewErrorf(ParseError, "bad string literal %s", l.input[start:l.offset]).WithPosition(pos)
			}
			return val, nil
		case '\n':
			return "", NewError(ParseError, "unterminated string literal").WithPosition(pos)
		default:
			l.advance(1)
		}
	}
	return "", NewError(ParseError, "unterminated string literal").WithPosition(pos)
}

func (l *lexer) scanRawString(pos *filepos.Position) (string, error) {
	l.advance(1) // opening backquote
	start := l.offset
	for l.offset < len(l.input) {
		if l.input[l.offset] == '`' {
			val := l.input[start:l.offset]
			l.advance(1)
			return val, nil
		}
		l.advance(1)
	}
	return "", NewError(ParseError, "unterminated raw string literal").WithPosition(pos)
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isExponent(c byte) bool { return c == 'e' || c == 'E' }

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// Path segments additionally allow dashes since configuration keys
// commonly contain them (e.g. .Values.pod-annotations).
func isPathChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}
