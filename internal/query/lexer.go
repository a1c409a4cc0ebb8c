package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokTrue
	tokFalse
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokPow
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// keywords maps reserved words to their token kinds. "and", "or" and "not"
// are accepted alongside &, | and ~.
var keywords = map[string]tokenKind{
	"True":  tokTrue,
	"False": tokFalse,
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			tok, n, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = n
		case isIdentStart(rune(c)):
			j := i + 1
			for j < len(src) && isIdentPart(rune(src[j])) {
				j++
			}
			word := src[i:j]
			kind, ok := keywords[word]
			if !ok {
				kind = tokIdent
			}
			toks = append(toks, token{kind: kind, text: word, pos: i})
			i = j
		case c == '`':
			end := strings.IndexByte(src[i+1:], '`')
			if end < 0 {
				return nil, syntaxErr(i, "unterminated backtick name")
			}
			name := src[i+1 : i+1+end]
			if name == "" {
				return nil, syntaxErr(i, "empty backtick name")
			}
			toks = append(toks, token{kind: tokIdent, text: name, pos: i})
			i += end + 2
		default:
			kind, width := lexOperator(src[i:])
			if width == 0 {
				return nil, syntaxErr(i, fmt.Sprintf("unexpected character %q", c))
			}
			toks = append(toks, token{kind: kind, text: src[i : i+width], pos: i})
			i += width
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func lexNumber(src string, start int) (token, int, error) {
	i := start
	for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
		i++
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			i = j
		}
	}
	text := src[start:i]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, 0, syntaxErr(start, fmt.Sprintf("invalid number %q", text))
	}
	return token{kind: tokNumber, text: text, num: v, pos: start}, i, nil
}

func lexOperator(s string) (tokenKind, int) {
	if len(s) >= 2 {
		switch s[:2] {
		case "==":
			return tokEq, 2
		case "!=":
			return tokNe, 2
		case "<=":
			return tokLe, 2
		case ">=":
			return tokGe, 2
		case "**":
			return tokPow, 2
		}
	}
	switch s[0] {
	case '&':
		return tokAnd, 1
	case '|':
		return tokOr, 1
	case '~':
		return tokNot, 1
	case '(':
		return tokLParen, 1
	case ')':
		return tokRParen, 1
	case '<':
		return tokLt, 1
	case '>':
		return tokGt, 1
	case '+':
		return tokPlus, 1
	case '-':
		return tokMinus, 1
	case '*':
		return tokStar, 1
	case '/':
		return tokSlash, 1
	case '%':
		return tokPercent, 1
	}
	return tokEOF, 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool { return r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r)) }

func isIdentPart(r rune) bool { return isIdentStart(r) || (r >= '0' && r <= '9') }

// isPlainName reports whether name can appear in predicate text without
// backticks.
func isPlainName(name string) bool {
	if name == "" {
		return false
	}
	if _, kw := keywords[name]; kw {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

func quoteName(name string) string {
	if isPlainName(name) {
		return name
	}
	return "`" + name + "`"
}

func syntaxErr(pos int, msg string) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, pos, msg)
}
