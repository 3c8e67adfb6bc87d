package wkt

import (
	"fmt"
	"strconv"

	"github.com/woozymasta/geoconv/geo"
)

// Position locates a token in the input. It is the input carried by syntax
// and malformed coordinate errors.
type Position struct {
	Offset int
	Token  string
}

func (p Position) String() string {
	if p.Token == "" {
		return fmt.Sprintf("offset %d: unexpected end of input", p.Offset)
	}
	return fmt.Sprintf("offset %d: near %q", p.Offset, p.Token)
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokWord
	tokNumber
	tokLParen
	tokRParen
	tokComma
	tokSemicolon
	tokEquals
)

type token struct {
	kind tokenKind
	text string
	num  float64
	off  int
}

var punctuation = map[byte]tokenKind{
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
	';': tokSemicolon,
	'=': tokEquals,
}

// tokenize splits s into tokens, always ending with tokEOF.
func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isSpace(c):
			i++

		case punctuation[c] != tokEOF:
			toks = append(toks, token{kind: punctuation[c], text: s[i : i+1], off: i})
			i++

		case isLetter(c):
			j := i + 1
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			toks = append(toks, token{kind: tokWord, text: s[i:j], off: i})
			i = j

		case isDigit(c) || c == '-' || c == '+' || c == '.':
			j := i + 1
			for j < len(s) && isNumberByte(s[j]) {
				j++
			}
			v, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil, geo.NewError(geo.KindSyntax, Position{Offset: i, Token: s[i:j]})
			}
			toks = append(toks, token{kind: tokNumber, text: s[i:j], num: v, off: i})
			i = j

		default:
			return nil, geo.NewError(geo.KindSyntax, Position{Offset: i, Token: s[i : i+1]})
		}
	}
	return append(toks, token{kind: tokEOF, off: len(s)}), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+'
}
