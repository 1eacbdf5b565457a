// Package lexer implements the AVLisp tokenizer.
//
// Tokens are plain strings. Parentheses are padded with spaces and the
// result is split on runs of whitespace, so there is no escaping, no
// comments and no string literal syntax.
package lexer

import "strings"

// Parenthesis tokens.
const (
	LParen = "("
	RParen = ")"
)

var padder = strings.NewReplacer(LParen, " "+LParen+" ", RParen, " "+RParen+" ")

// Tokenize splits source into an ordered token sequence. It never fails; an
// empty or all-whitespace source yields an empty (non-nil) slice.
func Tokenize(source string) []string {
	tokens := strings.Fields(padder.Replace(source))
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// Join renders tokens back into source text separated by single spaces.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

// IsParen reports whether tok is one of the two parenthesis tokens.
func IsParen(tok string) bool {
	return tok == LParen || tok == RParen
}
