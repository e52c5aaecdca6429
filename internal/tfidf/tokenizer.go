// Package tfidf builds a term-weighted vector space over short documents such as skill lists.
package tfidf

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of at least two word characters; single letters
// such as the "C" in "C++" carry no weight.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if tokens == nil {
		return make([]string, 0)
	}
	return tokens
}
