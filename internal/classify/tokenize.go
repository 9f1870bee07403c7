package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// particleRunes are Japanese case particles treated as token separators.
// Splitting on them is crude (they can occur inside words) but matches the
// coarse relatedness check this feeds; this is not a morphological analyzer.
var particleRunes = map[rune]struct{}{
	'の': {}, 'に': {}, 'は': {}, 'を': {}, 'が': {}, 'で': {}, 'と': {}, 'へ': {}, 'も': {}, 'や': {},
}

// stopwords are tokens carrying no topical signal.
var stopwords = map[string]struct{}{
	"です": {}, "ます": {}, "から": {}, "こと": {}, "それ": {}, "これ": {},
	"して": {}, "する": {}, "した": {}, "ある": {}, "いる": {}, "ので": {}, "ました": {},
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"i": {}, "my": {}, "me": {}, "you": {}, "it": {}, "to": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "and": {}, "or": {}, "but": {}, "for": {}, "with": {},
	"that": {}, "this": {}, "have": {}, "has": {}, "do": {}, "did": {}, "not": {},
}

// SignificantWords tokenizes the message on punctuation and Japanese case
// particles, then drops stopwords and single-character tokens. Tokens are
// lowercased and deduplicated, order preserved.
func SignificantWords(message string) []string {
	fields := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		if _, particle := particleRunes[r]; particle {
			return true
		}
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := []string{}
	seen := map[string]struct{}{}
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// SharedWordCount counts how many significant words of a appear in b.
func SharedWordCount(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, w := range b {
		set[w] = struct{}{}
	}
	n := 0
	for _, w := range a {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}
