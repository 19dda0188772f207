// Package tokenize normalizes free text into comparable terms and sentences.
package tokenize

import "strings"

// Terms lowercases the input, replaces every character that is not a letter,
// digit or underscore with whitespace, splits on whitespace runs and drops
// terms of length <= 2.
func Terms(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	var terms []string
	for _, field := range strings.Fields(normalized) {
		if len(field) > 2 {
			terms = append(terms, field)
		}
	}
	return terms
}

// TermSet returns the distinct terms of text as a set.
func TermSet(text string) map[string]struct{} {
	terms := Terms(text)
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// Sentences splits text on runs of '.', '!' and '?' and trims surrounding
// whitespace from each segment. Empty segments are dropped. This is a coarser
// split than Terms and is used for fact extraction.
func Sentences(text string) []string {
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var sentences []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			sentences = append(sentences, seg)
		}
	}
	return sentences
}
