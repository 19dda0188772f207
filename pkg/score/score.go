// Package score computes lexical relevance between a query and stored content.
package score

import (
	"math"
	"strings"

	"github.com/recallstack/recall/pkg/tokenize"
)

// exactMatchBoost is added when the content contains the query verbatim
// (case-insensitive). Rewards literal phrase hits over scattered term overlap.
const exactMatchBoost = 0.3

// Score returns a relevance score in [0, 1] for content against query.
//
// The base score is matches / sqrt(|Q| * |C|) where Q is the set of distinct
// query terms and C the full term sequence of the content. Repeated matching
// terms in the content count multiple times, so content that repeats query
// terms ranks higher, while very long content is penalized unless it does.
// This is deliberately asymmetric and not a Jaccard index.
func Score(query, content string) float64 {
	querySet := tokenize.TermSet(query)
	contentTerms := tokenize.Terms(content)
	if len(querySet) == 0 || len(contentTerms) == 0 {
		return 0
	}

	matches := 0
	for _, term := range contentTerms {
		if _, ok := querySet[term]; ok {
			matches++
		}
	}

	s := float64(matches) / math.Sqrt(float64(len(querySet))*float64(len(contentTerms)))
	if strings.Contains(strings.ToLower(content), strings.ToLower(query)) {
		s += exactMatchBoost
	}
	return math.Min(1, s)
}
