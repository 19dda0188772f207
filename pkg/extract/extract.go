// Package extract derives candidate profile statements from ingested text.
//
// The heuristic is precision-biased: a sentence becomes a fact only when it
// carries an explicit first-person trigger phrase. Missed statements are
// expected and acceptable; false positives are not.
package extract

import (
	"regexp"

	"github.com/recallstack/recall/pkg/tokenize"
)

// triggerPatterns are checked in order; the first match wins and a sentence
// contributes at most one fact.
var triggerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bi\s+(?:prefer|like|want|need|use)\b`),
	regexp.MustCompile(`(?i)\bmy\s+(?:favorite|preferred|default)\b`),
	regexp.MustCompile(`(?i)\bi\s+(?:always|never|usually|often)\b`),
	regexp.MustCompile(`(?i)\bremember\s+(?:that|to)\b`),
}

// Facts splits content into sentences and returns, in source order, every
// sentence matching a trigger pattern. Sentences of 10 characters or fewer
// are discarded before matching. Each emitted fact is the verbatim sentence,
// not a normalized statement.
func Facts(content string) []string {
	var facts []string
	for _, sentence := range tokenize.Sentences(content) {
		if len(sentence) <= 10 {
			continue
		}
		for _, pattern := range triggerPatterns {
			if pattern.MatchString(sentence) {
				facts = append(facts, sentence)
				break
			}
		}
	}
	return facts
}
