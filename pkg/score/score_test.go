package score

import (
	"math"
	"testing"
)

func TestScoreEmptyInputs(t *testing.T) {
	if got := Score("", "some content here"); got != 0 {
		t.Errorf("empty query: got %v, want 0", got)
	}
	if got := Score("dark mode", ""); got != 0 {
		t.Errorf("empty content: got %v, want 0", got)
	}
	// Query terms all shorter than three characters tokenize to nothing.
	if got := Score("is on", "the light is on right now"); got != 0 {
		t.Errorf("short-term query: got %v, want 0", got)
	}
}

func TestScoreRange(t *testing.T) {
	cases := [][2]string{
		{"dark mode", "I love dark mode"},
		{"tea", "tea tea tea tea tea tea tea tea"},
		{"unrelated", "nothing in common at all"},
		{"green tea", "I always drink green tea in the morning"},
	}
	for _, c := range cases {
		got := Score(c[0], c[1])
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %v, out of [0,1]", c[0], c[1], got)
		}
	}
}

func TestScoreBaseFormula(t *testing.T) {
	// Q = {green, tea}, C = [green, tea, tastes, great], 2 matches.
	// No substring hit, so score is exactly 2/sqrt(2*4).
	got := Score("green tea!", "green tea tastes great")
	want := 2 / math.Sqrt(8)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("base score: got %v, want %v", got, want)
	}
}

func TestScoreRepeatsRewarded(t *testing.T) {
	once := Score("tea", "tea with milk and sugar served")
	twice := Score("tea", "tea with milk and tea served")
	if twice <= once {
		t.Errorf("repeated query term should score higher: %v <= %v", twice, once)
	}
}

func TestScoreExactMatchBoost(t *testing.T) {
	exact := Score("dark mode", "I love dark mode")
	scattered := Score("dark mode", "dark and also some unrelated mode word salad")
	if exact <= scattered {
		t.Errorf("substring hit should outrank scattered terms: %v <= %v", exact, scattered)
	}
}

func TestScoreBoostIsCaseInsensitive(t *testing.T) {
	lower := Score("dark mode", "i enabled dark mode yesterday")
	upper := Score("Dark Mode", "I enabled DARK MODE yesterday")
	if math.Abs(lower-upper) > 1e-9 {
		t.Errorf("case should not matter: %v != %v", lower, upper)
	}
}

func TestScoreCappedAtOne(t *testing.T) {
	// Identical strings: base 1.0 plus the substring boost must clamp to 1.
	got := Score("green tea", "green tea")
	if got != 1 {
		t.Errorf("identical strings: got %v, want 1", got)
	}
}

func TestScoreNoFuzzyMatching(t *testing.T) {
	// Visually similar strings with no shared terms score zero. Accepted
	// limitation of purely lexical matching.
	if got := Score("colour", "color"); got != 0 {
		t.Errorf("near-miss strings: got %v, want 0", got)
	}
}

func TestScoreLongContentPenalized(t *testing.T) {
	short := Score("tea", "tea ceremony")
	long := Score("tea", "tea and a very long rambling story about many other things entirely unrelated")
	if long >= short {
		t.Errorf("longer content without repeats should score lower: %v >= %v", long, short)
	}
}
