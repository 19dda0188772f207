package extract

import (
	"reflect"
	"testing"
)

func TestFactsTriggerPatterns(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "prefer",
			content: "I prefer dark mode in my editor.",
			want:    []string{"I prefer dark mode in my editor"},
		},
		{
			name:    "always",
			content: "I always drink green tea in the morning.",
			want:    []string{"I always drink green tea in the morning"},
		},
		{
			name:    "favorite",
			content: "My favorite language is Go.",
			want:    []string{"My favorite language is Go"},
		},
		{
			name:    "remember",
			content: "Remember that the standup moved to 9am.",
			want:    []string{"Remember that the standup moved to 9am"},
		},
		{
			name:    "no trigger",
			content: "The weather was nice yesterday. We went for a walk.",
			want:    nil,
		},
		{
			name:    "case insensitive",
			content: "i NEED more coffee every single day.",
			want:    []string{"i NEED more coffee every single day"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Facts(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Facts(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestFactsShortSegmentsDiscarded(t *testing.T) {
	// "I like it" is 9 characters and must be dropped before matching.
	got := Facts("I like it. I like spicy ramen noodles.")
	want := []string{"I like spicy ramen noodles"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Facts: got %v, want %v", got, want)
	}
}

func TestFactsOnePerSentence(t *testing.T) {
	// Matches both "I prefer" and "I always": still one fact, verbatim.
	got := Facts("I prefer tea and I always drink it hot.")
	if len(got) != 1 {
		t.Fatalf("sentence should contribute at most one fact: got %v", got)
	}
}

func TestFactsSourceOrder(t *testing.T) {
	content := "I use vim for everything. Nothing else matters here. My default shell is zsh."
	want := []string{"I use vim for everything", "My default shell is zsh"}
	got := Facts(content)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Facts order: got %v, want %v", got, want)
	}
}

func TestFactsEmptyContent(t *testing.T) {
	if got := Facts(""); got != nil {
		t.Errorf("Facts(\"\") = %v, want nil", got)
	}
}

func TestFactsNoFalsePositiveWithoutTrigger(t *testing.T) {
	// First-person statements without a trigger phrase are skipped; the
	// heuristic prefers false negatives over false positives.
	if got := Facts("I went to the conference in Berlin last week."); got != nil {
		t.Errorf("Facts = %v, want nil", got)
	}
}
