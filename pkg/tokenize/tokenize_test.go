package tokenize

import (
	"reflect"
	"testing"
)

func TestTerms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits",
			text: "Dark Mode Enabled",
			want: []string{"dark", "mode", "enabled"},
		},
		{
			name: "strips punctuation",
			text: "I prefer dark-mode, always!",
			want: []string{"prefer", "dark", "mode", "always"},
		},
		{
			name: "drops short terms",
			text: "it is on by me",
			want: nil,
		},
		{
			name: "keeps underscores and digits",
			text: "user_id 1234 set",
			want: []string{"user_id", "1234", "set"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "only separators",
			text: "... !!! ???",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Terms(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Terms(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTermsRepeatsPreserved(t *testing.T) {
	got := Terms("tea tea tea")
	if len(got) != 3 {
		t.Fatalf("Terms should keep repeats: got %v", got)
	}
}

func TestTermSet(t *testing.T) {
	set := TermSet("dark mode dark")
	if len(set) != 2 {
		t.Fatalf("TermSet size: got %d, want 2", len(set))
	}
	if _, ok := set["dark"]; !ok {
		t.Errorf("TermSet missing %q", "dark")
	}
	if _, ok := set["mode"]; !ok {
		t.Errorf("TermSet missing %q", "mode")
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "splits on terminators",
			text: "I like tea. I hate coffee! Do I?",
			want: []string{"I like tea", "I hate coffee", "Do I"},
		},
		{
			name: "runs of terminators collapse",
			text: "Really?! Yes... sure",
			want: []string{"Really", "Yes", "sure"},
		},
		{
			name: "trims whitespace",
			text: "  first .  second  ",
			want: []string{"first", "second"},
		},
		{
			name: "no terminator",
			text: "one long fragment",
			want: []string{"one long fragment"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
