package ui

import (
	"errors"
	"testing"

	"github.com/avrelia/mdexport/internal/shared"
)

func TestParseChoices(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "2", []string{"2"}},
		{"multiple", "2,3,4", []string{"2", "3", "4"}},
		{"whitespace", " 1 , 2 ", []string{"1", "2"}},
		{"quit", "q", []string{"q"}},
		{"trailing comma", "2,", []string{"2"}},
		{"empty", "", nil},
		{"duplicates kept", "2,2", []string{"2", "2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseChoices(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestParseChoicesRejectsWholeInput(t *testing.T) {
	for _, input := range []string{"7", "2,7", "x", "1,2,potato"} {
		if _, err := ParseChoices(input); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("ParseChoices(%q) should reject the whole input, got %v", input, err)
		}
	}
}

func TestHasChoice(t *testing.T) {
	choices := []string{"1", "3"}
	if !HasChoice(choices, ChoiceImport) {
		t.Error("expected ChoiceImport")
	}
	if HasChoice(choices, ChoiceXML) {
		t.Error("did not expect ChoiceXML")
	}
}
