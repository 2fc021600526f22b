package ui

import (
	"fmt"
	"strings"

	"github.com/avrelia/mdexport/internal/shared"
)

// Menu choice tokens.
const (
	ChoiceImport = "1"
	ChoiceXML    = "2"
	ChoiceJSON   = "3"
	ChoiceCSV    = "4"
	ChoiceLogout = "5"
	ChoiceQuit   = "q"
)

// menuLines is the numbered menu exactly as rendered.
var menuLines = []string{
	"1. Import to AniList (Requires AniList API Client & takes a long time)",
	"2. Export MAL XML",
	"3. Export JSON",
	"4. Export CSV",
	"5. Logout",
	"q. Quit",
}

var validChoices = map[string]bool{
	ChoiceImport: true,
	ChoiceXML:    true,
	ChoiceJSON:   true,
	ChoiceCSV:    true,
	ChoiceLogout: true,
	ChoiceQuit:   true,
}

// ParseChoices splits a comma-separated menu selection into tokens. Blank
// tokens are dropped; one unknown token rejects the whole input.
func ParseChoices(input string) ([]string, error) {
	var choices []string
	for _, raw := range strings.Split(input, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if !validChoices[token] {
			return nil, fmt.Errorf("%w: unknown choice %q", shared.ErrInvalidInput, token)
		}
		choices = append(choices, token)
	}
	return choices, nil
}

// HasChoice reports whether token is among the parsed choices.
func HasChoice(choices []string, token string) bool {
	for _, c := range choices {
		if c == token {
			return true
		}
	}
	return false
}
