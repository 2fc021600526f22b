package models

import "testing"

func TestReadingStatusLabel(t *testing.T) {
	tests := []struct {
		status ReadingStatus
		want   string
	}{
		{StatusReading, "Reading"},
		{StatusCompleted, "Completed"},
		{StatusOnHold, "On-Hold"},
		{StatusDropped, "Dropped"},
		{StatusPlanToRead, "Plan to Read"},
		{StatusReReading, "Reading"},
		{ReadingStatus("mystery"), "Mystery"},
		{ReadingStatus(""), ""},
	}

	for _, tc := range tests {
		if got := tc.status.Label(); got != tc.want {
			t.Errorf("Label(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestReadingStatusAniList(t *testing.T) {
	tests := []struct {
		status ReadingStatus
		want   string
	}{
		{StatusReading, "CURRENT"},
		{StatusCompleted, "COMPLETED"},
		{StatusOnHold, "PAUSED"},
		{StatusDropped, "DROPPED"},
		{StatusPlanToRead, "PLANNING"},
		{StatusReReading, "CURRENT"},
		{ReadingStatus("mystery"), "CURRENT"},
		{ReadingStatus(""), "CURRENT"},
	}

	for _, tc := range tests {
		if got := tc.status.AniList(); got != tc.want {
			t.Errorf("AniList(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name  string
		title map[string]string
		want  string
	}{
		{"english preferred", map[string]string{"ja": "ベータ", "en": "Alpha"}, "Alpha"},
		{"fallback sorted", map[string]string{"ja": "ベータ", "fr": "Beta"}, "Beta"},
		{"empty english skipped", map[string]string{"en": "", "ja": "ベータ"}, "ベータ"},
		{"no titles", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Manga{Title: tc.title}
			if got := m.DisplayTitle(); got != tc.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"reading", "Reading"},
		{"Seinen", "Seinen"},
		{"", ""},
		{"123", "123"},
	}

	for _, tc := range tests {
		if got := Capitalize(tc.in); got != tc.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPartitionTotal(t *testing.T) {
	p := Partition{
		AniList:  []Manga{{ID: "a"}},
		MALOnly:  []Manga{{ID: "b"}, {ID: "c"}},
		Unlinked: nil,
	}
	if p.Total() != 3 {
		t.Errorf("Total() = %d", p.Total())
	}
}
