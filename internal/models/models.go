package models

import "sort"

// ReadingStatus is a MangaDex library status for a single title.
type ReadingStatus string

const (
	StatusReading    ReadingStatus = "reading"
	StatusCompleted  ReadingStatus = "completed"
	StatusOnHold     ReadingStatus = "on_hold"
	StatusDropped    ReadingStatus = "dropped"
	StatusPlanToRead ReadingStatus = "plan_to_read"
	StatusReReading  ReadingStatus = "re_reading"
)

// statusLabels maps library statuses to MyAnimeList status labels.
// re_reading folds into Reading; MAL has no separate bucket for it.
var statusLabels = map[ReadingStatus]string{
	StatusReading:    "Reading",
	StatusCompleted:  "Completed",
	StatusOnHold:     "On-Hold",
	StatusDropped:    "Dropped",
	StatusPlanToRead: "Plan to Read",
	StatusReReading:  "Reading",
}

// anilistStatuses maps library statuses to AniList MediaListStatus values.
var anilistStatuses = map[ReadingStatus]string{
	StatusReading:    "CURRENT",
	StatusCompleted:  "COMPLETED",
	StatusOnHold:     "PAUSED",
	StatusDropped:    "DROPPED",
	StatusPlanToRead: "PLANNING",
	StatusReReading:  "CURRENT",
}

// Label returns the MyAnimeList status label for s, falling back to the
// capitalized raw value for unknown statuses and "" for an unset one.
func (s ReadingStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return Capitalize(string(s))
}

// AniList returns the AniList MediaListStatus for s, defaulting to CURRENT
// for unmapped or absent statuses.
func (s ReadingStatus) AniList() string {
	if status, ok := anilistStatuses[s]; ok {
		return status
	}
	return "CURRENT"
}

// LibraryEntry is one (title id, status) pair from the user's library,
// immutable for the run.
type LibraryEntry struct {
	ID     string
	Status ReadingStatus
}

// Chapter is a single chapter from a title's feed. Chapter and Volume carry
// the raw string values from the API; either may be empty or unparsable.
type Chapter struct {
	ID      string
	Chapter string
	Volume  string
}

// Manga is a library entry enriched with descriptive metadata, external
// identifiers, and computed read progress.
type Manga struct {
	ID               string            `json:"id"`
	Type             string            `json:"type"`
	Title            map[string]string `json:"title"`
	Description      map[string]string `json:"description"`
	OriginalLanguage string            `json:"originalLanguage"`
	Demographic      string            `json:"publicationDemographic"`
	Status           string            `json:"status"`
	Year             int               `json:"year"`
	ContentRating    string            `json:"contentRating"`
	Tags             []string          `json:"tags"`
	Author           string            `json:"author"`
	Artist           string            `json:"artist"`

	// External identifiers from the title's links block, either may be empty.
	MALID     string `json:"malId"`
	AniListID string `json:"anilistId"`

	ReadingStatus ReadingStatus `json:"readingStatus"`

	// Read progress. Chapter and volume maxima are computed independently
	// over the read chapter set and may come from different chapters.
	ReadChapter float64 `json:"readChapter"`
	ReadVolume  float64 `json:"readVolume"`
	Rating      float64 `json:"userRating"`
}

// DisplayTitle resolves the display title: the "en" locale when present,
// otherwise the first available locale in sorted order.
func (m Manga) DisplayTitle() string {
	if title, ok := m.Title["en"]; ok && title != "" {
		return title
	}
	locales := make([]string, 0, len(m.Title))
	for locale := range m.Title {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		if m.Title[locale] != "" {
			return m.Title[locale]
		}
	}
	return ""
}

// EnglishDescription returns the "en" description or "".
func (m Manga) EnglishDescription() string {
	return m.Description["en"]
}

// Partition is a disjoint 3-way split of enriched titles by external
// identifier, each sequence preserving input order.
type Partition struct {
	AniList  []Manga // has an AniList id, regardless of MAL id
	MALOnly  []Manga // no AniList id, has a MAL id
	Unlinked []Manga // neither
}

// Total returns the number of titles across all three sequences.
func (p Partition) Total() int {
	return len(p.AniList) + len(p.MALOnly) + len(p.Unlinked)
}

// Capitalize upper-cases the first byte of a single-word enum value, as the
// export formats expect ("reading" -> "Reading"). Empty input stays empty.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
