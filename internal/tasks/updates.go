package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	FetchLocales
	FetchMetadata
	FetchProgress
	FetchFeeds
	PartitionTitles
	ImportEntries
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case FetchLocales:
		return "fetch_locales"
	case FetchMetadata:
		return "fetch_metadata"
	case FetchProgress:
		return "fetch_progress"
	case FetchFeeds:
		return "fetch_feeds"
	case PartitionTitles:
		return "partition_titles"
	case ImportEntries:
		return "import_entries"
	default:
		return ""
	}
}

func fetchLibraryUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched library (%d titles)", total),
	}
}

func fetchLocalesUpdate(locales []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLocales,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Chapter locales: %v", locales),
		Data:    locales,
	}
}

func fetchMetadataUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching title metadata...", step, total),
	}
}

func fetchFeedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeeds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, title),
	}
}

func importEntryUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Importing: %s", step, total, title),
	}
}

func importFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportEntries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
