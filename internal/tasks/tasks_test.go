package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/avrelia/mdexport/internal/models"
	"github.com/avrelia/mdexport/internal/services"
)

// mockLibrary is a field-driven test double for [LibraryService].
type mockLibrary struct {
	mu sync.Mutex

	statuses map[string]models.ReadingStatus
	manga    map[string]models.Manga
	markers  map[string][]string
	ratings  map[string]float64
	locales  []string

	libraryErr error
	batchErr   error
	markersErr error
	ratingsErr error
	localesErr error
	feedErr    error

	feeds map[string][]models.Chapter

	batchCalls [][]string
	feedCalls  []string
	feedLocale [][]string
}

func (m *mockLibrary) Library(ctx context.Context) (map[string]models.ReadingStatus, error) {
	if m.libraryErr != nil {
		return nil, m.libraryErr
	}
	return m.statuses, nil
}

func (m *mockLibrary) MangaBatch(ctx context.Context, ids []string) ([]models.Manga, error) {
	m.mu.Lock()
	m.batchCalls = append(m.batchCalls, ids)
	m.mu.Unlock()
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	var out []models.Manga
	for _, id := range ids {
		if manga, ok := m.manga[id]; ok {
			out = append(out, manga)
		}
	}
	return out, nil
}

func (m *mockLibrary) Feed(ctx context.Context, mangaID string, locales []string) ([]models.Chapter, error) {
	m.mu.Lock()
	m.feedCalls = append(m.feedCalls, mangaID)
	m.feedLocale = append(m.feedLocale, locales)
	m.mu.Unlock()
	if m.feedErr != nil {
		return nil, m.feedErr
	}
	return m.feeds[mangaID], nil
}

func (m *mockLibrary) ReadMarkers(ctx context.Context, ids []string) (map[string][]string, error) {
	if m.markersErr != nil {
		return nil, m.markersErr
	}
	return m.markers, nil
}

func (m *mockLibrary) Ratings(ctx context.Context, ids []string) (map[string]float64, error) {
	if m.ratingsErr != nil {
		return nil, m.ratingsErr
	}
	return m.ratings, nil
}

func (m *mockLibrary) FilteredLanguages(ctx context.Context) ([]string, error) {
	if m.localesErr != nil {
		return nil, m.localesErr
	}
	return m.locales, nil
}

// mockList is a test double for [ListWriter] recording saved entries.
type mockList struct {
	mu      sync.Mutex
	entries []services.ListEntry
	failIDs map[int]bool
}

func (m *mockList) SaveEntry(ctx context.Context, entry services.ListEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIDs[entry.MediaID] {
		return fmt.Errorf("server error for media %d", entry.MediaID)
	}
	m.entries = append(m.entries, entry)
	return nil
}
