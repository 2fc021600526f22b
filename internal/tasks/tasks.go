// package tasks implements the pipeline between the two services: library
// enrichment, the external-id partition, and the destination import.
package tasks

import (
	"context"
	"time"

	"github.com/avrelia/mdexport/internal/models"
	"github.com/avrelia/mdexport/internal/services"
	"github.com/avrelia/mdexport/internal/shared"
	"github.com/charmbracelet/log"
)

const (
	// batchSize is the id cap per metadata/read-marker/rating call.
	batchSize = 100
	// feedWorkers is the chapter-feed pool size.
	feedWorkers = 5
	// feedCooldown is slept inside each worker after every feed fetch.
	feedCooldown = time.Second
)

// LibraryService is the source-service surface the engine needs. Implemented
// by [services.MangaDexService].
type LibraryService interface {
	Library(ctx context.Context) (map[string]models.ReadingStatus, error)
	MangaBatch(ctx context.Context, ids []string) ([]models.Manga, error)
	Feed(ctx context.Context, mangaID string, locales []string) ([]models.Chapter, error)
	ReadMarkers(ctx context.Context, ids []string) (map[string][]string, error)
	Ratings(ctx context.Context, ids []string) (map[string]float64, error)
	FilteredLanguages(ctx context.Context) ([]string, error)
}

// ListWriter is the destination-service surface the import runner needs.
// Implemented by [services.AniListService].
type ListWriter interface {
	SaveEntry(ctx context.Context, entry services.ListEntry) error
}

// Engine runs the export pipeline end to end.
type Engine struct {
	library LibraryService
	list    ListWriter
	logger  *log.Logger

	// cooldown is the in-worker sleep after each feed fetch. Tests zero it.
	cooldown time.Duration
	// importEvery overrides the destination pacing interval when positive.
	importEvery time.Duration
}

// NewEngine creates an export engine over the two service clients.
func NewEngine(library LibraryService, list ListWriter, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		library:  library,
		list:     list,
		logger:   logger,
		cooldown: feedCooldown,
	}
}

// SetCooldown overrides the per-feed cooldown. Used by tests.
func (e *Engine) SetCooldown(d time.Duration) { e.cooldown = d }

// SetImportInterval overrides the destination pacing interval. Used by tests.
func (e *Engine) SetImportInterval(d time.Duration) { e.importEvery = d }
