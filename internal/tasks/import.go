package tasks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/avrelia/mdexport/internal/models"
	"github.com/avrelia/mdexport/internal/services"
	"github.com/avrelia/mdexport/internal/shared"
	"golang.org/x/time/rate"
)

// importInterval is the minimum gap between destination mutations. AniList
// rate-limits aggressively; 2.1s keeps a long import under the cap.
const importInterval = 2100 * time.Millisecond

// ImportOutcome is the result of importing a single title.
type ImportOutcome struct {
	Manga   models.Manga
	MediaID int
	Err     error
}

// ImportResult summarizes a destination import run.
type ImportResult struct {
	Outcomes []ImportOutcome
	Imported int
	Failed   int
}

// ImportToAniList writes the AniList-linked titles to the destination list,
// one mutation at a time with a fixed pacing interval between calls. A failed
// entry is logged and recorded in its outcome; it never aborts the run.
func (e *Engine) ImportToAniList(ctx context.Context, progress chan<- ProgressUpdate, items []models.Manga) (*ImportResult, error) {
	interval := e.importEvery
	if interval <= 0 {
		interval = importInterval
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	result := &ImportResult{Outcomes: make([]ImportOutcome, 0, len(items))}
	for i, m := range items {
		outcome := ImportOutcome{Manga: m}

		mediaID, err := strconv.Atoi(m.AniListID)
		if err != nil {
			outcome.Err = fmt.Errorf("%w: anilist id %q is not numeric", shared.ErrInvalidInput, m.AniListID)
			e.logger.Warnf("skipping %s: %v", m.DisplayTitle(), outcome.Err)
			e.sendProgress(progress, importFailedUpdate(i+1, len(items), m.DisplayTitle(), outcome.Err))
			result.Outcomes = append(result.Outcomes, outcome)
			result.Failed++
			continue
		}
		outcome.MediaID = mediaID

		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}
		e.sendProgress(progress, importEntryUpdate(i+1, len(items), m.DisplayTitle()))

		// The destination entry is always overwritten; zero is a real value
		// for score and progress, not an absence.
		score := m.Rating
		chapters := int(m.ReadChapter)
		volumes := int(m.ReadVolume)
		entry := services.ListEntry{
			MediaID:         mediaID,
			Status:          m.ReadingStatus.AniList(),
			Score:           &score,
			Progress:        &chapters,
			ProgressVolumes: &volumes,
		}

		if err := e.list.SaveEntry(ctx, entry); err != nil {
			outcome.Err = err
			e.logger.Warnf("failed to import %s (media %d): %v", m.DisplayTitle(), mediaID, err)
			e.sendProgress(progress, importFailedUpdate(i+1, len(items), m.DisplayTitle(), err))
			result.Failed++
		} else {
			result.Imported++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}
