package tasks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avrelia/mdexport/internal/models"
)

// defaultLocales is used when the locale preference fetch fails or the user
// has none configured.
var defaultLocales = []string{"en"}

// Enrich fetches the user's library and turns every entry into a fully
// enriched title: metadata, external ids, rating, and read progress.
//
// The library and per-batch metadata fetches are fatal. Locale preferences,
// read markers, ratings, and individual chapter feeds degrade on failure: the
// run continues with defaults and the failure is logged. Exactly one output
// is produced per library entry, in sorted title-id order.
func (e *Engine) Enrich(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Manga, error) {
	statuses, err := e.library.Library(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(statuses))
	for id := range statuses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	e.sendProgress(progress, fetchLibraryUpdate(len(ids)))

	locales := e.locales(ctx)
	e.sendProgress(progress, fetchLocalesUpdate(locales))

	totalBatches := (len(ids) + batchSize - 1) / batchSize
	enriched := make([]models.Manga, 0, len(ids))
	var done atomic.Int64

	for batchNum := 0; batchNum*batchSize < len(ids); batchNum++ {
		start := batchNum * batchSize
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batchIDs := ids[start:end]
		e.sendProgress(progress, fetchMetadataUpdate(batchNum+1, totalBatches))

		batch, err := e.enrichBatch(ctx, progress, batchIDs, statuses, locales, &done, len(ids))
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, batch...)
	}

	return enriched, nil
}

// locales fetches the user's chapter locale preferences, degrading to the
// default on failure or an empty preference list.
func (e *Engine) locales(ctx context.Context) []string {
	locales, err := e.library.FilteredLanguages(ctx)
	if err != nil {
		e.logger.Warnf("failed to fetch locale preferences, defaulting to %v: %v", defaultLocales, err)
		return defaultLocales
	}
	if len(locales) == 0 {
		return defaultLocales
	}
	return locales
}

// enrichBatch enriches one id batch. Metadata is fatal; read markers and
// ratings degrade to empty maps; feeds are fetched by a worker pool with a
// cooldown inside each worker.
func (e *Engine) enrichBatch(ctx context.Context, progress chan<- ProgressUpdate, batchIDs []string, statuses map[string]models.ReadingStatus, locales []string, done *atomic.Int64, total int) ([]models.Manga, error) {
	metadata, err := e.library.MangaBatch(ctx, batchIDs)
	if err != nil {
		return nil, err
	}

	markers, err := e.library.ReadMarkers(ctx, batchIDs)
	if err != nil {
		e.logger.Warnf("failed to fetch read markers for batch: %v", err)
		markers = map[string][]string{}
	}
	ratings, err := e.library.Ratings(ctx, batchIDs)
	if err != nil {
		e.logger.Warnf("failed to fetch ratings for batch: %v", err)
		ratings = map[string]float64{}
	}

	byID := make(map[string]models.Manga, len(metadata))
	for _, m := range metadata {
		byID[m.ID] = m
	}

	// One slot per requested id so titles the metadata endpoint drops still
	// produce an output.
	slots := make([]models.Manga, len(batchIDs))
	for i, id := range batchIDs {
		m, ok := byID[id]
		if !ok {
			e.logger.Warnf("no metadata returned for title %s", id)
			m = models.Manga{ID: id}
		}
		m.ReadingStatus = statuses[id]
		m.Rating = ratings[id]
		slots[i] = m
	}

	jobs := make(chan int, len(slots))
	var wg sync.WaitGroup
	for w := 0; w < feedWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e.resolveProgress(ctx, &slots[i], markers[slots[i].ID], locales)
				e.sendProgress(progress, fetchFeedUpdate(int(done.Add(1)), total, slots[i].DisplayTitle()))
			}
		}()
	}
	for i := range slots {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return slots, nil
}

// resolveProgress computes a title's read progress from its chapter feed and
// the set of read chapter ids. The chapter and volume maxima are computed
// independently, so they may come from different chapters. A feed failure
// leaves progress at zero.
func (e *Engine) resolveProgress(ctx context.Context, m *models.Manga, readIDs []string, locales []string) {
	if len(readIDs) == 0 {
		return
	}

	feed, err := e.library.Feed(ctx, m.ID, locales)
	if e.cooldown > 0 {
		time.Sleep(e.cooldown)
	}
	if err != nil {
		e.logger.Warnf("failed to fetch feed for %s: %v", m.ID, err)
		return
	}

	read := make(map[string]bool, len(readIDs))
	for _, id := range readIDs {
		read[id] = true
	}

	for _, ch := range feed {
		if !read[ch.ID] {
			continue
		}
		if n, err := strconv.ParseFloat(ch.Chapter, 64); err == nil && n > m.ReadChapter {
			m.ReadChapter = n
		}
		if n, err := strconv.ParseFloat(ch.Volume, 64); err == nil && n > m.ReadVolume {
			m.ReadVolume = n
		}
	}
}
