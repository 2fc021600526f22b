// package formatter renders enriched library data to the export file formats
// (CSV, JSON, MyAnimeList XML).
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avrelia/mdexport/internal/models"
	"github.com/avrelia/mdexport/internal/shared"
)

// csvColumns is the fixed header row of the CSV export.
var csvColumns = []string{
	"MAL Id", "AL Id", "Type", "Title", "Description", "Original Language",
	"Demographic", "Status", "Year", "Content Rating", "Tags", "Author",
	"Artist", "Reading Status",
}

// ExportToCSV converts enriched titles to CSV with one row per title.
// Missing external ids render as "-"; a zero year renders empty.
func ExportToCSV(items []models.Manga) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range items {
		year := ""
		if m.Year != 0 {
			year = strconv.Itoa(m.Year)
		}
		record := []string{
			orDash(m.MALID),
			orDash(m.AniListID),
			models.Capitalize(m.Type),
			m.DisplayTitle(),
			m.EnglishDescription(),
			LanguageName(m.OriginalLanguage),
			models.Capitalize(m.Demographic),
			models.Capitalize(m.Status),
			year,
			models.Capitalize(m.ContentRating),
			strings.Join(m.Tags, ", "),
			m.Author,
			m.Artist,
			m.ReadingStatus.Label(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ExportToJSON converts enriched titles to pretty-printed JSON.
func ExportToJSON(items []models.Manga) ([]byte, error) {
	return shared.MarshalJSON(items, true)
}

// WriteCSVExport writes the CSV export to path, creating parent directories
// and overwriting any existing file. Returns the number of rows written.
func WriteCSVExport(items []models.Manga, path string) (int, error) {
	data, err := ExportToCSV(items)
	if err != nil {
		return 0, fmt.Errorf("failed to generate CSV: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return 0, err
	}
	return len(items), nil
}

// WriteJSONExport writes the JSON export to path, creating parent directories
// and overwriting any existing file. Returns the number of titles written.
func WriteJSONExport(items []models.Manga, path string) (int, error) {
	data, err := ExportToJSON(items)
	if err != nil {
		return 0, fmt.Errorf("failed to generate JSON: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return 0, err
	}
	return len(items), nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
