package formatter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/avrelia/mdexport/internal/models"
)

// emptyCDATA is the value MyAnimeList's own exporter emits for empty
// free-text fields: a CDATA section whose content is itself an unterminated
// CDATA opener, split across two sections. Importers expect these exact
// bytes, so the writer reproduces them instead of using encoding/xml.
const emptyCDATA = "<![CDATA[<![CDATA[]]]]><![CDATA[>]]>"

// XMLResult reports what a MyAnimeList export wrote and which titles it had
// to leave out.
type XMLResult struct {
	Path    string
	Written int
	// Unlinked holds the titles without a MAL id, in input order. They are
	// not representable in the export and are handed back for routing to
	// AniList or a fallback CSV.
	Unlinked []models.Manga
}

// ExportToXML renders enriched titles as a MyAnimeList manga list export
// (user_export_type 2). Titles without a MAL id are skipped and returned in
// the result. The per-status totals in the myinfo header count only the
// written titles.
func ExportToXML(items []models.Manga, userID, userName string) ([]byte, *XMLResult, error) {
	result := &XMLResult{}
	var entries bytes.Buffer
	totals := map[string]int{}

	for _, m := range items {
		if m.MALID == "" {
			result.Unlinked = append(result.Unlinked, m)
			continue
		}
		result.Written++
		totals[malStatus(m.ReadingStatus)]++
		writeEntry(&entries, m)
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	buf.WriteString("<myanimelist><myinfo>")
	writeElem(&buf, "user_id", userID)
	writeElem(&buf, "user_name", userName)
	writeElem(&buf, "user_export_type", "2")
	writeElem(&buf, "user_total_manga", strconv.Itoa(result.Written))
	writeElem(&buf, "user_total_reading", strconv.Itoa(totals["Reading"]))
	writeElem(&buf, "user_total_completed", strconv.Itoa(totals["Completed"]))
	writeElem(&buf, "user_total_onhold", strconv.Itoa(totals["On-Hold"]))
	writeElem(&buf, "user_total_dropped", strconv.Itoa(totals["Dropped"]))
	writeElem(&buf, "user_total_plantoread", strconv.Itoa(totals["Plan to Read"]))
	buf.WriteString("</myinfo>")
	buf.Write(entries.Bytes())
	buf.WriteString("</myanimelist>")

	return buf.Bytes(), result, nil
}

func writeEntry(buf *bytes.Buffer, m models.Manga) {
	buf.WriteString("<manga>")
	writeElem(buf, "manga_mangadb_id", m.MALID)
	buf.WriteString("<manga_title><![CDATA[")
	buf.WriteString(m.DisplayTitle())
	buf.WriteString("]]></manga_title>")
	writeElem(buf, "manga_volumes", "0")
	writeElem(buf, "manga_chapters", "0")
	writeElem(buf, "my_id", "0")
	writeElem(buf, "my_read_volumes", formatCount(m.ReadVolume))
	writeElem(buf, "my_read_chapters", formatCount(m.ReadChapter))
	writeElem(buf, "my_start_date", "0000-00-00")
	writeElem(buf, "my_finish_date", "0000-00-00")
	buf.WriteString("<my_scanalation_group>" + emptyCDATA + "</my_scanalation_group>")
	writeElem(buf, "my_score", formatCount(m.Rating))
	writeElem(buf, "my_storage", " ")
	writeElem(buf, "my_retail_volumes", "0")
	writeElem(buf, "my_status", malStatus(m.ReadingStatus))
	buf.WriteString("<my_comments>" + emptyCDATA + "</my_comments>")
	writeElem(buf, "my_times_read", "0")
	buf.WriteString("<my_tags>" + emptyCDATA + "</my_tags>")
	writeElem(buf, "my_priority", "Low")
	writeElem(buf, "my_reread_value", "")
	writeElem(buf, "my_rereading", "NO")
	writeElem(buf, "my_discuss", "YES")
	writeElem(buf, "my_sns", "default")
	writeElem(buf, "update_on_import", "1")
	buf.WriteString("</manga>")
}

// malStatus resolves a title's my_status label. An absent status defaults to
// "Plan to Read" and an unmapped one to "Reading", so every written entry
// lands in exactly one of the five myinfo totals.
func malStatus(s models.ReadingStatus) string {
	switch label := s.Label(); label {
	case "Reading", "Completed", "On-Hold", "Dropped", "Plan to Read":
		return label
	case "":
		return "Plan to Read"
	default:
		return "Reading"
	}
}

// writeElem writes one element with XML-escaped character data.
func writeElem(buf *bytes.Buffer, name, value string) {
	buf.WriteString("<" + name + ">")
	xml.EscapeText(buf, []byte(value))
	buf.WriteString("</" + name + ">")
}

// formatCount renders a progress or score value without a trailing ".0".
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteXMLExport writes the MyAnimeList export to path, creating parent
// directories and overwriting any existing file.
func WriteXMLExport(items []models.Manga, path, userID, userName string) (*XMLResult, error) {
	data, result, err := ExportToXML(items, userID, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate XML: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}
