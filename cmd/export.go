package main

import (
	"context"

	"github.com/avrelia/mdexport/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Export file names inside the configured export directory.
const (
	xmlFileName         = "manga_library.xml"
	jsonFileName        = "manga_library.json"
	csvFileName         = "manga_library.csv"
	unlinkedFileName    = "unlinked.csv"
	unlistedMALFileName = "unlisted_by_MAL.csv"
)

// ExportXML writes the MyAnimeList XML export. Titles without a MAL id are
// not representable there; they go to a fallback CSV instead.
func (r *Runner) ExportXML(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLogin(ctx); err != nil {
		return err
	}
	items, err := r.enrich(ctx)
	if err != nil {
		return err
	}

	path := r.exportPath(xmlFileName)
	result, err := formatter.WriteXMLExport(items, path, cmd.String("user-id"), cmd.String("user-name"))
	if err != nil {
		return err
	}
	r.writePlain("Exported %d manga to %s. %d manga can't be exported because they don't have a MAL id.\n",
		result.Written, result.Path, len(result.Unlinked))

	if len(result.Unlinked) > 0 {
		fallback := r.exportPath(unlistedMALFileName)
		if _, err := formatter.WriteCSVExport(result.Unlinked, fallback); err != nil {
			return err
		}
		r.writePlain("Exported %d manga to %s\n", len(result.Unlinked), fallback)
	}
	return nil
}

// ExportJSON writes the enriched library as pretty-printed JSON.
func (r *Runner) ExportJSON(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLogin(ctx); err != nil {
		return err
	}
	items, err := r.enrich(ctx)
	if err != nil {
		return err
	}

	path := r.exportPath(jsonFileName)
	written, err := formatter.WriteJSONExport(items, path)
	if err != nil {
		return err
	}
	return r.writePlain("Exported %d manga to %s\n", written, path)
}

// ExportCSV writes the enriched library as CSV.
func (r *Runner) ExportCSV(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLogin(ctx); err != nil {
		return err
	}
	items, err := r.enrich(ctx)
	if err != nil {
		return err
	}

	path := r.exportPath(csvFileName)
	written, err := formatter.WriteCSVExport(items, path)
	if err != nil {
		return err
	}
	return r.writePlain("Exported %d manga to %s\n", written, path)
}
