package main

import (
	"context"
	"fmt"

	"github.com/avrelia/mdexport/internal/formatter"
	"github.com/avrelia/mdexport/internal/shared"
	"github.com/avrelia/mdexport/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ImportAniList imports AniList-linked titles into the user's AniList
// account and routes the remainder to the file exports: MAL-linked titles to
// the XML import file, fully unlinked ones to a CSV.
func (r *Runner) ImportAniList(ctx context.Context, cmd *cli.Command) error {
	if !r.anilist.Authenticated() {
		if err := r.AuthAniList(ctx, cmd); err != nil {
			return err
		}
	}
	if err := r.ensureLogin(ctx); err != nil {
		return err
	}

	items, err := r.enrich(ctx)
	if err != nil {
		return err
	}
	part := tasks.Partition(items)
	r.writePlain("Adding %d manga to AniList...\n", len(part.AniList))

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()
	result, err := r.engine.ImportToAniList(ctx, progress, part.AniList)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("Imported %d/%d manga to AniList (%d failed).\n",
		result.Imported, len(part.AniList), result.Failed)
	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			r.writePlain("  ✗ %s: %v\n", outcome.Manga.DisplayTitle(), outcome.Err)
		}
	}

	if len(part.MALOnly) > 0 {
		path := r.exportPath(xmlFileName)
		xmlResult, err := formatter.WriteXMLExport(part.MALOnly, path, cmd.String("user-id"), cmd.String("user-name"))
		if err != nil {
			return err
		}
		r.writePlain("Exported %d MAL-only manga to %s\n", xmlResult.Written, path)
	}
	if len(part.Unlinked) > 0 {
		path := r.exportPath(unlinkedFileName)
		if _, err := formatter.WriteCSVExport(part.Unlinked, path); err != nil {
			return err
		}
		r.writePlain("Exported %d unlinked manga to %s\n", len(part.Unlinked), path)
	}
	return nil
}

// requireAniList fails fast when no AniList token is available, for contexts
// that cannot run the interactive code flow.
func (r *Runner) requireAniList() error {
	if r.anilist.Authenticated() {
		return nil
	}
	return fmt.Errorf("%w: run 'mdexport auth anilist' first", shared.ErrNotAuthenticated)
}
