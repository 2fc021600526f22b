package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/avrelia/mdexport/internal/formatter"
	"github.com/avrelia/mdexport/internal/shared"
	"github.com/avrelia/mdexport/internal/tasks"
	"github.com/avrelia/mdexport/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

const (
	defaultUserID   = "00000000"
	defaultUserName = "YourName"
)

// Menu launches the interactive export menu.
func (r *Runner) Menu(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLogin(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mdexport-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	actions := ui.Actions{
		Run: r.runChoices,
		Logout: func() error {
			return r.AuthLogout(ctx, cmd)
		},
	}

	model := ui.NewModel(ctx, actions)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// runChoices fetches and enriches the library once, then applies every
// selected action to it. Returns a printable summary of what was written.
func (r *Runner) runChoices(ctx context.Context, choices []string, progress chan<- tasks.ProgressUpdate) (string, error) {
	if ui.HasChoice(choices, ui.ChoiceImport) {
		if err := r.requireAniList(); err != nil {
			return "", err
		}
	}

	items, err := r.engine.Enrich(ctx, progress)
	if err != nil {
		return "", err
	}

	var lines []string
	if ui.HasChoice(choices, ui.ChoiceImport) {
		part := tasks.Partition(items)
		result, err := r.engine.ImportToAniList(ctx, progress, part.AniList)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("Imported %d/%d manga to AniList (%d failed)", result.Imported, len(part.AniList), result.Failed))

		if len(part.MALOnly) > 0 {
			path := r.exportPath(xmlFileName)
			xmlResult, err := formatter.WriteXMLExport(part.MALOnly, path, defaultUserID, defaultUserName)
			if err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf("Exported %d MAL-only manga to %s", xmlResult.Written, path))
		}
		if len(part.Unlinked) > 0 {
			path := r.exportPath(unlinkedFileName)
			if _, err := formatter.WriteCSVExport(part.Unlinked, path); err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf("Exported %d unlinked manga to %s", len(part.Unlinked), path))
		}
	}

	if ui.HasChoice(choices, ui.ChoiceXML) {
		path := r.exportPath(xmlFileName)
		result, err := formatter.WriteXMLExport(items, path, defaultUserID, defaultUserName)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("Exported %d manga to %s (%d without a MAL id)", result.Written, path, len(result.Unlinked)))

		if len(result.Unlinked) > 0 {
			fallback := r.exportPath(unlistedMALFileName)
			if _, err := formatter.WriteCSVExport(result.Unlinked, fallback); err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf("Exported %d manga to %s", len(result.Unlinked), fallback))
		}
	}

	if ui.HasChoice(choices, ui.ChoiceJSON) {
		path := r.exportPath(jsonFileName)
		written, err := formatter.WriteJSONExport(items, path)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("Exported %d manga to %s", written, path))
	}

	if ui.HasChoice(choices, ui.ChoiceCSV) {
		path := r.exportPath(csvFileName)
		written, err := formatter.WriteCSVExport(items, path)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("Exported %d manga to %s", written, path))
	}

	return strings.Join(lines, "\n"), nil
}
