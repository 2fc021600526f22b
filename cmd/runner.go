package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/avrelia/mdexport/internal/models"
	"github.com/avrelia/mdexport/internal/repositories"
	"github.com/avrelia/mdexport/internal/services"
	"github.com/avrelia/mdexport/internal/shared"
	"github.com/avrelia/mdexport/internal/tasks"
	"github.com/charmbracelet/log"
)

// Session store service keys.
const (
	serviceMangaDex = "mangadex"
	serviceAniList  = "anilist"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	session  *services.Session
	mangadex *services.MangaDexService
	anilist  *services.AniListService
	sessions *repositories.SessionRepository
	engine   *tasks.Engine
	creds    services.CredentialPrompter
	codes    services.CodePrompter
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Session  *services.Session
	MangaDex *services.MangaDexService
	AniList  *services.AniListService
	Sessions *repositories.SessionRepository
	Creds    services.CredentialPrompter
	Codes    services.CodePrompter
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	engine := tasks.NewEngine(opts.MangaDex, opts.AniList, opts.Logger)

	return &Runner{
		config:   opts.Config,
		session:  opts.Session,
		mangadex: opts.MangaDex,
		anilist:  opts.AniList,
		sessions: opts.Sessions,
		engine:   engine,
		creds:    opts.Creds,
		codes:    opts.Codes,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

// SetLogger swaps the runner's logger and the engine's with it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.engine = tasks.NewEngine(r.mangadex, r.anilist, logger)
}

// exportPath resolves a file name inside the configured export directory.
func (r *Runner) exportPath(name string) string {
	dir := r.config.Export.Dir
	if dir == "" {
		dir = "export"
	}
	return filepath.Join(dir, name)
}

// restoreSessions loads persisted sessions into the in-memory session state.
// A missing or unreadable store is not an error; the user just logs in again.
func (r *Runner) restoreSessions() {
	if r.sessions == nil {
		return
	}
	if stored, err := r.sessions.Load(serviceMangaDex); err != nil {
		r.logger.Warnf("failed to restore MangaDex session: %v", err)
	} else if stored != nil {
		r.session.SetTokens(stored.SessionToken, stored.RefreshToken)
	}
	if stored, err := r.sessions.Load(serviceAniList); err != nil {
		r.logger.Warnf("failed to restore AniList session: %v", err)
	} else if stored != nil {
		r.anilist.SetToken(stored.SessionToken)
	}
}

// ensureLogin makes sure a MangaDex session exists, prompting for credentials
// when there is none.
func (r *Runner) ensureLogin(ctx context.Context) error {
	if r.session.Authenticated() {
		return nil
	}
	if r.creds == nil {
		return fmt.Errorf("%w: run 'mdexport auth login' first", shared.ErrNotAuthenticated)
	}

	username, password, err := r.creds.Credentials()
	if err != nil {
		return err
	}
	if err := r.mangadex.Login(ctx, username, password); err != nil {
		return err
	}
	r.persistMangaDexSession(username)
	return nil
}

func (r *Runner) persistMangaDexSession(username string) {
	if r.sessions == nil {
		return
	}
	if err := r.sessions.Save(serviceMangaDex, r.session.Token(), r.session.RefreshToken(), username); err != nil {
		r.logger.Warnf("failed to persist session: %v", err)
	}
}

// enrich runs the full library enrichment, logging progress updates.
func (r *Runner) enrich(ctx context.Context) ([]models.Manga, error) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	items, err := r.engine.Enrich(ctx, progress)
	close(progress)
	<-done
	return items, err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
