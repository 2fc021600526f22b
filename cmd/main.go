package main

import (
	"context"
	"os"

	"github.com/avrelia/mdexport/internal/repositories"
	"github.com/avrelia/mdexport/internal/services"
	"github.com/avrelia/mdexport/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("ignoring unreadable config.toml: %v", err)
		}
	}

	session := &services.Session{}
	client := services.NewClient(nil, session, logger)
	mangadex := services.NewMangaDexService(client, session, logger)
	anilist := services.NewAniListService(client, config.Credentials.AniList, logger)

	var sessionRepo *repositories.SessionRepository
	dbPath := config.Database.Path
	if dbPath == "" {
		dbPath = "mdexport.db"
	}
	if db, err := repositories.OpenDatabase(dbPath); err != nil {
		logger.Warnf("session store unavailable: %v", err)
	} else if err := repositories.EnsureSchema(db); err != nil {
		logger.Warnf("session store unavailable: %v", err)
		db.Close()
	} else {
		sessionRepo = repositories.NewSessionRepository(db)
	}

	prompter := newTerminalPrompter(os.Stdin, os.Stderr)
	runner := NewRunner(RunnerOpts{
		Config:   config,
		Session:  session,
		MangaDex: mangadex,
		AniList:  anilist,
		Sessions: sessionRepo,
		Creds:    prompter,
		Codes:    prompter,
		Logger:   logger,
	})
	runner.restoreSessions()

	app := &cli.Command{
		Name:     "mdexport",
		Usage:    "Export a MangaDex library to MyAnimeList & AniList",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
