package main

import (
	"context"
	"fmt"

	"github.com/avrelia/mdexport/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in to MangaDex and persists the session tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username, password, err := r.creds.Credentials()
	if err != nil {
		return err
	}

	if err := r.mangadex.Login(ctx, username, password); err != nil {
		return err
	}
	r.persistMangaDexSession(username)

	r.logger.Info("authentication successful")
	return r.writePlain("✓ Logged in to MangaDex\n")
}

// AuthAniList runs the OAuth2 authorization-code flow for the configured
// AniList API client and persists the access token.
func (r *Runner) AuthAniList(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.AniList
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: set [credentials.anilist] in config.toml (create an application at https://anilist.co/settings/developer with redirect %s)",
			shared.ErrMissingCredentials, "https://anilist.co/api/v2/oauth/pin")
	}

	authURL := r.anilist.AuthURL(shared.GenerateID())
	r.writePlain("Open the following URL in your browser and authorize the application:\n%s\n\n", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser: %v", err)
	}

	code, err := r.codes.Code()
	if err != nil {
		return err
	}
	if err := r.anilist.Authenticate(ctx, code); err != nil {
		return err
	}

	if r.sessions != nil {
		if err := r.sessions.Save(serviceAniList, r.anilist.Token(), "", ""); err != nil {
			r.logger.Warnf("failed to persist AniList token: %v", err)
		}
	}

	r.logger.Info("AniList authorization successful")
	return r.writePlain("✓ AniList authorized\n")
}

// AuthStatus shows which services have an active session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := map[string]bool{
		serviceMangaDex: r.session.Authenticated(),
		serviceAniList:  r.anilist.Authenticated(),
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	for _, service := range []string{serviceMangaDex, serviceAniList} {
		mark := "✗"
		if status[service] {
			mark = "✓"
		}
		r.writePlain("%s %s\n", mark, service)
	}
	return nil
}

// AuthLogout clears in-memory and persisted sessions for both services.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.mangadex.Logout()
	r.anilist.SetToken("")

	if r.sessions != nil {
		for _, service := range []string{serviceMangaDex, serviceAniList} {
			if err := r.sessions.Clear(service); err != nil {
				r.logger.Warnf("failed to clear %s session: %v", service, err)
			}
		}
	}

	return r.writePlain("Logged out.\n")
}
