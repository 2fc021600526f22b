// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles service authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage service sessions",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Log in to MangaDex with username and password",
				Action: r.AuthLogin,
			},
			{
				Name:   "anilist",
				Usage:  "Authorize the AniList API client (OAuth2 code grant)",
				Action: r.AuthAniList,
			},
			{
				Name:   "status",
				Usage:  "Show current session state",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output as JSON"}},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear all stored sessions",
				Action: r.AuthLogout,
			},
		},
	}
}

// userFlags configure the myinfo header of the MyAnimeList XML export.
var userFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "user-id",
		Usage: "MyAnimeList user id written to the export header",
		Value: "00000000",
	},
	&cli.StringFlag{
		Name:  "user-name",
		Usage: "MyAnimeList user name written to the export header",
		Value: "YourName",
	},
}

// exportCommand handles file exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the MangaDex library to a file",
		Commands: []*cli.Command{
			{
				Name:   "xml",
				Usage:  "Export as a MyAnimeList XML import file",
				Flags:  userFlags,
				Action: r.ExportXML,
			},
			{
				Name:   "json",
				Usage:  "Export the enriched library as JSON",
				Action: r.ExportJSON,
			},
			{
				Name:   "csv",
				Usage:  "Export the enriched library as CSV",
				Action: r.ExportCSV,
			},
		},
	}
}

// importCommand handles the destination-service import
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import the library into a tracking service",
		Commands: []*cli.Command{
			{
				Name:   "anilist",
				Usage:  "Import AniList-linked titles, exporting the rest to XML/CSV",
				Flags:  userFlags,
				Action: r.ImportAniList,
			},
		},
	}
}

// menuCommand launches the interactive menu
func menuCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "menu",
		Aliases: []string{"tui"},
		Usage:   "Interactive export menu",
		Action:  r.Menu,
	}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the session database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the session database schema",
				Action: r.SetupDatabase,
			},
		},
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, exportCommand, importCommand, menuCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}
