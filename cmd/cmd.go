// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml if missing, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// analyzeCommand classifies a single audio file.
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Predict the top 3 genres of an audio file",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "MIME type of the file (default: detected from the extension)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Print the one-line summary used for sharing",
			},
		},
		Action: r.Analyze,
	}
}

// historyCommand handles the stored analysis history.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse and export past analyses",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List stored analyses, most recent first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show a stored analysis",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "export",
				Usage: "Export history as csv, md or txt",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, md, txt)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: genresense_history.<format>), - for stdout",
					},
				},
				Action: r.HistoryExport,
			},
			{
				Name:   "clear",
				Usage:  "Delete all stored analyses",
				Action: r.HistoryClear,
			},
		},
	}
}

// quotaCommand reports the daily analysis allowance.
func quotaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "quota",
		Usage: "Show how many analyses are left today",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Quota,
	}
}

// communityCommand handles the community genre board.
func communityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "community",
		Aliases: []string{"board"},
		Usage:   "Community genre board",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls", "search"},
				Usage:   "List entries, optionally filtered by title, composer or genre",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Case-insensitive search term",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CommunityList,
			},
			{
				Name:  "add",
				Usage: "Add an entry (up to three genres)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Music title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "composer",
						Usage:    "Composer or artist",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Genre (repeat up to three times)",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Take the genres from a stored analysis id",
					},
				},
				Action: r.CommunityAdd,
			},
		},
	}
}

// settingsCommand handles the persisted theme and language.
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change theme and language",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show current settings",
				Action: r.SettingsShow,
			},
			{
				Name:  "theme",
				Usage: "Set the theme (light, dark)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "value",
					},
				},
				Action: r.SettingsTheme,
			},
			{
				Name:    "locale",
				Aliases: []string{"lang"},
				Usage:   "Set the language (en, ko)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "value",
					},
				},
				Action: r.SettingsLocale,
			},
		},
	}
}

// serveCommand runs the JSON API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the analyzer JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default: server.port)",
			},
			&cli.StringFlag{
				Name:  "cors-origin",
				Usage: "Allowed browser origin (default: server.cors_origin)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the health endpoint in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive analyzer and community board",
		Action:  r.TUI,
	}
}

// loginCommand is a placeholder until accounts exist.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Sign in (coming soon)",
		Action: r.Login,
	}
}
