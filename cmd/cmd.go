// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func accountFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "account",
		Aliases: []string{"a"},
		Usage:   "Account to use (source or target)",
		Value:   value,
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Only the first N source playlists (0 for all)",
		},
		&cli.StringSliceFlag{
			Name:    "playlist",
			Aliases: []string{"p"},
			Usage:   "Source playlist ID (repeatable, overrides --limit)",
		},
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a default config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand links one of the two accounts through the OAuth installed-app flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize the source or target YouTube account",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "account"},
		},
		Action: r.Auth,
	}
}

// playlistsCommand lists the playlists of one account.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"ls"},
		Usage:   "List the playlists of an account",
		Flags:   append([]cli.Flag{accountFlag("source")}, jsonFlags()...),
		Action:  r.Playlists,
	}
}

// migrateCommand handles migration and verification runs.
func migrateCommand(r *Runner) *cli.Command {
	runFlags := append(selectionFlags(),
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Report what would be added without changing the target account",
		},
		&cli.BoolFlag{
			Name:  "no-verify",
			Usage: "Skip verification after migrating",
		},
	)

	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate playlists from the source to the target account",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Copy missing videos into target playlists, creating them as needed",
				Flags:  runFlags,
				Action: r.MigrateRun,
			},
			{
				Name:   "verify",
				Usage:  "Compare source and target playlists and write a verification report",
				Flags:  append(selectionFlags(), jsonFlags()...),
				Action: r.MigrateVerify,
			},
		},
	}
}

// progressCommand shows the progress file.
func progressCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "progress",
		Usage: "Inspect migration progress",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the progress file",
				Flags: append(jsonFlags(), &cli.BoolFlag{
					Name:  "tui",
					Usage: "Open the interactive progress dashboard",
				}),
				Action: r.ProgressShow,
			},
		},
	}
}

// issuesCommand lists run history from the database.
func issuesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "issues",
		Usage: "Inspect skipped videos, halted playlists and past runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List reported issues",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "Only issues of this run ID (default: latest migrate run)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Issues of every run",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Only issues of this kind (skipped_item, halted_playlist, failed_playlist)",
					},
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Only issues of this source playlist ID",
					},
				}, jsonFlags()...),
				Action: r.IssuesList,
			},
			{
				Name:  "runs",
				Usage: "List past runs, newest first",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs",
						Value: 20,
					},
				}, jsonFlags()...),
				Action: r.IssuesRuns,
			},
		},
	}
}

// itemCommand exposes single item operations for manual follow-up.
func itemCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "item",
		Usage: "Manual playlist item operations",
		Commands: []*cli.Command{
			{
				Name:  "delete",
				Usage: "Delete a playlist item by its item ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "item-id"},
				},
				Flags:  []cli.Flag{accountFlag("target")},
				Action: r.ItemDelete,
			},
			{
				Name:  "move",
				Usage: "Move a playlist item to a 0-based position",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "item-id"},
				},
				Flags: []cli.Flag{
					accountFlag("target"),
					&cli.IntFlag{
						Name:     "position",
						Usage:    "New 0-based position",
						Required: true,
					},
				},
				Action: r.ItemMove,
			},
		},
	}
}
