// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configCommand manages the sync rule configuration.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage credentials and sync rules",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "oauth2-json",
				Usage: "Path to the Google OAuth2 client secret file",
			},
			&cli.StringFlag{
				Name:  "add",
				Usage: "Target playlist ID to add a sync rule for",
			},
			&cli.StringSliceFlag{
				Name:    "sources",
				Aliases: []string{"s"},
				Usage:   "Source playlist IDs for --add (comma separated)",
			},
			&cli.StringFlag{
				Name:  "remove",
				Usage: "Target playlist ID whose rule should be removed",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "Print the configured rules",
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Remove all sync rules",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: r.Config,
	}
}

// syncCommand runs the playlist synchronization.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Pull new videos from source playlists into their targets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Sync only the rule targeting this playlist ID",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Compute and print the plan without mutating anything",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the report as JSON",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write the run report to this file (.md or .json by extension)",
			},
		},
		Action: r.Sync,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage YouTube authorization",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Run the browser consent flow and cache the token",
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Show token cache state without any network call",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
				},
				Action: r.AuthStatus,
			},
			{
				Name:   "reset",
				Usage:  "Delete the cached token, forcing re-authorization",
				Action: r.AuthReset,
			},
		},
	}
}

// playlistsCommand lists the channel's playlists for id discovery.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List playlists on the authenticated channel",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: r.Playlists,
	}
}

// historyCommand shows recent sync runs from the local database.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent sync runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Only show runs for this target playlist ID",
			},
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: r.History,
	}
}
