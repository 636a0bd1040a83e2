// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func nowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "now",
		Usage: "Show the track playing on the active device",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown or json",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON (same as --format json)",
			},
		},
		Action: r.NowPlaying,
	}
}

func toggleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "toggle",
		Usage:  "Pause or resume playback",
		Action: r.Toggle,
	}
}

func nextCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "next",
		Usage:  "Skip to the next track",
		Action: r.Next,
	}
}

func previousCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "previous",
		Aliases: []string{"prev"},
		Usage:   "Go back to the previous track",
		Action:  r.Previous,
	}
}

func volumeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "volume",
		Usage: "Set the device volume (0-100)",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "percent",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "pick",
				Aliases: []string{"p"},
				Usage:   "Choose a preset interactively",
			},
		},
		Action: r.Volume,
	}
}

func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a track by URI (spotify:track:<id>)",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "uri",
			},
		},
		Action: r.Play,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the Spotify catalog",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Categories to search: track, artist, album (repeatable or comma separated)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv or json",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON (same as --format json)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write results to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "browse",
				Aliases: []string{"b"},
				Usage:   "Browse results interactively and play a track",
			},
		},
		Action: r.Search,
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify tokens",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Acquire an app token with the client credentials (catalog access only)",
				Action: r.AuthLogin,
			},
			{
				Name:   "session",
				Usage:  "Verify that the stored token belongs to a signed-in user",
				Action: r.AuthSession,
			},
			{
				Name:  "status",
				Usage: "Show stored token state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Store user tokens obtained from another client",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "access-token",
						Usage:    "User access token",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "refresh-token",
						Usage: "Refresh token used to renew the access token",
					},
					&cli.IntFlag{
						Name:  "expires-in",
						Usage: "Seconds until the access token expires",
						Value: 3600,
					},
				},
				Action: r.AuthImport,
			},
			{
				Name:   "logout",
				Usage:  "Forget all stored tokens",
				Action: r.AuthLogout,
			},
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and token store, then explain how to add credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the Spotify developer dashboard in a browser",
			},
		},
		Action: r.Setup,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Usage:     "Interactive search and play",
		ArgsUsage: "[query]",
		Action:    r.TUI,
	}
}
