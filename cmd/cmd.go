// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the littleScreen HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand prepares configuration and storage
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create configuration and initialize the database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the config",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// channelsCommand manages the approved channel reference list
func channelsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "channels",
		Usage: "Approved channel reference data",
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Upsert the built-in approved channel list",
				Action: r.ChannelsSeed,
			},
			{
				Name:  "list",
				Usage: "List approved channels",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ChannelsList,
			},
		},
	}
}

// screenCommand classifies content for young children
func screenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "screen",
		Usage: "Screen a title (or a file of titles) with the content classifier",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "JSON array of screening requests, or one title per line",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Description of the title",
			},
			&cli.StringFlag{
				Name:  "channel",
				Usage: "Channel that publishes the title",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent classifier requests for --file",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Classifier requests per second for --file",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Screen,
	}
}

// feedbackCommand handles parent feedback reporting
func feedbackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "feedback",
		Usage: "Parent feedback reporting",
		Commands: []*cli.Command{
			{
				Name:   "digest",
				Usage:  "Mail the weekly digest of unsent feedback",
				Action: r.FeedbackDigest,
			},
		},
	}
}

// playlistsCommand exports stored playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export a playlist with its items",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "csv, markdown or text",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// sessionCommand inspects session tokens
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Session token tools",
		Commands: []*cli.Command{
			{
				Name:  "decode",
				Usage: "Print the claims of a session token",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "token",
					},
				},
				Action: r.SessionDecode,
			},
		},
	}
}
