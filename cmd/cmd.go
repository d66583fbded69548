// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the session database",
		Action: r.Setup,
	}
}

// uploadCommand submits files to the story backend.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload photos and generate a story",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prompt",
				Usage: "Story prompt sent with the files",
			},
			&cli.IntFlag{
				Name:  "max-words",
				Usage: "Maximum words in the story",
			},
			&cli.IntFlag{
				Name:  "max-beats",
				Usage: "Maximum story beats",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key forwarded to the backend",
				Sources: cli.EnvVars("PHOTOYARN_API_KEY"),
			},
			&cli.BoolFlag{
				Name:  "ask-api-key",
				Usage: "Prompt for the API key without echo",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Upload,
	}
}

// slideshowCommand handles slides stored for a session.
func slideshowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "slideshow",
		Aliases: []string{"slides"},
		Usage:   "View, export or clear the slides stored for a session",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Browse the slideshow in the terminal",
				Action: r.SlideshowShow,
			},
			{
				Name:  "print",
				Usage: "Print every slide",
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
				Action: r.SlideshowPrint,
			},
			{
				Name:   "restart",
				Usage:  "Clear the stored slides and return to intake",
				Action: r.SlideshowRestart,
			},
			{
				Name:  "export",
				Usage: "Download slide images and write the story to disk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: markdown or text",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: story_export_{timestamp})",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Markdown heading",
					},
				},
				Action: r.SlideshowExport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the full intake to slideshow workflow.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive TUI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep slides in memory only",
			},
		},
		Action: r.TUI,
	}
}
