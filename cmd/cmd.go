// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the setlist publishing HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// publishCommand publishes a single Setlist.fm setlist from the CLI
func publishCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Fetch a Setlist.fm setlist and publish it as a playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Setlist.fm setlist ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Explicit playlist name (defaults to \"artist - date\")",
			},
			&cli.BoolFlag{
				Name:  "exclude-covers",
				Usage: "Drop cover songs from the published playlist",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Publish,
	}
}

// initCommand writes a starter configuration file
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a starter config.toml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Destination path",
				Value: "config.toml",
			},
		},
		Action: r.Init,
	}
}
