package main

import (
	"github.com/urfave/cli/v3"

	"github.com/handiism/hydr0-downloader/internal/config"
)

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		runCommand(r),
		configCommand(r),
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   config.DefaultFileName,
	}
}

// runCommand resolves queries and optionally downloads the picked tracks
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Resolve the tracks file and download or record the picked tracks",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"n"},
				Usage:   "Number of concurrent download workers",
			},
			&cli.BoolFlag{
				Name:    "download",
				Aliases: []string{"d"},
				Usage:   "Download picked tracks instead of only recording them as resolved",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Pick candidates with an interactive list when stdin is a terminal",
			},
			&cli.StringFlag{
				Name:    "from-file",
				Aliases: []string{"f"},
				Usage:   "Download the tracks of a resolved or downloaded log instead of resolving queries (implies --download)",
			},
			&cli.StringFlag{
				Name:    "tracks",
				Aliases: []string{"t"},
				Usage:   "File with one query per line (overrides config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Download directory (overrides config)",
			},
			&cli.IntFlag{
				Name:  "retries",
				Usage: "Retries per failed download (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "playlist",
				Usage: "Write an M3U playlist of the tracks downloaded in this session",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug output",
			},
		},
		Action: r.Run,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a configuration file with default values",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}
