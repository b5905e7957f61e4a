package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/handiism/hydr0-downloader/internal/logging"
)

func main() {
	logger := logging.New(os.Stderr, false)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "hydr0-dl",
		Usage:    "Resolve track names on hydr0 and download the picked results",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
