package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/handiism/hydr0-downloader/internal/audio"
	"github.com/handiism/hydr0-downloader/internal/config"
	"github.com/handiism/hydr0-downloader/internal/download"
	"github.com/handiism/hydr0-downloader/internal/http"
	ioutils "github.com/handiism/hydr0-downloader/internal/io"
	"github.com/handiism/hydr0-downloader/internal/ledger"
	"github.com/handiism/hydr0-downloader/internal/logging"
	"github.com/handiism/hydr0-downloader/internal/model"
	"github.com/handiism/hydr0-downloader/internal/operator"
	"github.com/handiism/hydr0-downloader/internal/producer"
	"github.com/handiism/hydr0-downloader/internal/resolve"
)

// Runner holds the dependencies shared by all command actions.
type Runner struct {
	logger     *log.Logger
	input      io.Reader
	output     io.Writer
	isTerminal func() bool
}

// RunnerOpts configures a Runner. Zero values fall back to the process streams.
type RunnerOpts struct {
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
	IsTerminal func() bool
}

// NewRunner creates a Runner.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = logging.New(os.Stderr, false)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.IsTerminal == nil {
		opts.IsTerminal = stdinIsTerminal
	}
	return &Runner{
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
		isTerminal: opts.IsTerminal,
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// settings loads the config file and applies command line overrides.
func (r *Runner) settings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("workers") {
		settings.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("tracks") {
		settings.TracksFile = cmd.String("tracks")
	}
	if cmd.IsSet("output") {
		settings.DownloadsPath = cmd.String("output")
	}
	if cmd.IsSet("retries") {
		settings.DownloadMaxRetries = cmd.Int("retries")
	}
	if cmd.Bool("playlist") {
		settings.CreatePlaylist = true
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Run executes one pipeline session.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	logger := r.logger
	if cmd.Bool("verbose") {
		logger = logging.New(os.Stderr, true)
	}
	logger, runID := logging.ForRun(logger)

	settings, err := r.settings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	led := ledger.New(settings.LedgerDir, settings.LedgerNames)
	src := r.producer(cmd, settings, led, logger)
	coordinator := download.NewCoordinator(settings, led, logger)

	// a pre-resolved log is always downloaded
	fetch := cmd.Bool("download") || cmd.String("from-file") != ""
	logger.Info("starting session", "run", runID, "download", fetch, "workers", settings.Workers)

	var summary *download.Summary
	if fetch {
		summary, err = coordinator.Run(ctx, src)
	} else {
		summary, err = coordinator.RecordOnly(ctx, src)
	}

	if summary != nil && settings.CreatePlaylist {
		r.writePlaylist(ctx, settings, summary.Downloaded, logger)
	}

	if errors.Is(err, context.Canceled) {
		logger.Warn("interrupted, stopped reading queries")
		return nil
	}
	return err
}

func (r *Runner) producer(cmd *cli.Command, settings *config.Settings, led *ledger.Ledger, logger *log.Logger) download.Producer {
	if path := cmd.String("from-file"); path != "" {
		return producer.NewLedgerFile(path, logger)
	}

	fetcher := http.NewClient(settings.FetchTimeoutDuration(), settings.UserAgent)
	resolver := resolve.NewHydr0(fetcher, resolve.Hydr0Options{
		NormalURL:    settings.NormalURL,
		AlternateURL: settings.AlternateURL,
		Rate:         settings.ResolveRate,
	})

	var op operator.Operator = operator.NewPrompt(r.input, r.output)
	if cmd.Bool("tui") {
		if r.isTerminal() {
			op = operator.NewPicker(r.input, r.output)
		} else {
			logger.Warn("stdin is not a terminal, falling back to the line prompt")
		}
	}

	return producer.NewQueries(settings.TracksFile, resolver, op, led, logger)
}

// writePlaylist records the finished downloads even when the session was
// interrupted.
func (r *Runner) writePlaylist(ctx context.Context, settings *config.Settings, tracks []model.Track, logger *log.Logger) {
	if len(tracks) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	path := settings.PlaylistPath()
	creator := audio.NewPlaylistCreator(audio.FormatForPath(path), settings.M3UExtended)
	if err := ioutils.WriteFile(ctx, path, []byte(creator.CreatePlaylist(tracks))); err != nil {
		logger.Error("could not write playlist", "path", path, "err", err)
		return
	}
	logger.Info("playlist written", "path", path, "tracks", len(tracks))
}

// ConfigInit writes the default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.DefaultSettings().Save(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(r.output, "wrote %s\n", path)
	return nil
}
