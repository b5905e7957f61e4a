package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/hydr0-downloader/internal/audio"
	"github.com/handiism/hydr0-downloader/internal/config"
	"github.com/handiism/hydr0-downloader/internal/http"
	ioutils "github.com/handiism/hydr0-downloader/internal/io"
	"github.com/handiism/hydr0-downloader/internal/model"
	"github.com/handiism/hydr0-downloader/internal/queue"
)

var (
	// ErrDestinationUnavailable is returned by Run when the download
	// directory cannot be created.
	ErrDestinationUnavailable = errors.New("download directory unavailable")

	// ErrAlreadyStarted is returned when a Coordinator is run twice.
	ErrAlreadyStarted = errors.New("coordinator already started")
)

// Producer emits tracks for the pipeline. Produce must call emit from a
// single goroutine and return once it has nothing left to emit.
type Producer interface {
	Produce(ctx context.Context, emit func(model.Track)) error
}

// State is a Coordinator lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateStaffing
	StateProducing
	StateDraining
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStaffing:
		return "staffing"
	case StateProducing:
		return "producing"
	case StateDraining:
		return "draining"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Summary reports what a run did.
type Summary struct {
	Emitted    int           // tracks handed over by the producer
	Rejected   int           // tracks dropped before the queue for lacking a URL
	Resolved   int           // tracks written to the resolved log (resolve-only mode)
	Failed     int           // downloads recorded as unresolved
	Downloaded []model.Track // completed downloads in completion order
}

// tally collects worker outcomes.
type tally struct {
	mu    sync.Mutex
	done  []model.Track
	fails atomic.Int32
}

func (t *tally) downloaded(track model.Track) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = append(t.done, track)
}

func (t *tally) failed() {
	t.fails.Add(1)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithFetcherFactory replaces the per-worker HTTP client.
func WithFetcherFactory(newFetcher func() Fetcher) Option {
	return func(c *Coordinator) {
		c.newFetcher = newFetcher
	}
}

// WithTagger replaces the ID3 tagger.
func WithTagger(t Tagger) Option {
	return func(c *Coordinator) {
		c.tagger = t
	}
}

// Coordinator runs one producer against a pool of download workers.
type Coordinator struct {
	settings   *config.Settings
	ledger     Recorder
	newFetcher func() Fetcher
	tagger     Tagger
	logger     *log.Logger

	state atomic.Int32
	tally tally
}

// NewCoordinator creates a Coordinator. Each worker gets its own HTTP client
// built from settings unless WithFetcherFactory is given.
func NewCoordinator(settings *config.Settings, ledger Recorder, logger *log.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		settings: settings,
		ledger:   ledger,
		logger:   logger,
		newFetcher: func() Fetcher {
			return http.NewClient(settings.FetchTimeoutDuration(), settings.UserAgent)
		},
		tagger: audio.NewTagger(&audio.TagConfig{
			ModifyTags: settings.ModifyTags,
			Artist:     audio.TagModify,
			TrackTitle: audio.TagModify,
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(s State) {
	c.logger.Debug("pipeline state", "state", s)
	c.state.Store(int32(s))
}

// Run starts the workers, feeds them everything p emits and waits until
// every queued item has been processed.
//
// The only fatal error is an unusable download directory. An error from the
// producer is returned after the pipeline has drained.
func (c *Coordinator) Run(ctx context.Context, p Producer) (*Summary, error) {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateStaffing)) {
		return nil, ErrAlreadyStarted
	}

	if err := ioutils.EnsureDir(c.settings.DownloadsPath); err != nil {
		c.setState(StateTerminal)
		return nil, fmt.Errorf("%w: %v", ErrDestinationUnavailable, err)
	}

	n := c.settings.Workers
	q := queue.New()
	workerCtx := context.WithoutCancel(ctx)
	retry := RetryPolicy{
		MaxRetries: c.settings.DownloadMaxRetries,
		Cooldown:   c.settings.DownloadRetryCooldown,
		Exponent:   c.settings.DownloadRetryExponent,
	}

	var g errgroup.Group
	for i := range n {
		name := fmt.Sprintf("worker-%d", i+1)
		w := &Worker{
			queue:   q,
			dir:     c.settings.DownloadsPath,
			fetcher: c.newFetcher(),
			tagger:  c.tagger,
			ledger:  c.ledger,
			retry:   retry,
			tally:   &c.tally,
			logger:  c.logger.With("worker", name),
		}
		g.Go(func() error {
			if err := w.Run(workerCtx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	c.logger.Info("started workers", "count", n)

	summary := &Summary{}
	c.setState(StateProducing)
	prodErr := p.Produce(ctx, func(track model.Track) {
		summary.Emitted++
		if err := track.Validate(); err != nil {
			c.logger.Warn("not queueing track", "track", track.ArtistTitle(), "err", err)
			if err := c.ledger.RecordFailedDownload(track); err != nil {
				c.logger.Error("could not write unresolved entry", "err", err)
			}
			summary.Rejected++
			return
		}
		q.Enqueue(queue.Work(track))
	})
	if prodErr != nil {
		c.logger.Error("producer stopped", "err", prodErr)
	}

	c.setState(StateDraining)
	for range n {
		q.Enqueue(queue.Shutdown())
	}
	q.Join()
	if err := g.Wait(); err != nil {
		c.logger.Error("worker stopped before shutdown", "err", err)
	}
	c.setState(StateTerminal)

	c.tally.mu.Lock()
	summary.Downloaded = append([]model.Track(nil), c.tally.done...)
	c.tally.mu.Unlock()
	summary.Failed = int(c.tally.fails.Load())

	c.logger.Info("finished",
		"downloaded", len(summary.Downloaded),
		"failed", summary.Failed,
		"rejected", summary.Rejected)

	if prodErr != nil {
		return summary, fmt.Errorf("produce tracks: %w", prodErr)
	}
	return summary, nil
}

// RecordOnly runs p without workers and appends every emitted track to the
// resolved log.
func (c *Coordinator) RecordOnly(ctx context.Context, p Producer) (*Summary, error) {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateProducing)) {
		return nil, ErrAlreadyStarted
	}
	defer c.setState(StateTerminal)

	summary := &Summary{}
	err := p.Produce(ctx, func(track model.Track) {
		summary.Emitted++
		if err := c.ledger.RecordResolved(track); err != nil {
			c.logger.Error("could not write resolved entry", "track", track.ArtistTitle(), "err", err)
			return
		}
		summary.Resolved++
	})
	c.logger.Info("finished", "resolved", summary.Resolved)
	if err != nil {
		return summary, fmt.Errorf("produce tracks: %w", err)
	}
	return summary, nil
}
