package download

import (
	"context"
	"math"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	ioutils "github.com/handiism/hydr0-downloader/internal/io"
	"github.com/handiism/hydr0-downloader/internal/model"
	"github.com/handiism/hydr0-downloader/internal/queue"
)

// Fetcher streams a remote file to disk. *http.Client from internal/http
// satisfies it.
type Fetcher interface {
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error)
}

// Tagger writes artist/title metadata into a downloaded file.
type Tagger interface {
	SaveTags(path string, track model.Track) error
}

// Recorder appends outcomes to the ledger. *ledger.Ledger satisfies it.
type Recorder interface {
	RecordResolved(track model.Track) error
	RecordDownloaded(track model.Track) error
	RecordFailedDownload(track model.Track) error
}

// RetryPolicy controls how often a failed fetch is repeated.
type RetryPolicy struct {
	MaxRetries int
	Cooldown   float64 // seconds before the first retry
	Exponent   float64 // cooldown multiplier per further retry
}

// Worker downloads tracks taken from a queue until it receives a shutdown item.
type Worker struct {
	queue   *queue.Queue
	dir     string
	fetcher Fetcher
	tagger  Tagger
	ledger  Recorder
	retry   RetryPolicy
	tally   *tally
	logger  *log.Logger
}

func (w *Worker) waitForRetry(ctx context.Context, tries int) {
	cooldown := w.retry.Cooldown * math.Pow(w.retry.Exponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

// Run processes queue items until a shutdown item arrives. It returns an
// error only when dequeueing fails before that.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Debug("ready")
	for {
		item, err := w.queue.Dequeue(ctx)
		if err != nil {
			return err
		}
		if !w.handle(ctx, item) {
			return nil
		}
	}
}

// handle processes one item and acknowledges it. It returns false once the
// worker has to stop.
func (w *Worker) handle(ctx context.Context, item queue.Item) bool {
	defer w.ack()

	track, ok := item.Track()
	if !ok {
		w.logger.Debug("shutdown")
		return false
	}

	w.download(ctx, track)
	return true
}

func (w *Worker) ack() {
	if err := w.queue.Ack(); err != nil {
		w.logger.Error("ack failed", "err", err)
	}
}

// download turns one track into either a saved file plus a downloaded entry
// or an unresolved entry.
func (w *Worker) download(ctx context.Context, track model.Track) {
	w.logger.Debug("will start downloading", "track", track.LedgerLine())

	if err := ioutils.EnsureDir(w.dir); err != nil {
		w.fail(track, err)
		return
	}

	path := filepath.Join(w.dir, track.Filename())
	written, err := w.fetch(ctx, track, path)
	if err != nil {
		w.fail(track, err)
		return
	}

	w.logger.Info("downloaded and saved", "path", path, "bytes", written)
	if err := w.ledger.RecordDownloaded(track); err != nil {
		w.logger.Error("could not write downloaded entry", "track", track.ArtistTitle(), "err", err)
	}
	w.tally.downloaded(track)

	if err := w.tagger.SaveTags(path, track); err != nil {
		w.logger.Error("could not write ID3 tags", "path", path, "err", err)
	}
}

func (w *Worker) fetch(ctx context.Context, track model.Track, path string) (int64, error) {
	var (
		written int64
		err     error
	)
	for tries := 0; tries <= w.retry.MaxRetries; tries++ {
		if tries > 0 {
			w.logger.Warn("retrying", "attempt", tries, "of", w.retry.MaxRetries, "track", track.ArtistTitle())
			w.waitForRetry(ctx, tries-1)
		}
		written, err = w.fetcher.DownloadFile(ctx, track.SourceURL, path, w.progress(track))
		if err == nil {
			return written, nil
		}
	}
	return written, err
}

// progress returns a callback logging each quarter of a download whose size
// is known.
func (w *Worker) progress(track model.Track) func(written, total int64) {
	step := 0
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		if quarter := int(written * 4 / total); quarter > step {
			step = quarter
			w.logger.Debug("downloading", "track", track.ArtistTitle(), "percent", quarter*25)
		}
	}
}

func (w *Worker) fail(track model.Track, err error) {
	w.logger.Warn("failed to download", "url", track.SourceURL, "err", err)
	if err := w.ledger.RecordFailedDownload(track); err != nil {
		w.logger.Error("could not write unresolved entry", "track", track.ArtistTitle(), "err", err)
	}
	w.tally.failed()
}
