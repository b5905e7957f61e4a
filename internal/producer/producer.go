package producer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/handiism/hydr0-downloader/internal/model"
	"github.com/handiism/hydr0-downloader/internal/operator"
	"github.com/handiism/hydr0-downloader/internal/resolve"
)

// Recorder is the part of the ledger a query producer writes to.
type Recorder interface {
	RecordUnresolvedQuery(query string) error
	RecordSelectedURL(track model.Track) error
}

// Queries resolves a file of queries into operator selected tracks.
type Queries struct {
	path     string
	resolver resolve.Resolver
	operator operator.Operator
	ledger   Recorder
	logger   *log.Logger
}

// NewQueries creates a producer for the query file at path.
func NewQueries(path string, r resolve.Resolver, op operator.Operator, rec Recorder, logger *log.Logger) *Queries {
	return &Queries{
		path:     path,
		resolver: r,
		operator: op,
		ledger:   rec,
		logger:   logger,
	}
}

// Produce processes the query file line by line. Blank lines are ignored.
func (q *Queries) Produce(ctx context.Context, emit func(model.Track)) error {
	return eachLine(ctx, q.path, func(query string) error {
		return q.handle(ctx, query, emit)
	})
}

func (q *Queries) handle(ctx context.Context, query string, emit func(model.Track)) error {
	q.logger.Info("resolving", "query", query)

	candidates := resolve.Fallback(ctx, q.resolver, query, q.logger)
	if len(candidates) == 0 {
		q.logger.Warn("nothing found", "query", query)
		q.unresolved(query)
		return nil
	}

	sel, err := q.operator.Select(ctx, query, candidates)
	if err != nil {
		return fmt.Errorf("select candidates for %q: %w", query, err)
	}
	if sel.Skip {
		q.logger.Info("none will be downloaded", "query", query)
		q.unresolved(query)
		return nil
	}

	tracks := sel.Tracks(candidates)
	for _, track := range tracks {
		if err := q.ledger.RecordSelectedURL(track); err != nil {
			q.logger.Error("could not write selected url", "url", track.SourceURL, "err", err)
		}
	}
	for _, track := range tracks {
		emit(track)
	}
	return nil
}

func (q *Queries) unresolved(query string) {
	if err := q.ledger.RecordUnresolvedQuery(query); err != nil {
		q.logger.Error("could not write unresolved entry", "query", query, "err", err)
	}
}

// LedgerFile emits the tracks stored in a downloaded or resolved log.
type LedgerFile struct {
	path   string
	logger *log.Logger
}

// NewLedgerFile creates a producer for the log file at path.
func NewLedgerFile(path string, logger *log.Logger) *LedgerFile {
	return &LedgerFile{path: path, logger: logger}
}

// Produce emits one track per well formed line. Malformed lines are logged
// and skipped.
func (f *LedgerFile) Produce(ctx context.Context, emit func(model.Track)) error {
	id := 0
	return eachLine(ctx, f.path, func(line string) error {
		track, err := model.ParseLedgerLine(line)
		if err != nil {
			f.logger.Warn("skipping line", "line", line, "err", err)
			return nil
		}
		track.ID = id
		id++
		emit(track)
		return nil
	})
}

// eachLine calls fn for every non-blank line of the file at path, without its
// line terminator but otherwise verbatim. It stops early when ctx is done or
// fn fails.
func eachLine(ctx context.Context, path string, fn func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
