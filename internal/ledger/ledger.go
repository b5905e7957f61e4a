package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/handiism/hydr0-downloader/internal/model"
)

// ErrEmptyLine is returned when an append carries no content.
var ErrEmptyLine = errors.New("ledger line is empty")

// Names holds the file names of the four logs.
type Names struct {
	Resolved     string `toml:"resolved"`
	Downloaded   string `toml:"downloaded"`
	Unresolved   string `toml:"unresolved"`
	SelectedURLs string `toml:"selected_urls"`
}

// DefaultNames returns the file names used by earlier versions of the tool so
// existing logs keep working as input.
func DefaultNames() Names {
	return Names{
		Resolved:     "resolved.txt",
		Downloaded:   "scraped.txt",
		Unresolved:   "missing.txt",
		SelectedURLs: "url.txt",
	}
}

// Log is one append-only text file.
type Log struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewLog returns a Log for path. The file is created on first append.
func NewLog(path string) *Log {
	return &Log{
		path: path,
		lock: flock.New(path),
	}
}

// Path returns the file path of the log.
func (l *Log) Path() string {
	return l.path
}

// Append writes line followed by a newline as one write call.
//
// Embedded line breaks are replaced by spaces so an entry always occupies
// exactly one line.
func (l *Log) Append(line string) error {
	line = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(line)
	if strings.TrimSpace(line) == "" {
		return ErrEmptyLine
	}
	data := []byte(line + "\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}

	if err := l.lock.Lock(); err != nil {
		f.Close()
		return fmt.Errorf("lock %s: %w", l.path, err)
	}
	_, err = f.Write(data)
	unlockErr := l.lock.Unlock()
	closeErr := f.Close()

	if err != nil {
		return fmt.Errorf("append to %s: %w", l.path, err)
	}
	if unlockErr != nil {
		return fmt.Errorf("unlock %s: %w", l.path, unlockErr)
	}
	return closeErr
}

// Ledger groups the outcome logs of one working directory.
type Ledger struct {
	Resolved     *Log
	Downloaded   *Log
	Unresolved   *Log
	SelectedURLs *Log
}

// New creates a Ledger whose logs live in dir.
func New(dir string, names Names) *Ledger {
	return &Ledger{
		Resolved:     NewLog(filepath.Join(dir, names.Resolved)),
		Downloaded:   NewLog(filepath.Join(dir, names.Downloaded)),
		Unresolved:   NewLog(filepath.Join(dir, names.Unresolved)),
		SelectedURLs: NewLog(filepath.Join(dir, names.SelectedURLs)),
	}
}

// RecordResolved appends a selected but not downloaded track.
func (l *Ledger) RecordResolved(track model.Track) error {
	return l.Resolved.Append(track.LedgerLine())
}

// RecordDownloaded appends a successfully fetched track.
func (l *Ledger) RecordDownloaded(track model.Track) error {
	return l.Downloaded.Append(track.LedgerLine())
}

// RecordUnresolvedQuery appends the raw query of a line that produced no
// usable result or was skipped by the operator.
func (l *Ledger) RecordUnresolvedQuery(query string) error {
	return l.Unresolved.Append(query)
}

// RecordFailedDownload appends "{artist} - {title}" for a track whose fetch failed.
func (l *Ledger) RecordFailedDownload(track model.Track) error {
	return l.Unresolved.Append(track.ArtistTitle())
}

// RecordSelectedURL appends the source URL of a track chosen by the operator.
func (l *Ledger) RecordSelectedURL(track model.Track) error {
	return l.SelectedURLs.Append(track.SourceURL)
}
