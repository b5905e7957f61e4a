package model

import (
	"errors"
	"fmt"
	"strings"

	ioutils "github.com/handiism/hydr0-downloader/internal/io"
)

// FileType is the extension every downloaded track is saved with.
const FileType = "mp3"

var (
	// ErrMalformedLine is returned when a ledger line lacks the
	// "{artist} - {title}\t{duration}\t{url}" shape.
	ErrMalformedLine = errors.New("malformed ledger line")

	// ErrMissingSourceURL is returned for tracks that cannot be fetched.
	ErrMissingSourceURL = errors.New("track has no source URL")
)

// Track is one candidate or confirmed download target.
//
// A Track is created by a resolver (as a search result) or reconstructed
// from a downloaded-log line, handed to exactly one download worker and then
// discarded. Its destination file name is derived from artist and title when
// the track is constructed and never changes afterwards.
//
// Example:
//
//	track := NewTrack(0, "Foo", "Song One", "3:00", "http://x/a.mp3")
//	// track.Filename() = "Foo - Song One.mp3"
type Track struct {
	// ID is the ordinal position within one resolution result set. It is only
	// meaningful for operator selection and is never persisted.
	ID int

	// Artist is the performing artist.
	Artist string

	// Title is the track title.
	Title string

	// Duration is a display string such as "3:45". It is never parsed.
	Duration string

	// SourceURL is the location the audio file is fetched from.
	SourceURL string

	filename string
}

// NewTrack creates a Track and computes its destination file name.
//
// The file name has the form "{artist} - {title}.mp3" with characters that
// are invalid in file names replaced by underscores.
func NewTrack(id int, artist, title, duration, sourceURL string) Track {
	return Track{
		ID:        id,
		Artist:    artist,
		Title:     title,
		Duration:  duration,
		SourceURL: sourceURL,
		filename:  ioutils.SanitizeFileName(fmt.Sprintf("%s - %s.%s", artist, title, FileType)),
	}
}

// Filename returns the destination file name computed at construction.
func (t Track) Filename() string {
	return t.filename
}

// ArtistTitle returns "{artist} - {title}".
func (t Track) ArtistTitle() string {
	return t.Artist + " - " + t.Title
}

// LedgerLine returns the tab-separated "{artist} - {title}\t{duration}\t{url}"
// form used by the downloaded and resolved logs.
func (t Track) LedgerLine() string {
	return t.ArtistTitle() + "\t" + t.Duration + "\t" + t.SourceURL
}

// String returns the operator listing form "{id}\t{artist} - {title}\t{duration}".
func (t Track) String() string {
	return fmt.Sprintf("%d\t%s\t%s", t.ID, t.ArtistTitle(), t.Duration)
}

// Validate reports whether the track may enter the work queue.
func (t Track) Validate() error {
	if strings.TrimSpace(t.SourceURL) == "" {
		return fmt.Errorf("%s: %w", t.ArtistTitle(), ErrMissingSourceURL)
	}
	return nil
}

// ParseLedgerLine reconstructs a Track from one downloaded-log line.
//
// The line must hold at least three tab-separated fields: the artist and
// title joined by " - ", the duration and the source URL. Surrounding double
// quotes on a field are removed, and the title keeps everything after the
// first " - " so titles containing the separator survive a round trip.
//
// Example:
//
//	track, err := ParseLedgerLine("Foo - Song One\t3:00\thttp://x/a.mp3\n")
//	// track.Artist = "Foo", track.Title = "Song One"
func ParseLedgerLine(line string) (Track, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < 3 {
		return Track{}, fmt.Errorf("%w: want 3 tab-separated fields, got %d", ErrMalformedLine, len(fields))
	}

	artistTitle := unquote(fields[0])
	duration := unquote(fields[1])
	sourceURL := unquote(fields[2])

	artist, title, ok := strings.Cut(artistTitle, " - ")
	if !ok {
		return Track{}, fmt.Errorf("%w: %q has no \" - \" separator", ErrMalformedLine, artistTitle)
	}
	if sourceURL == "" {
		return Track{}, fmt.Errorf("%s: %w", artistTitle, ErrMissingSourceURL)
	}

	return NewTrack(0, strings.TrimSpace(artist), strings.TrimSpace(title), duration, sourceURL), nil
}

// unquote trims whitespace and one pair of surrounding double quotes.
func unquote(field string) string {
	field = strings.TrimSpace(field)
	if len(field) >= 2 && strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		field = field[1 : len(field)-1]
	}
	return strings.TrimSpace(field)
}
