package audio

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/handiism/hydr0-downloader/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// FormatForPath picks the playlist format from a file extension.
// Anything other than ".pls" yields M3U.
func FormatForPath(path string) PlaylistFormat {
	if strings.EqualFold(filepath.Ext(path), ".pls") {
		return FormatPLS
	}
	return FormatM3U
}

// PlaylistCreator generates a playlist of the tracks fetched in one session.
//
// Track paths in the playlist are relative (just the file name), so the
// playlist must live in the download directory.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(summary.Downloaded)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:180,Foo - Song One
//	// Foo - Song One.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content for tracks.
func (p *PlaylistCreator) CreatePlaylist(tracks []model.Track) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(tracks)
	default:
		return p.createM3U(tracks)
	}
}

// createM3U generates an M3U playlist.
func (p *PlaylistCreator) createM3U(tracks []model.Track) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, track := range tracks {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", DurationSeconds(track.Duration), track.ArtistTitle()))
		}
		sb.WriteString(track.Filename() + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=Foo - Song One.mp3
//	Title1=Foo - Song One
//	Length1=180
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(tracks []model.Track) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range tracks {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, track.Filename()))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, track.ArtistTitle()))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, DurationSeconds(track.Duration)))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(tracks)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// DurationSeconds converts a "m:ss" or "h:mm:ss" display string to seconds.
// Unparseable values yield -1, the playlist convention for unknown length.
func DurationSeconds(display string) int {
	parts := strings.Split(strings.TrimSpace(display), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return -1
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return -1
		}
		total = total*60 + n
	}
	return total
}
