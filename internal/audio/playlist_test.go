package audio

import (
	"strings"
	"testing"

	"github.com/handiism/hydr0-downloader/internal/model"
)

func sessionTracks() []model.Track {
	return []model.Track{
		model.NewTrack(0, "Foo", "Song One", "3:00", "http://x/a.mp3"),
		model.NewTrack(1, "Bar", "Song Two", "1:02:03", "http://x/b.mp3"),
	}
}

func TestPlaylistCreator_M3U(t *testing.T) {
	content := NewPlaylistCreator(FormatM3U, false).CreatePlaylist(sessionTracks())

	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not contain #EXTM3U")
	}
	if content != "Foo - Song One.mp3\nBar - Song Two.mp3\n" {
		t.Errorf("unexpected M3U content: %q", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	content := NewPlaylistCreator(FormatM3U, true).CreatePlaylist(sessionTracks())

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:180,Foo - Song One\n") {
		t.Errorf("missing EXTINF line: %q", content)
	}
	if !strings.Contains(content, "#EXTINF:3723,Bar - Song Two\n") {
		t.Errorf("missing hour-long EXTINF line: %q", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	content := NewPlaylistCreator(FormatPLS, false).CreatePlaylist(sessionTracks())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=Foo - Song One.mp3") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestFormatForPath(t *testing.T) {
	if FormatForPath("/music/session.PLS") != FormatPLS {
		t.Error("expected PLS for .PLS extension")
	}
	if FormatForPath("/music/session.m3u") != FormatM3U {
		t.Error("expected M3U for .m3u extension")
	}
}

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3:45", 225},
		{"0:07", 7},
		{"1:00:00", 3600},
		{"", -1},
		{"abc", -1},
		{"3:xx", -1},
		{"1:2:3:4", -1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DurationSeconds(tt.in); got != tt.want {
				t.Errorf("DurationSeconds(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
