package operator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/hydr0-downloader/internal/model"
)

// SkipToken is the answer that skips a query.
const SkipToken = "n"

// ErrInvalidSelection is returned for answers that are neither the skip token
// nor a list of valid candidate indices.
var ErrInvalidSelection = errors.New("invalid selection")

// Operator chooses among the candidates resolved for a query.
type Operator interface {
	Select(ctx context.Context, query string, candidates []model.Track) (Selection, error)
}

// Selection is the operator's answer for one query. Indices point into the
// candidate slice and are only meaningful when Skip is false.
type Selection struct {
	Indices []int
	Skip    bool
}

// Tracks returns the selected candidates in selection order.
func (s Selection) Tracks(candidates []model.Track) []model.Track {
	if s.Skip {
		return nil
	}
	tracks := make([]model.Track, 0, len(s.Indices))
	for _, i := range s.Indices {
		tracks = append(tracks, candidates[i])
	}
	return tracks
}

// ParseSelection parses an answer for n candidates.
//
// A skip token anywhere on the line skips the whole query. Duplicate indices
// are collapsed keeping the first occurrence.
func ParseSelection(input string, n int) (Selection, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Selection{}, fmt.Errorf("%w: empty answer", ErrInvalidSelection)
	}

	seen := make(map[int]bool, len(fields))
	var sel Selection
	for _, field := range fields {
		if strings.EqualFold(field, SkipToken) {
			return Selection{Skip: true}, nil
		}
		i, err := strconv.Atoi(field)
		if err != nil {
			return Selection{}, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, field)
		}
		if i < 0 || i >= n {
			return Selection{}, fmt.Errorf("%w: %d is out of range 0-%d", ErrInvalidSelection, i, n-1)
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		sel.Indices = append(sel.Indices, i)
	}
	return sel, nil
}

var (
	queryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// renderCandidates formats the listing shown before each answer.
func renderCandidates(query string, candidates []model.Track) string {
	var b strings.Builder
	b.WriteString(queryStyle.Render("Search results for: " + query))
	b.WriteString("\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "%s\t%s\t%s\n",
			indexStyle.Render(strconv.Itoa(c.ID)),
			c.ArtistTitle(),
			dimStyle.Render(c.Duration))
	}
	return b.String()
}
