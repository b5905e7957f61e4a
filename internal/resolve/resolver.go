package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/handiism/hydr0-downloader/internal/model"
)

var (
	// ErrNoResults marks a response without a usable result structure.
	ErrNoResults = errors.New("no usable results in response")

	// ErrEmptyQuery is returned for queries that reduce to nothing.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrUnsupportedMode is returned for modes a resolver does not implement.
	ErrUnsupportedMode = errors.New("unsupported resolve mode")
)

// Mode selects where a resolver searches.
type Mode int

const (
	// ModeNormal searches by track name.
	ModeNormal Mode = iota

	// ModeAlternate searches artist pages.
	ModeAlternate
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeAlternate:
		return "alternate"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Resolver maps a query to zero or more candidate tracks. Every returned
// track carries a non-empty source URL.
type Resolver interface {
	Resolve(ctx context.Context, query string, mode Mode) ([]model.Track, error)
}

// Fallback resolves query in ModeNormal and, when that yields nothing,
// once more in ModeAlternate. Resolver errors are logged and treated as an
// empty result. An empty return means the query is unresolved.
func Fallback(ctx context.Context, r Resolver, query string, logger *log.Logger) []model.Track {
	for _, mode := range []Mode{ModeNormal, ModeAlternate} {
		tracks, err := r.Resolve(ctx, query, mode)
		if err != nil {
			logger.Warn("resolve failed", "query", query, "mode", mode, "err", err)
			continue
		}
		if len(tracks) > 0 {
			logger.Debug("resolved", "query", query, "mode", mode, "candidates", len(tracks))
			return tracks
		}
		logger.Debug("no candidates", "query", query, "mode", mode)
	}
	return nil
}
