package resolve

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/handiism/hydr0-downloader/internal/model"
)

// QueryPlaceholder is replaced by the formatted query in URL templates.
const QueryPlaceholder = "{query}"

var (
	repeatedDashes = regexp.MustCompile(`-+`)
	nonWordChars   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// PageFetcher fetches a page body. *http.Client from internal/http satisfies it.
type PageFetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Hydr0Options configures a Hydr0 resolver.
type Hydr0Options struct {
	// NormalURL is the URL template for ModeNormal, e.g. "https://{query}.hydr0.org".
	NormalURL string

	// AlternateURL is the URL template for ModeAlternate, e.g. "https://hydr0.org/artist/{query}/".
	AlternateURL string

	// Rate limits requests per second. Zero disables throttling.
	Rate float64
}

// Hydr0 resolves queries against hydr0.org search result pages.
//
// Example:
//
//	r := NewHydr0(client, Hydr0Options{
//	    NormalURL:    "https://{query}.hydr0.org",
//	    AlternateURL: "https://hydr0.org/artist/{query}/",
//	    Rate:         2,
//	})
//	tracks, err := r.Resolve(ctx, "Daft Punk - One More Time", ModeNormal)
type Hydr0 struct {
	fetcher PageFetcher
	opts    Hydr0Options
	limiter *rate.Limiter
}

// NewHydr0 creates a Hydr0 resolver.
func NewHydr0(fetcher PageFetcher, opts Hydr0Options) *Hydr0 {
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	return &Hydr0{
		fetcher: fetcher,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Resolve fetches the result page for query and parses its playlist.
func (h *Hydr0) Resolve(ctx context.Context, query string, mode Mode) ([]model.Track, error) {
	slug := FormatQuery(query)
	if slug == "" {
		return nil, ErrEmptyQuery
	}

	var tmpl string
	switch mode {
	case ModeNormal:
		tmpl = h.opts.NormalURL
	case ModeAlternate:
		tmpl = h.opts.AlternateURL
	}
	if tmpl == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	url := strings.ReplaceAll(tmpl, QueryPlaceholder, slug)

	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	html, err := h.fetcher.GetString(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	return ParseResults(html)
}

// FormatQuery turns a free-text query into the dash-separated slug used in
// hydr0 URLs.
//
// Example:
//
//	FormatQuery("Daft Punk - One More Time!\n") // "Daft-Punk---One-More-Time"
func FormatQuery(query string) string {
	slug := repeatedDashes.ReplaceAllString(query, "-")
	slug = nonWordChars.ReplaceAllString(slug, "")
	slug = whitespaceRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ParseResults extracts candidate tracks from a hydr0 result page.
//
// The page must contain the #xx1 results container; a container without a
// playlist yields no tracks. Rows without a data-url are skipped, and IDs are
// assigned consecutively to the rows kept.
func ParseResults(html string) ([]model.Track, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse result page: %w", err)
	}

	container := doc.Find("#xx1")
	if container.Length() == 0 {
		return nil, fmt.Errorf("%w: results container missing", ErrNoResults)
	}

	var tracks []model.Track
	container.Find("ul.playlist").First().Find("li").Each(func(_ int, row *goquery.Selection) {
		left := row.Find(".playlist-left")
		right := row.Find(".playlist-right")

		url, _ := left.Find("a.playlist-play").Attr("data-url")
		url = strings.TrimSpace(url)
		if url == "" {
			return
		}

		artist := strings.TrimSpace(left.Find("span.playlist-name-artist").Text())
		title := strings.TrimSpace(left.Find("span.playlist-name-title").Text())
		duration := strings.TrimSpace(right.Find("span.playlist-duration").Text())

		tracks = append(tracks, model.NewTrack(len(tracks), artist, title, duration, url))
	})

	return tracks, nil
}
