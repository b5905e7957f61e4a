// Package resolve turns free-text track queries into candidate tracks.
//
// # Resolver
//
// A Resolver queries a remote catalog in one of two modes:
//
//	tracks, err := r.Resolve(ctx, "Song One", resolve.ModeNormal)
//
// ModeNormal searches by track name, ModeAlternate searches the artist pages.
// Callers normally use Fallback, which tries ModeNormal, then ModeAlternate,
// and reports an empty result when both come back empty or fail.
//
// # hydr0
//
// Hydr0 scrapes the hydr0.org search result markup with goquery. Requests
// are throttled with a token bucket limiter so a long tracks file does not
// hammer the site.
package resolve
