// Package http provides the HTTP client used to query the catalog and to
// fetch audio files.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Per-request timeouts
//   - Streaming file downloads with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient(5*time.Minute, "hydr0-downloader")
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, "https://song-one.hydr0.org")
//
//	// Download file with progress callback
//	n, err := client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", nil)
//
// Responses other than 200 OK are reported as *StatusError.
package http
