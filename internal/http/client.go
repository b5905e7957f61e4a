package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrTruncated is returned when a response body ends before Content-Length
// bytes were received.
var ErrTruncated = errors.New("response body truncated")

// StatusError reports a response whose status is not 200 OK.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Client wraps HTTP operations with downloader-specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - Per-request timeout
//   - Page fetches for resolvers
//   - Streaming file download with progress tracking
//
// Every Client owns its own transport, so download workers holding separate
// clients never share a connection pool.
//
// Example usage:
//
//	client := NewClient(60*time.Second, "hydr0-downloader")
//
//	// Fetch HTML content
//	html, err := client.GetString(ctx, "https://song-one.hydr0.org")
//
//	// Download file with progress
//	n, err := client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// A zero timeout means requests never time out; a stuck connection then
// blocks its caller indefinitely.
func NewClient(timeout time.Duration, userAgent string) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// ProgressWriter counts the bytes passing through to Writer and reports
// them to OnUpdate after every write. Total is the announced body size, or
// -1 when the server sent no Content-Length.
type ProgressWriter struct {
	Writer   io.Writer
	Total    int64
	Written  int64
	OnUpdate func(written, total int64)
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

// Get returns the whole body of url. Any status other than 200 OK yields a
// *StatusError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// GetString is Get for HTML pages.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadFile streams url to destPath and returns the number of bytes written.
//
// The destination file is only created once the server answered 200 OK; it
// is created (or truncated) and the body is copied to disk incrementally.
// A body shorter than the announced Content-Length yields ErrTruncated. On
// any error after the file was created the partial file is left on disk.
// onProgress may be nil.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	pw := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}

	if _, err := io.Copy(pw, resp.Body); err != nil {
		return pw.Written, err
	}
	if resp.ContentLength >= 0 && pw.Written != resp.ContentLength {
		return pw.Written, fmt.Errorf("%w: got %d of %d bytes", ErrTruncated, pw.Written, resp.ContentLength)
	}

	return pw.Written, file.Close()
}
