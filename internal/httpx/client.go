package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jkralik/mujrozhlas-dl/internal/config"
)

// progressInterval bounds how often the progress callback fires, so a fast
// download cannot flood the terminal.
const progressInterval = 100 * time.Millisecond

// Client wraps HTTP operations with the spoofed-browser configuration the
// media origin expects.
//
// Client provides:
//   - The fixed desktop-browser User-Agent on every request
//   - The per-request header set (origin, referer, language, no-cache)
//   - Streamed file download with throttled byte/ETA progress
//
// Example usage:
//
//	client := httpx.NewClient(settings.UserAgent, 60*time.Second)
//
//	err := client.DownloadFile(ctx, mp3URL, "/tmp/part.mp3",
//	    settings.RequestHeaders(pageURL),
//	    func(p httpx.Progress) {
//	        fmt.Printf("\r%.2f%%", p.Percent())
//	    })
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with the given identity and timeout.
func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Progress is a snapshot of a running download.
type Progress struct {
	// Received is the number of bytes written so far.
	Received int64

	// Total is the expected size from Content-Length, or -1 if the server
	// did not report one.
	Total int64

	// Elapsed is the time since the download started.
	Elapsed time.Duration

	// Speed is the rolling average throughput in bytes per second.
	Speed float64
}

// Percent returns the completed percentage, or -1 when the total size is
// unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Received) / float64(p.Total) * 100
}

// ETA estimates the remaining time from the rolling average throughput.
// Returns -1 when the total size or the speed is unknown.
func (p Progress) ETA() time.Duration {
	if p.Total <= 0 || p.Speed <= 0 {
		return -1
	}
	remaining := p.Total - p.Received
	if remaining < 0 {
		remaining = 0
	}
	return time.Duration(float64(remaining) / p.Speed * float64(time.Second))
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request with the given header set and returns the
// response body as bytes. Use only for small bodies like cover art; large
// files go through DownloadFile.
//
// Returns an error on transport failure or any non-2xx status.
func (c *Client) Get(ctx context.Context, url string, headers []config.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req, headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// DownloadFile downloads a file to the specified path with an optional
// throttled progress callback.
//
// The file is created (or truncated if it exists) and the content is
// streamed directly to disk, never buffering the whole body in memory.
// On failure the partial output is left in place for the caller to
// size-check.
//
// The progress callback fires at most once per 100ms plus once at
// completion, carrying bytes received, elapsed time and rolling average
// speed. Percent and ETA are derivable when the server reported a
// Content-Length.
//
// Returns an error on transport failure or any non-2xx status. There is no
// retry; the caller decides whether a failed URL is skippable.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, headers []config.Header, onProgress func(Progress)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.applyHeaders(req, headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	start := time.Now()
	var lastEmit time.Time
	var received int64

	if onProgress != nil {
		writer = &ProgressWriter{
			Writer: file,
			Total:  resp.ContentLength,
			OnUpdate: func(written, total int64) {
				received = written
				now := time.Now()
				if now.Sub(lastEmit) < progressInterval {
					return
				}
				lastEmit = now
				onProgress(snapshot(start, written, total))
			},
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return err
	}

	if onProgress != nil {
		onProgress(snapshot(start, received, resp.ContentLength))
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request, headers []config.Header) {
	req.Header.Set("User-Agent", c.userAgent)
	for _, h := range headers {
		req.Header.Set(h.Name, h.Value)
	}
}

func snapshot(start time.Time, written, total int64) Progress {
	elapsed := time.Since(start)
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = 1e-6
	}
	return Progress{
		Received: written,
		Total:    total,
		Elapsed:  elapsed,
		Speed:    float64(written) / seconds,
	}
}
