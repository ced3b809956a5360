// Package httpx provides the HTTP client used for direct stream downloads.
//
// The Client in this package handles:
//   - The spoofed desktop-browser User-Agent on every request
//   - The fixed media-origin header set (origin, referer, language, no-cache)
//   - Streamed downloads that never buffer the whole body in memory
//   - Throttled progress callbacks with percent, speed and ETA
//
// # Basic Usage
//
//	client := httpx.NewClient(settings.UserAgent, 60*time.Second)
//
//	err := client.DownloadFile(ctx, url, "/tmp/01 part.mp3",
//	    settings.RequestHeaders(pageURL),
//	    func(p httpx.Progress) {
//	        fmt.Printf("\r%6.2f%%  %.2f MB/s", p.Percent(), p.Speed/1024/1024)
//	    })
//
// Failures are not retried: any non-2xx status or transport error is
// returned as-is, and partial output stays on disk so the caller can
// size-check it.
package httpx
