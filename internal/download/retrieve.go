package download

import (
	"context"
	"fmt"
	"time"

	"github.com/jkralik/mujrozhlas-dl/internal/config"
	"github.com/jkralik/mujrozhlas-dl/internal/ffmpeg"
	"github.com/jkralik/mujrozhlas-dl/internal/httpx"
)

// spinnerFrames cycles under the elapsed-time display while ffmpeg records.
const spinnerFrames = `|/-\`

// mediaRetriever is the production retriever: direct downloads go through
// the HTTP client, adaptive streams through ffmpeg. Both write transient
// progress lines through the manager's event callback.
type mediaRetriever struct {
	client   *httpx.Client
	runner   *ffmpeg.Runner
	settings *config.Settings
	progress func(ProgressEvent)
}

// DownloadDirect streams the task's URL to its destination file, emitting
// throttled percent/speed/ETA progress lines.
func (r *mediaRetriever) DownloadDirect(ctx context.Context, task Task) error {
	headers := r.settings.RequestHeaders(task.Referer)
	return r.client.DownloadFile(ctx, task.URL, task.Dest, headers, func(p httpx.Progress) {
		r.progress(ProgressEvent{Message: formatDownloadProgress(p), Level: LevelProgress})
	})
}

// RecordAdaptive remuxes the task's manifest through ffmpeg, emitting an
// elapsed-time spinner while the subprocess runs.
func (r *mediaRetriever) RecordAdaptive(ctx context.Context, task Task) error {
	headers := r.settings.RequestHeaders(task.Referer)
	frame := 0
	return r.runner.Record(ctx, task.URL, task.Dest, headers, func(elapsed time.Duration) {
		c := spinnerFrames[frame%len(spinnerFrames)]
		frame++
		r.progress(ProgressEvent{
			Message: fmt.Sprintf("    Recording… %c  Elapsed: %ds", c, int(elapsed.Seconds())),
			Level:   LevelProgress,
		})
	})
}

// formatDownloadProgress renders one transient progress line. With a known
// total it shows percent and ETA, without one just bytes and speed.
func formatDownloadProgress(p httpx.Progress) string {
	mb := func(b int64) string { return fmt.Sprintf("%.2f MB", float64(b)/1024/1024) }
	if p.Total > 0 {
		eta := p.ETA()
		if eta < 0 {
			eta = 0
		}
		return fmt.Sprintf("    %6.2f%%  (%s/%s)  %.2f MB/s  ETA %ds",
			p.Percent(), mb(p.Received), mb(p.Total), p.Speed/1024/1024, int(eta.Seconds()))
	}
	return fmt.Sprintf("    %s downloaded  %.2f MB/s", mb(p.Received), p.Speed/1024/1024)
}
