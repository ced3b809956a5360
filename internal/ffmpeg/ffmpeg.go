package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jkralik/mujrozhlas-dl/internal/config"
)

// defaultPollInterval is how often a running recording is checked for
// liveness between spinner ticks.
const defaultPollInterval = 150 * time.Millisecond

// ExitError reports a non-zero ffmpeg exit, carrying the exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("ffmpeg exited with code %d", e.Code)
}

// Runner invokes the external ffmpeg binary for the two media operations
// the pipeline needs: remuxing an adaptive stream into a single MP3, and
// losslessly concatenating same-codec MP3 parts.
//
// Example:
//
//	r := ffmpeg.NewRunner(settings.FFmpegBinary, settings.UserAgent, settings.AudioBitrate)
//	if !r.Available() {
//	    // fail fast, nothing else can work
//	}
//	err := r.Record(ctx, mpdURL, "/tmp/01 part.mp3", headers, func(elapsed time.Duration) {
//	    fmt.Printf("\rRecording… %ds", int(elapsed.Seconds()))
//	})
type Runner struct {
	binary       string
	userAgent    string
	bitrate      string
	pollInterval time.Duration
}

// NewRunner creates a Runner for the given binary, spoofed user agent and
// target audio bitrate (e.g. "192k").
func NewRunner(binary, userAgent, bitrate string) *Runner {
	return &Runner{
		binary:       binary,
		userAgent:    userAgent,
		bitrate:      bitrate,
		pollInterval: defaultPollInterval,
	}
}

// Available reports whether the ffmpeg binary can be found in PATH.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Record remuxes the adaptive stream behind manifestURL into an MP3 at
// destPath, overwriting any existing file. Video is discarded and audio is
// transcoded to the configured bitrate. The header set is serialized into
// ffmpeg's -headers wire format; the user agent goes through -user_agent.
//
// While ffmpeg runs, onTick is called at a short fixed interval with the
// elapsed time, for spinner display. ffmpeg's own progress output is not
// parsed. On non-zero exit an *ExitError wrapping the exit code is
// returned; the caller is responsible for checking output existence/size.
func (r *Runner) Record(ctx context.Context, manifestURL, destPath string, headers []config.Header, onTick func(elapsed time.Duration)) error {
	cmd := exec.Command(r.binary, r.recordArgs(manifestURL, destPath, headers)...)

	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case err := <-done:
			return wrapExit(err)
		case <-ctx.Done():
			_ = cmd.Process.Kill()
			<-done
			return ctx.Err()
		case <-ticker.C:
			if onTick != nil {
				onTick(time.Since(start))
			}
		}
	}
}

// Concat losslessly concatenates the ordered parts into output using the
// concat demuxer in stream-copy mode, overwriting any existing file.
//
// The list manifest referencing each part by absolute path is written to a
// temporary directory that is removed again whatever the outcome. All parts
// must share the codec/container produced by Record/DownloadFile; this is
// enforced by construction upstream, not checked here.
func (r *Runner) Concat(ctx context.Context, parts []string, output string) error {
	tempDir, err := os.MkdirTemp("", "mujrozhlas_concat_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	list, err := concatList(parts)
	if err != nil {
		return err
	}

	listPath := filepath.Join(tempDir, "list.txt")
	if err := os.WriteFile(listPath, []byte(list), 0644); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, r.binary, concatArgs(listPath, output)...)
	return wrapExit(cmd.Run())
}

// recordArgs builds the argument list for an adaptive-stream recording.
func (r *Runner) recordArgs(manifestURL, destPath string, headers []config.Header) []string {
	return []string{
		"-nostdin",
		"-loglevel", "error",
		"-user_agent", r.userAgent,
		"-headers", headerBlock(headers),
		"-i", manifestURL,
		"-vn",
		"-c:a", "libmp3lame",
		"-b:a", r.bitrate,
		"-y",
		destPath,
	}
}

// concatArgs builds the argument list for a stream-copy concatenation.
func concatArgs(listPath, output string) []string {
	return []string{
		"-loglevel", "error",
		"-nostdin",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		output,
	}
}

// headerBlock serializes headers into ffmpeg's CRLF-delimited -headers value.
func headerBlock(headers []config.Header) string {
	var b strings.Builder
	for _, h := range headers {
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString("\r\n")
	}
	return b.String()
}

// concatList renders the concat-demuxer list file, one absolute path per
// line. Single quotes in paths are escaped the way the demuxer expects.
func concatList(parts []string) (string, error) {
	var b strings.Builder
	for _, p := range parts {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		escaped := strings.ReplaceAll(filepath.ToSlash(abs), "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return b.String(), nil
}

// wrapExit converts a non-zero exec exit into an *ExitError, passing other
// errors (and nil) through.
func wrapExit(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return err
}
