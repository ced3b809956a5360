package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jkralik/mujrozhlas-dl/internal/audio"
	"github.com/jkralik/mujrozhlas-dl/internal/browser"
	"github.com/jkralik/mujrozhlas-dl/internal/config"
	"github.com/jkralik/mujrozhlas-dl/internal/ffmpeg"
	"github.com/jkralik/mujrozhlas-dl/internal/httpx"
	"github.com/jkralik/mujrozhlas-dl/internal/ioutils"
	"github.com/jkralik/mujrozhlas-dl/internal/stream"
	"golang.org/x/sync/errgroup"
)

// ErrFFmpegNotFound is returned when the external media tool is missing.
// Nothing can be retrieved or merged without it, so the run fails before
// any browser work starts.
var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

// ErrNoParts is returned when every retrieval attempt failed or produced
// undersized output.
var ErrNoParts = errors.New("no parts downloaded or recorded successfully")

// displayLimit caps how many discovered URLs are echoed to the user.
const displayLimit = 6

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess

	// LevelProgress marks transient single-line updates (percent, spinner)
	// that the CLI rewrites in place rather than appending.
	LevelProgress
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Task is one stream URL selected for retrieval: where it goes, how it is
// fetched, and which page it must claim to come from. Consumed exactly once.
type Task struct {
	Index   int
	URL     string
	Kind    stream.Kind
	Dest    string
	Referer string
}

// resolver, retriever and assembler are the seams the Manager orchestrates
// across; production wiring lives in NewManager, tests substitute fakes.
type resolver interface {
	Resolve(ctx context.Context, inputURL string) (*stream.Resolution, error)
}

type retriever interface {
	DownloadDirect(ctx context.Context, task Task) error
	RecordAdaptive(ctx context.Context, task Task) error
}

type assembler interface {
	Available() bool
	Concat(ctx context.Context, parts []string, output string) error
}

// Manager coordinates the whole pipeline: resolve the input URL into stream
// URLs, retrieve each one into an ordered temp part, merge the accepted
// parts into the final file, tag it, and clean up.
type Manager struct {
	settings   *config.Settings
	classifier *stream.Classifier
	resolver   resolver
	retriever  retriever
	assembler  assembler
	client     *httpx.Client
	tagger     *audio.Tagger
	images     *ioutils.ImageService
	onProgress func(ProgressEvent)
}

// NewManager creates a fully wired Manager.
//
// Returns an error if the configured classification patterns do not compile.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) (*Manager, error) {
	classifier, err := stream.NewClassifier(settings.ClassifierConfig())
	if err != nil {
		return nil, err
	}

	sniffer := browser.NewSniffer(browserOptions(settings), classifier)
	client := httpx.NewClient(settings.UserAgent, time.Duration(settings.DownloadTimeoutSeconds)*time.Second)
	runner := ffmpeg.NewRunner(settings.FFmpegBinary, settings.UserAgent, settings.AudioBitrate)

	m := &Manager{
		settings:   settings,
		classifier: classifier,
		resolver:   stream.NewResolver(classifier, sniffer),
		assembler:  runner,
		client:     client,
		tagger:     audio.NewTagger(audio.DefaultTagConfig()),
		images:     ioutils.NewImageService(),
		onProgress: onProgress,
	}
	m.retriever = &mediaRetriever{
		client:   client,
		runner:   runner,
		settings: settings,
		progress: m.progress,
	}
	return m, nil
}

// Run executes the pipeline for inputURL and returns the final output path.
//
// outputPath may be empty, in which case the name is derived from the input
// URL's last path segment. When keepParts is true the per-part files and
// their temp directory are left on disk after a successful merge.
//
// Individual retrieval failures are logged and skipped; the run fails only
// when ffmpeg is missing, nothing resolves, zero parts are accepted, or the
// final merge fails.
func (m *Manager) Run(ctx context.Context, inputURL, outputPath string, keepParts bool) (string, error) {
	if !m.assembler.Available() {
		return "", ErrFFmpegNotFound
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolving streams: %s", inputURL), Level: LevelInfo})

	res, err := m.resolver.Resolve(ctx, inputURL)
	if err != nil {
		return "", err
	}
	if len(res.URLs) == 0 {
		return "", fmt.Errorf("%w for %s; try a longer dwell_seconds, or supply a stream URL captured from the player directly", stream.ErrNoStreams, inputURL)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Detected %d stream URL(s).", len(res.URLs)), Level: LevelInfo})
	for i, u := range res.URLs {
		if i >= displayLimit {
			break
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("  [%d] %s", i+1, u), Level: LevelInfo})
	}

	tempDir, err := os.MkdirTemp("", "mujrozhlas_parts_")
	if err != nil {
		return "", err
	}

	parts := m.retrieveAll(ctx, res.URLs, inputURL, tempDir)
	if len(parts) == 0 {
		os.Remove(tempDir)
		return "", ErrNoParts
	}

	if outputPath == "" {
		outputPath = stream.OutputName(inputURL)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Merging %d part(s) into: %s", len(parts), filepath.Base(outputPath)), Level: LevelInfo})
	if err := m.assembler.Concat(ctx, parts, outputPath); err != nil {
		return "", fmt.Errorf("merging parts: %w", err)
	}
	m.progress(ProgressEvent{Message: "Merge complete.", Level: LevelSuccess})

	if m.settings.ModifyTags {
		m.tagOutput(ctx, outputPath, inputURL, res)
	}

	if !keepParts {
		// Best-effort cleanup; a leftover temp file never fails the run.
		for _, p := range parts {
			os.Remove(p)
		}
		os.Remove(tempDir)
	}

	return outputPath, nil
}

// retrieveAll fetches every URL into an ordered part file and returns the
// accepted parts in discovery order. Results are index-addressed so a
// concurrency limit above one cannot reorder the merge.
func (m *Manager) retrieveAll(ctx context.Context, urls []string, inputURL, tempDir string) []string {
	results := make([]string, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	limit := m.settings.MaxConcurrentDownloads
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, u := range urls {
		task := Task{
			Index:   i,
			URL:     u,
			Kind:    m.classifier.Classify(u),
			Dest:    filepath.Join(tempDir, fmt.Sprintf("%02d part.mp3", i+1)),
			Referer: inputURL,
		}
		g.Go(func() error {
			if err := m.retrieveOne(gctx, task, len(urls)); err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("  %v; skipping this URL.", err), Level: LevelError})
				return nil // continue with other URLs
			}
			if !ioutils.FileSizeAtLeast(task.Dest, m.settings.MinPartSize) {
				m.progress(ProgressEvent{Message: "  Output missing/too small; skipping.", Level: LevelWarning})
				return nil
			}
			results[task.Index] = task.Dest
			m.progress(ProgressEvent{Message: fmt.Sprintf("  Saved: %s", filepath.Base(task.Dest)), Level: LevelInfo})
			return nil
		})
	}
	g.Wait()

	var parts []string
	for _, dest := range results {
		if dest != "" {
			parts = append(parts, dest)
		}
	}
	return parts
}

// retrieveOne dispatches a task to the retrieval mode its kind demands:
// direct HTTP download for plain audio, ffmpeg remux for everything else.
func (m *Manager) retrieveOne(ctx context.Context, task Task, total int) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] %s", task.Index+1, total, task.Kind), Level: LevelInfo})

	if task.Kind == stream.KindDirectAudio {
		m.progress(ProgressEvent{Message: fmt.Sprintf("[%d] Downloading MP3…", task.Index+1), Level: LevelVerbose})
		return m.retriever.DownloadDirect(ctx, task)
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("[%d] Recording DASH via ffmpeg…", task.Index+1), Level: LevelVerbose})
	return m.retriever.RecordAdaptive(ctx, task)
}

// tagOutput writes episode metadata into the merged file. Failures are
// warnings; the file is complete without tags.
func (m *Manager) tagOutput(ctx context.Context, path, inputURL string, res *stream.Resolution) {
	title := strings.TrimSpace(res.Title)
	if title == "" {
		title = strings.TrimSuffix(stream.OutputName(inputURL), ".mp3")
	}

	var artwork []byte
	if m.settings.EmbedCoverArt && res.ArtworkURL != "" {
		data, err := m.client.Get(ctx, res.ArtworkURL, m.settings.RequestHeaders(inputURL))
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading cover art: %v", err), Level: LevelWarning})
		} else {
			if resized, err := m.images.ResizeImage(ctx, data, m.settings.CoverArtMaxSize, m.settings.CoverArtMaxSize); err == nil {
				data = resized
			}
			if jpg, err := m.images.ConvertToJPEG(ctx, data); err == nil {
				artwork = jpg
			}
		}
	}

	meta := audio.Meta{Title: title, Artist: m.settings.ArtistName, SourceURL: inputURL}
	if err := m.tagger.SaveTags(path, meta, artwork); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(path), err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged: %s", filepath.Base(path)), Level: LevelVerbose})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// browserOptions maps settings onto the sniffer's option struct.
func browserOptions(s *config.Settings) browser.Options {
	return browser.Options{
		UserAgent:      s.UserAgent,
		AcceptLanguage: s.AcceptLanguage,
		Locale:         s.Locale,
		FrontPageURL:   s.FrontPageURL,
		Headless:       s.Headless,

		ConsentSelectors: s.ConsentSelectors,
		PlaySelectors:    s.PlaySelectors,

		WarmupDelay:     time.Duration(s.WarmupDelayMS) * time.Millisecond,
		ClickPause:      time.Duration(s.ClickPauseMS) * time.Millisecond,
		SelectorTimeout: time.Duration(s.SelectorTimeoutMS) * time.Millisecond,
		Dwell:           time.Duration(s.DwellSeconds) * time.Second,
		SweepWait:       time.Duration(s.SweepWaitMS) * time.Millisecond,
		SweepSettle:     time.Duration(s.SweepSettleMS) * time.Millisecond,
		FinalDwell:      time.Duration(s.FinalDwellMS) * time.Millisecond,
		MaxSweeps:       s.MaxSweepIterations,
	}
}
