package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jkralik/mujrozhlas-dl/internal/stream"
)

// Header is a single HTTP header. Order matters for the serialized header
// block handed to ffmpeg, so headers are carried as a slice, not a map.
type Header struct {
	Name  string
	Value string
}

// Settings holds all configuration options. Every tuning constant of the
// pipeline (user agent, header set, selector lists, dwell durations,
// patterns) lives here, so components receive explicit values instead of
// reading package globals.
type Settings struct {
	// Network identity
	UserAgent      string `json:"user_agent"`
	AcceptLanguage string `json:"accept_language"`
	Origin         string `json:"origin"`
	FrontPageURL   string `json:"front_page_url"`
	Locale         string `json:"locale"`

	// URL classification
	MediaHostPattern string `json:"media_host_pattern"`
	ManifestPattern  string `json:"manifest_pattern"`
	SegmentPattern   string `json:"segment_pattern"`
	AudioPattern     string `json:"audio_pattern"`
	ManifestFileName string `json:"manifest_file_name"`

	// Browser session
	Headless           bool     `json:"headless"`
	ConsentSelectors   []string `json:"consent_selectors"`
	PlaySelectors      []string `json:"play_selectors"`
	WarmupDelayMS      int      `json:"warmup_delay_ms"`
	ClickPauseMS       int      `json:"click_pause_ms"`
	SelectorTimeoutMS  int      `json:"selector_timeout_ms"`
	DwellSeconds       int      `json:"dwell_seconds"`
	SweepWaitMS        int      `json:"sweep_wait_ms"`
	SweepSettleMS      int      `json:"sweep_settle_ms"`
	FinalDwellMS       int      `json:"final_dwell_ms"`
	MaxSweepIterations int      `json:"max_sweep_iterations"`

	// Retrieval
	FFmpegBinary           string `json:"ffmpeg_binary"`
	AudioBitrate           string `json:"audio_bitrate"`
	MinPartSize            int64  `json:"min_part_size"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads"`
	DownloadTimeoutSeconds int    `json:"download_timeout_seconds"`

	// Tagging
	ModifyTags      bool   `json:"modify_tags"`
	EmbedCoverArt   bool   `json:"embed_cover_art"`
	CoverArtMaxSize int    `json:"cover_art_max_size"`
	ArtistName      string `json:"artist_name"`
}

// DefaultSettings returns settings with default values, tuned for the
// mujrozhlas.cz player behavior.
func DefaultSettings() *Settings {
	return &Settings{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0",
		AcceptLanguage: "cs,en-US;q=0.7,en;q=0.3",
		Origin:         "https://www.mujrozhlas.cz",
		FrontPageURL:   "https://www.mujrozhlas.cz/",
		Locale:         "cs-CZ",

		MediaHostPattern: `(^|\.)croaod\.cz$`,
		ManifestPattern:  `\.mpd(\?|$)`,
		SegmentPattern:   `\.m4s(\?|$)`,
		AudioPattern:     `\.mp3(\?|$)`,
		ManifestFileName: "manifest.mpd",

		Headless: true,
		ConsentSelectors: []string{
			"#didomi-notice-agree-button",
			"button[aria-label*='Souhlasím']",
			"#onetrust-accept-btn-handler",
			".cookie-consent__agree",
			"button[title*='Přijmout']",
		},
		PlaySelectors: []string{
			"button[aria-label*='Přehrát']",
			"button[aria-label*='Přehrat']",
			"button[title*='Přehrát']",
			".b-player__control--play",
			".player__play",
			".js-player-play",
			"button.play",
			"button[aria-label='Přehrát']",
		},
		WarmupDelayMS:      800,
		ClickPauseMS:       800,
		SelectorTimeoutMS:  1000,
		DwellSeconds:       10,
		SweepWaitMS:        1000,
		SweepSettleMS:      800,
		FinalDwellMS:       1200,
		MaxSweepIterations: 30,

		FFmpegBinary:           "ffmpeg",
		AudioBitrate:           "192k",
		MinPartSize:            1024,
		MaxConcurrentDownloads: 1,
		DownloadTimeoutSeconds: 60,

		ModifyTags:      true,
		EmbedCoverArt:   true,
		CoverArtMaxSize: 1000,
		ArtistName:      "mujRozhlas",
	}
}

// Load reads settings from a JSON file. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ClassifierConfig converts settings to the classifier's pattern config.
func (s *Settings) ClassifierConfig() stream.ClassifierConfig {
	return stream.ClassifierConfig{
		MediaHostPattern: s.MediaHostPattern,
		ManifestPattern:  s.ManifestPattern,
		SegmentPattern:   s.SegmentPattern,
		AudioPattern:     s.AudioPattern,
		ManifestFileName: s.ManifestFileName,
	}
}

// RequestHeaders returns the fixed header set sent with every media
// request, with the Referer pointing at the original input URL. The
// User-Agent is carried separately because ffmpeg takes it as its own flag.
func (s *Settings) RequestHeaders(referer string) []Header {
	if referer == "" {
		referer = s.FrontPageURL
	}
	return []Header{
		{Name: "Accept", Value: "*/*"},
		{Name: "Accept-Language", Value: s.AcceptLanguage},
		{Name: "Origin", Value: s.Origin},
		{Name: "Referer", Value: referer},
		{Name: "Pragma", Value: "no-cache"},
		{Name: "Cache-Control", Value: "no-cache"},
	}
}
