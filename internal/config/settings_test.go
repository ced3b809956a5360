package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.UserAgent == "" {
		t.Error("UserAgent should have a default")
	}
	if len(s.PlaySelectors) == 0 {
		t.Error("PlaySelectors should not be empty")
	}
	if len(s.ConsentSelectors) == 0 {
		t.Error("ConsentSelectors should not be empty")
	}
	if s.DwellSeconds <= 0 {
		t.Error("DwellSeconds should be positive")
	}
	if s.MaxSweepIterations <= 0 {
		t.Error("MaxSweepIterations must bound the lazy-load sweep")
	}
	if s.MinPartSize != 1024 {
		t.Errorf("MinPartSize = %d, want 1024", s.MinPartSize)
	}
	if s.MaxConcurrentDownloads != 1 {
		t.Errorf("MaxConcurrentDownloads = %d, want 1 (sequential by default)", s.MaxConcurrentDownloads)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.UserAgent != DefaultSettings().UserAgent {
		t.Error("missing config file should yield defaults")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.json")

	s := DefaultSettings()
	s.DwellSeconds = 25
	s.AudioBitrate = "128k"
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.DwellSeconds != 25 {
		t.Errorf("DwellSeconds = %d, want 25", loaded.DwellSeconds)
	}
	if loaded.AudioBitrate != "128k" {
		t.Errorf("AudioBitrate = %q, want 128k", loaded.AudioBitrate)
	}
}

func TestRequestHeaders(t *testing.T) {
	s := DefaultSettings()

	headers := s.RequestHeaders("https://www.mujrozhlas.cz/porady/x")

	byName := map[string]string{}
	for _, h := range headers {
		byName[h.Name] = h.Value
	}
	if byName["Referer"] != "https://www.mujrozhlas.cz/porady/x" {
		t.Errorf("Referer = %q", byName["Referer"])
	}
	if byName["Origin"] != s.Origin {
		t.Errorf("Origin = %q, want %q", byName["Origin"], s.Origin)
	}
	if byName["Cache-Control"] != "no-cache" {
		t.Error("Cache-Control: no-cache must be present")
	}
	if byName["Accept-Language"] != s.AcceptLanguage {
		t.Errorf("Accept-Language = %q", byName["Accept-Language"])
	}
}

func TestRequestHeadersEmptyRefererFallsBack(t *testing.T) {
	s := DefaultSettings()
	for _, h := range s.RequestHeaders("") {
		if h.Name == "Referer" && h.Value != s.FrontPageURL {
			t.Errorf("empty referer should fall back to front page, got %q", h.Value)
		}
	}
}

func TestClassifierConfig(t *testing.T) {
	cc := DefaultSettings().ClassifierConfig()
	if cc.MediaHostPattern == "" || cc.ManifestPattern == "" || cc.SegmentPattern == "" || cc.AudioPattern == "" {
		t.Error("all classifier patterns must be populated")
	}
	if cc.ManifestFileName != "manifest.mpd" {
		t.Errorf("ManifestFileName = %q", cc.ManifestFileName)
	}
}
