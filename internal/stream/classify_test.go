package stream

import (
	"strings"
	"testing"
)

func testClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(ClassifierConfig{
		MediaHostPattern: `(^|\.)croaod\.cz$`,
		ManifestPattern:  `\.mpd(\?|$)`,
		SegmentPattern:   `\.m4s(\?|$)`,
		AudioPattern:     `\.mp3(\?|$)`,
		ManifestFileName: "manifest.mpd",
	})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	return c
}

func TestClassify(t *testing.T) {
	c := testClassifier(t)

	tests := []struct {
		name string
		url  string
		want Kind
	}{
		{"manifest", "https://croaod.cz/stream/manifest.mpd", KindManifest},
		{"manifest on subdomain", "https://rapi.croaod.cz/a/b/manifest.mpd", KindManifest},
		{"manifest with query", "https://croaod.cz/x/manifest.mpd?token=abc", KindManifest},
		{"manifest uppercase", "https://croaod.cz/x/MANIFEST.MPD", KindManifest},
		{"segment", "https://rapi.croaod.cz/a/seg-0004.m4s", KindSegment},
		{"segment with query", "https://croaod.cz/a/chunk.m4s?t=1", KindSegment},
		{"direct audio", "https://croaod.cz/episodes/track.mp3", KindDirectAudio},
		{"direct audio with query", "https://media.croaod.cz/track.mp3?sig=x", KindDirectAudio},
		{"matching host, no media suffix", "https://croaod.cz/api/status", KindUnrelated},
		{"matching host, unknown extension", "https://croaod.cz/x/track.aac", KindUnrelated},
		{"front-end host", "https://www.mujrozhlas.cz/manifest.mpd", KindUnrelated},
		{"unrelated host with mp3 path", "https://example.com/track.mp3", KindUnrelated},
		{"host suffix lookalike", "https://notcroaod.cz/manifest.mpd", KindUnrelated},
		{"empty", "", KindUnrelated},
		{"garbage", "://not a url", KindUnrelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.url); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := testClassifier(t)
	url := "https://rapi.croaod.cz/a/b/manifest.mpd?sig=1"
	first := c.Classify(url)
	for i := 0; i < 10; i++ {
		if got := c.Classify(url); got != first {
			t.Fatalf("Classify changed between calls: %v then %v", first, got)
		}
	}
}

func TestInferManifestFromSegment(t *testing.T) {
	c := testClassifier(t)

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{
			"plain segment",
			"https://rapi.croaod.cz/stream/seg-0004.m4s",
			"https://rapi.croaod.cz/stream/manifest.mpd",
			true,
		},
		{
			"query and fragment preserved",
			"https://croaod.cz/a/b/chunk-12.m4s?token=abc#frag",
			"https://croaod.cz/a/b/manifest.mpd?token=abc#frag",
			true,
		},
		{
			"not a segment",
			"https://croaod.cz/a/track.mp3",
			"", false,
		},
		{
			"manifest already",
			"https://croaod.cz/a/manifest.mpd",
			"", false,
		},
		{
			"wrong host",
			"https://example.com/a/seg-1.m4s",
			"", false,
		},
		{
			"no path",
			"https://croaod.cz",
			"", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.InferManifestFromSegment(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("InferManifestFromSegment(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("InferManifestFromSegment(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestInferManifestKeepsSchemeAndHost(t *testing.T) {
	c := testClassifier(t)

	seg := "https://rapi.croaod.cz/x/y/seg-9.m4s?t=2"
	m, ok := c.InferManifestFromSegment(seg)
	if !ok {
		t.Fatal("expected inference to succeed")
	}
	if !strings.HasPrefix(m, "https://rapi.croaod.cz/x/y/") {
		t.Errorf("inferred manifest lost scheme/host/dir: %q", m)
	}
	if !strings.Contains(m, "manifest.mpd") {
		t.Errorf("inferred manifest missing fixed filename: %q", m)
	}
	if c.Classify(m) != KindManifest {
		t.Errorf("inferred URL should classify as manifest, got %v", c.Classify(m))
	}
}

func TestNewClassifierBadPattern(t *testing.T) {
	_, err := NewClassifier(ClassifierConfig{
		MediaHostPattern: `([`,
	})
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}
