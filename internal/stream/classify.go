package stream

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Kind classifies a URL observed during discovery.
//
// Only URLs on the media origin host receive a kind other than KindUnrelated.
// KindUnrelated URLs are excluded from all further processing.
type Kind int

const (
	// KindUnrelated marks URLs that are not retrievable streams
	// (wrong host, or no recognized media suffix).
	KindUnrelated Kind = iota

	// KindManifest marks adaptive-stream manifests (DASH .mpd).
	// Retrieved by remuxing through the external media tool.
	KindManifest

	// KindSegment marks individual adaptive-stream media fragments.
	// Not retrievable on their own, but a manifest URL can be inferred.
	KindSegment

	// KindDirectAudio marks directly downloadable audio files (.mp3).
	KindDirectAudio
)

// String returns a short label for progress output.
func (k Kind) String() string {
	switch k {
	case KindManifest:
		return "DASH"
	case KindSegment:
		return "segment"
	case KindDirectAudio:
		return "MP3"
	default:
		return "unrelated"
	}
}

// ClassifierConfig holds the host and suffix patterns that drive
// classification. All patterns are case-insensitive regular expressions;
// suffix patterns are matched against path+query, the host pattern against
// the hostname alone.
type ClassifierConfig struct {
	// MediaHostPattern matches the media origin hostname (exact or subdomain).
	MediaHostPattern string

	// ManifestPattern matches adaptive-manifest URLs (e.g. `\.mpd(\?|$)`).
	ManifestPattern string

	// SegmentPattern matches segment-file URLs (e.g. `\.m4s(\?|$)`).
	SegmentPattern string

	// AudioPattern matches direct-audio URLs (e.g. `\.mp3(\?|$)`).
	AudioPattern string

	// ManifestFileName is the fixed manifest filename substituted when
	// inferring a manifest URL from a segment URL.
	ManifestFileName string
}

// Classifier decides which Kind a URL is, based on its host and path/query
// shape. Classification is pure and deterministic: the same URL always yields
// the same Kind, and a Classifier is safe for concurrent use.
//
// Example:
//
//	c, _ := stream.NewClassifier(settings.ClassifierConfig())
//	c.Classify("https://rapi.croaod.cz/stream/manifest.mpd") // KindManifest
//	c.Classify("https://www.mujrozhlas.cz/page")             // KindUnrelated
type Classifier struct {
	cfg      ClassifierConfig
	hostRe   *regexp.Regexp
	mpdRe    *regexp.Regexp
	segRe    *regexp.Regexp
	mp3Re    *regexp.Regexp
	manifest string
}

// NewClassifier compiles the configured patterns into a Classifier.
//
// Returns an error if any pattern fails to compile.
func NewClassifier(cfg ClassifierConfig) (*Classifier, error) {
	hostRe, err := regexp.Compile("(?i)" + cfg.MediaHostPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid media host pattern: %w", err)
	}
	mpdRe, err := regexp.Compile("(?i)" + cfg.ManifestPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest pattern: %w", err)
	}
	segRe, err := regexp.Compile("(?i)" + cfg.SegmentPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid segment pattern: %w", err)
	}
	mp3Re, err := regexp.Compile("(?i)" + cfg.AudioPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid audio pattern: %w", err)
	}

	return &Classifier{
		cfg:      cfg,
		hostRe:   hostRe,
		mpdRe:    mpdRe,
		segRe:    segRe,
		mp3Re:    mp3Re,
		manifest: cfg.ManifestFileName,
	}, nil
}

// MatchesMediaHost reports whether host is the media origin (exact match
// or any subdomain of it).
func (c *Classifier) MatchesMediaHost(host string) bool {
	return host != "" && c.hostRe.MatchString(host)
}

// Classify decides which Kind a URL is.
//
// Rules, in priority order:
//  1. The host must match the media origin, else KindUnrelated.
//  2. The path/query suffix is matched against the manifest, segment and
//     direct-audio patterns; first match wins.
//  3. No suffix match on a matching host is KindUnrelated.
//
// Malformed URLs are KindUnrelated.
func (c *Classifier) Classify(rawURL string) Kind {
	u, err := url.Parse(rawURL)
	if err != nil || !c.MatchesMediaHost(u.Hostname()) {
		return KindUnrelated
	}

	switch {
	case c.mpdRe.MatchString(rawURL):
		return KindManifest
	case c.segRe.MatchString(rawURL):
		return KindSegment
	case c.mp3Re.MatchString(rawURL):
		return KindDirectAudio
	default:
		return KindUnrelated
	}
}

// InferManifestFromSegment derives the manifest URL that a segment URL
// belongs to, by replacing the last path component with the fixed manifest
// filename. Scheme, host, query and fragment are preserved.
//
// The second return value is false when the URL is not a well-formed segment
// URL; this is a normal "cannot infer" outcome, not an error.
//
// Example:
//
//	m, ok := c.InferManifestFromSegment("https://rapi.croaod.cz/x/seg-4.m4s?t=1")
//	// m == "https://rapi.croaod.cz/x/manifest.mpd?t=1", ok == true
func (c *Classifier) InferManifestFromSegment(segmentURL string) (string, bool) {
	u, err := url.Parse(segmentURL)
	if err != nil || !c.MatchesMediaHost(u.Hostname()) {
		return "", false
	}

	idx := strings.LastIndex(u.Path, "/")
	if idx < 0 {
		return "", false
	}
	last := u.Path[idx+1:]
	if last == "" || !c.segRe.MatchString(last) {
		return "", false
	}

	u.Path = u.Path[:idx+1] + c.manifest
	return u.String(), true
}
