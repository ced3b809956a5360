package stream

import (
	"context"
	"errors"
	"net/url"
)

// ErrNoStreams is returned when neither the input URL nor a browser session
// yields any retrievable stream URLs.
//
// This typically occurs when:
//   - The page has no embedded audio player
//   - The player never started within the dwell period
//   - The page requires interaction the selector lists do not cover
var ErrNoStreams = errors.New("no streams detected")

// Capture is what a browser session observed: the network candidates plus
// page metadata picked up along the way. Title and ArtworkURL are
// best-effort and may be empty.
type Capture struct {
	Set        *DiscoverySet
	Title      string
	ArtworkURL string
}

// Sniffer runs a scripted browser session against a page and returns
// everything it observed. Implemented by internal/browser; faked in tests.
type Sniffer interface {
	Collect(ctx context.Context, pageURL string) (*Capture, error)
}

// Resolution is the outcome of resolving an input URL: the ordered list of
// stream URLs to retrieve, plus any page metadata for tagging.
type Resolution struct {
	URLs       []string
	Title      string
	ArtworkURL string
}

// Resolver turns the user-supplied URL into retrievable stream URLs.
//
// A URL already on the media origin skips browser automation entirely: a
// segment is replaced by its inferred manifest, anything else is returned
// unchanged. Any other host is treated as a host page and handed to the
// Sniffer. This lets power users supply a manually captured stream URL.
type Resolver struct {
	classifier *Classifier
	sniffer    Sniffer
}

// NewResolver creates a Resolver over the given classifier and sniffer.
func NewResolver(c *Classifier, s Sniffer) *Resolver {
	return &Resolver{classifier: c, sniffer: s}
}

// Resolve returns the stream URLs to retrieve for inputURL.
//
// An empty URL list with a nil error means nothing was found; the caller
// decides whether that is fatal.
func (r *Resolver) Resolve(ctx context.Context, inputURL string) (*Resolution, error) {
	u, err := url.Parse(inputURL)
	if err == nil && r.classifier.MatchesMediaHost(u.Hostname()) {
		if r.classifier.Classify(inputURL) == KindSegment {
			m, ok := r.classifier.InferManifestFromSegment(inputURL)
			if !ok {
				return &Resolution{}, nil
			}
			return &Resolution{URLs: []string{m}}, nil
		}
		return &Resolution{URLs: []string{inputURL}}, nil
	}

	capture, err := r.sniffer.Collect(ctx, inputURL)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		URLs:       SelectStreams(capture.Set, r.classifier),
		Title:      capture.Title,
		ArtworkURL: capture.ArtworkURL,
	}, nil
}
