package stream

import (
	"net/url"
	"strings"

	"github.com/jkralik/mujrozhlas-dl/internal/ioutils"
)

// fallbackName is used when the input URL has no usable path segment.
const fallbackName = "mujrozhlas"

// OutputName derives the merged output filename from the input URL: the
// last non-empty path segment, URL-unescaped and sanitized, with ".mp3"
// appended. Falls back to "mujrozhlas.mp3".
func OutputName(inputURL string) string {
	name := fallbackName

	if u, err := url.Parse(inputURL); err == nil {
		segments := strings.Split(u.Path, "/")
		for i := len(segments) - 1; i >= 0; i-- {
			if segments[i] == "" {
				continue
			}
			seg := segments[i]
			if unescaped, err := url.PathUnescape(seg); err == nil {
				seg = unescaped
			}
			if seg = ioutils.SanitizeFileName(seg); seg != "" {
				name = seg
			}
			break
		}
	}

	return name + ".mp3"
}
