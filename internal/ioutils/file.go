// Package ioutils provides small file system and image utilities for
// mujrozhlas-dl: filename sanitization, part-size checks, and cover art
// processing for ID3 embedding.
package ioutils

import (
	"os"
	"regexp"
	"strings"
)

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// This function ensures filenames are valid across different operating
// systems, particularly Windows which has the most restrictive naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("porad: dil 1/2") // Returns "porad_ dil 1_2"
func SanitizeFileName(name string) string {
	// Replace invalid path/file characters with underscore
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots (Windows doesn't allow filenames ending with dots)
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.TrimRight(name, " ")
}

// FileSizeAtLeast reports whether path exists as a regular file of more
// than min bytes. Used to reject missing or undersized retrieval output.
func FileSizeAtLeast(path string, min int64) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Size() > min
}
