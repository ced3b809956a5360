// Package ffmpeg drives the external ffmpeg binary as a subprocess for the
// two operations the pipeline cannot do itself: header-aware remuxing of an
// adaptive stream into a single MP3, and lossless stream-copy concatenation
// of an ordered list of same-format parts.
//
// The package never parses ffmpeg's own output; a recording is observed
// only through liveness polling (for spinner display) and the process exit
// code, surfaced as *ExitError.
package ffmpeg
