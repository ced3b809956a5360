// Package audio tags the merged MP3 file with episode metadata: title from
// the page, the station name as artist, the source URL as a comment, and
// optional embedded cover art.
package audio
