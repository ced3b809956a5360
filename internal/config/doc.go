// Package config provides configuration management for mujrozhlas-dl.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default values for every pipeline tuning constant
//   - Conversion to the classifier config and per-request header sets
//
// # Default Settings
//
// Use DefaultSettings() for the stock mujrozhlas.cz behavior:
//
//	settings := config.DefaultSettings()
//	// Firefox desktop user agent, Czech locale
//	// 10 second player dwell, sequential downloads
//	// 192k MP3 output, ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// Uses defaults if the file doesn't exist
//
// # Configuration Options
//
// Settings includes the spoofed browser identity, the media host and suffix
// patterns used for URL classification, the consent and play-button selector
// lists, all browser dwell durations, ffmpeg invocation options, the minimum
// accepted part size, and tagging behavior. The dwell durations and selector
// lists are empirical per-site tuning, which is exactly why they are settings
// rather than constants.
package config
