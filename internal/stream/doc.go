// Package stream contains the pure URL logic of the pipeline: classifying
// observed URLs into retrievable kinds, collecting them into a deduplicated
// discovery set, selecting which ones to retrieve, and resolving the
// user-supplied input URL.
//
// # Classification
//
// A Classifier decides what a URL is from its host and path/query shape:
//
//	c, _ := stream.NewClassifier(cfg)
//	c.Classify("https://rapi.croaod.cz/x/manifest.mpd") // KindManifest
//	c.Classify("https://rapi.croaod.cz/x/seg-3.m4s")    // KindSegment
//	c.Classify("https://rapi.croaod.cz/x/track.mp3")    // KindDirectAudio
//	c.Classify("https://www.mujrozhlas.cz/anything")    // KindUnrelated
//
// A manifest URL can be inferred from a segment URL when only segments were
// observed:
//
//	m, ok := c.InferManifestFromSegment(segURL)
//
// # Discovery
//
// DiscoverySet accumulates classified URLs in insertion order, deduplicated
// by exact string equality. SelectStreams picks the retrievable subset,
// preferring manifests and direct audio over raw segments.
//
// # Resolution
//
// Resolver decides whether the input URL is already a stream (returned
// as-is, or via manifest inference for segments) or a host page that needs
// a browser session (delegated to a Sniffer).
//
// Everything in this package is deterministic and free of I/O.
package stream
