// Package download provides the pipeline orchestration for turning a
// mujrozhlas.cz page into a single merged MP3.
//
// # Manager
//
// The Manager coordinates the entire run:
//
//  1. Verify ffmpeg is available (fail fast if not)
//  2. Resolve the input URL into stream URLs (directly, or through a
//     headless-browser sniffing session)
//  3. Retrieve each URL into an ordered part file: direct HTTP download
//     for .mp3 URLs, ffmpeg DASH remux for manifests
//  4. Accept only parts that exist and exceed the minimum size
//  5. Losslessly concatenate the accepted parts into the output file
//  6. Tag the output with episode metadata and cover art
//  7. Delete the part files unless asked to keep them
//
// # Basic Usage
//
//	manager, err := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := manager.Run(ctx, pageURL, "", false)
//
// # Failure policy
//
// A single URL failing to download or record is logged and skipped. The run
// as a whole fails only when ffmpeg is missing (ErrFFmpegNotFound), nothing
// resolves (stream.ErrNoStreams), every part was rejected (ErrNoParts), or
// the final merge fails.
//
// # Progress Tracking
//
// Progress is reported via a callback that receives ProgressEvent values.
// LevelProgress events are transient single-line updates (download percent,
// recording spinner) meant to be rewritten in place; all other levels are
// regular log lines.
package download
