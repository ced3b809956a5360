package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/jkralik/mujrozhlas-dl/internal/config"
	"github.com/jkralik/mujrozhlas-dl/internal/download"
	"github.com/jkralik/mujrozhlas-dl/internal/stream"
)

// Styles for progress output
var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

func main() {
	// Command line flags
	var (
		outputFlag    string
		keepPartsFlag = flag.Bool("keep-parts", false, "Keep per-part MP3 files and their temp directory")
		configFlag    = flag.String("config", "", "Path to config file")
		dwellFlag     = flag.Int("dwell", 0, "Player dwell time in seconds (overrides config)")
		noTagFlag     = flag.Bool("no-tag", false, "Skip ID3 tagging of the merged file")
		showFlag      = flag.Bool("show-browser", false, "Run the browser with a visible window")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
	)
	flag.StringVar(&outputFlag, "o", "", "Final merged MP3 filename (default: derived from the URL)")
	flag.StringVar(&outputFlag, "output", "", "Final merged MP3 filename (default: derived from the URL)")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("mujrozhlas-dl - sniff, download and merge mujrozhlas.cz audio streams")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  mujrozhlas-dl <url> [-o <file.mp3>] [--keep-parts]")
		fmt.Println()
		fmt.Println("The URL may be a mujrozhlas.cz episode or series page, or a stream URL")
		fmt.Println("(.mpd/.mp3 on croaod.cz) captured manually to skip the browser step.")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(2)
	}
	inputURL := flag.Arg(0)

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *dwellFlag > 0 {
		settings.DwellSeconds = *dwellFlag
	}
	if *noTagFlag {
		settings.ModifyTags = false
		settings.EmbedCoverArt = false
	}
	if *showFlag {
		settings.Headless = false
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Transient lines (download percent, recording spinner) are rewritten
	// in place; the next regular line needs a newline first.
	transient := false
	endTransient := func() {
		if transient {
			fmt.Println()
			transient = false
		}
	}

	manager, err := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelProgress {
			fmt.Printf("\r%s", dimStyle.Render(event.Message))
			transient = true
			return
		}
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}
		endTransient()

		switch event.Level {
		case download.LevelError:
			fmt.Println(errorStyle.Render(event.Message))
		case download.LevelWarning:
			fmt.Println(warningStyle.Render(event.Message))
		case download.LevelSuccess:
			fmt.Println(successStyle.Render(event.Message))
		case download.LevelInfo:
			fmt.Println(infoStyle.Render(event.Message))
		default:
			fmt.Println(event.Message)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outputPath, err := manager.Run(ctx, inputURL, outputFlag, *keepPartsFlag)
	endTransient()
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("Cancelled.")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		if errors.Is(err, download.ErrFFmpegNotFound) ||
			errors.Is(err, download.ErrNoParts) ||
			errors.Is(err, stream.ErrNoStreams) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	abs, absErr := filepath.Abs(outputPath)
	if absErr != nil {
		abs = outputPath
	}
	fmt.Println()
	fmt.Println(successStyle.Render("Done."))
	fmt.Printf("Output: %s\n", abs)
}
