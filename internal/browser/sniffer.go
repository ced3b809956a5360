package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jkralik/mujrozhlas-dl/internal/stream"
)

// ClickOutcome is the result of a best-effort selector click. All three
// outcomes are non-fatal; a selector that had no effect is simply skipped.
type ClickOutcome int

const (
	// ClickNotFound means no element matched the selector.
	ClickNotFound ClickOutcome = iota

	// Clicked means at least one matching element was clicked.
	Clicked

	// ClickTimedOut means the query or click did not complete in time.
	ClickTimedOut
)

// Options configures a browser session. All values come from Settings; the
// sniffer itself has no defaults.
type Options struct {
	UserAgent      string
	AcceptLanguage string
	Locale         string
	FrontPageURL   string
	Headless       bool

	ConsentSelectors []string
	PlaySelectors    []string

	WarmupDelay     time.Duration
	ClickPause      time.Duration
	SelectorTimeout time.Duration
	Dwell           time.Duration
	SweepWait       time.Duration
	SweepSettle     time.Duration
	FinalDwell      time.Duration
	MaxSweeps       int
}

// Sniffer drives one headless Chrome session against an episode page and
// records every media-origin URL the page requests.
//
// A session runs a fixed step sequence: warm up on the site's front page,
// navigate to the target page, dismiss consent dialogs, click play buttons,
// dwell while the player fetches its manifests, scroll-sweep for lazily
// loaded players, dwell once more, and tear the browser down. Network
// request and response URLs are classified and collected throughout.
//
// Selector interactions are best-effort: a missing or unclickable element
// never aborts the session.
type Sniffer struct {
	opts       Options
	classifier *stream.Classifier
}

// NewSniffer creates a Sniffer with the given options and classifier.
func NewSniffer(opts Options, classifier *stream.Classifier) *Sniffer {
	return &Sniffer{opts: opts, classifier: classifier}
}

// Collect runs the full scripted session against pageURL and returns the
// finalized capture. The discovery set is only handed back after the
// browser has fully closed, so the caller reads it without locking.
//
// Collect returns an error only when the browser itself cannot be driven
// (launch or navigation failure). An empty capture is not an error; the
// caller decides what that means.
func (s *Sniffer) Collect(ctx context.Context, pageURL string) (*stream.Capture, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("lang", s.opts.Locale),
		chromedp.Flag("mute-audio", true),
		chromedp.UserAgent(s.opts.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Network events fire on chromedp's event goroutine concurrently with
	// the scripted steps; the mutex covers the window until teardown.
	set := stream.NewDiscoverySet()
	var mu sync.Mutex
	observe := func(rawURL string) {
		kind := s.classifier.Classify(rawURL)
		if kind == stream.KindUnrelated {
			return
		}
		mu.Lock()
		set.Add(rawURL, kind)
		mu.Unlock()
	}

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			observe(e.Request.URL)
		case *network.EventResponseReceived:
			observe(e.Response.URL)
		}
	})

	// Init and warmup: launch, observe network, let the front page run its
	// baseline scripts, then open the target page.
	if err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": s.opts.AcceptLanguage,
		}),
		chromedp.Navigate(s.opts.FrontPageURL),
	); err != nil {
		return nil, fmt.Errorf("launching browser session: %w", err)
	}
	s.sleep(ctx, s.opts.WarmupDelay)

	if err := chromedp.Run(browserCtx, chromedp.Navigate(pageURL)); err != nil {
		return nil, fmt.Errorf("opening %s: %w", pageURL, err)
	}

	s.clickAll(browserCtx, s.opts.ConsentSelectors)
	s.clickAll(browserCtx, s.opts.PlaySelectors)

	// Give the player time to fetch its manifests.
	s.sleep(ctx, s.opts.Dwell)

	s.lazyLoadSweep(browserCtx)

	// Catch late requests.
	s.sleep(ctx, s.opts.FinalDwell)

	title, artworkURL := s.pageMeta(browserCtx)

	// Teardown before the set is read; no events can arrive after this.
	_ = chromedp.Cancel(browserCtx)

	return &stream.Capture{Set: set, Title: title, ArtworkURL: artworkURL}, nil
}

// Attempt clicks every element matching sel, scrolling each into view
// first. Failures are reported, never escalated.
func (s *Sniffer) Attempt(ctx context.Context, sel string) ClickOutcome {
	qctx, cancel := context.WithTimeout(ctx, s.opts.SelectorTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(qctx, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return ClickTimedOut
	}
	if len(nodes) == 0 {
		return ClickNotFound
	}

	outcome := ClickTimedOut
	for _, node := range nodes {
		cctx, ccancel := context.WithTimeout(ctx, s.opts.SelectorTimeout)
		err := chromedp.Run(cctx, chromedp.MouseClickNode(node))
		ccancel()
		if err != nil {
			continue
		}
		outcome = Clicked
		s.sleep(ctx, s.opts.ClickPause)
	}
	return outcome
}

// clickAll tries each selector in order, tolerating every failure.
func (s *Sniffer) clickAll(ctx context.Context, selectors []string) {
	for _, sel := range selectors {
		if ctx.Err() != nil {
			return
		}
		s.Attempt(ctx, sel)
	}
}

// lazyLoadSweep scrolls to the bottom repeatedly, re-triggering playback on
// any players that appeared, until the page height stops growing. The
// iteration cap guards against pathological always-growing pages.
func (s *Sniffer) lazyLoadSweep(ctx context.Context) {
	lastHeight := s.scrollHeight(ctx)
	for i := 0; i < s.opts.MaxSweeps; i++ {
		if ctx.Err() != nil {
			return
		}
		_ = chromedp.Run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
		s.sleep(ctx, s.opts.SweepWait)

		s.clickAll(ctx, s.opts.PlaySelectors)
		s.sleep(ctx, s.opts.SweepSettle)

		height := s.scrollHeight(ctx)
		if height == lastHeight {
			return
		}
		lastHeight = height
	}
}

// scrollHeight measures the current document height.
func (s *Sniffer) scrollHeight(ctx context.Context) int64 {
	var height int64
	_ = chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height))
	return height
}

// pageMeta grabs the document title and og:image for tagging. Best-effort;
// empty values are fine.
func (s *Sniffer) pageMeta(ctx context.Context) (title, artworkURL string) {
	_ = chromedp.Run(ctx,
		chromedp.Title(&title),
		chromedp.Evaluate(`(() => {
			const m = document.querySelector('meta[property="og:image"]');
			return m ? m.content : "";
		})()`, &artworkURL),
	)
	return title, artworkURL
}

// sleep waits for d or until ctx is cancelled.
func (s *Sniffer) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
