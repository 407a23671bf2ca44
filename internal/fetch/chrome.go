package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"

	"github.com/boligsjekk/boligsjekk/internal/config"
)

// ChromeFetcher renders pages in a headless browser. The browser session is
// scoped to a single Fetch call: allocator and tab contexts are created per
// request and cancelled on every exit path so no Chrome processes leak.
type ChromeFetcher struct {
	navTimeout time.Duration
	userAgent  string
}

// NewChromeFetcher creates a ChromeFetcher from FetchConfig.
func NewChromeFetcher(cfg config.FetchConfig) *ChromeFetcher {
	timeout := time.Duration(cfg.NavTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &ChromeFetcher{
		navTimeout: timeout,
		userAgent:  cfg.UserAgent,
	}
}

func (f *ChromeFetcher) Name() string { return "chrome" }

// Fetch navigates to the URL, waits for the body, and captures the rendered
// HTML. The navigation timeout bounds the whole session.
func (f *ChromeFetcher) Fetch(ctx context.Context, targetURL string) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.navTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}),
	)
	defer cancelTab()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "chrome: navigate %s", targetURL)
	}
	if len(html) < 200 {
		return nil, eris.New("chrome: empty page")
	}

	return NewDocument(targetURL, html)
}
