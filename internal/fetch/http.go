package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/boligsjekk/boligsjekk/internal/config"
)

// HTTPFetcher loads pages via net/http with a per-host rate limiter. It is
// the cheap path for listings whose markup does not require scripting.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perSec   rate.Limit
	burst    int
}

// NewHTTPFetcher creates an HTTPFetcher from FetchConfig.
func NewHTTPFetcher(cfg config.FetchConfig) *HTTPFetcher {
	timeout := time.Duration(cfg.HTTPTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	perSec := rate.Limit(cfg.RatePerSec)
	if perSec <= 0 {
		perSec = 2
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 4
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
		limiters:  make(map[string]*rate.Limiter),
		perSec:    perSec,
		burst:     burst,
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// httpRetries is the number of additional attempts for transient failures
// (network errors and 5xx responses). 4xx responses never retry.
const httpRetries = 2

// Fetch loads a URL, enforcing the per-host rate limit before each attempt.
// Transient failures retry with linear backoff inside the caller's context.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*Document, error) {
	var lastErr error
	for attempt := 0; attempt <= httpRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, eris.Wrap(ctx.Err(), "http: retry wait")
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		doc, retryable, err := f.fetchOnce(ctx, targetURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

// fetchOnce performs one attempt. The second return reports whether the
// failure is worth retrying.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, targetURL string) (*Document, bool, error) {
	if err := f.limiterFor(targetURL).Wait(ctx); err != nil {
		return nil, false, eris.Wrap(err, "http: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, false, eris.Wrap(err, "http: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "nb-NO,nb;q=0.9,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, eris.Wrap(err, "http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, true, eris.Errorf("http: status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, false, eris.Errorf("http: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, true, eris.Wrap(err, "http: read body")
	}
	if len(body) < 200 {
		return nil, false, eris.New("http: empty page")
	}

	doc, err := NewDocument(targetURL, string(body))
	return doc, false, err
}

// limiterFor returns the rate limiter for the URL's host, creating one on
// first use.
func (f *HTTPFetcher) limiterFor(targetURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(targetURL); err == nil {
		host = u.Host
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(f.perSec, f.burst)
		f.limiters[host] = l
	}
	return l
}
