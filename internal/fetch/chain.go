package fetch

import (
	"context"

	"go.uber.org/zap"
)

// Chain tries fetchers in priority order, returning the first success.
type Chain struct {
	fetchers []Fetcher
}

// NewChain creates a Chain. Fetchers are tried in order; the first successful
// document is returned.
func NewChain(fetchers ...Fetcher) *Chain {
	return &Chain{fetchers: fetchers}
}

func (c *Chain) Name() string { return "chain" }

// Fetch tries each fetcher in order for a single URL. When all fail it
// returns a NavigationError wrapping the last failure.
func (c *Chain) Fetch(ctx context.Context, url string) (*Document, error) {
	var lastErr error
	for _, f := range c.fetchers {
		doc, err := f.Fetch(ctx, url)
		if err == nil && doc != nil {
			return doc, nil
		}
		if err != nil {
			zap.L().Debug("fetch: fetcher failed, trying next",
				zap.String("fetcher", f.Name()),
				zap.String("url", url),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	return nil, &NavigationError{URL: url, Err: lastErr}
}
