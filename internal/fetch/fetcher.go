package fetch

import (
	"context"
	"fmt"
)

// Fetcher loads a single URL into a Document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
	Name() string
}

// NavigationError signals that a page could not be loaded at all. It is fatal
// to one extraction attempt and triggers the orchestrator's fallback.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("fetch: navigation failed for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
