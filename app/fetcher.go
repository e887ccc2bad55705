package app

import (
	"context"

	"github.com/CrestNiraj12/pagedlist/domain"
)

// PageRequest describes one page fetch.
type PageRequest struct {
	Offset      int  // Page-number-like offset, starting at the configured start index
	Limit       int  // Items requested
	Incremental bool // True when results are appended rather than replacing the list
	Context     any  // Caller context forwarded untouched
}

// PageFetcher loads one page of items.
//
// Implementations return a slice shorter than Limit when there is no more
// data. A nil slice with a nil error is treated as a non-list result and also
// ends paging. Errors are reserved for real failures.
type PageFetcher interface {
	FetchPage(ctx context.Context, req PageRequest) ([]domain.Item, error)
}

// FetcherFunc adapts a function to PageFetcher.
type FetcherFunc func(ctx context.Context, req PageRequest) ([]domain.Item, error)

// FetchPage calls f.
func (f FetcherFunc) FetchPage(ctx context.Context, req PageRequest) ([]domain.Item, error) {
	return f(ctx, req)
}
