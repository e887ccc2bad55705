package paging

import (
	"context"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
)

// PageFunc receives one page during Walk.
type PageFunc func(req app.PageRequest, items []domain.Item) error

// Walk loads pages from the first one until the fetcher is exhausted, a fetch
// fails, fn returns an error, or maxPages pages were read (zero means no
// limit). It drives a Controller, so the pages requested are exactly the ones
// an interactive list would request while scrolling.
func Walk(ctx context.Context, fetcher app.PageFetcher, cfg Config, maxPages int, fn PageFunc, opts ...Option) error {
	var (
		count    int
		pages    int
		fetchErr error
		sinkErr  error
	)
	walkOpts := append(append([]Option(nil), opts...),
		WithResultHandler(func(req app.PageRequest, items []domain.Item) {
			if req.Incremental {
				count += len(items)
			} else {
				count = len(items)
			}
			pages++
			if sinkErr == nil {
				sinkErr = fn(req, items)
			}
		}),
		WithErrorHandler(func(_ FetchKind, err error) {
			fetchErr = err
		}),
	)
	c, err := New(fetcher, func() int { return count }, cfg, walkOpts...)
	if err != nil {
		return err
	}

	c.LoadMore(ctx, true, nil)
	for {
		switch {
		case fetchErr != nil:
			return fetchErr
		case sinkErr != nil:
			return sinkErr
		case ctx.Err() != nil:
			return ctx.Err()
		case !c.State().HasMore:
			return nil
		case maxPages > 0 && pages >= maxPages:
			return nil
		}
		c.LoadMore(ctx, false, nil)
	}
}
