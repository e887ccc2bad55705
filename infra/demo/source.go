// Package demo serves a synthetic, page-addressed list so the TUI runs
// without a backend.
package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
)

// ErrInjected is returned by calls selected with Options.FailEvery.
var ErrInjected = errors.New("demo: injected failure")

// Options configures a Source.
type Options struct {
	Total      int           // Items available
	StartIndex int           // Offset of the first page
	Latency    time.Duration // Simulated per-call delay
	FailEvery  int           // Fail every Nth call; 0 never fails
	// BrokenEvery leaves every Nth item without a component tag; 0 never does.
	BrokenEvery int
}

// Source implements app.PageFetcher over a generated list. Page k covers
// items [(k-StartIndex)*limit, (k-StartIndex+1)*limit).
type Source struct {
	opts Options

	mu    sync.Mutex
	calls int
}

var _ app.PageFetcher = (*Source)(nil)

// New creates a demo source.
func New(opts Options) *Source {
	return &Source{opts: opts}
}

// Calls returns how many fetches have been made.
func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// FetchPage returns the requested slice of the generated list after the
// configured latency, or ctx's error if it ends first.
func (s *Source) FetchPage(ctx context.Context, req app.PageRequest) ([]domain.Item, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()

	if s.opts.Latency > 0 {
		t := time.NewTimer(s.opts.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.opts.FailEvery > 0 && call%s.opts.FailEvery == 0 {
		return nil, fmt.Errorf("call %d: %w", call, ErrInjected)
	}
	if req.Limit < 1 {
		return []domain.Item{}, nil
	}

	from := (req.Offset - s.opts.StartIndex) * req.Limit
	if from < 0 {
		from = 0
	}
	to := min(from+req.Limit, s.opts.Total)

	items := make([]domain.Item, 0, max(to-from, 0))
	for i := from; i < to; i++ {
		items = append(items, s.item(i))
	}
	return items, nil
}

func (s *Source) item(i int) domain.Item {
	n := i + 1
	if s.opts.BrokenEvery > 0 && n%s.opts.BrokenEvery == 0 {
		return domain.NewItem(int64(n), "", map[string]any{"title": fmt.Sprintf("Item %d", n)})
	}
	if n%5 == 0 {
		return domain.NewItem(int64(n), "fields", map[string]any{
			"kind":  "summary",
			"index": n,
		})
	}
	return domain.NewItem(int64(n), "text", map[string]any{
		"title": fmt.Sprintf("Item %d", n),
		"body":  fmt.Sprintf("Generated row %d of %d", n, s.opts.Total),
	})
}
