package paging

import (
	"context"
	"errors"
	"sync"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
)

var errBoom = errors.New("boom")

func makeItems(from, n int) []domain.Item {
	out := make([]domain.Item, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.NewItem(int64(from+i), "text", nil))
	}
	return out
}

// sliceFetcher serves a fixed dataset of total items, page-number addressed.
type sliceFetcher struct {
	mu         sync.Mutex
	total      int
	startIndex int
	calls      []app.PageRequest
	fail       error
}

func (f *sliceFetcher) FetchPage(_ context.Context, req app.PageRequest) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.fail != nil {
		return nil, f.fail
	}
	from := (req.Offset - f.startIndex) * req.Limit
	if from >= f.total {
		return []domain.Item{}, nil
	}
	n := req.Limit
	if from+n > f.total {
		n = f.total - from
	}
	return makeItems(from, n), nil
}

func (f *sliceFetcher) Calls() []app.PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]app.PageRequest(nil), f.calls...)
}

// gatedFetcher holds every call until the test releases it.
type gatedFetcher struct {
	mu          sync.Mutex
	calls       []app.PageRequest
	gates       []chan struct{}
	inFlight    int
	maxInFlight int
	entered     chan int
	respond     func(app.PageRequest) ([]domain.Item, error)
}

func newGatedFetcher(respond func(app.PageRequest) ([]domain.Item, error)) *gatedFetcher {
	return &gatedFetcher{entered: make(chan int, 64), respond: respond}
}

func (f *gatedFetcher) FetchPage(ctx context.Context, req app.PageRequest) ([]domain.Item, error) {
	f.mu.Lock()
	idx := len(f.calls)
	gate := make(chan struct{})
	f.calls = append(f.calls, req)
	f.gates = append(f.gates, gate)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	f.entered <- idx

	var err error
	select {
	case <-gate:
	case <-ctx.Done():
		err = ctx.Err()
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return f.respond(req)
}

func (f *gatedFetcher) release(i int) {
	f.mu.Lock()
	g := f.gates[i]
	f.mu.Unlock()
	close(g)
}

func (f *gatedFetcher) Calls() []app.PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]app.PageRequest(nil), f.calls...)
}

func (f *gatedFetcher) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// sequence is a caller-owned item list that merges controller results.
type sequence struct {
	mu    sync.Mutex
	items []domain.Item
}

func (s *sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *sequence) merge(req app.PageRequest, items []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Incremental {
		s.items = append(s.items, items...)
		return
	}
	s.items = append([]domain.Item(nil), items...)
}
