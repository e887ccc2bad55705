package paging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
)

// Controller drives a PageFetcher for one list. It is safe for concurrent
// use: triggers arriving while a fetch is in flight are no-ops rather than
// waiting.
//
// The item sequence stays with the caller; count reports its current length
// and is the only thing the controller reads from it.
type Controller struct {
	cfg     Config
	fetcher app.PageFetcher
	count   func() int

	log        zerolog.Logger
	recorder   Recorder
	onError    func(FetchKind, error)
	onResult   func(app.PageRequest, []domain.Item)
	onEnd      func(EndReachedEvent)
	autoPaging bool

	mu    sync.Mutex
	state State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for fetch failures and warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithRecorder sets the fetch recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithErrorHandler receives every fetch failure after it is logged.
func WithErrorHandler(fn func(FetchKind, error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// WithResultHandler receives every successful page before the state is
// updated, so the caller can merge it into its sequence. Incremental results
// are appended; others replace the sequence. Pages fetched before a Reset are
// dropped and never reach the handler.
func WithResultHandler(fn func(app.PageRequest, []domain.Item)) Option {
	return func(c *Controller) { c.onResult = fn }
}

// WithAutoPaging makes EndReached load the next page.
func WithAutoPaging(on bool) Option {
	return func(c *Controller) { c.autoPaging = on }
}

// WithEndReached observes every end-reached signal, whatever the paging policy.
func WithEndReached(fn func(EndReachedEvent)) Option {
	return func(c *Controller) { c.onEnd = fn }
}

// New builds a controller. count must report the caller's item count.
func New(fetcher app.PageFetcher, count func() int, cfg Config, opts ...Option) (*Controller, error) {
	if fetcher == nil {
		return nil, errors.New("paging: nil fetcher")
	}
	if count == nil {
		return nil, errors.New("paging: nil item counter")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("paging: %w", err)
	}
	c := &Controller{
		cfg:      cfg,
		fetcher:  fetcher,
		count:    count,
		log:      zerolog.Nop(),
		recorder: NopRecorder{},
		state:    Initial(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// State returns a snapshot of the loading state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Footer derives the footer from the current state.
func (c *Controller) Footer(nonEmpty bool) FooterState {
	return Footer(c.State(), nonEmpty)
}

func (c *Controller) apply(a Action) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, ok := c.cfg.Reduce(c.state, a)
	c.state = next
	return next, ok
}

// LoadMore fetches the next page, or the first page when initial is set. It
// blocks until the fetch resolves and reports whether a fetch was started.
// Failures are logged and handed to the error handler, never returned.
func (c *Controller) LoadMore(ctx context.Context, initial bool, fetchCtx any) bool {
	kind := KindFor(initial)
	started, ok := c.apply(RequestLoadMore{})
	if !ok {
		c.recorder.GuardRejected(kind)
		return false
	}

	req := c.loadMoreRequest(initial, fetchCtx)
	items, err := c.fetch(ctx, kind, req)
	if err != nil {
		c.apply(FetchFailed{Gen: started.Gen})
		return true
	}
	if !c.current(started.Gen) {
		c.log.Debug().Uint64("gen", started.Gen).Msg("discarding completion from before reset")
		return true
	}
	c.deliver(req, items)
	c.apply(FetchSucceeded{Gen: started.Gen, Count: len(items), NotSequence: items == nil})
	return true
}

// current reports whether gen still matches the latest Reset.
func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Gen == gen
}

func (c *Controller) deliver(req app.PageRequest, items []domain.Item) {
	if c.onResult != nil {
		c.onResult(req, items)
	}
}

// LoadMoreOnce clears the exhausted flag and the in-flight guard, then loads.
// Use it after replacing the item sequence.
func (c *Controller) LoadMoreOnce(ctx context.Context, initial bool, fetchCtx any) bool {
	c.apply(Reset{})
	return c.LoadMore(ctx, initial, fetchCtx)
}

// Refresh re-fetches every loaded page in a single call. Refreshing is set
// before the fetcher is invoked.
func (c *Controller) Refresh(ctx context.Context, fetchCtx any) bool {
	if _, ok := c.apply(Refresh{}); !ok {
		c.recorder.GuardRejected(KindRefresh)
		return false
	}

	req := app.PageRequest{
		Offset:  c.cfg.StartIndex,
		Limit:   c.cfg.RefreshLimit(c.count()),
		Context: fetchCtx,
	}
	items, err := c.fetch(ctx, KindRefresh, req)
	if err == nil {
		c.deliver(req, items)
	}
	c.apply(RefreshComplete{
		Count:       len(items),
		NotSequence: items == nil,
		Failed:      err != nil,
	})
	return true
}

// EndReached handles a scroll-near-end signal. The observer always sees it;
// with auto paging on it then loads the next page under the usual guards.
func (c *Controller) EndReached(ctx context.Context, ev EndReachedEvent) bool {
	if c.onEnd != nil {
		c.onEnd(ev)
	}
	if !c.autoPaging {
		return false
	}
	s := c.State()
	if !s.HasMore || s.LoadingMore {
		return false
	}
	return c.LoadMore(ctx, false, nil)
}

func (c *Controller) loadMoreRequest(initial bool, fetchCtx any) app.PageRequest {
	offset := c.cfg.StartIndex
	if !initial {
		n := c.count()
		if !c.cfg.Aligned(n) {
			c.log.Warn().
				Int("items", n).
				Int("page_size", c.cfg.PageSize).
				Msg("item count is not on a page boundary; next offset may skip or repeat items")
		}
		offset = c.cfg.NextOffset(n)
	}
	return app.PageRequest{
		Offset:      offset,
		Limit:       c.cfg.PageSize,
		Incremental: !initial,
		Context:     fetchCtx,
	}
}

func (c *Controller) fetch(ctx context.Context, kind FetchKind, req app.PageRequest) ([]domain.Item, error) {
	if c.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.FetchTimeout)
		defer cancel()
	}

	c.recorder.FetchStarted(kind)
	start := time.Now()
	items, err := c.fetcher.FetchPage(ctx, req)
	elapsed := time.Since(start)
	c.recorder.FetchFinished(kind, len(items), err, elapsed)

	if err != nil {
		c.log.Warn().
			Err(err).
			Str("kind", string(kind)).
			Int("offset", req.Offset).
			Int("limit", req.Limit).
			Dur("elapsed", elapsed).
			Msg("page fetch failed")
		if c.onError != nil {
			c.onError(kind, err)
		}
		return nil, err
	}
	c.log.Debug().
		Str("kind", string(kind)).
		Int("offset", req.Offset).
		Int("limit", req.Limit).
		Int("items", len(items)).
		Dur("elapsed", elapsed).
		Msg("page fetched")
	return items, nil
}
