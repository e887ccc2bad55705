package pagedlist

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/paging"
)

// LoadMore starts an incremental fetch, or the first page when initial is
// set. It is a no-op while a fetch is in flight or once the list is exhausted.
func (m Model) LoadMore(initial bool, fetchCtx any) (Model, tea.Cmd) {
	kind := paging.KindFor(initial)
	next, ok := m.cfg.Reduce(m.state, paging.RequestLoadMore{})
	if !ok {
		m.recorder.GuardRejected(kind)
		return m, nil
	}
	m.state = next

	req := app.PageRequest{
		Offset:      m.cfg.StartIndex,
		Limit:       m.cfg.PageSize,
		Incremental: !initial,
		Context:     fetchCtx,
	}
	if !initial {
		n := len(m.items)
		if !m.cfg.Aligned(n) {
			m.log.Warn().
				Int("items", n).
				Int("page_size", m.cfg.PageSize).
				Msg("item count is not on a page boundary; next offset may skip or repeat items")
		}
		req.Offset = m.cfg.NextOffset(n)
	}
	return m, tea.Batch(m.fetchPage(req, next.Gen, kind), m.spinner.Tick)
}

// LoadMoreOnce clears the exhausted flag and the guard, then loads. Fetches
// already in flight become stale.
func (m Model) LoadMoreOnce(initial bool, fetchCtx any) (Model, tea.Cmd) {
	m.state, _ = m.cfg.Reduce(m.state, paging.Reset{})
	return m.LoadMore(initial, fetchCtx)
}

// PullToRefresh re-fetches every loaded page in one call. Refreshing is set
// before the command runs, so the banner shows immediately.
func (m Model) PullToRefresh(fetchCtx any) (Model, tea.Cmd) {
	next, ok := m.cfg.Reduce(m.state, paging.Refresh{})
	if !ok {
		m.recorder.GuardRejected(paging.KindRefresh)
		return m, nil
	}
	m.state = next

	req := app.PageRequest{
		Offset:  m.cfg.StartIndex,
		Limit:   m.cfg.RefreshLimit(len(m.items)),
		Context: fetchCtx,
	}
	return m, tea.Batch(m.fetchRefresh(req), m.spinner.Tick)
}

// EndReached forwards ev to the observer, then loads the next page when
// auto paging is on and the guards allow it.
func (m Model) EndReached(ev paging.EndReachedEvent) (Model, tea.Cmd) {
	if m.opts.OnEndReached != nil {
		m.opts.OnEndReached(ev)
	}
	if !m.opts.AutoPaging || !m.state.HasMore || m.state.LoadingMore {
		return m, nil
	}
	return m.LoadMore(false, nil)
}

func (m Model) fetchPage(req app.PageRequest, gen uint64, kind paging.FetchKind) tea.Cmd {
	fetcher := m.fetcher
	recorder := m.recorder
	timeout := m.cfg.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := fetchContext(timeout)
		defer cancel()

		recorder.FetchStarted(kind)
		start := time.Now()
		items, err := fetcher.FetchPage(ctx, req)
		recorder.FetchFinished(kind, len(items), err, time.Since(start))
		if err != nil {
			return PageErrorMsg{Req: req, Err: err, Gen: gen}
		}
		return PageLoadedMsg{Req: req, Items: items, Gen: gen}
	}
}

func (m Model) fetchRefresh(req app.PageRequest) tea.Cmd {
	fetcher := m.fetcher
	recorder := m.recorder
	timeout := m.cfg.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := fetchContext(timeout)
		defer cancel()

		recorder.FetchStarted(paging.KindRefresh)
		start := time.Now()
		items, err := fetcher.FetchPage(ctx, req)
		recorder.FetchFinished(paging.KindRefresh, len(items), err, time.Since(start))
		if err != nil {
			return RefreshErrorMsg{Req: req, Err: err}
		}
		return RefreshLoadedMsg{Req: req, Items: items}
	}
}

func fetchContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}
