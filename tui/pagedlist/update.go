package pagedlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/pagedlist/paging"
)

// Update handles fetch completions, keys, resizes and spinner ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PageLoadedMsg, PageErrorMsg, RefreshLoadedMsg, RefreshErrorMsg:
		return m.handleFetchMsg(msg), nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleFetchMsg(msg tea.Msg) Model {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		next, ok := m.cfg.Reduce(m.state, paging.FetchSucceeded{
			Gen:         msg.Gen,
			Count:       len(msg.Items),
			NotSequence: msg.Items == nil,
		})
		if !ok {
			m.log.Debug().Uint64("gen", msg.Gen).Uint64("current", m.state.Gen).Msg("ignoring page from before reset")
			return m
		}
		m.state = next

	case PageErrorMsg:
		next, ok := m.cfg.Reduce(m.state, paging.FetchFailed{Gen: msg.Gen})
		if !ok {
			return m
		}
		m.state = next
		m.log.Warn().
			Err(msg.Err).
			Int("offset", msg.Req.Offset).
			Int("limit", msg.Req.Limit).
			Bool("incremental", msg.Req.Incremental).
			Msg("page fetch failed")

	case RefreshLoadedMsg:
		m.state, _ = m.cfg.Reduce(m.state, paging.RefreshComplete{
			Count:       len(msg.Items),
			NotSequence: msg.Items == nil,
		})

	case RefreshErrorMsg:
		m.state, _ = m.cfg.Reduce(m.state, paging.RefreshComplete{Failed: true})
		m.log.Warn().
			Err(msg.Err).
			Int("limit", msg.Req.Limit).
			Msg("refresh failed")
	}
	return m
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = m.step(m.cursor, -1)
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursor = m.step(m.cursor, 1)
		m.ensureCursorVisible()
		return m.maybeEndReached()

	case key.Matches(msg, m.keys.Top):
		m.cursor = m.step(-1, 1)
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(m.items) > 0 {
			m.cursor = m.step(len(m.items), -1)
			if m.cursor >= len(m.items) {
				m.cursor = len(m.items) - 1
			}
			m.ensureCursorVisible()
		}
		return m.maybeEndReached()

	case key.Matches(msg, m.keys.LoadMore):
		if m.Footer() == paging.FooterNone {
			return m, nil
		}
		return m.LoadMore(false, nil)

	case key.Matches(msg, m.keys.Reload):
		return m.LoadMoreOnce(len(m.items) == 0, nil)

	case key.Matches(msg, m.keys.Refresh):
		if !m.opts.PulldownRefresh {
			return m, nil
		}
		return m.PullToRefresh(nil)
	}
	return m, nil
}

// maybeEndReached fires end-reached when the cursor is within the threshold
// of the last row, or no drawable row follows it.
func (m Model) maybeEndReached() (Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	if m.cursor < len(m.items)-m.opts.EndThreshold && m.step(m.cursor, 1) != m.cursor {
		return m, nil
	}
	return m.EndReached(paging.EndReachedEvent{Index: m.cursor, Count: len(m.items)})
}
