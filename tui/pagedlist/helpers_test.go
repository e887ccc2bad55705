package pagedlist

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
	"github.com/CrestNiraj12/pagedlist/paging"
	"github.com/CrestNiraj12/pagedlist/tui/render"
)

var errFetch = errors.New("fetch failed")

type stubFetcher struct {
	mu    sync.Mutex
	calls []app.PageRequest
	items func(app.PageRequest) []domain.Item
	err   error
}

func (f *stubFetcher) FetchPage(_ context.Context, req app.PageRequest) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.items == nil {
		return makeItems(0, req.Limit), nil
	}
	return f.items(req), nil
}

func makeItems(from, n int) []domain.Item {
	out := make([]domain.Item, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.NewItem(int64(from+i), render.TagText, map[string]any{
			"title": "row",
		}))
	}
	return out
}

func newTestModel(f app.PageFetcher, opts Options) Model {
	return New(f, render.Defaults(zerolog.Nop()), opts, zerolog.Nop(), paging.NopRecorder{})
}

// runCmd executes cmd and returns every resulting message except spinner ticks.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	case spinner.TickMsg, nil:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
