package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
	"github.com/CrestNiraj12/pagedlist/paging"
	"github.com/CrestNiraj12/pagedlist/tui/common"
	"github.com/CrestNiraj12/pagedlist/tui/pagedlist"
	"github.com/CrestNiraj12/pagedlist/tui/render"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Fetcher  app.PageFetcher
	Registry *render.Registry
	Options  pagedlist.Options
	Logger   zerolog.Logger
	Recorder paging.Recorder
	Source   string // Shown next to the title
}

// App is the root Bubble Tea model. It owns the item sequence and feeds it
// to the list.
type App struct {
	deps    Deps
	list    pagedlist.Model
	items   []domain.Item
	keys    common.KeyMap
	status  string // Transient status message (e.g. a fetch error)
	initCmd tea.Cmd
}

// NewApp creates the root model and mounts the list.
func NewApp(deps Deps) App {
	if deps.Registry == nil {
		deps.Registry = render.Defaults(deps.Logger)
	}
	list := pagedlist.New(deps.Fetcher, deps.Registry, deps.Options, deps.Logger, deps.Recorder)
	list, cmd := list.Mount()
	return App{
		deps:    deps,
		list:    list,
		keys:    common.DefaultKeyMap(),
		initCmd: cmd,
	}
}

// Init returns the first-page fetch started by NewApp.
func (a App) Init() tea.Cmd {
	return a.initCmd
}

// Update merges fetch results into the sequence and routes the rest to the list.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if key.Matches(msg, a.keys.Reload) || key.Matches(msg, a.keys.Refresh) {
			a.status = ""
		}

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(tea.WindowSizeMsg{
			Width:  msg.Width,
			Height: msg.Height - lipgloss.Height(a.header()) - 1,
		})
		return a, cmd

	case pagedlist.PageLoadedMsg:
		if a.list.Current(msg.Gen) {
			if msg.Req.Incremental {
				a.items = appendUnique(a.items, msg.Items)
			} else {
				a.items = append([]domain.Item(nil), msg.Items...)
			}
			a.list.SetItems(a.items)
			a.status = ""
		}

	case pagedlist.PageErrorMsg:
		if a.list.Current(msg.Gen) {
			a.status = "Error loading page: " + msg.Err.Error() + " (press r to refresh or R to reload)"
		}

	case pagedlist.RefreshLoadedMsg:
		a.items = append([]domain.Item(nil), msg.Items...)
		a.list.SetItems(a.items)
		a.status = ""

	case pagedlist.RefreshErrorMsg:
		a.status = "Error refreshing: " + msg.Err.Error()
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

// View renders the title, the list and any status message.
func (a App) View() string {
	s := a.header() + "\n" + a.list.View()
	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}
	return s
}

// Items returns the current sequence.
func (a App) Items() []domain.Item {
	return a.items
}

// Status returns the transient status message.
func (a App) Status() string {
	return a.status
}

func (a App) header() string {
	title := common.AppTitleStyle.Render("pagedlist")
	if a.deps.Source == "" {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, common.TaglineStyle.Render(a.deps.Source))
}

// appendUnique appends the items of page whose IDs are not already present.
// Items without an ID are always appended.
func appendUnique(items, page []domain.Item) []domain.Item {
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if it.ID != nil {
			seen[*it.ID] = struct{}{}
		}
	}
	out := append([]domain.Item(nil), items...)
	for _, it := range page {
		if it.ID != nil {
			if _, dup := seen[*it.ID]; dup {
				continue
			}
			seen[*it.ID] = struct{}{}
		}
		out = append(out, it)
	}
	return out
}
