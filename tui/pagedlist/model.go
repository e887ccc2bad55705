// Package pagedlist is a Bubble Tea list that loads its rows page by page.
//
// The list never owns its rows. Fetch results arrive as messages; the parent
// model merges them into its own sequence, hands the new sequence back with
// SetItems, and then forwards the message so the list can settle its loading
// state. Everything runs on the Bubble Tea update loop, so the in-flight guard
// is a plain check-and-set inside Update.
package pagedlist

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
	"github.com/CrestNiraj12/pagedlist/paging"
	"github.com/CrestNiraj12/pagedlist/tui/common"
	"github.com/CrestNiraj12/pagedlist/tui/render"
)

const defaultEndThreshold = 3

// PageLoadedMsg completes a load-more fetch.
type PageLoadedMsg struct {
	Req   app.PageRequest
	Items []domain.Item
	Gen   uint64
}

// PageErrorMsg reports a failed load-more fetch.
type PageErrorMsg struct {
	Req app.PageRequest
	Err error
	Gen uint64
}

// RefreshLoadedMsg completes a refresh fetch. Items replace the list.
type RefreshLoadedMsg struct {
	Req   app.PageRequest
	Items []domain.Item
}

// RefreshErrorMsg reports a failed refresh fetch.
type RefreshErrorMsg struct {
	Req app.PageRequest
	Err error
}

// Options configures a list.
type Options struct {
	Config          paging.Config
	AutoPaging      bool // Load the next page when the cursor nears the end
	PulldownRefresh bool // Enable the refresh key and banner
	Prompts         paging.Prompts

	// RenderFooter replaces the whole footer for non-empty lists.
	RenderFooter func(paging.FooterState, paging.Prompts) string
	// RenderIndicator replaces the spinner shown while loading.
	RenderIndicator func() string
	// OnEndReached sees every end-reached signal, whatever the paging policy.
	OnEndReached func(paging.EndReachedEvent)

	// EndThreshold is how many rows from the end count as reaching it.
	EndThreshold int
}

// Model is the list state.
type Model struct {
	cfg      paging.Config
	opts     Options
	state    paging.State
	fetcher  app.PageFetcher
	registry *render.Registry
	keys     common.KeyMap
	spinner  spinner.Model
	log      zerolog.Logger
	recorder paging.Recorder

	items  []domain.Item
	cursor int
	top    int // First row in the viewport
	width  int
	height int
}

// New creates a list. Call Mount once the parent is ready to run commands.
func New(fetcher app.PageFetcher, registry *render.Registry, opts Options, log zerolog.Logger, recorder paging.Recorder) Model {
	if opts.Config.PageSize < 1 {
		opts.Config = paging.DefaultConfig()
	}
	if opts.EndThreshold < 1 {
		opts.EndThreshold = defaultEndThreshold
	}
	opts.Prompts = opts.Prompts.WithDefaults()
	if recorder == nil {
		recorder = paging.NopRecorder{}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = common.SpinnerStyle

	return Model{
		cfg:      opts.Config,
		opts:     opts,
		state:    paging.Initial(),
		fetcher:  fetcher,
		registry: registry,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
		log:      log,
		recorder: recorder,
	}
}

// Init satisfies tea.Model. Fetching starts in Mount.
func (m Model) Init() tea.Cmd {
	return nil
}

// Mount loads the first page when the list starts out empty.
func (m Model) Mount() (Model, tea.Cmd) {
	if len(m.items) > 0 {
		return m, nil
	}
	return m.LoadMore(true, nil)
}

// SetItems hands the list the parent's current sequence. The list only reads it.
func (m *Model) SetItems(items []domain.Item) {
	m.items = items
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if !m.drawable(m.cursor) {
		if next := m.step(m.cursor, 1); next != m.cursor {
			m.cursor = next
		} else {
			m.cursor = m.step(m.cursor, -1)
		}
	}
	m.ensureCursorVisible()
}

// SetSize sets the viewport size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// State returns the loading state.
func (m Model) State() paging.State {
	return m.state
}

// Footer returns the footer the list currently shows.
func (m Model) Footer() paging.FooterState {
	return paging.Footer(m.state, len(m.items) > 0)
}

// Items returns the sequence last passed to SetItems.
func (m Model) Items() []domain.Item {
	return m.items
}

// Cursor returns the selected row.
func (m Model) Cursor() int {
	return m.cursor
}

// Current reports whether a load-more completion belongs to the latest reset
// generation. Parents use it to drop pages fetched for a replaced sequence.
func (m Model) Current(gen uint64) bool {
	return gen == m.state.Gen
}

// Busy reports whether any fetch is in flight.
func (m Model) Busy() bool {
	return m.state.LoadingMore || m.state.Refreshing
}
