package pagedlist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/pagedlist/paging"
	"github.com/CrestNiraj12/pagedlist/tui/common"
)

const (
	markerWidth = 2
	// Footer (border + text) and the help line.
	reservedLines = 3
)

// View renders the visible rows, the footer and the key legend.
func (m Model) View() string {
	var b strings.Builder

	if m.opts.PulldownRefresh && m.state.Refreshing {
		b.WriteString(common.RefreshStyle.Render(m.indicator()+" Refreshing…") + "\n")
	}

	if len(m.items) == 0 {
		if m.state.LoadingMore {
			b.WriteString("  " + m.indicator() + " " + m.opts.Prompts.Loading + "\n")
		} else {
			b.WriteString("  Nothing here yet.\n")
		}
	} else {
		l := m.newLayout()
		end := l.lastVisible(m.top)
		for i := m.top; i <= end; i++ {
			if row := l.row(i); row != "" {
				b.WriteString(row + "\n")
			}
		}
	}

	if footer := m.renderFooter(); footer != "" {
		b.WriteString(footer + "\n")
	}
	b.WriteString(common.HelpStyle.Render(m.keys.HelpLine(m.opts.PulldownRefresh)))
	return b.String()
}

func (m Model) renderFooter() string {
	state := m.Footer()
	if state == paging.FooterNone {
		return ""
	}
	if m.opts.RenderFooter != nil {
		return m.opts.RenderFooter(state, m.opts.Prompts)
	}

	text := m.opts.Prompts.Text(state)
	switch state {
	case paging.FooterLoading:
		text = m.indicator() + " " + text
	case paging.FooterLoadMore:
		text += " (enter)"
	}
	return common.FooterStyle.Render(text)
}

func (m Model) indicator() string {
	if m.opts.RenderIndicator != nil {
		return m.opts.RenderIndicator()
	}
	return m.spinner.View()
}

// renderRow draws row i with its cursor marker. Rows the registry cannot
// draw come back empty and take no space.
func (m Model) renderRow(i int) string {
	if m.registry == nil || i < 0 || i >= len(m.items) {
		return ""
	}
	width := m.width - markerWidth
	selected := i == m.cursor
	out, err := m.registry.Render(m.items[i], i, width, selected)
	if err != nil || out == "" {
		return ""
	}

	marker := common.UnselectedMarkerStyle.Render("┃ ")
	if selected {
		marker = common.SelectedMarkerStyle.Render("▶ ")
	}
	lines := strings.Split(out, "\n")
	for j, line := range lines {
		lines[j] = marker + line
	}
	return strings.Join(lines, "\n")
}

// drawable reports whether row i renders. The cursor never rests on a row
// that does not.
func (m Model) drawable(i int) bool {
	if i < 0 || i >= len(m.items) {
		return false
	}
	return m.registry == nil || m.registry.Check(m.items[i], i) == nil
}

// step returns the next drawable row from i in direction dir, or i when
// there is none.
func (m Model) step(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.items); j += dir {
		if m.drawable(j) {
			return j
		}
	}
	return i
}

// layout renders each row at most once per frame.
type layout struct {
	m    *Model
	rows map[int]string
}

func (m *Model) newLayout() *layout {
	return &layout{m: m, rows: make(map[int]string)}
}

func (l *layout) row(i int) string {
	if r, ok := l.rows[i]; ok {
		return r
	}
	r := l.m.renderRow(i)
	l.rows[i] = r
	return r
}

func (l *layout) height(i int) int {
	r := l.row(i)
	if r == "" {
		return 0
	}
	return lipgloss.Height(r)
}

// lastVisible is the last row index that fits below top.
func (l *layout) lastVisible(top int) int {
	budget := l.m.listHeight()
	if budget == 0 {
		return len(l.m.items) - 1
	}
	used := 0
	last := top
	for i := top; i < len(l.m.items); i++ {
		h := l.height(i)
		if used+h > budget && i > top {
			break
		}
		used += h
		last = i
	}
	return last
}

// listHeight is the number of lines available for rows, or 0 when unknown.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	h := m.height - reservedLines
	if m.opts.PulldownRefresh && m.state.Refreshing {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) ensureCursorVisible() {
	if m.top > m.cursor {
		m.top = m.cursor
	}
	if m.top < 0 {
		m.top = 0
	}
	l := m.newLayout()
	for m.top < m.cursor && l.lastVisible(m.top) < m.cursor {
		m.top++
	}
}
