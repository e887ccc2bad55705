package common

import "github.com/charmbracelet/lipgloss"

var (
	// AppTitleStyle styles the application title.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6600")).
			Padding(1, 0, 1, 1)

	// TaglineStyle styles the source label next to the title.
	TaglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true).
			MarginLeft(1)

	// ItemTitleStyle styles the headline of a row.
	ItemTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	// ItemBodyStyle styles secondary row text.
	ItemBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// FieldKeyStyle styles field names in key=value rows.
	FieldKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// SelectedMarkerStyle marks the row under the cursor.
	SelectedMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6600")).
				Bold(true)

	// UnselectedMarkerStyle keeps other rows aligned with a dim bar.
	UnselectedMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#45475A"))

	// FooterStyle frames the footer row below the list.
	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#747474")).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#45475A")).
			PaddingLeft(2)

	// RefreshStyle styles the refresh banner shown above the list.
	RefreshStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00B5E9")).
			PaddingLeft(1)

	// HelpStyle styles the key legend.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			PaddingLeft(1)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 1)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// SpinnerStyle colors the loading spinner.
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6600"))
)
