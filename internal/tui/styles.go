package tui

import "github.com/charmbracelet/lipgloss"

var (
	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	heroStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	heroNameStyle = lipgloss.NewStyle().
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	behindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			MarginTop(1)

	sidebarStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("236"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 1)

	nightClockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Bold(true)

	nightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("237"))

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

// statusStyles colour schedule rows by status.
var statusStyles = map[string]lipgloss.Style{
	"done":    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),
	"current": lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
	"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Faint(true),
	"pending": lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
}

// opacityShade approximates a faded row on a dark terminal.
func opacityShade(op float64) lipgloss.Color {
	switch {
	case op >= 1:
		return lipgloss.Color("252")
	case op >= 0.75:
		return lipgloss.Color("248")
	case op >= 0.5:
		return lipgloss.Color("244")
	default:
		return lipgloss.Color("240")
	}
}
