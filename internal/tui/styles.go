package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the picker
var (
	ColorBorder   = lipgloss.Color("240") // Gray - tile borders
	ColorAccent   = lipgloss.Color("6")   // Cyan - titles, selected tile
	ColorMuted    = lipgloss.Color("8")   // Dark gray - secondary text
	ColorError    = lipgloss.Color("9")   // Red - folder errors
	ColorSelected = lipgloss.Color("229") // Light yellow - selected name
)

// tileWidth is the inner width of a tile, excluding border and padding.
const tileWidth = 16

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	mutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	errorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			Width(tileWidth)

	selectedTileStyle = tileStyle.
				BorderForeground(ColorAccent).
				Foreground(ColorSelected).
				Bold(true)
)

// tileOuterWidth is the rendered width of one tile.
func tileOuterWidth() int {
	return lipgloss.Width(tileStyle.Render(""))
}
