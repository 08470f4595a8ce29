package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/astarviz/grid"
)

// Shade is the search overlay drawn on top of a Free cell.
type Shade uint8

const (
	// ShadeNone leaves the cell's kind colour.
	ShadeNone Shade = iota
	// ShadeOpen marks a cell in the frontier.
	ShadeOpen
	// ShadeClosed marks an expanded cell.
	ShadeClosed
	// ShadePath marks a cell on the returned path.
	ShadePath
)

var (
	freeStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#ffffff")).Foreground(lipgloss.Color("#808080"))
	blockedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lipgloss.Color("#404040"))
	startStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#ffa500")).Foreground(lipgloss.Color("#000000")).Bold(true)
	goalStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#40e0d0")).Foreground(lipgloss.Color("#000000")).Bold(true)
	openStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#00c000")).Foreground(lipgloss.Color("#004000"))
	closedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#c00000")).Foreground(lipgloss.Color("#400000"))
	pathStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#800080")).Foreground(lipgloss.Color("#ffffff"))

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#40e0d0"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffa500"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// cell returns the two-column glyph and style for a cell. Start, Goal and
// Blocked always show their own colour; the shade only tints Free cells.
func cell(k grid.Kind, s Shade) (string, lipgloss.Style) {
	switch k {
	case grid.Blocked:
		return "##", blockedStyle
	case grid.Start:
		return "S ", startStyle
	case grid.Goal:
		return "G ", goalStyle
	}
	switch s {
	case ShadeOpen:
		return "o ", openStyle
	case ShadeClosed:
		return "x ", closedStyle
	case ShadePath:
		return "**", pathStyle
	default:
		return "  ", freeStyle
	}
}
