package panel

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("209") // flame orange
	colorMuted  = lipgloss.Color("240")
	colorText   = lipgloss.Color("255")
	colorChipBg = lipgloss.Color("236")
	colorError  = lipgloss.Color("196")
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorAccent)

var updatedStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var refreshStyle = lipgloss.NewStyle().
	Foreground(colorText)

var refreshDisabledStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Faint(true)

var chipStyle = lipgloss.NewStyle().
	Foreground(colorText).
	Background(colorChipBg).
	Padding(0, 1).
	MarginRight(1)

var activeChipStyle = chipStyle.
	Bold(true).
	Foreground(lipgloss.Color("232")).
	Background(colorAccent)

var groupTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorAccent)

var linkStyle = lipgloss.NewStyle().
	Foreground(colorText).
	Underline(true)

var selectedLinkStyle = linkStyle.
	Bold(true).
	Foreground(colorAccent)

var pickStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var selectedPickStyle = lipgloss.NewStyle().
	Foreground(colorAccent)

var publishStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var placeholderStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

var errorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Padding(1, 2)
