package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("209")
	colorSecondary = lipgloss.Color("241")
	colorMuted     = lipgloss.Color("240")
	colorHighlight = lipgloss.Color("212")
)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for the error bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// QueryPrompt precedes the query input.
var QueryPrompt = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// QueryBox frames the query input.
var QueryBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// HistoryItem style for recent queries.
var HistoryItem = lipgloss.NewStyle().
	Foreground(colorSecondary).
	PaddingLeft(2)

// HistoryOrigin marks where a recent query came from.
var HistoryOrigin = lipgloss.NewStyle().
	Foreground(colorMuted)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside the overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
