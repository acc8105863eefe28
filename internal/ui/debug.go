package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/hotnews/internal/otel"
)

// debugPanelChrome is the border plus vertical padding of DebugPanel.
const debugPanelChrome = 4

// debugOverlay renders request stats and recent events. Returns "" for a
// nil ring.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	lines := []string{
		DebugHeaderStyle.Render("Requests"),
		fmt.Sprintf("  Fetches:    %d started, %d complete, %d errors",
			stats[otel.KindFetchStart], stats[otel.KindFetchComplete], stats[otel.KindFetchError]),
		fmt.Sprintf("  Panel:      %d source, %d refresh, %d pick, %d open",
			stats[otel.KindSourceSelect], stats[otel.KindRefresh], stats[otel.KindPick], stats[otel.KindOpen]),
		fmt.Sprintf("  Queries:    %d submitted, %d store errors",
			stats[otel.KindQuerySubmit], stats[otel.KindStoreError]),
		fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()),
		"",
		DebugHeaderStyle.Render("Recent Events"),
	}

	for _, e := range ring.Last(20) {
		line := fmt.Sprintf("  %6s  %-15s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Seq > 0 {
			line += fmt.Sprintf("  #%d", e.Seq)
		}
		if e.Source != "" {
			line += "  " + e.Source
		}
		if e.Query != "" {
			line += "  q:" + runewidth.Truncate(e.Query, 30, "…")
		}
		if e.Err != "" {
			line += "  ERR:" + runewidth.Truncate(e.Err, 30, "…")
		}
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 76
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration compactly; negative durations clamp to 0ms.
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}
