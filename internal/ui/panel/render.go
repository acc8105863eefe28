package panel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/hotnews/internal/hotnews"
)

// Fixed panel text.
const (
	PanelTitle     = "🔥 热点新闻"
	LoadingText    = "加载中..."
	EmptyText      = "暂无热点"
	PickLabel      = "✦ 生成"
	RefreshLabel   = "⟳ 刷新"
	updatedAtLabel = "更新于 "
)

// BodyKind is what the body area shows.
type BodyKind int

const (
	BodyLoading BodyKind = iota
	BodyError
	BodyEmpty
	BodyGroups
)

func (k BodyKind) String() string {
	switch k {
	case BodyLoading:
		return "loading"
	case BodyError:
		return "error"
	case BodyEmpty:
		return "empty"
	case BodyGroups:
		return "groups"
	}
	return "body(" + strconv.Itoa(int(k)) + ")"
}

// BodyFor applies the display precedence: loading, then error, then empty,
// then groups. Data kept from an earlier success is hidden while an error
// is showing.
func BodyFor(phase Phase, data *hotnews.Response) BodyKind {
	switch phase {
	case PhaseLoading:
		return BodyLoading
	case PhaseFailed:
		return BodyError
	}
	if data.Empty() {
		return BodyEmpty
	}
	return BodyGroups
}

// Body returns the current body kind.
func (p Panel) Body() BodyKind {
	return BodyFor(p.phase, p.data)
}

// LinkText is the exact link label for an item.
func LinkText(item hotnews.Item) string {
	return fmt.Sprintf("%d. %s", item.Rank, item.Title)
}

// View renders header, chips and body.
func (p Panel) View() string {
	parts := []string{
		p.renderHeader(),
		RenderChips(p.sources, p.active),
		p.renderBody(),
	}
	return strings.Join(parts, "\n")
}

func (p Panel) renderHeader() string {
	title := titleStyle.Render(PanelTitle)

	refresh := refreshStyle.Render("[r] " + RefreshLabel)
	if !p.RefreshEnabled() {
		refresh = refreshDisabledStyle.Render(p.spinner.View() + " " + RefreshLabel)
	}

	left := title
	if p.data != nil && p.data.UpdatedAt != "" {
		left += "  " + updatedStyle.Render(updatedAtLabel+p.data.UpdatedAt)
	}

	gap := p.width - lipgloss.Width(left) - lipgloss.Width(refresh)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + refresh
}

// RenderChips renders one chip per option, marking the active one.
func RenderChips(options []hotnews.SourceOption, active string) string {
	chips := make([]string, 0, len(options))
	for i, o := range options {
		label := o.Name
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, o.Name)
		}
		if o.ID == active {
			chips = append(chips, activeChipStyle.Render(label))
		} else {
			chips = append(chips, chipStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (p Panel) renderBody() string {
	switch p.Body() {
	case BodyLoading:
		return placeholderStyle.Render(p.spinner.View() + " " + LoadingText)
	case BodyError:
		return errorStyle.Render(p.errMsg)
	case BodyEmpty:
		return placeholderStyle.Render(EmptyText)
	}

	lines, cursorLine := RenderGroups(p.data, p.cursor, p.width)
	return strings.Join(window(lines, cursorLine, p.bodyHeight()), "\n")
}

// bodyHeight is the number of lines left for the body, 0 meaning unbounded.
func (p Panel) bodyHeight() int {
	if p.height <= 0 {
		return 0
	}
	h := p.height - 2 // header + chips
	if h < 1 {
		h = 1
	}
	return h
}

// RenderGroups renders every group in payload order and every item in group
// order. cursor indexes the flattened item list; the returned cursorLine is
// the line that item landed on, or -1. A width of 0 disables truncation.
func RenderGroups(data *hotnews.Response, cursor, width int) (lines []string, cursorLine int) {
	cursorLine = -1
	idx := 0
	for gi, g := range data.Sources {
		if gi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, groupTitleStyle.Render(g.SourceName))
		for _, item := range g.Items {
			selected := idx == cursor
			if selected {
				cursorLine = len(lines)
			}
			lines = append(lines, renderItem(item, selected, width))
			idx++
		}
	}
	return lines, cursorLine
}

func renderItem(item hotnews.Item, selected bool, width int) string {
	marker, link, pick := "  ", linkStyle, pickStyle
	if selected {
		marker, link, pick = "› ", selectedLinkStyle, selectedPickStyle
	}

	label := LinkText(item)
	suffix := ""
	if item.PublishTime != "" {
		suffix = " " + publishStyle.Render(item.PublishTime)
	}
	button := "  " + pick.Render(PickLabel)

	if width > 0 {
		avail := width - runewidth.StringWidth(marker) - lipgloss.Width(suffix) - lipgloss.Width(button)
		if avail < 8 {
			avail = 8
		}
		label = runewidth.Truncate(label, avail, "…")
	}
	return marker + link.Render(label) + suffix + button
}

// window returns at most height lines keeping focus visible. Height 0
// returns everything.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := 0
	if focus >= height {
		start = focus - height + 1
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}
