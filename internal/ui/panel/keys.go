package panel

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap lists the panel's bindings.
type KeyMap struct {
	Chip       key.Binding
	NextSource key.Binding
	PrevSource key.Binding
	Refresh    key.Binding
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Open       key.Binding
	Pick       key.Binding
}

// DefaultKeyMap returns the standard bindings. Chip matches the digits
// 1-9; the digit picks the chip by position.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Chip:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "source")),
		NextSource: key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab", "next source")),
		PrevSource: key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab", "prev source")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "move")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Open:       key.NewBinding(key.WithKeys("o", "enter"), key.WithHelp("o", "open")),
		Pick:       key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "生成")),
	}
}

// ShortHelp is shown in the host status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Chip, k.Refresh, k.Down, k.Open, k.Pick}
}

// forSources narrows the chip help to the configured number of chips.
func (k KeyMap) forSources(n int) KeyMap {
	switch {
	case n <= 1:
		k.Chip.SetHelp("1", "source")
	case n > 9:
		k.Chip.SetHelp("1-9", "source")
	default:
		k.Chip.SetHelp("1-"+strconv.Itoa(n), "source")
	}
	return k
}
