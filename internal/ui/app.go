package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/hotnews/internal/otel"
	"github.com/abelbrown/hotnews/internal/store"
	"github.com/abelbrown/hotnews/internal/ui/panel"
)

// historySize is how many recent queries are shown under the input.
const historySize = 5

type appKeys struct {
	Query  key.Binding
	Debug  key.Binding
	Quit   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func defaultAppKeys() appKeys {
	return appKeys{
		Query:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "query")),
		Debug:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "debug")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// AppConfig holds the closures the App uses to reach the outside world.
// App never holds the fetcher or the store directly.
type AppConfig struct {
	Panel panel.Config

	// FetchHotNews backs the panel's fetches. Overrides Panel.Fetch when set.
	FetchHotNews func(seq uint64, sourceID string) tea.Cmd
	// PickQuery replaces the default pick handling, which seeds the query
	// input and records the title in history.
	PickQuery func(query string) tea.Cmd
	// OpenURL opens an item link. Overrides Panel.OpenURL when set.
	OpenURL func(url string) tea.Cmd
	// SubmitQuery persists a query and answers with QueryRecorded.
	SubmitQuery func(q store.Query) tea.Cmd
	// LoadHistory answers with HistoryLoaded.
	LoadHistory func() tea.Cmd

	Ring   *otel.RingBuffer
	Logger *otel.Logger
}

// App is the root Bubble Tea model.
type App struct {
	panel       panel.Panel
	input       textinput.Model
	keys        appKeys
	submitQuery func(q store.Query) tea.Cmd
	loadHistory func() tea.Cmd
	ring        *otel.RingBuffer
	logger      *otel.Logger

	history []store.Query
	// picked is the last picked title exactly as the panel handed it over;
	// seeded is what the input made of it. Submitting an unedited seed
	// sends picked.
	picked    string
	seeded    string
	lastQuery string
	err       error
	showDebug bool
	width     int
	height    int
}

// NewApp builds the App and its embedded panel.
func NewApp(cfg AppConfig) App {
	l := cfg.Logger
	if l == nil {
		l = cfg.Panel.Logger
	}
	if l == nil {
		l = otel.NewNullLogger()
	}

	pc := cfg.Panel
	pc.Logger = l
	if cfg.FetchHotNews != nil {
		pc.Fetch = cfg.FetchHotNews
	}
	if cfg.OpenURL != nil {
		pc.OpenURL = cfg.OpenURL
	}
	pc.PickQuery = cfg.PickQuery
	if pc.PickQuery == nil {
		pc.PickQuery = pickToInput
	}

	ti := textinput.New()
	ti.Placeholder = "press / to type a query"
	ti.Prompt = QueryPrompt.Render("❯ ")
	ti.CharLimit = 0

	return App{
		panel:       panel.New(pc),
		input:       ti,
		keys:        defaultAppKeys(),
		submitQuery: cfg.SubmitQuery,
		loadHistory: cfg.LoadHistory,
		ring:        cfg.Ring,
		logger:      l,
	}
}

func pickToInput(query string) tea.Cmd {
	return func() tea.Msg { return QueryPicked{Query: query} }
}

// Init mounts the panel and loads query history.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.panel.Init()}
	if a.loadHistory != nil {
		cmds = append(cmds, a.loadHistory())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 8
		a.panel.SetSize(msg.Width, a.panelHeight())
		return a, nil

	case QueryPicked:
		a.input.SetValue(msg.Query)
		a.input.CursorEnd()
		a.picked = msg.Query
		a.seeded = a.input.Value()
		q := store.Query{Text: msg.Query, Origin: store.OriginPick, SourceID: a.panel.ActiveSource()}
		if item, ok := a.panel.Selected(); ok && item.Title == msg.Query {
			q.SourceID = item.Source
			q.ItemURL = item.URL
		}
		return a, a.record(q)

	case QueryRecorded:
		if msg.Err != nil {
			a.err = msg.Err
			a.logger.Error(otel.KindStoreError, "ui", msg.Err)
			return a, nil
		}
		a.history = append([]store.Query{msg.Query}, a.history...)
		if len(a.history) > historySize {
			a.history = a.history[:historySize]
		}
		return a, nil

	case HistoryLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.logger.Error(otel.KindStoreError, "ui", msg.Err)
			return a, nil
		}
		a.history = msg.Queries
		if len(a.history) > historySize {
			a.history = a.history[:historySize]
		}
		return a, nil

	case URLOpened:
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, nil
	}

	var panelCmd, inputCmd tea.Cmd
	a.panel, panelCmd = a.panel.Update(msg)
	a.input, inputCmd = a.input.Update(msg)
	return a, tea.Batch(panelCmd, inputCmd)
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Clear error on any key press
	if a.err != nil {
		a.err = nil
		return a, nil
	}

	if a.input.Focused() {
		switch {
		case key.Matches(msg, a.keys.Cancel):
			a.input.Blur()
			return a, nil
		case key.Matches(msg, a.keys.Submit):
			return a.submit()
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil
	case key.Matches(msg, a.keys.Query):
		cmd := a.input.Focus()
		return a, cmd
	case key.Matches(msg, a.keys.Cancel):
		a.showDebug = false
		return a, nil
	}

	var cmd tea.Cmd
	a.panel, cmd = a.panel.Update(msg)
	return a, cmd
}

// submit records the input as a manual query and clears it.
func (a App) submit() (tea.Model, tea.Cmd) {
	text := a.input.Value()
	if a.picked != "" && text == a.seeded {
		text = a.picked
	}
	if strings.TrimSpace(text) == "" {
		return a, nil
	}
	a.picked, a.seeded = "", ""
	a.input.Reset()
	a.input.Blur()
	a.lastQuery = text
	a.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindQuerySubmit, Comp: "ui", Query: text, Source: a.panel.ActiveSource()})
	return a, a.record(store.Query{Text: text, Origin: store.OriginManual, SourceID: a.panel.ActiveSource()})
}

func (a App) record(q store.Query) tea.Cmd {
	if a.submitQuery == nil {
		return nil
	}
	return a.submitQuery(q)
}

// panelHeight is the terminal height minus the query box, history and
// status bar.
func (a App) panelHeight() int {
	h := a.height - 5 - historySize
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the panel, the query input, recent history and the status bar.
func (a App) View() string {
	if a.showDebug {
		if overlay := debugOverlay(a.ring, a.width, a.height); overlay != "" {
			return overlay + "\n" + a.renderStatusBar()
		}
	}

	sections := []string{
		a.panel.View(),
		QueryBox.Render(a.input.View()),
		a.renderHistory(),
	}
	if a.err != nil {
		sections = append(sections, ErrorStyle.Render("Error: "+a.err.Error()+" (press any key to dismiss)"))
	}
	sections = append(sections, a.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderHistory() string {
	if len(a.history) == 0 {
		return HistoryItem.Render("no queries yet")
	}
	lines := make([]string, 0, len(a.history))
	for _, q := range a.history {
		lines = append(lines, HistoryItem.Render(q.Text)+" "+HistoryOrigin.Render("("+q.Origin+")"))
	}
	return strings.Join(lines, "\n")
}

// statusHints lists the bindings that currently do something.
func (a App) statusHints() []key.Binding {
	if a.input.Focused() {
		return []key.Binding{a.keys.Submit, a.keys.Cancel}
	}
	hints := a.panel.Keys().ShortHelp()
	return append(hints, a.keys.Query, a.keys.Debug, a.keys.Quit)
}

func (a App) renderStatusBar() string {
	var b strings.Builder
	for i, binding := range a.statusHints() {
		if i > 0 {
			b.WriteString("  ")
		}
		h := binding.Help()
		b.WriteString(StatusBarKey.Render(h.Key))
		b.WriteString(StatusBarText.Render(":" + h.Desc))
	}
	if a.lastQuery != "" && !a.input.Focused() {
		b.WriteString("  ")
		b.WriteString(StatusBarText.Render("last: " + a.lastQuery))
	}
	if a.width > 0 {
		return StatusBar.Width(a.width).Render(b.String())
	}
	return StatusBar.Render(b.String())
}

// Panel exposes the embedded panel.
func (a App) Panel() panel.Panel { return a.panel }

// Input returns the current query input text.
func (a App) Input() string { return a.input.Value() }

// Focused reports whether the query input has focus.
func (a App) Focused() bool { return a.input.Focused() }

// History returns the recent queries being shown.
func (a App) History() []store.Query { return a.history }

// Err returns the error shown in the error bar, if any.
func (a App) Err() error { return a.err }

// DebugVisible reports whether the debug overlay is showing.
func (a App) DebugVisible() bool { return a.showDebug }
