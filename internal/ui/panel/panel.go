// Package panel implements the hot-news panel: a source selector, a fetch
// state machine and a renderer for ranked per-source headline lists.
//
// The panel is a Bubble Tea model. It owns no I/O; fetching, opening links
// and consuming picked queries are injected as closures returning tea.Cmd.
//
// Overlapping fetches are neither cancelled nor sequenced. Each FetchResult
// is applied in arrival order, so whichever attempt settles last determines
// what is shown.
package panel

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/hotnews/internal/fetch"
	"github.com/abelbrown/hotnews/internal/hotnews"
	"github.com/abelbrown/hotnews/internal/otel"
)

// Phase is the fetch state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

// Config wires the panel to the outside world.
type Config struct {
	// Sources are the selectable chips; the first must be the aggregate.
	// Empty means hotnews.DefaultSources().
	Sources []hotnews.SourceOption

	// Fetch returns a command that eventually yields a FetchResult with
	// the given seq and source id.
	Fetch func(seq uint64, sourceID string) tea.Cmd

	// PickQuery receives an item title, unmodified.
	PickQuery func(query string) tea.Cmd

	// OpenURL opens an item link outside the terminal.
	OpenURL func(url string) tea.Cmd

	Logger *otel.Logger
}

// Panel is the hot-news panel model.
type Panel struct {
	sources   []hotnews.SourceOption
	fetch     func(seq uint64, sourceID string) tea.Cmd
	pickQuery func(query string) tea.Cmd
	openURL   func(url string) tea.Cmd
	logger    *otel.Logger
	keys      KeyMap
	spinner   spinner.Model

	active   string
	phase    Phase
	data     *hotnews.Response // last successful payload, kept across failures
	errMsg   string
	seq      uint64
	inflight int
	cursor   int
	offset   int
	width    int
	height   int
}

// New creates a Panel. Nothing is fetched until Init.
func New(cfg Config) Panel {
	sources := cfg.Sources
	if len(sources) == 0 {
		sources = hotnews.DefaultSources()
	}
	l := cfg.Logger
	if l == nil {
		l = otel.NewNullLogger()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = titleStyle

	return Panel{
		sources:   sources,
		fetch:     cfg.Fetch,
		pickQuery: cfg.PickQuery,
		openURL:   cfg.OpenURL,
		logger:    l,
		keys:      DefaultKeyMap().forSources(len(sources)),
		spinner:   sp,
		active:    hotnews.AllSourceID,
	}
}

// mounted stands in for the mount-time effect: Init cannot change the
// model, so the fetch starts when this message comes back through Update.
type mounted struct{}

// Init schedules the one automatic fetch, always for the aggregate source.
// Until it runs the panel is Idle with no data.
func (p Panel) Init() tea.Cmd {
	return func() tea.Msg { return mounted{} }
}

// Update handles keys, fetch results and spinner ticks.
func (p Panel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if p.logger.Tracing() {
		p.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "panel", Msg: msgName(msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case mounted:
		cmd := p.startFetch(hotnews.AllSourceID)
		return p, cmd

	case FetchResult:
		return p.settle(msg), nil

	case spinner.TickMsg:
		if p.phase != PhaseLoading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p Panel) handleKey(msg tea.KeyMsg) (Panel, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Chip):
		if i, ok := digitIndex(msg.String()); ok && i < len(p.sources) {
			return p.SelectSource(p.sources[i].ID)
		}

	case key.Matches(msg, p.keys.NextSource):
		return p.SelectSource(p.sources[p.shiftIndex(1)].ID)

	case key.Matches(msg, p.keys.PrevSource):
		return p.SelectSource(p.sources[p.shiftIndex(-1)].ID)

	case key.Matches(msg, p.keys.Refresh):
		return p.Refresh()

	case key.Matches(msg, p.keys.Down):
		p.moveCursor(1)

	case key.Matches(msg, p.keys.Up):
		p.moveCursor(-1)

	case key.Matches(msg, p.keys.Top):
		p.cursor = 0

	case key.Matches(msg, p.keys.Bottom):
		if n := len(p.visibleItems()); n > 0 {
			p.cursor = n - 1
		}

	case key.Matches(msg, p.keys.Open):
		return p, p.OpenSelected()

	case key.Matches(msg, p.keys.Pick):
		return p, p.PickSelected()
	}
	return p, nil
}

// SelectSource marks id active and immediately fetches it. This is the
// chip click: it is allowed while a fetch is already in flight.
func (p Panel) SelectSource(id string) (Panel, tea.Cmd) {
	p.active = id
	p.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSourceSelect, Comp: "panel", Source: id})
	cmd := p.startFetch(id)
	return p, cmd
}

// Refresh refetches the active source. It does nothing while loading.
func (p Panel) Refresh() (Panel, tea.Cmd) {
	if !p.RefreshEnabled() {
		return p, nil
	}
	p.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindRefresh, Comp: "panel", Source: p.active})
	cmd := p.startFetch(p.active)
	return p, cmd
}

// startFetch enters Loading, clears the error and returns the request.
// Without a fetch closure nothing could ever settle, so the state is left
// alone.
func (p *Panel) startFetch(sourceID string) tea.Cmd {
	if p.fetch == nil {
		return nil
	}
	wasLoading := p.phase == PhaseLoading
	p.phase = PhaseLoading
	p.errMsg = ""
	p.seq++
	p.inflight++

	cmd := p.fetch(p.seq, sourceID)
	if wasLoading {
		return cmd
	}
	return tea.Batch(cmd, p.spinner.Tick)
}

// settle applies a result unconditionally. Loading ends on any settlement,
// even if another request is still outstanding.
func (p Panel) settle(res FetchResult) Panel {
	if p.inflight > 0 {
		p.inflight--
	}

	ev := otel.Event{Level: otel.LevelInfo, Kind: otel.KindSettle, Comp: "panel", Seq: res.Seq, Source: res.SourceID}
	if res.Err != nil {
		p.phase = PhaseFailed
		p.errMsg = fetch.Message(res.Err)
		ev.Level = otel.LevelWarn
		ev.Err = p.errMsg
	} else {
		p.phase = PhaseLoaded
		p.data = res.Data
		p.errMsg = ""
		p.cursor = 0
		p.offset = 0
		ev.Count = res.Data.ItemCount()
	}
	p.logger.Emit(ev)
	return p
}

// OpenSelected opens the highlighted item's link. It never triggers a pick.
func (p Panel) OpenSelected() tea.Cmd {
	item, ok := p.Selected()
	if !ok || item.URL == "" || p.openURL == nil {
		return nil
	}
	p.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindOpen, Comp: "panel", Source: item.Source, URL: item.URL})
	return p.openURL(item.URL)
}

// PickSelected hands the highlighted item's title to PickQuery verbatim.
func (p Panel) PickSelected() tea.Cmd {
	item, ok := p.Selected()
	if !ok || p.pickQuery == nil {
		return nil
	}
	p.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindPick, Comp: "panel", Source: item.Source, Query: item.Title})
	return p.pickQuery(item.Title)
}

// Selected returns the highlighted item. Items are only selectable while
// the group list is showing.
func (p Panel) Selected() (hotnews.Item, bool) {
	items := p.visibleItems()
	if p.cursor < 0 || p.cursor >= len(items) {
		return hotnews.Item{}, false
	}
	return items[p.cursor], true
}

func (p Panel) visibleItems() []hotnews.Item {
	if p.Body() != BodyGroups {
		return nil
	}
	return p.data.Flatten()
}

func (p *Panel) moveCursor(delta int) {
	n := len(p.visibleItems())
	if n == 0 {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= n {
		p.cursor = n - 1
	}
}

func (p Panel) shiftIndex(delta int) int {
	i := hotnews.IndexOf(p.sources, p.active)
	if i < 0 {
		i = 0
	}
	n := len(p.sources)
	return ((i+delta)%n + n) % n
}

// digitIndex maps "1".."9" to 0..8.
func digitIndex(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

// SetSize sets the render area. Zero width disables truncation.
func (p *Panel) SetSize(w, h int) {
	p.width, p.height = w, h
}

// Accessors, mostly for the host and tests.

func (p Panel) ActiveSource() string { return p.active }
func (p Panel) Phase() Phase { return p.phase }
func (p Panel) Loading() bool { return p.phase == PhaseLoading }
func (p Panel) RefreshEnabled() bool { return p.phase != PhaseLoading }
func (p Panel) Data() *hotnews.Response { return p.data }
func (p Panel) Err() string { return p.errMsg }
func (p Panel) Cursor() int { return p.cursor }
func (p Panel) InFlight() int { return p.inflight }
func (p Panel) Seq() uint64 { return p.seq }
func (p Panel) Sources() []hotnews.SourceOption { return p.sources }
func (p Panel) Keys() KeyMap { return p.keys }

func msgName(msg tea.Msg) string {
	switch msg.(type) {
	case tea.KeyMsg:
		return "key"
	case mounted:
		return "mounted"
	case FetchResult:
		return "fetch_result"
	case spinner.TickMsg:
		return "spinner_tick"
	}
	return "other"
}
