package main

import (
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/pkg/browser"

	"github.com/abelbrown/hotnews/internal/config"
	"github.com/abelbrown/hotnews/internal/fetch"
	"github.com/abelbrown/hotnews/internal/logging"
	"github.com/abelbrown/hotnews/internal/otel"
	"github.com/abelbrown/hotnews/internal/store"
	"github.com/abelbrown/hotnews/internal/ui"
	"github.com/abelbrown/hotnews/internal/ui/panel"
)

// historyRetention bounds how long recorded queries are kept.
const historyRetention = 90 * 24 * time.Hour

func main() {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal("create data directory", "err", err)
	}

	if err := logging.Init(cfg.DataDir, cfg.LogLevel); err != nil {
		log.Fatal("init logging", "err", err)
	}
	defer logging.Close()

	// Structured events: JSONL on disk plus the in-memory ring for the
	// debug overlay.
	eventFile, err := os.OpenFile(cfg.EventLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal("open event log", "err", err)
	}
	defer eventFile.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events := otel.NewLogger(eventFile, otel.Options{
		Ring:     ring,
		MinLevel: otel.Level(cfg.LogLevel),
		Trace:    cfg.Trace,
	})
	defer events.Close()

	base := cfg.ResolveBase()
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStartup, Comp: "main", URL: base})
	logging.Info("starting", "base", base, "dev", cfg.Dev, "session", events.SessionID())

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		log.Fatal("open database", "err", err)
	}
	defer st.Close()
	if n, err := st.DeleteBefore(time.Now().Add(-historyRetention)); err != nil {
		logging.Warn("prune history", "err", err)
	} else if n > 0 {
		logging.Info("pruned history", "rows", n)
	}

	fetcher := fetch.NewFetcher(fetch.Config{
		Base:      base,
		ItemCount: cfg.Panel.ItemCount,
		Sources:   cfg.Panel.Sources,
		Timeout:   time.Duration(cfg.Timeout),
	}, events)

	// The launched browser must not write into the alt screen.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	app := ui.NewApp(ui.AppConfig{
		Panel:        panel.Config{Sources: cfg.Panel.Sources},
		FetchHotNews: panel.FetchWith(fetcher),
		OpenURL: func(url string) tea.Cmd {
			return func() tea.Msg {
				return ui.URLOpened{URL: url, Err: browser.OpenURL(url)}
			}
		},
		SubmitQuery: func(q store.Query) tea.Cmd {
			return func() tea.Msg {
				if q.CreatedAt.IsZero() {
					q.CreatedAt = time.Now()
				}
				id, err := st.RecordQuery(q)
				if err != nil {
					return ui.QueryRecorded{Err: err}
				}
				q.ID = id
				return ui.QueryRecorded{Query: q}
			}
		},
		LoadHistory: func() tea.Cmd {
			return func() tea.Msg {
				qs, err := st.RecentQueries(5)
				return ui.HistoryLoaded{Queries: qs, Err: err}
			}
		},
		Ring:   ring,
		Logger: events,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logging.Error("program exited", "err", err)
		events.Error(otel.KindError, "main", err)
	}
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShutdown, Comp: "main"})
}
