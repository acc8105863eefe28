// Package otel records structured events for hotnews.
//
// Events are flat structs written as JSONL by an asynchronous Logger. A
// RingBuffer passed in Options keeps the most recent events in memory for the
// debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level is event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is "<subsystem>.<action>".
type EventKind string

const (
	// Network
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"

	// Panel interactions
	KindSourceSelect EventKind = "panel.source"
	KindRefresh      EventKind = "panel.refresh"
	KindPick         EventKind = "panel.pick"
	KindOpen         EventKind = "panel.open"
	KindSettle       EventKind = "panel.settle"

	// Host
	KindQuerySubmit EventKind = "query.submit"
	KindStoreError  EventKind = "store.error"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Emitted only when HOTNEWS_TRACE is set.
	KindMsgReceived EventKind = "trace.msg"
)

// Event is the single record type. Only Kind is required.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "panel", "fetch", "app", "main", "devserver"
	SessionID string         `json:"session_id,omitempty"`
	Seq       uint64         `json:"seq,omitempty"` // fetch sequence number
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Count     int            `json:"count,omitempty"`
	Status    int            `json:"status,omitempty"`
	Source    string         `json:"source,omitempty"`
	Query     string         `json:"query,omitempty"`
	URL       string         `json:"url,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON fills DurMs from Dur.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
