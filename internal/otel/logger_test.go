package otel

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestEmitWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Options{})

	l.Emit(Event{Kind: KindFetchStart, Level: LevelInfo, Comp: "fetch", Source: "cls", Seq: 3})
	l.Close()

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	ev := lines[0]
	if ev["kind"] != "fetch.start" || ev["level"] != "info" || ev["comp"] != "fetch" {
		t.Errorf("unexpected event: %v", ev)
	}
	if ev["source"] != "cls" {
		t.Errorf("expected source=cls, got %v", ev["source"])
	}
	if ev["seq"] != float64(3) {
		t.Errorf("expected seq=3, got %v", ev["seq"])
	}
}

func TestEmitStampsTimeAndSession(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Options{})

	before := time.Now()
	l.Emit(Event{Kind: KindStartup})
	l.Close()
	after := time.Now()

	var ev Event
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Time.Before(before) || ev.Time.After(after) {
		t.Errorf("time %v outside [%v, %v]", ev.Time, before, after)
	}
	if ev.SessionID != l.SessionID() || len(ev.SessionID) != 16 {
		t.Errorf("unexpected session id %q", ev.SessionID)
	}
}

func TestDurationInMilliseconds(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Options{})

	l.Emit(Event{Kind: KindFetchComplete, Dur: 250 * time.Millisecond})
	l.Close()

	lines := decodeLines(t, &buf)
	if lines[0]["dur_ms"] != float64(250) {
		t.Errorf("expected dur_ms=250, got %v", lines[0]["dur_ms"])
	}
}

func TestEmptyFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Options{})

	l.Emit(Event{Kind: KindShutdown})
	l.Close()

	line := buf.String()
	for _, field := range []string{"dur_ms", "count", "status", "source", "query", "url", "err", "msg", "extra", "seq"} {
		if strings.Contains(line, `"`+field+`"`) {
			t.Errorf("field %q should be omitted: %s", field, line)
		}
	}
}

func TestConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Emit(Event{Kind: KindPick, Comp: "panel"})
		}()
	}
	wg.Wait()
	l.Close()

	if got := len(decodeLines(t, &buf)); got != 50 {
		t.Errorf("expected 50 lines, got %d", got)
	}
}

func TestEmitAfterCloseIsDropped(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Options{})
	l.Close()

	l.Emit(Event{Kind: KindStartup})
	if l.Dropped() != 1 {
		t.Errorf("expected 1 dropped event, got %d", l.Dropped())
	}
	// second Close is a no-op
	l.Close()
}

func TestNilLoggerEmit(t *testing.T) {
	var l *Logger
	l.Emit(Event{Kind: KindStartup})
	l.Info(KindStartup, "main", "ok")
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Options{})

	l.Info(KindStartup, "main", "starting")
	l.Warn(KindFetchError, "fetch", "slow")
	l.Error(KindStoreError, "app", errors.New("disk full"))
	l.Close()

	lines := decodeLines(t, &buf)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []struct{ level, kind string }{
		{"info", "sys.startup"},
		{"warn", "fetch.error"},
		{"error", "store.error"},
	}
	for i, w := range want {
		if lines[i]["level"] != w.level || lines[i]["kind"] != w.kind {
			t.Errorf("line %d: got level=%v kind=%v, want %s %s", i, lines[i]["level"], lines[i]["kind"], w.level, w.kind)
		}
	}
	if lines[2]["err"] != "disk full" {
		t.Errorf("expected err=disk full, got %v", lines[2]["err"])
	}
}

func TestRingFedSynchronously(t *testing.T) {
	ring := NewRingBuffer(4)
	l := NewLogger(io.Discard, Options{Ring: ring})
	defer l.Close()

	l.Info(KindRefresh, "panel", "")
	l.Info(KindPick, "panel", "")

	// No Close: the ring must already hold both.
	if ring.Len() != 2 {
		t.Fatalf("expected 2 events in ring, got %d", ring.Len())
	}
	if ring.Stats()[KindPick] != 1 {
		t.Errorf("expected one pick event, got %v", ring.Stats())
	}
	if last := ring.Last(1); last[0].SessionID != l.SessionID() {
		t.Errorf("ring events should be stamped, got session %q", last[0].SessionID)
	}
}

func TestMinLevelFiltersWriterOnly(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingBuffer(8)
	l := NewLogger(&buf, Options{Ring: ring, MinLevel: LevelWarn})

	l.Emit(Event{Level: LevelDebug, Kind: KindMsgReceived})
	l.Info(KindRefresh, "panel", "")
	l.Warn(KindFetchError, "fetch", "slow")
	l.Close()

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["kind"] != "fetch.error" {
		t.Errorf("expected only the warn line, got %v", lines)
	}
	if ring.Len() != 3 {
		t.Errorf("ring should see every level, got %d", ring.Len())
	}
	if l.Written() != 1 || l.Dropped() != 0 {
		t.Errorf("written=%d dropped=%d, want 1 and 0", l.Written(), l.Dropped())
	}
}

func TestTracingOption(t *testing.T) {
	on := NewLogger(io.Discard, Options{Trace: true})
	defer on.Close()
	off := NewNullLogger()
	defer off.Close()

	if !on.Tracing() || off.Tracing() {
		t.Error("Tracing should follow Options.Trace")
	}
	var nilLogger *Logger
	if nilLogger.Tracing() {
		t.Error("nil logger never traces")
	}
}
