package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/hotnews/internal/otel"
)

func TestDebugOverlayNilRing(t *testing.T) {
	if got := debugOverlay(nil, 80, 24); got != "" {
		t.Errorf("nil ring should render nothing, got %q", got)
	}
}

func TestDebugOverlayStats(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	now := time.Now()
	ring.Push(otel.Event{Kind: otel.KindFetchStart, Time: now})
	ring.Push(otel.Event{Kind: otel.KindFetchStart, Time: now})
	ring.Push(otel.Event{Kind: otel.KindFetchComplete, Time: now})
	ring.Push(otel.Event{Kind: otel.KindFetchError, Time: now})
	ring.Push(otel.Event{Kind: otel.KindPick, Time: now})

	result := debugOverlay(ring, 100, 40)

	for _, want := range []string{
		"Requests",
		"2 started, 1 complete, 1 errors",
		"1 pick",
		"5 / 64 events",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("overlay missing %q, got:\n%s", want, result)
		}
	}
}

func TestDebugOverlayRecentEvents(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindSettle, Time: time.Now(), Seq: 3, Source: "cls"})
	ring.Push(otel.Event{Kind: otel.KindFetchError, Time: time.Now(), Err: "timeout"})
	ring.Push(otel.Event{Kind: otel.KindPick, Time: time.Now(), Query: "降准"})

	result := debugOverlay(ring, 100, 40)

	for _, want := range []string{"Recent Events", "#3", "cls", "ERR:timeout", "q:降准"} {
		if !strings.Contains(result, want) {
			t.Errorf("overlay missing %q, got:\n%s", want, result)
		}
	}
}

func TestDebugOverlayTruncation(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	for i := 0; i < 30; i++ {
		ring.Push(otel.Event{Kind: otel.KindFetchStart, Time: time.Now()})
	}

	result := debugOverlay(ring, 80, 10)
	if result == "" {
		t.Fatal("overlay should still render with small height")
	}
	// maxHeight=6 content lines plus border and padding.
	if lines := strings.Count(result, "\n") + 1; lines > 12 {
		t.Errorf("overlay should be truncated, got %d lines", lines)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{0, "0ms"},
		{50 * time.Millisecond, "50ms"},
		{1500 * time.Millisecond, "1.5s"},
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "2m"},
		{-5 * time.Second, "0ms"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.dur); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.dur, got, tt.want)
		}
	}
}
