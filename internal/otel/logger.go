package otel

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// backlog bounds the encoded lines waiting for the writer.
const backlog = 2048

// Options configures a Logger. The zero value writes every level, keeps no
// ring and does not trace.
type Options struct {
	// Ring receives every event as it is emitted, before level filtering
	// and independent of writer backlog.
	Ring *RingBuffer
	// MinLevel is the lowest level written to the JSONL stream. Unknown or
	// empty means debug.
	MinLevel Level
	// Trace enables per-message events from the UI (KindMsgReceived).
	Trace bool
}

// Logger feeds an optional RingBuffer synchronously and writes JSONL
// through a buffered writer on a background goroutine. Emit never blocks.
type Logger struct {
	ring      *RingBuffer
	minRank   int
	trace     bool
	sessionID string

	lines     chan []byte
	out       *bufio.Writer
	written   atomic.Uint64
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger starts a Logger writing to w. Call Close to flush.
func NewLogger(w io.Writer, opts Options) *Logger {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	l := &Logger{
		ring:      opts.Ring,
		minRank:   levelRank(opts.MinLevel),
		trace:     opts.Trace,
		sessionID: fmt.Sprintf("%x", sid[:]),
		lines:     make(chan []byte, backlog),
		out:       bufio.NewWriter(w),
		done:      make(chan struct{}),
	}
	go l.writeLoop()
	return l
}

// NewNullLogger returns a Logger that writes nothing.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard, Options{})
}

func levelRank(lv Level) int {
	switch lv {
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	}
	return 0
}

// writeLoop flushes whenever the backlog runs dry, so a quiet UI still gets
// its events on disk promptly.
func (l *Logger) writeLoop() {
	defer close(l.done)
	for line := range l.lines {
		if _, err := l.out.Write(line); err != nil {
			l.dropped.Add(1)
			continue
		}
		l.written.Add(1)
		if len(l.lines) == 0 {
			if err := l.out.Flush(); err != nil {
				l.dropped.Add(1)
			}
		}
	}
	_ = l.out.Flush()
}

// Emit stamps e with time and session, pushes it to the ring and queues it
// for writing if it passes MinLevel.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	if l.ring != nil {
		l.ring.Push(e)
	}
	if levelRank(e.Level) < l.minRank {
		return
	}
	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	l.enqueue(append(line, '\n'))
}

func (l *Logger) enqueue(line []byte) {
	defer func() {
		// Close raced us and the channel is gone.
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()
	select {
	case l.lines <- line:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info event.
func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn event.
func (l *Logger) Warn(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error event. A nil err is logged with an empty Err.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	var s string
	if err != nil {
		s = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: s})
}

// Tracing reports whether per-message UI events should be emitted.
func (l *Logger) Tracing() bool {
	return l != nil && l.trace
}

func (l *Logger) SessionID() string { return l.sessionID }

// Written returns how many lines reached the writer.
func (l *Logger) Written() uint64 { return l.written.Load() }

// Dropped returns how many events never reached the writer.
func (l *Logger) Dropped() uint64 { return l.dropped.Load() }

// Close writes out the backlog and stops the writer. Idempotent.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.lines)
		<-l.done

		if d := l.dropped.Load(); d > 0 {
			fmt.Fprintf(os.Stderr, "hotnews: %d events dropped in session %s\n", d, l.sessionID)
		}
	})
}
