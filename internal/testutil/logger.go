// Package testutil provides shared test helpers: loggers bound to the test
// and capture fixtures.
package testutil

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	logger, _ := NewRecordingLogger(t)
	return logger
}

// NewRecordingLogger is NewTestLogger that also keeps every record, so a
// test can check what a component reported.
func NewRecordingLogger(t testing.TB) (*slog.Logger, *Logs) {
	t.Helper()
	logs := &Logs{}
	text := slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return slog.New(&recordingHandler{Handler: text, logs: logs}), logs
}

// LogEntry is one recorded log line with its attributes rendered as text.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// Logs collects the entries of a recording logger. It is safe for
// concurrent use.
type Logs struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Entries returns a copy of everything logged so far.
func (l *Logs) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Find returns the first entry with the given level and message.
func (l *Logs) Find(level slog.Level, msg string) (LogEntry, bool) {
	for _, e := range l.Entries() {
		if e.Level == level && e.Message == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}

func (l *Logs) add(e LogEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

type recordingHandler struct {
	slog.Handler
	logs  *Logs
	attrs []slog.Attr
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	e := LogEntry{Level: r.Level, Message: r.Message, Attrs: make(map[string]string)}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.String()
		return true
	})
	h.logs.add(e)
	return h.Handler.Handle(ctx, r)
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{
		Handler: h.Handler.WithAttrs(attrs),
		logs:    h.logs,
		attrs:   append(slices.Clone(h.attrs), attrs...),
	}
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return &recordingHandler{Handler: h.Handler.WithGroup(name), logs: h.logs, attrs: h.attrs}
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
