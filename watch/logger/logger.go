// Package logger is the firmware's log front end.
//
// Lines are tagged, consecutive duplicates are collapsed into a repeat count,
// and the most recent entries are kept for on-screen consoles.
package logger

import (
	"fmt"
	"strings"
	"sync"

	"stopwatch/hal"
)

// DefaultEntries is the number of entries kept when New is given zero.
const DefaultEntries = 64

// Entry is a single log line.
type Entry struct {
	Tag      string
	Detail   string
	Repeated int
}

func (e Entry) String() string {
	s := e.Tag + ": " + e.Detail
	if e.Repeated > 0 {
		s += fmt.Sprintf(" (repeat x%d)", e.Repeated+1)
	}
	return s
}

// Logger forwards new entries to a hal.Logger. A nil *Logger drops everything.
type Logger struct {
	mu      sync.Mutex
	out     hal.Logger
	max     int
	entries []Entry
	seq     uint64

	watchers []func(Entry)
}

// New returns a logger writing to out and keeping max entries.
func New(out hal.Logger, max int) *Logger {
	if max <= 0 {
		max = DefaultEntries
	}
	return &Logger{out: out, max: max}
}

// Log adds an entry.
func (l *Logger) Log(tag, detail string) {
	if l == nil {
		return
	}
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	l.mu.Lock()
	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].Repeated++
		l.mu.Unlock()
		return
	}

	e := Entry{Tag: tag, Detail: detail}
	l.entries = append(l.entries, e)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	l.seq++
	watchers := l.watchers
	l.mu.Unlock()

	if l.out != nil {
		l.out.WriteLineString(e.String())
	}
	for _, fn := range watchers {
		fn(e)
	}
}

// Logf adds a formatted entry.
func (l *Logger) Logf(tag, format string, args ...any) {
	if l == nil {
		return
	}
	l.Log(tag, fmt.Sprintf(format, args...))
}

// Watch registers fn to be called with every new (non-repeated) entry.
func (l *Logger) Watch(fn func(Entry)) {
	if l == nil || fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchers = append(l.watchers[:len(l.watchers):len(l.watchers)], fn)
}

// Tail returns up to n of the most recent entries, oldest first.
func (l *Logger) Tail(n int) []Entry {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Count reports how many distinct entries have been logged.
func (l *Logger) Count() uint64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}
