// Package events turns the per-frame classifier output into a sparse,
// time-stamped event log.
package events

import (
	"fmt"
	"strings"
	"time"
)

// MaxEntries is the most entries a Log keeps before evicting the oldest.
const MaxEntries = 500

// StampLayout is the wall-clock format used for entry timestamps.
const StampLayout = "15:04:05"

// Entry is a single logged event.
type Entry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// String renders the entry as a log line, e.g. "14:03:07 - Detected: Fist".
func (e Entry) String() string {
	return e.Time.Format(StampLayout) + " - " + e.Message
}

// Log is a bounded, append-only event history. It is not safe for
// concurrent use; callers serialize access.
type Log struct {
	entries []Entry
	max     int
}

// NewLog creates an empty log holding at most MaxEntries entries.
func NewLog() *Log {
	return newLog(MaxEntries)
}

func newLog(max int) *Log {
	return &Log{
		entries: make([]Entry, 0, max),
		max:     max,
	}
}

// Append adds an entry, evicting the oldest one when the log is full.
func (l *Log) Append(e Entry) {
	if len(l.entries) >= l.max {
		// Shift left by 1, removing the oldest entry
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.max-1]
	}
	l.entries = append(l.entries, e)
}

// Len returns the number of entries held.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the log, oldest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns up to n entries, most recent first. n <= 0 returns all.
func (l *Log) Recent(n int) []Entry {
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out
}

// Clear empties the log and records a "Log cleared" marker as the first
// new entry.
func (l *Log) Clear(now time.Time) {
	l.entries = l.entries[:0]
	l.Append(Entry{Time: now, Message: "Log cleared"})
}

// Export renders every entry, oldest first, one per line. An empty log
// exports as empty content.
func (l *Log) Export() []byte {
	lines := make([]string, len(l.entries))
	for i, e := range l.entries {
		lines[i] = e.String()
	}
	return []byte(strings.Join(lines, "\n"))
}

// ExportFilename names an export file after the epoch millisecond time.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("gesture-log-%d.txt", now.UnixMilli())
}
