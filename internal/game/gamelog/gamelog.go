// Package gamelog records the player-facing narrative of a run.
package gamelog

import "fmt"

// Log is an append-only list of narrative lines.
type Log struct {
	entries []string
}

// New creates an empty Log.
func New() *Log {
	return &Log{}
}

// Append adds one line.
func (l *Log) Append(line string) {
	l.entries = append(l.entries, line)
}

// Appendf formats and adds one line.
func (l *Log) Appendf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

// Entries returns a copy of every line in order.
func (l *Log) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Len returns the number of lines.
func (l *Log) Len() int {
	return len(l.entries)
}

// Tail returns up to n of the most recent lines, oldest first.
func (l *Log) Tail(n int) []string {
	if n >= len(l.entries) {
		return l.Entries()
	}
	return append([]string(nil), l.entries[len(l.entries)-n:]...)
}
