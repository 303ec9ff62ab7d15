// history.go implements the executed-query history.
//
// The history is owned by whoever creates it (typically cmd or the TUI)
// and handed to the agent's execute_sql tool, which appends every
// statement it runs as a side effect. Entries appear in call order and
// include failures. Guarded by a mutex because the TUI reads it from
// another goroutine while an agent run is in flight.
package db

import (
	"sync"
	"time"
)

// History statuses.
const (
	HistoryOK    = "ok"
	HistoryError = "error"
)

// HistoryEntry records a single executed SQL statement.
type HistoryEntry struct {
	SQL       string
	Status    string // HistoryOK or HistoryError
	Error     string // error text when Status is HistoryError
	Rows      int    // rows returned or affected
	Duration  time.Duration
	CreatedAt time.Time
}

// History is an ordered record of executed SQL statements.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records an entry, stamping CreatedAt if unset.
func (h *History) Append(e HistoryEntry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
}

// Entries returns a copy of all entries in append order.
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Statements returns just the SQL strings in append order.
func (h *History) Statements() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.SQL
	}
	return out
}
