package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryAppendOrder(t *testing.T) {
	h := NewHistory()
	h.Append(HistoryEntry{SQL: "SELECT 1", Status: HistoryOK})
	h.Append(HistoryEntry{SQL: "SELECT 2", Status: HistoryError, Error: "boom"})
	h.Append(HistoryEntry{SQL: "SELECT 3", Status: HistoryOK})

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"SELECT 1", "SELECT 2", "SELECT 3"}, h.Statements())

	entries := h.Entries()
	assert.Equal(t, HistoryError, entries[1].Status)
	assert.Equal(t, "boom", entries[1].Error)
	assert.False(t, entries[0].CreatedAt.IsZero(), "CreatedAt should be stamped")
}

func TestHistoryEntriesReturnsCopy(t *testing.T) {
	h := NewHistory()
	h.Append(HistoryEntry{SQL: "SELECT 1"})

	entries := h.Entries()
	entries[0].SQL = "mutated"

	assert.Equal(t, "SELECT 1", h.Entries()[0].SQL)
}
