// Package session owns the uploaded dataset and its conversation
// state: time-boxed in-memory sessions with lazy and periodic expiry.
package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sheetmind/sheetmind/internal/dataset"
)

// EntryType tags conversation entries.
type EntryType string

const (
	EntryQuestion EntryType = "question"
	EntryResponse EntryType = "response"
)

// Entry is one conversation log item: the raw question text or the
// structured analysis result, with its append timestamp.
type Entry struct {
	Type      EntryType `json:"type"`
	Content   any       `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session binds one uploaded dataset to its conversation history for a
// bounded lifetime. The dataset is immutable after ingestion; only the
// log mutates, guarded by its own lock so appends from concurrent
// questions never lose entries.
type Session struct {
	ID        string
	Data      dataset.Dataset
	Columns   []string
	CreatedAt time.Time
	ExpiresAt time.Time

	seq uint64 // insertion order, tie-break for MostRecentActive

	mu      sync.Mutex
	entries []Entry
}

// Append adds an entry at the end of the log. Order is append order:
// whichever concurrent request reaches Append first is logged first.
func (s *Session) Append(t EntryType, content any, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Type: t, Content: content, Timestamp: now})
}

// Entries returns a snapshot copy of the log.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len is the current log length.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RecentContext renders the last n entries as "<type>: <content>"
// lines for the LLM prompt. Structured response entries are rendered
// as compact JSON.
func (s *Session) RecentContext(n int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.entries) - n
	if start < 0 {
		start = 0
	}
	lines := make([]string, 0, len(s.entries)-start)
	for _, e := range s.entries[start:] {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Type, renderContent(e.Content)))
	}
	return strings.Join(lines, "\n")
}

func renderContent(content any) string {
	if s, ok := content.(string); ok {
		return s
	}
	b, err := json.Marshal(content)
	if err != nil {
		return fmt.Sprintf("%v", content)
	}
	return string(b)
}
