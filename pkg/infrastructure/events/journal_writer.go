package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

var _ EventHandler = (*JournalWriter)(nil)

// JournalWriter is a subscriber that encodes each event it receives as one
// JSON line. With no event types it accepts everything.
type JournalWriter struct {
	mu      sync.Mutex
	enc     *json.Encoder
	types   map[string]bool
	written int
}

func NewJournalWriter(w io.Writer, eventTypes ...string) *JournalWriter {
	types := make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		types[eventType] = true
	}
	return &JournalWriter{enc: json.NewEncoder(w), types: types}
}

func (j *JournalWriter) Handle(event Event) error {
	entry := BaseEvent{
		EventType:    event.Type(),
		Stream:       event.StreamID(),
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: event.Version(),
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(entry); err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type(), err)
	}
	j.written++
	return nil
}

func (j *JournalWriter) CanHandle(eventType string) bool {
	return len(j.types) == 0 || j.types[eventType]
}

// Written returns the number of events encoded so far
func (j *JournalWriter) Written() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.written
}
