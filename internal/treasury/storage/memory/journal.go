// Package memory provides an in-memory audit journal, mainly for tests.
package memory

import (
	"context"
	"sync"

	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// Journal is an in-memory append-only event log.
type Journal struct {
	mu     sync.Mutex
	events []event.Event
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append stores the events and assigns their sequence numbers.
func (j *Journal) Append(ctx context.Context, events []event.Event) ([]event.Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	stored := make([]event.Event, 0, len(events))
	for _, ev := range events {
		ev.Seq = uint64(len(j.events)) + 1
		j.events = append(j.events, ev)
		stored = append(stored, ev)
	}
	return stored, nil
}

// List returns up to limit events with Seq > afterSeq, in order.
func (j *Journal) List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []event.Event
	for _, ev := range j.events {
		if ev.Seq <= afterSeq {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Events returns a copy of every stored event.
func (j *Journal) Events() []event.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]event.Event, len(j.events))
	copy(out, j.events)
	return out
}
