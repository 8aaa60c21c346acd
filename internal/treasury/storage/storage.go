// Package storage defines the persistence boundaries for the treasury
// service: the append-only audit journal and the engine state store.
package storage

import (
	"context"
	"errors"

	"github.com/ansu555/Moltiverse-cult/internal/treasury/engine"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Journal stores the audit trail. Append persists all events in one
// transaction, assigns ascending sequence numbers starting at 1, and returns
// the stored copies.
type Journal interface {
	Append(ctx context.Context, events []event.Event) ([]event.Event, error)
	// List returns up to limit events with Seq > afterSeq, in order.
	List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error)
}

// StateStore persists full engine snapshots so a restart resumes from the
// last saved state.
type StateStore interface {
	SaveState(ctx context.Context, state engine.State) error
	// LoadState returns ErrNotFound when no state has been saved yet.
	LoadState(ctx context.Context) (engine.State, error)
}
