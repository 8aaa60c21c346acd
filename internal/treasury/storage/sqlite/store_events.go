package sqlite

import (
	"context"
	"fmt"

	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// Append persists all events in one transaction, assigning ascending
// sequence numbers, and returns the stored copies.
func (s *Store) Append(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append transaction: %w", err)
	}

	stored := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if !ev.Type.IsValid() {
			_ = tx.Rollback()
			return nil, fmt.Errorf("event type is required")
		}
		result, err := tx.ExecContext(ctx, `
INSERT INTO treasury_events (type, cult_id, timestamp_ms, payload)
VALUES (?, ?, ?, ?)
`, string(ev.Type), uint64(ev.CultID), toMillis(ev.Timestamp), string(ev.PayloadJSON))
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("insert event: %w", err)
		}
		seq, err := result.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("read event seq: %w", err)
		}
		ev.Seq = uint64(seq)
		stored = append(stored, ev)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append transaction: %w", err)
	}
	return stored, nil
}

// List returns up to limit events with Seq > afterSeq, in sequence order.
// A non-positive limit returns everything.
func (s *Store) List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT seq, type, cult_id, timestamp_ms, payload
FROM treasury_events
WHERE seq > ?
ORDER BY seq
LIMIT ?
`, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			ev          event.Event
			evType      string
			cultID      uint64
			timestampMS int64
			payload     string
		)
		if err := rows.Scan(&ev.Seq, &evType, &cultID, &timestampMS, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Type = event.Type(evType)
		ev.CultID = domain.CultID(cultID)
		ev.Timestamp = fromMillis(timestampMS)
		ev.PayloadJSON = []byte(payload)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
