package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

func TestJournalAssignsAscendingSeq(t *testing.T) {
	j := NewJournal()
	ctx := context.Background()
	now := time.Now()

	first, err := j.Append(ctx, []event.Event{
		{Type: event.TypeTreasuryInitialized, CultID: 1, Timestamp: now},
		{Type: event.TypeInflowRecorded, CultID: 1, Timestamp: now},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first[0].Seq != 1 || first[1].Seq != 2 {
		t.Fatalf("expected seq 1,2, got %d,%d", first[0].Seq, first[1].Seq)
	}

	second, err := j.Append(ctx, []event.Event{
		{Type: event.TypeCultDied, CultID: 1, Timestamp: now},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if second[0].Seq != 3 {
		t.Fatalf("expected seq 3, got %d", second[0].Seq)
	}
}

func TestJournalList(t *testing.T) {
	j := NewJournal()
	ctx := context.Background()
	if _, err := j.Append(ctx, []event.Event{
		{Type: event.TypeTreasuryInitialized},
		{Type: event.TypeInflowRecorded},
		{Type: event.TypeOutflowRecorded},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	listed, err := j.List(ctx, 1, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].Seq != 2 {
		t.Fatalf("expected events 2..3, got %v", listed)
	}

	limited, err := j.List(ctx, 0, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(limited) != 1 || limited[0].Seq != 1 {
		t.Fatalf("expected only the first event, got %v", limited)
	}
}
