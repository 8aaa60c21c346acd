package engine_test

import (
	"context"
	"math/big"
	"testing"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

func TestTransferFundsMovesAvailableBalance(t *testing.T) {
	e, journal, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)
	mustInit(t, e, 2, 50)

	result, err := e.TransferFunds(ctx, operator, 1, 2, big.NewInt(40), domain.TransferTribute)
	if err != nil {
		t.Fatalf("transfer funds: %v", err)
	}
	if result.SourceDied {
		t.Fatal("source should survive a partial transfer")
	}

	from, err := e.GetTreasury(1)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	to, err := e.GetTreasury(2)
	if err != nil {
		t.Fatalf("get target: %v", err)
	}
	if from.Balance.Cmp(big.NewInt(60)) != 0 || to.Balance.Cmp(big.NewInt(90)) != 0 {
		t.Fatalf("unexpected balances: from=%s to=%s", from.Balance, to.Balance)
	}
	checkConservation(t, e, 1)
	checkConservation(t, e, 2)

	events := journal.Events()
	last := events[len(events)-1]
	if last.Type != event.TypeInterCultTransfer {
		t.Fatalf("expected InterCultTransfer event, got %s", last.Type)
	}
	var payload event.InterCultTransferPayload
	if err := event.UnmarshalPayload(last.PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.FromID != 1 || payload.ToID != 2 || payload.TransferType != "tribute" {
		t.Fatalf("unexpected transfer payload: %+v", payload)
	}
}

func TestTransferFundsRespectsLockedFunds(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)
	mustInit(t, e, 2, 0)

	if _, err := e.LockFunds(ctx, operator, 1, big.NewInt(80), "wager"); err != nil {
		t.Fatalf("lock funds: %v", err)
	}
	// Available is 20, so moving 25 must fail even though the balance is 100.
	_, err := e.TransferFunds(ctx, operator, 1, 2, big.NewInt(25), domain.TransferBribe)
	wantCode(t, err, apperrors.CodeInsufficientUnlockedFunds)

	if _, err := e.TransferFunds(ctx, operator, 1, 2, big.NewInt(20), domain.TransferBribe); err != nil {
		t.Fatalf("transfer within available: %v", err)
	}
}

func TestTransferFundsGuards(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)
	mustInit(t, e, 2, 100)
	mustInit(t, e, 3, 10)
	if _, err := e.RecordOutflow(ctx, operator, 3, big.NewInt(10), "drain"); err != nil {
		t.Fatalf("kill cult 3: %v", err)
	}

	tests := []struct {
		name   string
		from   domain.CultID
		to     domain.CultID
		amount int64
		code   apperrors.Code
	}{
		{"self transfer", 1, 1, 10, apperrors.CodeSelfTransferNotAllowed},
		{"dead source", 3, 2, 10, apperrors.CodeSourceDead},
		{"dead target", 1, 3, 10, apperrors.CodeTargetDead},
		{"unknown source", 404, 2, 10, apperrors.CodeNotFound},
		{"unknown target", 1, 404, 10, apperrors.CodeNotFound},
		{"zero amount", 1, 2, 0, apperrors.CodeInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.TransferFunds(ctx, operator, tt.from, tt.to, big.NewInt(tt.amount), domain.TransferDonation)
			wantCode(t, err, tt.code)
		})
	}
}

func TestTransferFundsDrainKillsSource(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)
	mustInit(t, e, 2, 0)

	result, err := e.TransferFunds(ctx, operator, 1, 2, big.NewInt(100), domain.TransferRaidSpoils)
	if err != nil {
		t.Fatalf("transfer funds: %v", err)
	}
	if !result.SourceDied {
		t.Fatal("expected the drained source to die")
	}
	from, err := e.GetTreasury(1)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if from.Alive || from.DeathCount != 1 {
		t.Fatalf("expected dead source with death count 1, got %+v", from)
	}
	checkConservation(t, e, 1)
	checkConservation(t, e, 2)
}
