package engine_test

import (
	"context"
	"math/big"
	"testing"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
)

func TestLockFundsWithinAvailable(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	locked, err := e.LockFunds(ctx, operator, 1, big.NewInt(80), "raid wager")
	if err != nil {
		t.Fatalf("lock funds: %v", err)
	}
	if locked.Cmp(big.NewInt(80)) != 0 {
		t.Fatalf("expected locked 80, got %s", locked)
	}
	available, err := e.GetAvailableBalance(1)
	if err != nil {
		t.Fatalf("get available: %v", err)
	}
	if available.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("expected available 20, got %s", available)
	}

	// Locked funds stay on the ledger.
	status, err := e.GetTreasury(1)
	if err != nil {
		t.Fatalf("get treasury: %v", err)
	}
	if status.Balance.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected balance 100, got %s", status.Balance)
	}
	checkConservation(t, e, 1)
}

func TestLockFundsBeyondAvailableRejected(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	if _, err := e.LockFunds(ctx, operator, 1, big.NewInt(80), "first"); err != nil {
		t.Fatalf("lock funds: %v", err)
	}
	_, err := e.LockFunds(ctx, operator, 1, big.NewInt(21), "second")
	wantCode(t, err, apperrors.CodeInsufficientUnlockedFunds)
}

func TestReleaseFunds(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	if _, err := e.LockFunds(ctx, operator, 1, big.NewInt(50), "wager"); err != nil {
		t.Fatalf("lock funds: %v", err)
	}
	locked, err := e.ReleaseFunds(ctx, operator, 1, big.NewInt(30))
	if err != nil {
		t.Fatalf("release funds: %v", err)
	}
	if locked.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("expected locked 20, got %s", locked)
	}

	_, err = e.ReleaseFunds(ctx, operator, 1, big.NewInt(21))
	wantCode(t, err, apperrors.CodeInsufficientLocked)
}

func TestGetAvailableBalanceDeadCultIsZero(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	if _, err := e.RecordOutflow(ctx, operator, 1, big.NewInt(100), "drain"); err != nil {
		t.Fatalf("record outflow: %v", err)
	}
	available, err := e.GetAvailableBalance(1)
	if err != nil {
		t.Fatalf("get available: %v", err)
	}
	if available.Sign() != 0 {
		t.Fatalf("expected zero available for dead cult, got %s", available)
	}
}

func TestGetAvailableBalanceNotFound(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.GetAvailableBalance(404)
	wantCode(t, err, apperrors.CodeNotFound)
}
