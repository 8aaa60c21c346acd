package engine_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
)

func TestRebirthGating(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)
	if _, err := e.RecordOutflow(ctx, operator, 1, big.NewInt(100), "drain"); err != nil {
		t.Fatalf("kill cult: %v", err)
	}

	// One second after death the cooldown is still active.
	clock.Advance(time.Second)
	_, err := e.Rebirth(ctx, operator, 1, big.NewInt(100))
	wantCode(t, err, apperrors.CodeCooldownActive)
	if ok, err := e.CanRebirth(1); err != nil || ok {
		t.Fatalf("expected CanRebirth false during cooldown, ok=%v err=%v", ok, err)
	}

	// After the cooldown, funding below the minimum is rejected.
	clock.Advance(300 * time.Second)
	_, err = e.Rebirth(ctx, operator, 1, big.NewInt(99))
	wantCode(t, err, apperrors.CodeBelowMinimumFunding)
	if ok, err := e.CanRebirth(1); err != nil || !ok {
		t.Fatalf("expected CanRebirth true after cooldown, ok=%v err=%v", ok, err)
	}

	// Valid funding resurrects the cult.
	status, err := e.Rebirth(ctx, operator, 1, big.NewInt(100))
	if err != nil {
		t.Fatalf("rebirth: %v", err)
	}
	if !status.Alive {
		t.Fatal("expected reborn cult to be alive")
	}
	if status.Balance.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected balance 100, got %s", status.Balance)
	}
	checkConservation(t, e, 1)
}

func TestRebirthPreservesLifetimeCounters(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)
	if _, err := e.RecordOutflow(ctx, operator, 1, big.NewInt(100), "drain"); err != nil {
		t.Fatalf("kill cult: %v", err)
	}
	clock.Advance(301 * time.Second)

	status, err := e.Rebirth(ctx, operator, 1, big.NewInt(100))
	if err != nil {
		t.Fatalf("rebirth: %v", err)
	}
	if status.DeathCount != 1 {
		t.Fatalf("death count must survive rebirth, got %d", status.DeathCount)
	}
	// Lifetime inflow covers both lives: 100 initial + 100 rebirth.
	if status.TotalInflow.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("expected lifetime inflow 200, got %s", status.TotalInflow)
	}
	if status.TotalOutflow.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected lifetime outflow 100, got %s", status.TotalOutflow)
	}
	if e.Stats().TotalDeaths != 1 {
		t.Fatalf("global deaths must survive rebirth, got %d", e.Stats().TotalDeaths)
	}
}

func TestRebirthLifecycleGuards(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	// Alive cults cannot be reborn.
	_, err := e.Rebirth(ctx, operator, 1, big.NewInt(100))
	wantCode(t, err, apperrors.CodeStillAlive)

	// Unknown cults are not found.
	_, err = e.Rebirth(ctx, operator, 404, big.NewInt(100))
	wantCode(t, err, apperrors.CodeNotFound)
	_, err = e.CanRebirth(404)
	wantCode(t, err, apperrors.CodeNotFound)
}

func TestSetDeathCooldownAndMinFunding(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)
	if _, err := e.RecordOutflow(ctx, operator, 1, big.NewInt(100), "drain"); err != nil {
		t.Fatalf("kill cult: %v", err)
	}

	if err := e.SetDeathCooldown(operator, 5*time.Second); err != nil {
		t.Fatalf("set death cooldown: %v", err)
	}
	if err := e.SetRebirthMinFunding(operator, big.NewInt(1000)); err != nil {
		t.Fatalf("set min funding: %v", err)
	}

	clock.Advance(6 * time.Second)
	_, err := e.Rebirth(ctx, operator, 1, big.NewInt(999))
	wantCode(t, err, apperrors.CodeBelowMinimumFunding)
	if _, err := e.Rebirth(ctx, operator, 1, big.NewInt(1000)); err != nil {
		t.Fatalf("rebirth with raised minimum: %v", err)
	}

	err = e.SetDeathCooldown(operator, -time.Second)
	wantCode(t, err, apperrors.CodeInvalidParameter)
}
