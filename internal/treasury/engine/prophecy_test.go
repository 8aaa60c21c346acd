package engine_test

import (
	"context"
	"math/big"
	"testing"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
)

func TestClaimProphecyRewardPaysFromPool(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 1000)

	if _, err := e.FundProphecyPool(ctx, operator, big.NewInt(2000)); err != nil {
		t.Fatalf("fund pool: %v", err)
	}
	result, err := e.ClaimProphecyReward(ctx, operator, 1)
	if err != nil {
		t.Fatalf("claim reward: %v", err)
	}
	if result.Reward.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected reward 500, got %s", result.Reward)
	}
	if result.Accuracy != 1 {
		t.Fatalf("expected accuracy 1, got %d", result.Accuracy)
	}

	stats := e.Stats()
	if stats.ProphecyRewardPool.Cmp(big.NewInt(1500)) != 0 {
		t.Fatalf("expected pool 1500, got %s", stats.ProphecyRewardPool)
	}
	if stats.TotalProphecyRewards.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected total rewards 500, got %s", stats.TotalProphecyRewards)
	}
	checkConservation(t, e, 1)
}

// A short pool truncates the payout instead of erroring.
func TestClaimProphecyRewardTruncatesToPool(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 1000)

	if _, err := e.FundProphecyPool(ctx, operator, big.NewInt(120)); err != nil {
		t.Fatalf("fund pool: %v", err)
	}
	result, err := e.ClaimProphecyReward(ctx, operator, 1)
	if err != nil {
		t.Fatalf("claim reward: %v", err)
	}
	if result.Reward.Cmp(big.NewInt(120)) != 0 {
		t.Fatalf("expected truncated reward 120, got %s", result.Reward)
	}
	if e.Stats().ProphecyRewardPool.Sign() != 0 {
		t.Fatalf("expected empty pool, got %s", e.Stats().ProphecyRewardPool)
	}
}

// An empty pool still counts the correct prophecy.
func TestClaimProphecyRewardEmptyPoolStillCounts(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 1000)

	result, err := e.ClaimProphecyReward(ctx, operator, 1)
	if err != nil {
		t.Fatalf("claim reward: %v", err)
	}
	if result.Reward.Sign() != 0 {
		t.Fatalf("expected zero reward, got %s", result.Reward)
	}
	if result.Accuracy != 1 {
		t.Fatalf("expected accuracy 1, got %d", result.Accuracy)
	}
	status, err := e.GetTreasury(1)
	if err != nil {
		t.Fatalf("get treasury: %v", err)
	}
	if status.Balance.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("zero reward must not move the balance, got %s", status.Balance)
	}
	if status.ProphecyAccuracy != 1 {
		t.Fatalf("expected recorded accuracy 1, got %d", status.ProphecyAccuracy)
	}
}

func TestFundProphecyPoolValidation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	pool, err := e.FundProphecyPool(ctx, operator, big.NewInt(77))
	if err != nil {
		t.Fatalf("fund pool: %v", err)
	}
	if pool.Cmp(big.NewInt(77)) != 0 {
		t.Fatalf("expected pool 77, got %s", pool)
	}

	_, err = e.FundProphecyPool(ctx, operator, big.NewInt(0))
	wantCode(t, err, apperrors.CodeInvalidParameter)
}

func TestSetProphecyReward(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 1000)

	if err := e.SetProphecyReward(operator, big.NewInt(5)); err != nil {
		t.Fatalf("set prophecy reward: %v", err)
	}
	if _, err := e.FundProphecyPool(ctx, operator, big.NewInt(100)); err != nil {
		t.Fatalf("fund pool: %v", err)
	}
	result, err := e.ClaimProphecyReward(ctx, operator, 1)
	if err != nil {
		t.Fatalf("claim reward: %v", err)
	}
	if result.Reward.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("expected reward 5, got %s", result.Reward)
	}
}
