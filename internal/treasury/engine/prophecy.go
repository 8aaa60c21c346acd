package engine

import (
	"context"
	"math/big"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// RewardResult reports one prophecy reward claim.
type RewardResult struct {
	// Reward is the payout, truncated to the pool when it runs short.
	Reward *big.Int
	// Accuracy is the cult's correct-prophecy count after the claim.
	Accuracy uint64
}

// ClaimProphecyReward pays the fixed per-correct reward from the pool. A
// short pool truncates the payout silently; an empty reward still counts the
// correct prophecy. Starvation is a steady-state condition here, not an
// error.
func (e *Engine) ClaimProphecyReward(ctx context.Context, p auth.Principal, id domain.CultID) (RewardResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return RewardResult{}, err
	}
	c, err := e.liveCult(id)
	if err != nil {
		return RewardResult{}, err
	}

	now := e.observe()
	reward := domain.Min(e.params.ProphecyRewardPerCorrect, e.stats.ProphecyRewardPool)
	newAccuracy := c.accuracy + 1

	ev, err := newEvent(event.TypeProphecyRewardClaimed, id, now, event.ProphecyRewardClaimedPayload{
		Reward:   domain.FormatAmount(reward),
		Accuracy: newAccuracy,
	})
	if err != nil {
		return RewardResult{}, err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return RewardResult{}, err
	}

	c.accuracy = newAccuracy
	if reward.Sign() > 0 {
		c.snap.Balance.Add(c.snap.Balance, reward)
		c.snap.TotalInflow.Add(c.snap.TotalInflow, reward)
		c.snap.LastUpdated = now
		e.stats.ProphecyRewardPool.Sub(e.stats.ProphecyRewardPool, reward)
		e.stats.TotalProphecyRewards.Add(e.stats.TotalProphecyRewards, reward)
	}
	return RewardResult{Reward: reward, Accuracy: newAccuracy}, nil
}

// FundProphecyPool tops up the reward pool directly, outside fee recycling.
func (e *Engine) FundProphecyPool(ctx context.Context, p auth.Principal, amount *big.Int) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return nil, err
	}
	if err := requirePositive(amount, "pool funding amount"); err != nil {
		return nil, err
	}

	now := e.observe()
	newPool := new(big.Int).Add(e.stats.ProphecyRewardPool, amount)
	ev, err := newEvent(event.TypeProphecyPoolFunded, 0, now, event.ProphecyPoolFundedPayload{
		Amount:  domain.FormatAmount(amount),
		NewPool: domain.FormatAmount(newPool),
	})
	if err != nil {
		return nil, err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return nil, err
	}

	e.stats.ProphecyRewardPool = newPool
	return domain.Clone(newPool), nil
}

// SetProphecyReward updates the fixed reward per correct prophecy.
func (e *Engine) SetProphecyReward(p auth.Principal, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return err
	}
	if !domain.ValidAmount(amount) {
		return apperrors.New(apperrors.CodeInvalidParameter,
			"prophecy reward must be a non-negative amount")
	}
	e.params.ProphecyRewardPerCorrect = domain.Clone(amount)
	return nil
}
