package engine

import (
	"context"
	"math/big"
	"time"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// HarvestResult reports one yield harvest.
type HarvestResult struct {
	// Yield is the amount minted, subsidy included, after the per-call cap.
	Yield *big.Int
	// SubsidyBonus is the portion drawn from the subsidy pool.
	SubsidyBonus *big.Int
}

// HarvestYield mints new value for a live cult from its reported
// productivity. Raw productivity grows linearly in the inputs; the integer
// square root compresses it to sub-linear payout growth. The harvest cooldown
// restarts on every call, even a zero-yield one.
func (e *Engine) HarvestYield(ctx context.Context, p auth.Principal, id domain.CultID, followerCount uint64, totalStaked *big.Int, correctProphecies uint64) (HarvestResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return HarvestResult{}, err
	}
	if !domain.ValidAmount(totalStaked) {
		return HarvestResult{}, apperrors.New(apperrors.CodeInvalidParameter,
			"total staked must be a non-negative amount")
	}
	c, err := e.liveCult(id)
	if err != nil {
		return HarvestResult{}, err
	}

	now := e.observe()
	if !c.lastHarvest.IsZero() {
		ready := c.lastHarvest.Add(e.params.HarvestCooldown)
		if now.Before(ready) {
			return HarvestResult{}, apperrors.WithMetadata(apperrors.CodeCooldownActive,
				"harvest cooldown has not elapsed",
				map[string]string{
					"CultID":  formatID(id),
					"ReadyAt": ready.Format(time.RFC3339),
				})
		}
	}

	raw := rawProductivity(e.params, followerCount, totalStaked, correctProphecies)
	yield := new(big.Int)
	if raw.Sign() > 0 {
		yield = domain.Isqrt(new(big.Int).Mul(raw, domain.Scale))
	}

	bonus := new(big.Int)
	if yield.Sign() > 0 && e.stats.YieldSubsidyPool.Sign() > 0 {
		bonus = domain.Min(new(big.Int).Div(yield, big.NewInt(5)), e.stats.YieldSubsidyPool)
		yield.Add(yield, bonus)
	}
	yield = domain.Min(yield, e.params.MaxYieldPerHarvest)

	events := make([]event.Event, 0, 2)
	ev, err := newEvent(event.TypeYieldHarvested, id, now, event.YieldHarvestedPayload{
		FollowerCount:     followerCount,
		TotalStaked:       domain.FormatAmount(totalStaked),
		CorrectProphecies: correctProphecies,
		YieldAmount:       domain.FormatAmount(yield),
	})
	if err != nil {
		return HarvestResult{}, err
	}
	events = append(events, ev)
	if bonus.Sign() > 0 {
		remaining := new(big.Int).Sub(e.stats.YieldSubsidyPool, bonus)
		subsidyEv, err := newEvent(event.TypeYieldSubsidyApplied, id, now, event.YieldSubsidyAppliedPayload{
			Bonus:         domain.FormatAmount(bonus),
			RemainingPool: domain.FormatAmount(remaining),
		})
		if err != nil {
			return HarvestResult{}, err
		}
		events = append(events, subsidyEv)
	}
	if _, err := e.journal.Append(ctx, events); err != nil {
		return HarvestResult{}, err
	}

	c.lastHarvest = now
	if bonus.Sign() > 0 {
		e.stats.YieldSubsidyPool.Sub(e.stats.YieldSubsidyPool, bonus)
	}
	if yield.Sign() > 0 {
		c.snap.Balance.Add(c.snap.Balance, yield)
		c.snap.TotalInflow.Add(c.snap.TotalInflow, yield)
		c.snap.LastUpdated = now
		c.yieldEarned.Add(c.yieldEarned, yield)
		e.stats.TotalYieldMinted.Add(e.stats.TotalYieldMinted, yield)
	}
	return HarvestResult{Yield: yield, SubsidyBonus: bonus}, nil
}

// rawProductivity computes the linear pre-sqrt productivity score:
// followers*perFollower + staked*perUnit/scale + correct*accuracyBonus.
func rawProductivity(params domain.Params, followerCount uint64, totalStaked *big.Int, correctProphecies uint64) *big.Int {
	raw := new(big.Int).Mul(new(big.Int).SetUint64(followerCount), params.YieldPerFollower)

	staked := new(big.Int).Mul(totalStaked, params.YieldPerStakedUnit)
	staked.Div(staked, domain.Scale)
	raw.Add(raw, staked)

	accuracy := new(big.Int).Mul(new(big.Int).SetUint64(correctProphecies), params.YieldAccuracyBonus)
	return raw.Add(raw, accuracy)
}

// SetYieldRates updates the three productivity rates.
func (e *Engine) SetYieldRates(p auth.Principal, perFollower, perStakedUnit, accuracyBonus *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return err
	}
	for name, amount := range map[string]*big.Int{
		"yield per follower":    perFollower,
		"yield per staked unit": perStakedUnit,
		"yield accuracy bonus":  accuracyBonus,
	} {
		if !domain.ValidAmount(amount) {
			return apperrors.New(apperrors.CodeInvalidParameter,
				name+" must be a non-negative amount")
		}
	}
	e.params.YieldPerFollower = domain.Clone(perFollower)
	e.params.YieldPerStakedUnit = domain.Clone(perStakedUnit)
	e.params.YieldAccuracyBonus = domain.Clone(accuracyBonus)
	return nil
}

// SetMaxYieldPerHarvest updates the per-call yield cap.
func (e *Engine) SetMaxYieldPerHarvest(p auth.Principal, max *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return err
	}
	if !domain.ValidAmount(max) {
		return apperrors.New(apperrors.CodeInvalidParameter,
			"max yield per harvest must be a non-negative amount")
	}
	e.params.MaxYieldPerHarvest = domain.Clone(max)
	return nil
}
