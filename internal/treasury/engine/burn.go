package engine

import (
	"context"
	"math/big"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// BurnResult reports the outcome of one tick burn.
type BurnResult struct {
	// Burned is the amount actually deducted.
	Burned *big.Int
	// Died reports whether the burn drained the cult to death.
	Died bool
}

// ApplyTickBurn deducts one cycle of operational cost from a live cult. When
// the balance is at or below the rate the entire remainder is burned and the
// cult dies; the balance never goes negative.
func (e *Engine) ApplyTickBurn(ctx context.Context, p auth.Principal, id domain.CultID) (BurnResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return BurnResult{}, err
	}
	c, err := e.liveCult(id)
	if err != nil {
		return BurnResult{}, err
	}

	now := e.observe()
	rate := e.params.TickBurnRate
	var burned *big.Int
	died := false
	if c.snap.Balance.Cmp(rate) <= 0 {
		// Terminal tick of the death spiral: the whole remainder burns.
		burned = domain.Clone(c.snap.Balance)
		died = true
	} else {
		burned = domain.Clone(rate)
	}
	newBalance := new(big.Int).Sub(c.snap.Balance, burned)

	events := make([]event.Event, 0, 2)
	ev, err := newEvent(event.TypeTickBurnApplied, id, now, event.TickBurnAppliedPayload{
		Burned:     domain.FormatAmount(burned),
		NewBalance: domain.FormatAmount(newBalance),
		Died:       died,
	})
	if err != nil {
		return BurnResult{}, err
	}
	events = append(events, ev)
	if died {
		deathEv, err := e.deathEvent(c, now)
		if err != nil {
			return BurnResult{}, err
		}
		events = append(events, deathEv)
	}
	if _, err := e.journal.Append(ctx, events); err != nil {
		return BurnResult{}, err
	}

	c.snap.Balance = newBalance
	c.snap.TickBurnAccumulated.Add(c.snap.TickBurnAccumulated, burned)
	c.snap.TotalOutflow.Add(c.snap.TotalOutflow, burned)
	c.snap.LastUpdated = now
	e.stats.TotalBurned.Add(e.stats.TotalBurned, burned)
	if c.locked.Cmp(c.snap.Balance) > 0 {
		c.locked.Set(c.snap.Balance)
	}
	if died {
		e.applyDeath(c, now)
	}
	return BurnResult{Burned: burned, Died: died}, nil
}

// SetTickBurnRate updates the per-cycle operational cost.
func (e *Engine) SetTickBurnRate(ctx context.Context, p auth.Principal, rate *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return err
	}
	if !domain.ValidAmount(rate) {
		return apperrors.New(apperrors.CodeInvalidParameter,
			"tick burn rate must be a non-negative amount")
	}

	now := e.observe()
	ev, err := newEvent(event.TypeTickBurnRateUpdated, 0, now, event.TickBurnRateUpdatedPayload{
		OldRate: domain.FormatAmount(e.params.TickBurnRate),
		NewRate: domain.FormatAmount(rate),
	})
	if err != nil {
		return err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return err
	}

	e.params.TickBurnRate = domain.Clone(rate)
	return nil
}
