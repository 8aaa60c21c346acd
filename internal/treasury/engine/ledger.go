package engine

import (
	"context"
	"math/big"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// InitTreasury creates a live treasury for id with the given opening balance.
// A cult can be initialized exactly once; death never clears the record.
func (e *Engine) InitTreasury(ctx context.Context, p auth.Principal, id domain.CultID, initialBalance *big.Int) (domain.CultStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return domain.CultStatus{}, err
	}
	if !domain.ValidAmount(initialBalance) {
		return domain.CultStatus{}, apperrors.New(apperrors.CodeInvalidParameter,
			"initial balance must be a non-negative amount")
	}
	if _, ok := e.cults[id]; ok {
		return domain.CultStatus{}, apperrors.WithMetadata(apperrors.CodeAlreadyInitialized,
			"cult treasury already exists",
			map[string]string{"CultID": formatID(id)})
	}

	now := e.observe()
	ev, err := newEvent(event.TypeTreasuryInitialized, id, now, event.TreasuryInitializedPayload{
		InitialBalance: domain.FormatAmount(initialBalance),
	})
	if err != nil {
		return domain.CultStatus{}, err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return domain.CultStatus{}, err
	}

	c := &cultState{
		snap: domain.Snapshot{
			ID:                  id,
			Balance:             domain.Clone(initialBalance),
			LastUpdated:         now,
			TotalInflow:         domain.Clone(initialBalance),
			TotalOutflow:        domain.Zero(),
			TickBurnAccumulated: domain.Zero(),
			Alive:               true,
		},
		locked:         domain.Zero(),
		raidRevenue:    domain.Zero(),
		stakingRevenue: domain.Zero(),
		yieldEarned:    domain.Zero(),
	}
	e.cults[id] = c
	return e.status(c), nil
}

// RecordInflow credits amount to a live cult. Raid and staking inflows also
// update their per-cult revenue counters; other sources only count in the
// aggregate.
func (e *Engine) RecordInflow(ctx context.Context, p auth.Principal, id domain.CultID, amount *big.Int, source domain.InflowSource) (domain.CultStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return domain.CultStatus{}, err
	}
	if err := requirePositive(amount, "inflow amount"); err != nil {
		return domain.CultStatus{}, err
	}
	c, err := e.liveCult(id)
	if err != nil {
		return domain.CultStatus{}, err
	}

	now := e.observe()
	newBalance := new(big.Int).Add(c.snap.Balance, amount)
	ev, err := newEvent(event.TypeInflowRecorded, id, now, event.InflowRecordedPayload{
		Amount:     domain.FormatAmount(amount),
		Source:     source.String(),
		NewBalance: domain.FormatAmount(newBalance),
	})
	if err != nil {
		return domain.CultStatus{}, err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return domain.CultStatus{}, err
	}

	c.snap.Balance = newBalance
	c.snap.TotalInflow.Add(c.snap.TotalInflow, amount)
	c.snap.LastUpdated = now
	switch source {
	case domain.SourceRaid:
		c.raidRevenue.Add(c.raidRevenue, amount)
	case domain.SourceStaking:
		c.stakingRevenue.Add(c.stakingRevenue, amount)
	}
	return e.status(c), nil
}

// RecordOutflow debits amount from a live cult. Draining the balance to
// exactly zero kills the cult in the same call.
func (e *Engine) RecordOutflow(ctx context.Context, p auth.Principal, id domain.CultID, amount *big.Int, reason string) (domain.CultStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return domain.CultStatus{}, err
	}
	if err := requirePositive(amount, "outflow amount"); err != nil {
		return domain.CultStatus{}, err
	}
	c, err := e.liveCult(id)
	if err != nil {
		return domain.CultStatus{}, err
	}
	if amount.Cmp(c.snap.Balance) > 0 {
		return domain.CultStatus{}, apperrors.WithMetadata(apperrors.CodeInsufficientBalance,
			"outflow exceeds balance",
			map[string]string{
				"CultID":  formatID(id),
				"Balance": domain.FormatAmount(c.snap.Balance),
				"Amount":  domain.FormatAmount(amount),
			})
	}

	now := e.observe()
	newBalance := new(big.Int).Sub(c.snap.Balance, amount)
	died := newBalance.Sign() == 0

	events := make([]event.Event, 0, 2)
	ev, err := newEvent(event.TypeOutflowRecorded, id, now, event.OutflowRecordedPayload{
		Amount:     domain.FormatAmount(amount),
		Reason:     reason,
		NewBalance: domain.FormatAmount(newBalance),
	})
	if err != nil {
		return domain.CultStatus{}, err
	}
	events = append(events, ev)
	if died {
		deathEv, err := e.deathEvent(c, now)
		if err != nil {
			return domain.CultStatus{}, err
		}
		events = append(events, deathEv)
	}
	if _, err := e.journal.Append(ctx, events); err != nil {
		return domain.CultStatus{}, err
	}

	c.snap.Balance = newBalance
	c.snap.TotalOutflow.Add(c.snap.TotalOutflow, amount)
	c.snap.LastUpdated = now
	if c.locked.Cmp(c.snap.Balance) > 0 {
		c.locked.Set(c.snap.Balance)
	}
	if died {
		e.applyDeath(c, now)
	}
	return e.status(c), nil
}

// requirePositive rejects nil, negative, and zero amounts.
func requirePositive(amount *big.Int, name string) error {
	if !domain.ValidAmount(amount) || amount.Sign() == 0 {
		return apperrors.New(apperrors.CodeInvalidParameter, name+" must be positive")
	}
	return nil
}
