package engine

import (
	"context"
	"math/big"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// LockFunds reserves amount against a live cult's balance. Locked funds stay
// on the ledger; they only reduce the available balance.
func (e *Engine) LockFunds(ctx context.Context, p auth.Principal, id domain.CultID, amount *big.Int, reason string) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return nil, err
	}
	if err := requirePositive(amount, "lock amount"); err != nil {
		return nil, err
	}
	c, err := e.liveCult(id)
	if err != nil {
		return nil, err
	}
	available := new(big.Int).Sub(c.snap.Balance, c.locked)
	if amount.Cmp(available) > 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInsufficientUnlockedFunds,
			"lock exceeds available balance",
			map[string]string{
				"CultID":    formatID(id),
				"Available": domain.FormatAmount(available),
				"Amount":    domain.FormatAmount(amount),
			})
	}

	now := e.observe()
	newLocked := new(big.Int).Add(c.locked, amount)
	ev, err := newEvent(event.TypeFundsLocked, id, now, event.FundsLockedPayload{
		Amount:      domain.FormatAmount(amount),
		Reason:      reason,
		TotalLocked: domain.FormatAmount(newLocked),
	})
	if err != nil {
		return nil, err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return nil, err
	}

	c.locked = newLocked
	return domain.Clone(newLocked), nil
}

// ReleaseFunds returns previously locked funds to the available balance.
func (e *Engine) ReleaseFunds(ctx context.Context, p auth.Principal, id domain.CultID, amount *big.Int) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return nil, err
	}
	if err := requirePositive(amount, "release amount"); err != nil {
		return nil, err
	}
	c, err := e.liveCult(id)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(c.locked) > 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInsufficientLocked,
			"release exceeds locked balance",
			map[string]string{
				"CultID": formatID(id),
				"Locked": domain.FormatAmount(c.locked),
				"Amount": domain.FormatAmount(amount),
			})
	}

	now := e.observe()
	newLocked := new(big.Int).Sub(c.locked, amount)
	ev, err := newEvent(event.TypeFundsReleased, id, now, event.FundsReleasedPayload{
		Amount:      domain.FormatAmount(amount),
		TotalLocked: domain.FormatAmount(newLocked),
	})
	if err != nil {
		return nil, err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return nil, err
	}

	c.locked = newLocked
	return domain.Clone(newLocked), nil
}

// GetAvailableBalance returns the unlocked balance for a cult. Dead cults
// always report zero.
func (e *Engine) GetAvailableBalance(id domain.CultID) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.cult(id)
	if err != nil {
		return nil, err
	}
	if !c.snap.Alive {
		return new(big.Int), nil
	}
	return new(big.Int).Sub(c.snap.Balance, c.locked), nil
}
