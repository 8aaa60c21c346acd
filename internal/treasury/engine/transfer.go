package engine

import (
	"context"
	"math/big"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// TransferResult reports the outcome of an inter-cult transfer.
type TransferResult struct {
	// SourceDied reports whether the transfer drained the source to death.
	SourceDied bool
}

// TransferFunds moves amount from one live cult to another. Only the source's
// available (unlocked) balance can move; the transfer type is an audit tag,
// not a different economic treatment. Draining the source to zero kills it.
func (e *Engine) TransferFunds(ctx context.Context, p auth.Principal, fromID, toID domain.CultID, amount *big.Int, transferType domain.TransferType) (TransferResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return TransferResult{}, err
	}
	if fromID == toID {
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeSelfTransferNotAllowed,
			"a cult cannot transfer to itself",
			map[string]string{"CultID": formatID(fromID)})
	}
	if err := requirePositive(amount, "transfer amount"); err != nil {
		return TransferResult{}, err
	}
	from, err := e.cult(fromID)
	if err != nil {
		return TransferResult{}, err
	}
	if !from.snap.Alive {
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeSourceDead,
			"transfer source is dead",
			map[string]string{"CultID": formatID(fromID)})
	}
	to, err := e.cult(toID)
	if err != nil {
		return TransferResult{}, err
	}
	if !to.snap.Alive {
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeTargetDead,
			"transfer target is dead",
			map[string]string{"CultID": formatID(toID)})
	}
	available := new(big.Int).Sub(from.snap.Balance, from.locked)
	if amount.Cmp(available) > 0 {
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeInsufficientUnlockedFunds,
			"transfer exceeds available balance",
			map[string]string{
				"CultID":    formatID(fromID),
				"Available": domain.FormatAmount(available),
				"Amount":    domain.FormatAmount(amount),
			})
	}

	now := e.observe()
	newFrom := new(big.Int).Sub(from.snap.Balance, amount)
	newTo := new(big.Int).Add(to.snap.Balance, amount)
	sourceDied := newFrom.Sign() == 0

	events := make([]event.Event, 0, 2)
	ev, err := newEvent(event.TypeInterCultTransfer, fromID, now, event.InterCultTransferPayload{
		FromID:       uint64(fromID),
		ToID:         uint64(toID),
		Amount:       domain.FormatAmount(amount),
		TransferType: transferType.String(),
	})
	if err != nil {
		return TransferResult{}, err
	}
	events = append(events, ev)
	if sourceDied {
		deathEv, err := e.deathEvent(from, now)
		if err != nil {
			return TransferResult{}, err
		}
		events = append(events, deathEv)
	}
	if _, err := e.journal.Append(ctx, events); err != nil {
		return TransferResult{}, err
	}

	from.snap.Balance = newFrom
	from.snap.TotalOutflow.Add(from.snap.TotalOutflow, amount)
	from.snap.LastUpdated = now
	to.snap.Balance = newTo
	to.snap.TotalInflow.Add(to.snap.TotalInflow, amount)
	to.snap.LastUpdated = now
	if sourceDied {
		e.applyDeath(from, now)
	}
	return TransferResult{SourceDied: sourceDied}, nil
}
