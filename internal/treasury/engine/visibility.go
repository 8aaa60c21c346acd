package engine

import (
	"context"
	"math/big"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// GrantBalanceView allows viewer to read owner's balance. The edge is a read
// capability only; it never confers control over funds.
func (e *Engine) GrantBalanceView(ctx context.Context, p auth.Principal, ownerID, viewerID domain.CultID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return err
	}
	if ownerID == viewerID {
		return apperrors.WithMetadata(apperrors.CodeSelfGrantNotAllowed,
			"a cult cannot grant itself balance view",
			map[string]string{"CultID": formatID(ownerID)})
	}

	now := e.observe()
	ev, err := newEvent(event.TypeBalanceViewGranted, ownerID, now, event.BalanceViewPayload{
		OwnerID:  uint64(ownerID),
		ViewerID: uint64(viewerID),
	})
	if err != nil {
		return err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return err
	}

	viewers, ok := e.visibility[ownerID]
	if !ok {
		viewers = make(map[domain.CultID]bool)
		e.visibility[ownerID] = viewers
	}
	viewers[viewerID] = true
	return nil
}

// RevokeBalanceView removes viewer's read access to owner's balance.
func (e *Engine) RevokeBalanceView(ctx context.Context, p auth.Principal, ownerID, viewerID domain.CultID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return err
	}
	if ownerID == viewerID {
		return apperrors.WithMetadata(apperrors.CodeSelfGrantNotAllowed,
			"a cult cannot revoke its own balance view",
			map[string]string{"CultID": formatID(ownerID)})
	}

	now := e.observe()
	ev, err := newEvent(event.TypeBalanceViewRevoked, ownerID, now, event.BalanceViewPayload{
		OwnerID:  uint64(ownerID),
		ViewerID: uint64(viewerID),
	})
	if err != nil {
		return err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return err
	}

	if viewers, ok := e.visibility[ownerID]; ok {
		delete(viewers, viewerID)
		if len(viewers) == 0 {
			delete(e.visibility, ownerID)
		}
	}
	return nil
}

// GetVisibleBalance returns owner's balance if viewer holds a view grant.
// Without a grant it degrades to (0, false) instead of erroring, so the query
// leaks nothing about whether the owner even exists.
func (e *Engine) GetVisibleBalance(ownerID, viewerID domain.CultID) (*big.Int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	viewers, ok := e.visibility[ownerID]
	if !ok || !viewers[viewerID] {
		return new(big.Int), false
	}
	c, ok := e.cults[ownerID]
	if !ok {
		return new(big.Int), false
	}
	return domain.Clone(c.snap.Balance), true
}
