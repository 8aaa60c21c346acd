package engine

import (
	"context"
	"math/big"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// FeeResult reports a collected fee and the remainder the caller applies.
type FeeResult struct {
	Fee       *big.Int
	NetAmount *big.Int
}

// DistributionResult reports the exact three-way fee split.
type DistributionResult struct {
	Total   *big.Int
	ToPool  *big.Int
	ToYield *big.Int
	ToBurn  *big.Int
}

// CollectFee skims the protocol fee from an externally reported amount and
// queues it for distribution. The cult's ledger balance is untouched; the
// caller is responsible for applying the returned net amount.
func (e *Engine) CollectFee(ctx context.Context, p auth.Principal, id domain.CultID, amount *big.Int) (FeeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return FeeResult{}, err
	}
	if err := requirePositive(amount, "fee base amount"); err != nil {
		return FeeResult{}, err
	}
	if _, err := e.liveCult(id); err != nil {
		return FeeResult{}, err
	}

	now := e.observe()
	fee := domain.ApplyBps(amount, e.params.ProtocolFeeBps)
	net := new(big.Int).Sub(amount, fee)
	ev, err := newEvent(event.TypeProtocolFeeCollected, id, now, event.ProtocolFeeCollectedPayload{
		Amount:    domain.FormatAmount(amount),
		Fee:       domain.FormatAmount(fee),
		NetAmount: domain.FormatAmount(net),
	})
	if err != nil {
		return FeeResult{}, err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return FeeResult{}, err
	}

	e.stats.TotalProtocolFees.Add(e.stats.TotalProtocolFees, fee)
	e.stats.UndistributedFees.Add(e.stats.UndistributedFees, fee)
	return FeeResult{Fee: fee, NetAmount: net}, nil
}

// DistributeProtocolFees fans the queued fees out into the prophecy reward
// pool, the yield subsidy pool, and the burn counter. The burn bucket absorbs
// integer rounding loss so the three buckets always sum to the queued amount.
func (e *Engine) DistributeProtocolFees(ctx context.Context, p auth.Principal) (DistributionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return DistributionResult{}, err
	}
	if e.stats.UndistributedFees.Sign() == 0 {
		return DistributionResult{}, apperrors.New(apperrors.CodeNoFeesToDistribute,
			"no fees queued for distribution")
	}

	now := e.observe()
	total := domain.Clone(e.stats.UndistributedFees)
	toPool := domain.ApplyBps(total, e.params.FeeToPoolBps)
	toYield := domain.ApplyBps(total, e.params.FeeToYieldBps)
	toBurn := new(big.Int).Sub(total, toPool)
	toBurn.Sub(toBurn, toYield)

	ev, err := newEvent(event.TypeProtocolFeesDistributed, 0, now, event.ProtocolFeesDistributedPayload{
		Total:   domain.FormatAmount(total),
		ToPool:  domain.FormatAmount(toPool),
		ToYield: domain.FormatAmount(toYield),
		ToBurn:  domain.FormatAmount(toBurn),
	})
	if err != nil {
		return DistributionResult{}, err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return DistributionResult{}, err
	}

	e.stats.ProphecyRewardPool.Add(e.stats.ProphecyRewardPool, toPool)
	e.stats.YieldSubsidyPool.Add(e.stats.YieldSubsidyPool, toYield)
	e.stats.TotalBurned.Add(e.stats.TotalBurned, toBurn)
	e.stats.UndistributedFees.SetInt64(0)
	return DistributionResult{Total: total, ToPool: toPool, ToYield: toYield, ToBurn: toBurn}, nil
}

// SetProtocolFeeBps updates the protocol fee, capped at 500 bps.
func (e *Engine) SetProtocolFeeBps(ctx context.Context, p auth.Principal, bps uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return err
	}
	if err := domain.ValidateProtocolFeeBps(bps); err != nil {
		return err
	}

	now := e.observe()
	ev, err := newEvent(event.TypeProtocolFeeUpdated, 0, now, event.ProtocolFeeUpdatedPayload{
		OldBps: e.params.ProtocolFeeBps,
		NewBps: bps,
	})
	if err != nil {
		return err
	}
	if _, err := e.journal.Append(ctx, []event.Event{ev}); err != nil {
		return err
	}

	e.params.ProtocolFeeBps = bps
	return nil
}

// SetFeeDistribution updates the three-way split ratios, which must sum to
// exactly 10000 bps.
func (e *Engine) SetFeeDistribution(p auth.Principal, toPool, toYield, toBurn uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(p); err != nil {
		return err
	}
	if err := domain.ValidateFeeDistribution(toPool, toYield, toBurn); err != nil {
		return err
	}
	e.params.FeeToPoolBps = toPool
	e.params.FeeToYieldBps = toYield
	e.params.FeeToBurnBps = toBurn
	return nil
}
