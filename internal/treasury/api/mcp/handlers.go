package mcp

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
)

func cultStatusResult(st domain.CultStatus) CultStatusResult {
	return CultStatusResult{
		CultID:              uint64(st.ID),
		Balance:             domain.FormatAmount(st.Balance),
		Alive:               st.Alive,
		TotalInflow:         domain.FormatAmount(st.TotalInflow),
		TotalOutflow:        domain.FormatAmount(st.TotalOutflow),
		TickBurnAccumulated: domain.FormatAmount(st.TickBurnAccumulated),
		LockedBalance:       domain.FormatAmount(st.LockedBalance),
		RaidRevenue:         domain.FormatAmount(st.RaidRevenue),
		StakingRevenue:      domain.FormatAmount(st.StakingRevenue),
		TotalYieldEarned:    domain.FormatAmount(st.TotalYieldEarned),
		ProphecyAccuracy:    st.ProphecyAccuracy,
		DeathCount:          st.DeathCount,
		DeathTimestamp:      formatTime(st.DeathTimestamp),
		LastUpdated:         formatTime(st.LastUpdated),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func statsResult(st domain.Stats) StatsResult {
	return StatsResult{
		TotalProtocolFees:    domain.FormatAmount(st.TotalProtocolFees),
		TotalBurned:          domain.FormatAmount(st.TotalBurned),
		TotalDeaths:          st.TotalDeaths,
		TotalYieldMinted:     domain.FormatAmount(st.TotalYieldMinted),
		TotalProphecyRewards: domain.FormatAmount(st.TotalProphecyRewards),
		UndistributedFees:    domain.FormatAmount(st.UndistributedFees),
		ProphecyRewardPool:   domain.FormatAmount(st.ProphecyRewardPool),
		YieldSubsidyPool:     domain.FormatAmount(st.YieldSubsidyPool),
	}
}

func paramsResult(p domain.Params) ParamsResult {
	return ParamsResult{
		ProtocolFeeBps:           p.ProtocolFeeBps,
		TickBurnRate:             domain.FormatAmount(p.TickBurnRate),
		DeathCooldownSeconds:     uint64(p.DeathCooldown / time.Second),
		RebirthMinFunding:        domain.FormatAmount(p.RebirthMinFunding),
		HarvestCooldownSeconds:   uint64(p.HarvestCooldown / time.Second),
		YieldPerFollower:         domain.FormatAmount(p.YieldPerFollower),
		YieldPerStakedUnit:       domain.FormatAmount(p.YieldPerStakedUnit),
		YieldAccuracyBonus:       domain.FormatAmount(p.YieldAccuracyBonus),
		MaxYieldPerHarvest:       domain.FormatAmount(p.MaxYieldPerHarvest),
		ProphecyRewardPerCorrect: domain.FormatAmount(p.ProphecyRewardPerCorrect),
		FeeToPoolBps:             p.FeeToPoolBps,
		FeeToYieldBps:            p.FeeToYieldBps,
		FeeToBurnBps:             p.FeeToBurnBps,
	}
}

func (s *Server) initTreasuryHandler() mcp.ToolHandlerFor[InitTreasuryInput, CultStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InitTreasuryInput) (_ *mcp.CallToolResult, out CultStatusResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_init", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		balance, err := domain.ParseAmount(input.InitialBalance)
		if err != nil {
			return nil, out, err
		}
		status, err := s.engine.InitTreasury(ctx, operator, domain.CultID(input.CultID), balance)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, cultStatusResult(status), nil
	}
}

func (s *Server) recordInflowHandler() mcp.ToolHandlerFor[RecordInflowInput, CultStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RecordInflowInput) (_ *mcp.CallToolResult, out CultStatusResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_record_inflow", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		amount, err := domain.ParseAmount(input.Amount)
		if err != nil {
			return nil, out, err
		}
		status, err := s.engine.RecordInflow(ctx, operator, domain.CultID(input.CultID), amount, domain.ParseInflowSource(input.Source))
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, cultStatusResult(status), nil
	}
}

func (s *Server) recordOutflowHandler() mcp.ToolHandlerFor[RecordOutflowInput, CultStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RecordOutflowInput) (_ *mcp.CallToolResult, out CultStatusResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_record_outflow", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		amount, err := domain.ParseAmount(input.Amount)
		if err != nil {
			return nil, out, err
		}
		status, err := s.engine.RecordOutflow(ctx, operator, domain.CultID(input.CultID), amount, input.Reason)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, cultStatusResult(status), nil
	}
}

func (s *Server) tickBurnHandler() mcp.ToolHandlerFor[TickBurnInput, TickBurnResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TickBurnInput) (_ *mcp.CallToolResult, out TickBurnResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_apply_tick_burn", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		result, err := s.engine.ApplyTickBurn(ctx, operator, domain.CultID(input.CultID))
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, TickBurnResult{Burned: domain.FormatAmount(result.Burned), Died: result.Died}, nil
	}
}

func (s *Server) lockFundsHandler() mcp.ToolHandlerFor[LockFundsInput, EscrowResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LockFundsInput) (_ *mcp.CallToolResult, out EscrowResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_lock_funds", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		amount, err := domain.ParseAmount(input.Amount)
		if err != nil {
			return nil, out, err
		}
		locked, err := s.engine.LockFunds(ctx, operator, domain.CultID(input.CultID), amount, input.Reason)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, EscrowResult{TotalLocked: domain.FormatAmount(locked)}, nil
	}
}

func (s *Server) releaseFundsHandler() mcp.ToolHandlerFor[ReleaseFundsInput, EscrowResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReleaseFundsInput) (_ *mcp.CallToolResult, out EscrowResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_release_funds", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		amount, err := domain.ParseAmount(input.Amount)
		if err != nil {
			return nil, out, err
		}
		locked, err := s.engine.ReleaseFunds(ctx, operator, domain.CultID(input.CultID), amount)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, EscrowResult{TotalLocked: domain.FormatAmount(locked)}, nil
	}
}

func (s *Server) transferHandler() mcp.ToolHandlerFor[TransferInput, TransferResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TransferInput) (_ *mcp.CallToolResult, out TransferResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_transfer", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		amount, err := domain.ParseAmount(input.Amount)
		if err != nil {
			return nil, out, err
		}
		transferType, ok := domain.ParseTransferType(input.TransferType)
		if !ok {
			err = apperrors.WithMetadata(apperrors.CodeInvalidParameter,
				"unknown transfer type", map[string]string{"transfer_type": input.TransferType})
			return nil, out, err
		}
		result, err := s.engine.TransferFunds(ctx, operator, domain.CultID(input.FromID), domain.CultID(input.ToID), amount, transferType)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, TransferResult{SourceDied: result.SourceDied}, nil
	}
}

func (s *Server) collectFeeHandler() mcp.ToolHandlerFor[CollectFeeInput, CollectFeeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CollectFeeInput) (_ *mcp.CallToolResult, out CollectFeeResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_collect_fee", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		amount, err := domain.ParseAmount(input.Amount)
		if err != nil {
			return nil, out, err
		}
		result, err := s.engine.CollectFee(ctx, operator, domain.CultID(input.CultID), amount)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, CollectFeeResult{
			Fee:       domain.FormatAmount(result.Fee),
			NetAmount: domain.FormatAmount(result.NetAmount),
		}, nil
	}
}

func (s *Server) distributeFeesHandler() mcp.ToolHandlerFor[DistributeFeesInput, DistributeFeesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DistributeFeesInput) (_ *mcp.CallToolResult, out DistributeFeesResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_distribute_fees", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		result, err := s.engine.DistributeProtocolFees(ctx, operator)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, DistributeFeesResult{
			Total:   domain.FormatAmount(result.Total),
			ToPool:  domain.FormatAmount(result.ToPool),
			ToYield: domain.FormatAmount(result.ToYield),
			ToBurn:  domain.FormatAmount(result.ToBurn),
		}, nil
	}
}

func (s *Server) harvestHandler() mcp.ToolHandlerFor[HarvestInput, HarvestResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HarvestInput) (_ *mcp.CallToolResult, out HarvestResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_harvest_yield", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		staked, err := domain.ParseAmount(input.TotalStaked)
		if err != nil {
			return nil, out, err
		}
		result, err := s.engine.HarvestYield(ctx, operator, domain.CultID(input.CultID), input.FollowerCount, staked, input.CorrectProphecies)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, HarvestResult{
			Yield:        domain.FormatAmount(result.Yield),
			SubsidyBonus: domain.FormatAmount(result.SubsidyBonus),
		}, nil
	}
}

func (s *Server) fundPoolHandler() mcp.ToolHandlerFor[FundPoolInput, FundPoolResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FundPoolInput) (_ *mcp.CallToolResult, out FundPoolResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_fund_prophecy_pool", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		amount, err := domain.ParseAmount(input.Amount)
		if err != nil {
			return nil, out, err
		}
		pool, err := s.engine.FundProphecyPool(ctx, operator, amount)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, FundPoolResult{Pool: domain.FormatAmount(pool)}, nil
	}
}

func (s *Server) claimRewardHandler() mcp.ToolHandlerFor[ClaimRewardInput, ClaimRewardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClaimRewardInput) (_ *mcp.CallToolResult, out ClaimRewardResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_claim_prophecy_reward", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		result, err := s.engine.ClaimProphecyReward(ctx, operator, domain.CultID(input.CultID))
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, ClaimRewardResult{
			Reward:   domain.FormatAmount(result.Reward),
			Accuracy: result.Accuracy,
		}, nil
	}
}

func (s *Server) rebirthHandler() mcp.ToolHandlerFor[RebirthInput, CultStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RebirthInput) (_ *mcp.CallToolResult, out CultStatusResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_rebirth", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		funding, err := domain.ParseAmount(input.NewFunding)
		if err != nil {
			return nil, out, err
		}
		status, err := s.engine.Rebirth(ctx, operator, domain.CultID(input.CultID), funding)
		if err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, cultStatusResult(status), nil
	}
}

func (s *Server) grantViewHandler() mcp.ToolHandlerFor[BalanceViewInput, AckResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BalanceViewInput) (_ *mcp.CallToolResult, out AckResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_grant_balance_view", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		if err = s.engine.GrantBalanceView(ctx, operator, domain.CultID(input.OwnerID), domain.CultID(input.ViewerID)); err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, AckResult{OK: true}, nil
	}
}

func (s *Server) revokeViewHandler() mcp.ToolHandlerFor[BalanceViewInput, AckResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BalanceViewInput) (_ *mcp.CallToolResult, out AckResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_revoke_balance_view", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		if err = s.engine.RevokeBalanceView(ctx, operator, domain.CultID(input.OwnerID), domain.CultID(input.ViewerID)); err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, AckResult{OK: true}, nil
	}
}

func (s *Server) setProtocolFeeHandler() mcp.ToolHandlerFor[SetProtocolFeeInput, ParamsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetProtocolFeeInput) (_ *mcp.CallToolResult, out ParamsResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_set_protocol_fee", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		if err = s.engine.SetProtocolFeeBps(ctx, operator, input.Bps); err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, paramsResult(s.engine.Params()), nil
	}
}

func (s *Server) setTickBurnRateHandler() mcp.ToolHandlerFor[SetTickBurnRateInput, ParamsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetTickBurnRateInput) (_ *mcp.CallToolResult, out ParamsResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_set_tick_burn_rate", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		rate, err := domain.ParseAmount(input.Rate)
		if err != nil {
			return nil, out, err
		}
		if err = s.engine.SetTickBurnRate(ctx, operator, rate); err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, paramsResult(s.engine.Params()), nil
	}
}

func (s *Server) setFeeDistributionHandler() mcp.ToolHandlerFor[SetFeeDistributionInput, ParamsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetFeeDistributionInput) (_ *mcp.CallToolResult, out ParamsResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_set_fee_distribution", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		if err = s.engine.SetFeeDistribution(operator, input.ToPoolBps, input.ToYieldBps, input.ToBurnBps); err != nil {
			return nil, out, err
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, paramsResult(s.engine.Params()), nil
	}
}

func (s *Server) setEconomyParamsHandler() mcp.ToolHandlerFor[SetEconomyParamsInput, ParamsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetEconomyParamsInput) (_ *mcp.CallToolResult, out ParamsResult, err error) {
		ctx, span, operator, err := s.begin(ctx, "treasury_set_economy_params", input.OperatorGrant)
		defer func() { finish(span, err) }()
		if err != nil {
			return nil, out, err
		}
		if input.DeathCooldownSeconds != nil {
			cooldown := time.Duration(*input.DeathCooldownSeconds) * time.Second
			if err = s.engine.SetDeathCooldown(operator, cooldown); err != nil {
				return nil, out, err
			}
		}
		if input.RebirthMinFunding != nil {
			var minimum *big.Int
			if minimum, err = domain.ParseAmount(*input.RebirthMinFunding); err != nil {
				return nil, out, err
			}
			if err = s.engine.SetRebirthMinFunding(operator, minimum); err != nil {
				return nil, out, err
			}
		}
		if input.YieldPerFollower != nil || input.YieldPerStakedUnit != nil || input.YieldAccuracyBonus != nil {
			current := s.engine.Params()
			perFollower := current.YieldPerFollower
			perStakedUnit := current.YieldPerStakedUnit
			accuracyBonus := current.YieldAccuracyBonus
			if input.YieldPerFollower != nil {
				if perFollower, err = domain.ParseAmount(*input.YieldPerFollower); err != nil {
					return nil, out, err
				}
			}
			if input.YieldPerStakedUnit != nil {
				if perStakedUnit, err = domain.ParseAmount(*input.YieldPerStakedUnit); err != nil {
					return nil, out, err
				}
			}
			if input.YieldAccuracyBonus != nil {
				if accuracyBonus, err = domain.ParseAmount(*input.YieldAccuracyBonus); err != nil {
					return nil, out, err
				}
			}
			if err = s.engine.SetYieldRates(operator, perFollower, perStakedUnit, accuracyBonus); err != nil {
				return nil, out, err
			}
		}
		if input.MaxYieldPerHarvest != nil {
			var limit *big.Int
			if limit, err = domain.ParseAmount(*input.MaxYieldPerHarvest); err != nil {
				return nil, out, err
			}
			if err = s.engine.SetMaxYieldPerHarvest(operator, limit); err != nil {
				return nil, out, err
			}
		}
		if input.ProphecyRewardPerCorrect != nil {
			var reward *big.Int
			if reward, err = domain.ParseAmount(*input.ProphecyRewardPerCorrect); err != nil {
				return nil, out, err
			}
			if err = s.engine.SetProphecyReward(operator, reward); err != nil {
				return nil, out, err
			}
		}
		if err = s.persist(ctx); err != nil {
			return nil, out, err
		}
		return nil, paramsResult(s.engine.Params()), nil
	}
}

func (s *Server) getTreasuryHandler() mcp.ToolHandlerFor[GetTreasuryInput, CultStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetTreasuryInput) (*mcp.CallToolResult, CultStatusResult, error) {
		status, err := s.engine.GetTreasury(domain.CultID(input.CultID))
		if err != nil {
			return nil, CultStatusResult{}, err
		}
		return nil, cultStatusResult(status), nil
	}
}

func (s *Server) runwayHandler() mcp.ToolHandlerFor[RunwayInput, RunwayResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RunwayInput) (*mcp.CallToolResult, RunwayResult, error) {
		ticks, unbounded, err := s.engine.EstimateRunway(domain.CultID(input.CultID))
		if err != nil {
			return nil, RunwayResult{}, err
		}
		out := RunwayResult{Unbounded: unbounded}
		if !unbounded {
			out.Ticks = domain.FormatAmount(ticks)
		}
		return nil, out, nil
	}
}

func (s *Server) canRebirthHandler() mcp.ToolHandlerFor[CanRebirthInput, CanRebirthResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CanRebirthInput) (*mcp.CallToolResult, CanRebirthResult, error) {
		eligible, err := s.engine.CanRebirth(domain.CultID(input.CultID))
		if err != nil {
			return nil, CanRebirthResult{}, err
		}
		return nil, CanRebirthResult{Eligible: eligible}, nil
	}
}

func (s *Server) availableBalanceHandler() mcp.ToolHandlerFor[AvailableBalanceInput, AvailableBalanceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AvailableBalanceInput) (*mcp.CallToolResult, AvailableBalanceResult, error) {
		available, err := s.engine.GetAvailableBalance(domain.CultID(input.CultID))
		if err != nil {
			return nil, AvailableBalanceResult{}, err
		}
		return nil, AvailableBalanceResult{Available: domain.FormatAmount(available)}, nil
	}
}

func (s *Server) visibleBalanceHandler() mcp.ToolHandlerFor[VisibleBalanceInput, VisibleBalanceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input VisibleBalanceInput) (*mcp.CallToolResult, VisibleBalanceResult, error) {
		balance, visible := s.engine.GetVisibleBalance(domain.CultID(input.OwnerID), domain.CultID(input.ViewerID))
		return nil, VisibleBalanceResult{
			Balance: domain.FormatAmount(balance),
			Visible: visible,
		}, nil
	}
}

func (s *Server) statsHandler() mcp.ToolHandlerFor[StatsInput, StatsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ StatsInput) (*mcp.CallToolResult, StatsResult, error) {
		return nil, statsResult(s.engine.Stats()), nil
	}
}

func (s *Server) paramsHandler() mcp.ToolHandlerFor[ParamsInput, ParamsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ParamsInput) (*mcp.CallToolResult, ParamsResult, error) {
		return nil, paramsResult(s.engine.Params()), nil
	}
}

func (s *Server) eventsHandler() mcp.ToolHandlerFor[EventsInput, EventsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventsInput) (*mcp.CallToolResult, EventsResult, error) {
		events, err := s.journal.List(ctx, input.AfterSeq, input.Limit)
		if err != nil {
			return nil, EventsResult{}, err
		}
		out := EventsResult{Events: make([]EventRecord, 0, len(events))}
		for _, ev := range events {
			out.Events = append(out.Events, EventRecord{
				Seq:       ev.Seq,
				Type:      string(ev.Type),
				CultID:    uint64(ev.CultID),
				Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
				Payload:   json.RawMessage(ev.PayloadJSON),
			})
		}
		return nil, out, nil
	}
}
