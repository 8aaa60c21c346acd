package mcp

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Mutating tool inputs carry an operator grant token; amounts travel as
// base-10 strings so they survive any JSON number handling.

// InitTreasuryInput creates a cult treasury.
type InitTreasuryInput struct {
	OperatorGrant  string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID         uint64 `json:"cult_id" jsonschema:"cult identifier"`
	InitialBalance string `json:"initial_balance" jsonschema:"opening balance as a decimal string"`
}

// RecordInflowInput credits funds to a cult.
type RecordInflowInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID        uint64 `json:"cult_id" jsonschema:"cult identifier"`
	Amount        string `json:"amount" jsonschema:"amount as a decimal string"`
	Source        string `json:"source" jsonschema:"inflow source: raid, staking, or other"`
}

// RecordOutflowInput debits funds from a cult.
type RecordOutflowInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID        uint64 `json:"cult_id" jsonschema:"cult identifier"`
	Amount        string `json:"amount" jsonschema:"amount as a decimal string"`
	Reason        string `json:"reason" jsonschema:"audit reason for the outflow"`
}

// TickBurnInput applies one burn cycle to a cult.
type TickBurnInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID        uint64 `json:"cult_id" jsonschema:"cult identifier"`
}

// TickBurnResult reports the burn outcome.
type TickBurnResult struct {
	Burned string `json:"burned" jsonschema:"amount actually burned"`
	Died   bool   `json:"died" jsonschema:"whether the burn killed the cult"`
}

// LockFundsInput reserves funds against a cult's balance.
type LockFundsInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID        uint64 `json:"cult_id" jsonschema:"cult identifier"`
	Amount        string `json:"amount" jsonschema:"amount as a decimal string"`
	Reason        string `json:"reason" jsonschema:"audit reason for the lock"`
}

// ReleaseFundsInput returns locked funds to the available balance.
type ReleaseFundsInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID        uint64 `json:"cult_id" jsonschema:"cult identifier"`
	Amount        string `json:"amount" jsonschema:"amount as a decimal string"`
}

// EscrowResult reports the cult's locked total after the call.
type EscrowResult struct {
	TotalLocked string `json:"total_locked" jsonschema:"locked balance after the call"`
}

// TransferInput moves funds between two cults.
type TransferInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	FromID        uint64 `json:"from_id" jsonschema:"source cult identifier"`
	ToID          uint64 `json:"to_id" jsonschema:"target cult identifier"`
	Amount        string `json:"amount" jsonschema:"amount as a decimal string"`
	TransferType  string `json:"transfer_type" jsonschema:"raid_spoils, bribe, tribute, or donation"`
}

// TransferResult reports the transfer outcome.
type TransferResult struct {
	SourceDied bool `json:"source_died" jsonschema:"whether the source drained to death"`
}

// CollectFeeInput skims the protocol fee from a reported amount.
type CollectFeeInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID        uint64 `json:"cult_id" jsonschema:"cult identifier"`
	Amount        string `json:"amount" jsonschema:"reported amount as a decimal string"`
}

// CollectFeeResult reports the skimmed fee and remainder.
type CollectFeeResult struct {
	Fee       string `json:"fee" jsonschema:"collected fee"`
	NetAmount string `json:"net_amount" jsonschema:"amount remaining after the fee"`
}

// DistributeFeesInput fans queued fees out to the pools.
type DistributeFeesInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
}

// DistributeFeesResult reports the exact split.
type DistributeFeesResult struct {
	Total   string `json:"total" jsonschema:"total distributed"`
	ToPool  string `json:"to_pool" jsonschema:"amount to the prophecy reward pool"`
	ToYield string `json:"to_yield" jsonschema:"amount to the yield subsidy pool"`
	ToBurn  string `json:"to_burn" jsonschema:"amount burned"`
}

// HarvestInput mints yield from reported productivity.
type HarvestInput struct {
	OperatorGrant     string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID            uint64 `json:"cult_id" jsonschema:"cult identifier"`
	FollowerCount     uint64 `json:"follower_count" jsonschema:"reported follower count"`
	TotalStaked       string `json:"total_staked" jsonschema:"reported staked amount as a decimal string"`
	CorrectProphecies uint64 `json:"correct_prophecies" jsonschema:"reported correct prophecy count"`
}

// HarvestResult reports the minted yield.
type HarvestResult struct {
	Yield        string `json:"yield" jsonschema:"minted yield, subsidy included, after the cap"`
	SubsidyBonus string `json:"subsidy_bonus" jsonschema:"portion drawn from the subsidy pool"`
}

// FundPoolInput tops up the prophecy reward pool.
type FundPoolInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	Amount        string `json:"amount" jsonschema:"amount as a decimal string"`
}

// FundPoolResult reports the pool after the top-up.
type FundPoolResult struct {
	Pool string `json:"pool" jsonschema:"prophecy reward pool after funding"`
}

// ClaimRewardInput pays the prophecy reward for one correct prediction.
type ClaimRewardInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID        uint64 `json:"cult_id" jsonschema:"cult identifier"`
}

// ClaimRewardResult reports the (possibly truncated) payout.
type ClaimRewardResult struct {
	Reward   string `json:"reward" jsonschema:"payout, truncated to the pool"`
	Accuracy uint64 `json:"accuracy" jsonschema:"correct prophecy count after the claim"`
}

// RebirthInput resurrects a dead cult.
type RebirthInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	CultID        uint64 `json:"cult_id" jsonschema:"cult identifier"`
	NewFunding    string `json:"new_funding" jsonschema:"new funding as a decimal string"`
}

// BalanceViewInput grants or revokes a balance view edge.
type BalanceViewInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	OwnerID       uint64 `json:"owner_id" jsonschema:"cult whose balance is viewed"`
	ViewerID      uint64 `json:"viewer_id" jsonschema:"cult receiving or losing the view"`
}

// AckResult acknowledges a call with no other output.
type AckResult struct {
	OK bool `json:"ok" jsonschema:"whether the call applied"`
}

// SetProtocolFeeInput updates the protocol fee.
type SetProtocolFeeInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	Bps           uint32 `json:"bps" jsonschema:"fee in basis points, at most 500"`
}

// SetTickBurnRateInput updates the per-cycle burn cost.
type SetTickBurnRateInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	Rate          string `json:"rate" jsonschema:"burn rate as a decimal string"`
}

// SetFeeDistributionInput updates the three-way fee split.
type SetFeeDistributionInput struct {
	OperatorGrant string `json:"operator_grant" jsonschema:"operator grant token"`
	ToPoolBps     uint32 `json:"to_pool_bps" jsonschema:"bps to the prophecy reward pool"`
	ToYieldBps    uint32 `json:"to_yield_bps" jsonschema:"bps to the yield subsidy pool"`
	ToBurnBps     uint32 `json:"to_burn_bps" jsonschema:"bps burned"`
}

// SetEconomyParamsInput updates the remaining tunable parameters. Absent
// fields keep their current values.
type SetEconomyParamsInput struct {
	OperatorGrant            string  `json:"operator_grant" jsonschema:"operator grant token"`
	DeathCooldownSeconds     *uint64 `json:"death_cooldown_seconds,omitempty" jsonschema:"delay before a dead cult may be reborn"`
	RebirthMinFunding        *string `json:"rebirth_min_funding,omitempty" jsonschema:"minimum rebirth funding"`
	YieldPerFollower         *string `json:"yield_per_follower,omitempty" jsonschema:"productivity per follower"`
	YieldPerStakedUnit       *string `json:"yield_per_staked_unit,omitempty" jsonschema:"productivity per whole staked token"`
	YieldAccuracyBonus       *string `json:"yield_accuracy_bonus,omitempty" jsonschema:"productivity per correct prophecy"`
	MaxYieldPerHarvest       *string `json:"max_yield_per_harvest,omitempty" jsonschema:"per-harvest yield cap"`
	ProphecyRewardPerCorrect *string `json:"prophecy_reward_per_correct,omitempty" jsonschema:"fixed reward per correct prophecy"`
}

// Query tool inputs and outputs.

// GetTreasuryInput fetches the full view of one cult.
type GetTreasuryInput struct {
	CultID uint64 `json:"cult_id" jsonschema:"cult identifier"`
}

// CultStatusResult is the full per-cult view.
type CultStatusResult struct {
	CultID              uint64 `json:"cult_id" jsonschema:"cult identifier"`
	Balance             string `json:"balance" jsonschema:"current balance"`
	Alive               bool   `json:"alive" jsonschema:"whether the cult is alive"`
	TotalInflow         string `json:"total_inflow" jsonschema:"lifetime inflow"`
	TotalOutflow        string `json:"total_outflow" jsonschema:"lifetime outflow"`
	TickBurnAccumulated string `json:"tick_burn_accumulated" jsonschema:"lifetime tick burn"`
	LockedBalance       string `json:"locked_balance" jsonschema:"escrowed balance"`
	RaidRevenue         string `json:"raid_revenue" jsonschema:"lifetime raid revenue"`
	StakingRevenue      string `json:"staking_revenue" jsonschema:"lifetime staking revenue"`
	TotalYieldEarned    string `json:"total_yield_earned" jsonschema:"lifetime minted yield"`
	ProphecyAccuracy    uint64 `json:"prophecy_accuracy" jsonschema:"correct prophecy count"`
	DeathCount          uint64 `json:"death_count" jsonschema:"lifetime death count"`
	DeathTimestamp      string `json:"death_timestamp,omitempty" jsonschema:"last death time, RFC 3339"`
	LastUpdated         string `json:"last_updated,omitempty" jsonschema:"last mutation time, RFC 3339"`
}

// RunwayInput estimates burn-tick survival for one cult.
type RunwayInput struct {
	CultID uint64 `json:"cult_id" jsonschema:"cult identifier"`
}

// RunwayResult reports the estimate.
type RunwayResult struct {
	Ticks     string `json:"ticks" jsonschema:"whole ticks of survival; empty when unbounded"`
	Unbounded bool   `json:"unbounded" jsonschema:"true when the burn rate is zero"`
}

// CanRebirthInput checks rebirth eligibility.
type CanRebirthInput struct {
	CultID uint64 `json:"cult_id" jsonschema:"cult identifier"`
}

// CanRebirthResult reports eligibility.
type CanRebirthResult struct {
	Eligible bool `json:"eligible" jsonschema:"whether the cult passes the rebirth gates"`
}

// AvailableBalanceInput fetches the unlocked balance.
type AvailableBalanceInput struct {
	CultID uint64 `json:"cult_id" jsonschema:"cult identifier"`
}

// AvailableBalanceResult reports the unlocked balance.
type AvailableBalanceResult struct {
	Available string `json:"available" jsonschema:"unlocked balance; zero for dead cults"`
}

// VisibleBalanceInput reads a balance through the visibility graph.
type VisibleBalanceInput struct {
	OwnerID  uint64 `json:"owner_id" jsonschema:"cult whose balance is requested"`
	ViewerID uint64 `json:"viewer_id" jsonschema:"cult requesting the balance"`
}

// VisibleBalanceResult reports the balance, or a zero default when denied.
type VisibleBalanceResult struct {
	Balance string `json:"balance" jsonschema:"balance when visible, otherwise zero"`
	Visible bool   `json:"visible" jsonschema:"whether the viewer holds a grant"`
}

// StatsInput fetches the global counters.
type StatsInput struct{}

// StatsResult reports the global counters and pools.
type StatsResult struct {
	TotalProtocolFees    string `json:"total_protocol_fees" jsonschema:"lifetime collected fees"`
	TotalBurned          string `json:"total_burned" jsonschema:"lifetime burned value"`
	TotalDeaths          uint64 `json:"total_deaths" jsonschema:"lifetime deaths"`
	TotalYieldMinted     string `json:"total_yield_minted" jsonschema:"lifetime minted yield"`
	TotalProphecyRewards string `json:"total_prophecy_rewards" jsonschema:"lifetime prophecy payouts"`
	UndistributedFees    string `json:"undistributed_fees" jsonschema:"fees queued for distribution"`
	ProphecyRewardPool   string `json:"prophecy_reward_pool" jsonschema:"current reward pool"`
	YieldSubsidyPool     string `json:"yield_subsidy_pool" jsonschema:"current subsidy pool"`
}

// ParamsInput fetches the current parameters.
type ParamsInput struct{}

// ParamsResult reports the current parameter set.
type ParamsResult struct {
	ProtocolFeeBps           uint32 `json:"protocol_fee_bps" jsonschema:"protocol fee in basis points"`
	TickBurnRate             string `json:"tick_burn_rate" jsonschema:"per-cycle burn cost"`
	DeathCooldownSeconds     uint64 `json:"death_cooldown_seconds" jsonschema:"rebirth delay after death"`
	RebirthMinFunding        string `json:"rebirth_min_funding" jsonschema:"minimum rebirth funding"`
	HarvestCooldownSeconds   uint64 `json:"harvest_cooldown_seconds" jsonschema:"delay between harvests"`
	YieldPerFollower         string `json:"yield_per_follower" jsonschema:"productivity per follower"`
	YieldPerStakedUnit       string `json:"yield_per_staked_unit" jsonschema:"productivity per whole staked token"`
	YieldAccuracyBonus       string `json:"yield_accuracy_bonus" jsonschema:"productivity per correct prophecy"`
	MaxYieldPerHarvest       string `json:"max_yield_per_harvest" jsonschema:"per-harvest yield cap"`
	ProphecyRewardPerCorrect string `json:"prophecy_reward_per_correct" jsonschema:"fixed reward per correct prophecy"`
	FeeToPoolBps             uint32 `json:"fee_to_pool_bps" jsonschema:"fee split to the reward pool"`
	FeeToYieldBps            uint32 `json:"fee_to_yield_bps" jsonschema:"fee split to the subsidy pool"`
	FeeToBurnBps             uint32 `json:"fee_to_burn_bps" jsonschema:"fee split burned"`
}

// EventsInput pages through the audit journal.
type EventsInput struct {
	AfterSeq uint64 `json:"after_seq" jsonschema:"return events with a larger sequence"`
	Limit    int    `json:"limit" jsonschema:"maximum events to return; 0 for no limit"`
}

// EventRecord is one audit journal entry.
type EventRecord struct {
	Seq       uint64          `json:"seq" jsonschema:"journal sequence number"`
	Type      string          `json:"type" jsonschema:"event type"`
	CultID    uint64          `json:"cult_id" jsonschema:"affected cult, 0 for pool-level events"`
	Timestamp string          `json:"timestamp" jsonschema:"event time, RFC 3339"`
	Payload   json.RawMessage `json:"payload" jsonschema:"event-specific quantities"`
}

// EventsResult reports a journal page.
type EventsResult struct {
	Events []EventRecord `json:"events" jsonschema:"audit events in sequence order"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_init",
		Description: "Creates a cult treasury with an opening balance",
	}, s.initTreasuryHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_record_inflow",
		Description: "Credits funds to a cult treasury",
	}, s.recordInflowHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_record_outflow",
		Description: "Debits funds from a cult treasury",
	}, s.recordOutflowHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_apply_tick_burn",
		Description: "Applies one cycle of operational burn to a cult",
	}, s.tickBurnHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_lock_funds",
		Description: "Reserves funds against a cult's balance",
	}, s.lockFundsHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_release_funds",
		Description: "Returns locked funds to the available balance",
	}, s.releaseFundsHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_transfer",
		Description: "Moves funds between two cults",
	}, s.transferHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_collect_fee",
		Description: "Skims the protocol fee from a reported amount",
	}, s.collectFeeHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_distribute_fees",
		Description: "Distributes queued protocol fees to the pools",
	}, s.distributeFeesHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_harvest_yield",
		Description: "Mints yield for a cult from reported productivity",
	}, s.harvestHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_fund_prophecy_pool",
		Description: "Tops up the prophecy reward pool",
	}, s.fundPoolHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_claim_prophecy_reward",
		Description: "Pays the prophecy reward for one correct prediction",
	}, s.claimRewardHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_rebirth",
		Description: "Resurrects a dead cult with new funding",
	}, s.rebirthHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_grant_balance_view",
		Description: "Allows one cult to read another's balance",
	}, s.grantViewHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_revoke_balance_view",
		Description: "Removes a balance view grant",
	}, s.revokeViewHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_set_protocol_fee",
		Description: "Updates the protocol fee in basis points",
	}, s.setProtocolFeeHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_set_tick_burn_rate",
		Description: "Updates the per-cycle burn cost",
	}, s.setTickBurnRateHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_set_fee_distribution",
		Description: "Updates the three-way fee split ratios",
	}, s.setFeeDistributionHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_set_economy_params",
		Description: "Updates the remaining economic parameters",
	}, s.setEconomyParamsHandler())

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_get",
		Description: "Returns the full view of one cult treasury",
	}, s.getTreasuryHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_estimate_runway",
		Description: "Estimates burn-tick survival for a cult",
	}, s.runwayHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_can_rebirth",
		Description: "Checks whether a dead cult may be reborn",
	}, s.canRebirthHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_available_balance",
		Description: "Returns a cult's unlocked balance",
	}, s.availableBalanceHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_visible_balance",
		Description: "Reads a balance through the visibility graph",
	}, s.visibleBalanceHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_stats",
		Description: "Returns the global counters and pools",
	}, s.statsHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_params",
		Description: "Returns the current economic parameters",
	}, s.paramsHandler())
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "treasury_events",
		Description: "Pages through the audit journal",
	}, s.eventsHandler())
}
