package event

import (
	"encoding/json"
	"fmt"
)

// Payload field sets are part of the audit compatibility surface. Amounts are
// rendered as base-10 strings so observers never lose precision to floats.

// TreasuryInitializedPayload carries the opening balance.
type TreasuryInitializedPayload struct {
	InitialBalance string `json:"initial_balance"`
}

// InflowRecordedPayload carries a credited amount and its source tag.
type InflowRecordedPayload struct {
	Amount     string `json:"amount"`
	Source     string `json:"source"`
	NewBalance string `json:"new_balance"`
}

// OutflowRecordedPayload carries a debited amount and its reason.
type OutflowRecordedPayload struct {
	Amount     string `json:"amount"`
	Reason     string `json:"reason"`
	NewBalance string `json:"new_balance"`
}

// CultDiedPayload carries death bookkeeping.
type CultDiedPayload struct {
	DeathCount  uint64 `json:"death_count"`
	TotalDeaths uint64 `json:"total_deaths"`
}

// CultRebornPayload carries the rebirth funding.
type CultRebornPayload struct {
	NewFunding string `json:"new_funding"`
	DeathCount uint64 `json:"death_count"`
}

// TickBurnAppliedPayload carries the burned amount and the death flag.
type TickBurnAppliedPayload struct {
	Burned     string `json:"burned"`
	NewBalance string `json:"new_balance"`
	Died       bool   `json:"died"`
}

// FundsLockedPayload carries the escrowed amount and its reason.
type FundsLockedPayload struct {
	Amount      string `json:"amount"`
	Reason      string `json:"reason"`
	TotalLocked string `json:"total_locked"`
}

// FundsReleasedPayload carries the released amount.
type FundsReleasedPayload struct {
	Amount      string `json:"amount"`
	TotalLocked string `json:"total_locked"`
}

// InterCultTransferPayload carries a typed transfer between two cults.
type InterCultTransferPayload struct {
	FromID       uint64 `json:"from_id"`
	ToID         uint64 `json:"to_id"`
	Amount       string `json:"amount"`
	TransferType string `json:"transfer_type"`
}

// ProtocolFeeCollectedPayload carries the skimmed fee and the remainder.
type ProtocolFeeCollectedPayload struct {
	Amount    string `json:"amount"`
	Fee       string `json:"fee"`
	NetAmount string `json:"net_amount"`
}

// ProtocolFeesDistributedPayload carries the three-way fee split.
type ProtocolFeesDistributedPayload struct {
	Total   string `json:"total"`
	ToPool  string `json:"to_pool"`
	ToYield string `json:"to_yield"`
	ToBurn  string `json:"to_burn"`
}

// YieldHarvestedPayload carries the productivity inputs and minted yield.
type YieldHarvestedPayload struct {
	FollowerCount     uint64 `json:"follower_count"`
	TotalStaked       string `json:"total_staked"`
	CorrectProphecies uint64 `json:"correct_prophecies"`
	YieldAmount       string `json:"yield_amount"`
}

// YieldSubsidyAppliedPayload carries the subsidy bonus drawn from the pool.
type YieldSubsidyAppliedPayload struct {
	Bonus         string `json:"bonus"`
	RemainingPool string `json:"remaining_pool"`
}

// ProphecyPoolFundedPayload carries a direct reward pool top-up.
type ProphecyPoolFundedPayload struct {
	Amount  string `json:"amount"`
	NewPool string `json:"new_pool"`
}

// ProphecyRewardClaimedPayload carries the (possibly truncated) payout.
type ProphecyRewardClaimedPayload struct {
	Reward   string `json:"reward"`
	Accuracy uint64 `json:"accuracy"`
}

// ProtocolFeeUpdatedPayload carries a fee parameter change.
type ProtocolFeeUpdatedPayload struct {
	OldBps uint32 `json:"old_bps"`
	NewBps uint32 `json:"new_bps"`
}

// TickBurnRateUpdatedPayload carries a burn rate change.
type TickBurnRateUpdatedPayload struct {
	OldRate string `json:"old_rate"`
	NewRate string `json:"new_rate"`
}

// BalanceViewPayload carries a visibility edge change.
type BalanceViewPayload struct {
	OwnerID  uint64 `json:"owner_id"`
	ViewerID uint64 `json:"viewer_id"`
}

// MarshalPayload encodes a payload struct for journal storage.
func MarshalPayload(payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	return encoded, nil
}

// UnmarshalPayload decodes a stored payload into target.
func UnmarshalPayload(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshal event payload: %w", err)
	}
	return nil
}
