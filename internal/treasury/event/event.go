// Package event defines the immutable audit records emitted by the treasury
// engine. External observers (dashboards, indexers) consume these records, so
// the type names and payload field sets are a compatibility surface.
package event

import (
	"strings"
	"time"

	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
)

// Type identifies the type of a treasury audit event.
type Type string

// Ledger lifecycle events.
const (
	// TypeTreasuryInitialized records the creation of a cult treasury.
	TypeTreasuryInitialized Type = "TreasuryInitialized"
	// TypeInflowRecorded records funds credited to a treasury.
	TypeInflowRecorded Type = "InflowRecorded"
	// TypeOutflowRecorded records funds debited from a treasury.
	TypeOutflowRecorded Type = "OutflowRecorded"
	// TypeCultDied records a treasury draining to zero.
	TypeCultDied Type = "CultDied"
	// TypeCultReborn records a dead cult returning with new funding.
	TypeCultReborn Type = "CultReborn"
)

// Burn events.
const (
	// TypeTickBurnApplied records one cycle of operational decay.
	TypeTickBurnApplied Type = "TickBurnApplied"
)

// Escrow and transfer events.
const (
	// TypeFundsLocked records funds reserved against a balance.
	TypeFundsLocked Type = "FundsLocked"
	// TypeFundsReleased records reserved funds becoming available again.
	TypeFundsReleased Type = "FundsReleased"
	// TypeInterCultTransfer records a typed transfer between two cults.
	TypeInterCultTransfer Type = "InterCultTransfer"
)

// Fee events.
const (
	// TypeProtocolFeeCollected records a fee skimmed from a reported amount.
	TypeProtocolFeeCollected Type = "ProtocolFeeCollected"
	// TypeProtocolFeesDistributed records the queued fees fanning out.
	TypeProtocolFeesDistributed Type = "ProtocolFeesDistributed"
)

// Yield and prophecy events.
const (
	// TypeYieldHarvested records newly minted yield.
	TypeYieldHarvested Type = "YieldHarvested"
	// TypeYieldSubsidyApplied records a subsidy bonus drawn from the pool.
	TypeYieldSubsidyApplied Type = "YieldSubsidyApplied"
	// TypeProphecyPoolFunded records a direct top-up of the reward pool.
	TypeProphecyPoolFunded Type = "ProphecyPoolFunded"
	// TypeProphecyRewardClaimed records a prophecy reward payout.
	TypeProphecyRewardClaimed Type = "ProphecyRewardClaimed"
)

// Configuration events.
const (
	// TypeProtocolFeeUpdated records a protocol fee change.
	TypeProtocolFeeUpdated Type = "ProtocolFeeUpdated"
	// TypeTickBurnRateUpdated records a tick burn rate change.
	TypeTickBurnRateUpdated Type = "TickBurnRateUpdated"
)

// Visibility events.
const (
	// TypeBalanceViewGranted records a balance read grant.
	TypeBalanceViewGranted Type = "BalanceViewGranted"
	// TypeBalanceViewRevoked records a balance read revocation.
	TypeBalanceViewRevoked Type = "BalanceViewRevoked"
)

// Event represents an immutable record in the treasury audit journal.
type Event struct {
	// Seq is the journal sequence number (starts at 1). Assigned on append.
	Seq uint64
	// Type identifies the kind of event.
	Type Type
	// CultID is the affected cult, or 0 for pool-level events.
	CultID domain.CultID
	// Timestamp is the engine-observed time of the state change.
	Timestamp time.Time
	// PayloadJSON holds the event-specific quantities as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}
