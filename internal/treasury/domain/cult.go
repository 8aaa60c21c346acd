package domain

import (
	"math/big"
	"time"
)

// CultID identifies the account-like unit owning a treasury.
type CultID uint64

// InflowSource is the closed tag set for recorded inflows. Sources outside
// the known categories are counted only in the aggregate inflow.
type InflowSource int

const (
	// SourceOther covers inflows with no dedicated revenue counter.
	SourceOther InflowSource = iota
	// SourceRaid tags revenue from raids.
	SourceRaid
	// SourceStaking tags revenue from staking.
	SourceStaking
)

// String returns the audit tag for the source.
func (s InflowSource) String() string {
	switch s {
	case SourceRaid:
		return "raid"
	case SourceStaking:
		return "staking"
	default:
		return "other"
	}
}

// ParseInflowSource maps an audit tag back to its source, defaulting to
// SourceOther for unknown tags.
func ParseInflowSource(tag string) InflowSource {
	switch tag {
	case "raid":
		return SourceRaid
	case "staking":
		return SourceStaking
	default:
		return SourceOther
	}
}

// TransferType is the closed tag set for inter-cult transfers. The tag only
// categorizes the audit record; every type gets identical economic treatment.
type TransferType int

const (
	// TransferRaidSpoils marks plunder moved after a raid.
	TransferRaidSpoils TransferType = iota
	// TransferBribe marks a bribe payment.
	TransferBribe
	// TransferTribute marks tribute owed to another cult.
	TransferTribute
	// TransferDonation marks a voluntary donation.
	TransferDonation
)

// String returns the audit tag for the transfer type.
func (t TransferType) String() string {
	switch t {
	case TransferRaidSpoils:
		return "raid_spoils"
	case TransferBribe:
		return "bribe"
	case TransferTribute:
		return "tribute"
	case TransferDonation:
		return "donation"
	}
	return "unknown"
}

// ParseTransferType maps an audit tag back to its transfer type.
func ParseTransferType(tag string) (TransferType, bool) {
	switch tag {
	case "raid_spoils":
		return TransferRaidSpoils, true
	case "bribe":
		return TransferBribe, true
	case "tribute":
		return TransferTribute, true
	case "donation":
		return TransferDonation, true
	}
	return 0, false
}

// Snapshot is the canonical balance record and lifecycle state for one cult.
// A dead cult keeps its record; death is a flag, not removal.
type Snapshot struct {
	ID                  CultID
	Balance             *big.Int
	LastUpdated         time.Time
	TotalInflow         *big.Int
	TotalOutflow        *big.Int
	TickBurnAccumulated *big.Int
	Alive               bool
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	s.Balance = Clone(s.Balance)
	s.TotalInflow = Clone(s.TotalInflow)
	s.TotalOutflow = Clone(s.TotalOutflow)
	s.TickBurnAccumulated = Clone(s.TickBurnAccumulated)
	return s
}

// CultStatus is the full per-cult view returned by treasury queries.
type CultStatus struct {
	Snapshot
	LockedBalance    *big.Int
	RaidRevenue      *big.Int
	StakingRevenue   *big.Int
	TotalYieldEarned *big.Int
	ProphecyAccuracy uint64
	DeathCount       uint64
	DeathTimestamp   time.Time
	LastHarvestTime  time.Time
}

// Stats holds the process-wide shared counters and pools.
type Stats struct {
	TotalProtocolFees    *big.Int
	TotalBurned          *big.Int
	TotalDeaths          uint64
	TotalYieldMinted     *big.Int
	TotalProphecyRewards *big.Int
	UndistributedFees    *big.Int
	ProphecyRewardPool   *big.Int
	YieldSubsidyPool     *big.Int
}

// Clone returns an independent copy of the stats.
func (s Stats) Clone() Stats {
	s.TotalProtocolFees = Clone(s.TotalProtocolFees)
	s.TotalBurned = Clone(s.TotalBurned)
	s.TotalYieldMinted = Clone(s.TotalYieldMinted)
	s.TotalProphecyRewards = Clone(s.TotalProphecyRewards)
	s.UndistributedFees = Clone(s.UndistributedFees)
	s.ProphecyRewardPool = Clone(s.ProphecyRewardPool)
	s.YieldSubsidyPool = Clone(s.YieldSubsidyPool)
	return s
}

// NewStats returns zeroed global counters.
func NewStats() Stats {
	return Stats{
		TotalProtocolFees:    new(big.Int),
		TotalBurned:          new(big.Int),
		TotalYieldMinted:     new(big.Int),
		TotalProphecyRewards: new(big.Int),
		UndistributedFees:    new(big.Int),
		ProphecyRewardPool:   new(big.Int),
		YieldSubsidyPool:     new(big.Int),
	}
}
