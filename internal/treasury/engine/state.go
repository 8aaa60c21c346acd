package engine

import (
	"math/big"
	"strconv"
	"time"

	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
)

// CultRecord is the persistable form of one cult's engine state.
type CultRecord struct {
	Snapshot        domain.Snapshot
	LockedBalance   *big.Int
	RaidRevenue     *big.Int
	StakingRevenue  *big.Int
	YieldEarned     *big.Int
	Accuracy        uint64
	DeathCount      uint64
	DeathTimestamp  time.Time
	LastHarvestTime time.Time
}

// State is a complete engine snapshot. ExportState produces it with cults and
// visibility edges in ascending id order so persisted state is deterministic.
type State struct {
	Cults        []CultRecord
	Stats        domain.Stats
	Params       domain.Params
	Visibility   map[domain.CultID][]domain.CultID
	LastObserved time.Time
}

func formatID(id domain.CultID) string {
	return strconv.FormatUint(uint64(id), 10)
}
