package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/engine"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/storage"
)

// paramsJSON is the stored form of domain.Params. Amounts are decimal
// strings; durations are milliseconds.
type paramsJSON struct {
	ProtocolFeeBps           uint32 `json:"protocol_fee_bps"`
	TickBurnRate             string `json:"tick_burn_rate"`
	DeathCooldownMS          int64  `json:"death_cooldown_ms"`
	RebirthMinFunding        string `json:"rebirth_min_funding"`
	HarvestCooldownMS        int64  `json:"harvest_cooldown_ms"`
	YieldPerFollower         string `json:"yield_per_follower"`
	YieldPerStakedUnit       string `json:"yield_per_staked_unit"`
	YieldAccuracyBonus       string `json:"yield_accuracy_bonus"`
	MaxYieldPerHarvest       string `json:"max_yield_per_harvest"`
	ProphecyRewardPerCorrect string `json:"prophecy_reward_per_correct"`
	FeeToPoolBps             uint32 `json:"fee_to_pool_bps"`
	FeeToYieldBps            uint32 `json:"fee_to_yield_bps"`
	FeeToBurnBps             uint32 `json:"fee_to_burn_bps"`
}

// statsJSON is the stored form of domain.Stats.
type statsJSON struct {
	TotalProtocolFees    string `json:"total_protocol_fees"`
	TotalBurned          string `json:"total_burned"`
	TotalDeaths          uint64 `json:"total_deaths"`
	TotalYieldMinted     string `json:"total_yield_minted"`
	TotalProphecyRewards string `json:"total_prophecy_rewards"`
	UndistributedFees    string `json:"undistributed_fees"`
	ProphecyRewardPool   string `json:"prophecy_reward_pool"`
	YieldSubsidyPool     string `json:"yield_subsidy_pool"`
}

func encodeParams(p domain.Params) ([]byte, error) {
	return json.Marshal(paramsJSON{
		ProtocolFeeBps:           p.ProtocolFeeBps,
		TickBurnRate:             domain.FormatAmount(p.TickBurnRate),
		DeathCooldownMS:          p.DeathCooldown.Milliseconds(),
		RebirthMinFunding:        domain.FormatAmount(p.RebirthMinFunding),
		HarvestCooldownMS:        p.HarvestCooldown.Milliseconds(),
		YieldPerFollower:         domain.FormatAmount(p.YieldPerFollower),
		YieldPerStakedUnit:       domain.FormatAmount(p.YieldPerStakedUnit),
		YieldAccuracyBonus:       domain.FormatAmount(p.YieldAccuracyBonus),
		MaxYieldPerHarvest:       domain.FormatAmount(p.MaxYieldPerHarvest),
		ProphecyRewardPerCorrect: domain.FormatAmount(p.ProphecyRewardPerCorrect),
		FeeToPoolBps:             p.FeeToPoolBps,
		FeeToYieldBps:            p.FeeToYieldBps,
		FeeToBurnBps:             p.FeeToBurnBps,
	})
}

func decodeParams(data []byte) (domain.Params, error) {
	var stored paramsJSON
	if err := json.Unmarshal(data, &stored); err != nil {
		return domain.Params{}, fmt.Errorf("unmarshal params: %w", err)
	}
	params := domain.Params{
		ProtocolFeeBps:  stored.ProtocolFeeBps,
		DeathCooldown:   time.Duration(stored.DeathCooldownMS) * time.Millisecond,
		HarvestCooldown: time.Duration(stored.HarvestCooldownMS) * time.Millisecond,
		FeeToPoolBps:    stored.FeeToPoolBps,
		FeeToYieldBps:   stored.FeeToYieldBps,
		FeeToBurnBps:    stored.FeeToBurnBps,
	}
	for _, field := range []struct {
		value  string
		target **big.Int
	}{
		{stored.TickBurnRate, &params.TickBurnRate},
		{stored.RebirthMinFunding, &params.RebirthMinFunding},
		{stored.YieldPerFollower, &params.YieldPerFollower},
		{stored.YieldPerStakedUnit, &params.YieldPerStakedUnit},
		{stored.YieldAccuracyBonus, &params.YieldAccuracyBonus},
		{stored.MaxYieldPerHarvest, &params.MaxYieldPerHarvest},
		{stored.ProphecyRewardPerCorrect, &params.ProphecyRewardPerCorrect},
	} {
		parsed, err := domain.ParseAmount(field.value)
		if err != nil {
			return domain.Params{}, fmt.Errorf("parse stored params: %w", err)
		}
		*field.target = parsed
	}
	return params, nil
}

func encodeStats(s domain.Stats) ([]byte, error) {
	return json.Marshal(statsJSON{
		TotalProtocolFees:    domain.FormatAmount(s.TotalProtocolFees),
		TotalBurned:          domain.FormatAmount(s.TotalBurned),
		TotalDeaths:          s.TotalDeaths,
		TotalYieldMinted:     domain.FormatAmount(s.TotalYieldMinted),
		TotalProphecyRewards: domain.FormatAmount(s.TotalProphecyRewards),
		UndistributedFees:    domain.FormatAmount(s.UndistributedFees),
		ProphecyRewardPool:   domain.FormatAmount(s.ProphecyRewardPool),
		YieldSubsidyPool:     domain.FormatAmount(s.YieldSubsidyPool),
	})
}

func decodeStats(data []byte) (domain.Stats, error) {
	var stored statsJSON
	if err := json.Unmarshal(data, &stored); err != nil {
		return domain.Stats{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	stats := domain.NewStats()
	stats.TotalDeaths = stored.TotalDeaths
	for _, field := range []struct {
		value  string
		target *big.Int
	}{
		{stored.TotalProtocolFees, stats.TotalProtocolFees},
		{stored.TotalBurned, stats.TotalBurned},
		{stored.TotalYieldMinted, stats.TotalYieldMinted},
		{stored.TotalProphecyRewards, stats.TotalProphecyRewards},
		{stored.UndistributedFees, stats.UndistributedFees},
		{stored.ProphecyRewardPool, stats.ProphecyRewardPool},
		{stored.YieldSubsidyPool, stats.YieldSubsidyPool},
	} {
		parsed, err := domain.ParseAmount(field.value)
		if err != nil {
			return domain.Stats{}, fmt.Errorf("parse stored stats: %w", err)
		}
		field.target.Set(parsed)
	}
	return stats, nil
}

// SaveState replaces the persisted engine state in one transaction.
func (s *Store) SaveState(ctx context.Context, state engine.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	paramsData, err := encodeParams(state.Params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	statsData, err := encodeStats(state.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	rollback := func(err error) error {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cult_states"); err != nil {
		return rollback(fmt.Errorf("clear cult states: %w", err))
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM balance_views"); err != nil {
		return rollback(fmt.Errorf("clear balance views: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO engine_state (id, params, stats, last_observed_ms)
VALUES (1, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    params = excluded.params,
    stats = excluded.stats,
    last_observed_ms = excluded.last_observed_ms
`, string(paramsData), string(statsData), toMillis(state.LastObserved)); err != nil {
		return rollback(fmt.Errorf("save engine state: %w", err))
	}

	for _, cult := range state.Cults {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO cult_states (
    id, balance, last_updated_ms, total_inflow, total_outflow,
    tick_burn_accumulated, alive, locked_balance, raid_revenue,
    staking_revenue, yield_earned, accuracy, death_count,
    death_timestamp_ms, last_harvest_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
			uint64(cult.Snapshot.ID),
			domain.FormatAmount(cult.Snapshot.Balance),
			toMillis(cult.Snapshot.LastUpdated),
			domain.FormatAmount(cult.Snapshot.TotalInflow),
			domain.FormatAmount(cult.Snapshot.TotalOutflow),
			domain.FormatAmount(cult.Snapshot.TickBurnAccumulated),
			boolToInt(cult.Snapshot.Alive),
			domain.FormatAmount(cult.LockedBalance),
			domain.FormatAmount(cult.RaidRevenue),
			domain.FormatAmount(cult.StakingRevenue),
			domain.FormatAmount(cult.YieldEarned),
			cult.Accuracy,
			cult.DeathCount,
			toMillis(cult.DeathTimestamp),
			toMillis(cult.LastHarvestTime),
		); err != nil {
			return rollback(fmt.Errorf("save cult %d: %w", cult.Snapshot.ID, err))
		}
	}

	for owner, viewers := range state.Visibility {
		for _, viewer := range viewers {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO balance_views (owner_id, viewer_id) VALUES (?, ?)
`, uint64(owner), uint64(viewer)); err != nil {
				return rollback(fmt.Errorf("save balance view: %w", err))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

// LoadState returns the persisted engine state, or storage.ErrNotFound when
// nothing has been saved yet.
func (s *Store) LoadState(ctx context.Context) (engine.State, error) {
	if err := ctx.Err(); err != nil {
		return engine.State{}, err
	}

	var (
		paramsData     string
		statsData      string
		lastObservedMS int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT params, stats, last_observed_ms FROM engine_state WHERE id = 1
`).Scan(&paramsData, &statsData, &lastObservedMS)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.State{}, storage.ErrNotFound
	}
	if err != nil {
		return engine.State{}, fmt.Errorf("load engine state: %w", err)
	}

	params, err := decodeParams([]byte(paramsData))
	if err != nil {
		return engine.State{}, err
	}
	stats, err := decodeStats([]byte(statsData))
	if err != nil {
		return engine.State{}, err
	}
	state := engine.State{
		Params:       params,
		Stats:        stats,
		LastObserved: fromMillis(lastObservedMS),
		Visibility:   make(map[domain.CultID][]domain.CultID),
	}

	cults, err := s.loadCults(ctx)
	if err != nil {
		return engine.State{}, err
	}
	state.Cults = cults

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT owner_id, viewer_id FROM balance_views ORDER BY owner_id, viewer_id
`)
	if err != nil {
		return engine.State{}, fmt.Errorf("load balance views: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner, viewer uint64
		if err := rows.Scan(&owner, &viewer); err != nil {
			return engine.State{}, fmt.Errorf("scan balance view: %w", err)
		}
		ownerID := domain.CultID(owner)
		state.Visibility[ownerID] = append(state.Visibility[ownerID], domain.CultID(viewer))
	}
	if err := rows.Err(); err != nil {
		return engine.State{}, fmt.Errorf("iterate balance views: %w", err)
	}
	return state, nil
}

func (s *Store) loadCults(ctx context.Context) ([]engine.CultRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, balance, last_updated_ms, total_inflow, total_outflow,
    tick_burn_accumulated, alive, locked_balance, raid_revenue,
    staking_revenue, yield_earned, accuracy, death_count,
    death_timestamp_ms, last_harvest_ms
FROM cult_states
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("load cult states: %w", err)
	}
	defer rows.Close()

	var cults []engine.CultRecord
	for rows.Next() {
		var (
			record        engine.CultRecord
			id            uint64
			alive         int
			lastUpdatedMS int64
			deathMS       int64
			harvestMS     int64
			amounts       [8]string
		)
		if err := rows.Scan(
			&id, &amounts[0], &lastUpdatedMS, &amounts[1], &amounts[2],
			&amounts[3], &alive, &amounts[4], &amounts[5],
			&amounts[6], &amounts[7], &record.Accuracy, &record.DeathCount,
			&deathMS, &harvestMS,
		); err != nil {
			return nil, fmt.Errorf("scan cult state: %w", err)
		}

		parsed := make([]*big.Int, len(amounts))
		for i, value := range amounts {
			amount, err := domain.ParseAmount(value)
			if err != nil {
				return nil, fmt.Errorf("parse stored cult %d: %w", id, err)
			}
			parsed[i] = amount
		}
		record.Snapshot = domain.Snapshot{
			ID:                  domain.CultID(id),
			Balance:             parsed[0],
			LastUpdated:         fromMillis(lastUpdatedMS),
			TotalInflow:         parsed[1],
			TotalOutflow:        parsed[2],
			TickBurnAccumulated: parsed[3],
			Alive:               alive == 1,
		}
		record.LockedBalance = parsed[4]
		record.RaidRevenue = parsed[5]
		record.StakingRevenue = parsed[6]
		record.YieldEarned = parsed[7]
		record.DeathTimestamp = fromMillis(deathMS)
		record.LastHarvestTime = fromMillis(harvestMS)
		cults = append(cults, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cult states: %w", err)
	}
	return cults, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
