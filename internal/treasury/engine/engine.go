// Package engine implements the treasury state machine. Every mutating
// operation runs under one critical section: it validates, computes its
// effects into locals, appends the audit events, and only then mutates
// in-memory state. A journal append failure therefore leaves no partial
// state behind.
package engine

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"sync"
	"time"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

// Journal is the append-only audit sink. Append stores all events in one
// transaction, assigns their sequence numbers, and returns the stored copies.
type Journal interface {
	Append(ctx context.Context, events []event.Event) ([]event.Event, error)
}

// Config assembles an Engine.
type Config struct {
	// Operator is the single principal allowed to mutate the treasury.
	Operator auth.Principal
	// Journal receives one batch of audit events per mutating call.
	Journal Journal
	// Params overrides the launch parameters when non-nil.
	Params *domain.Params
	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
	// Restore resumes from a previously exported state when non-nil.
	Restore *State
}

// cultState carries everything the engine tracks for one cult.
type cultState struct {
	snap           domain.Snapshot
	locked         *big.Int
	raidRevenue    *big.Int
	stakingRevenue *big.Int
	yieldEarned    *big.Int
	accuracy       uint64
	deathCount     uint64
	deathTime      time.Time
	lastHarvest    time.Time
}

// Engine owns the canonical treasury state. All exported methods are safe for
// concurrent use; mutations are strictly serialized.
type Engine struct {
	mu sync.Mutex

	operator     auth.Principal
	journal      Journal
	clock        func() time.Time
	lastObserved time.Time

	params     domain.Params
	cults      map[domain.CultID]*cultState
	stats      domain.Stats
	visibility map[domain.CultID]map[domain.CultID]bool
}

// New builds an engine from cfg. The operator and journal are required.
func New(cfg Config) (*Engine, error) {
	if cfg.Operator.IsZero() {
		return nil, errors.New("engine: operator principal is required")
	}
	if cfg.Journal == nil {
		return nil, errors.New("engine: journal is required")
	}
	params := domain.DefaultParams()
	if cfg.Params != nil {
		params = cfg.Params.Clone()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	e := &Engine{
		operator:   cfg.Operator,
		journal:    cfg.Journal,
		clock:      clock,
		params:     params,
		cults:      make(map[domain.CultID]*cultState),
		stats:      domain.NewStats(),
		visibility: make(map[domain.CultID]map[domain.CultID]bool),
	}
	if cfg.Restore != nil {
		if err := e.restore(*cfg.Restore); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// authorize checks the caller against the configured operator.
func (e *Engine) authorize(p auth.Principal) error {
	if p.IsZero() || p != e.operator {
		return apperrors.New(apperrors.CodeUnauthorized, "caller is not the treasury operator")
	}
	return nil
}

// observe returns the current time clamped to be monotonically non-decreasing
// across calls, so a wall-clock regression cannot re-open cooldowns.
func (e *Engine) observe() time.Time {
	now := e.clock().UTC()
	if now.Before(e.lastObserved) {
		return e.lastObserved
	}
	e.lastObserved = now
	return now
}

// peekNow is observe without advancing the high-water mark, for queries.
func (e *Engine) peekNow() time.Time {
	now := e.clock().UTC()
	if now.Before(e.lastObserved) {
		return e.lastObserved
	}
	return now
}

// cult returns the state for id or NotFound.
func (e *Engine) cult(id domain.CultID) (*cultState, error) {
	c, ok := e.cults[id]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound,
			"cult treasury does not exist",
			map[string]string{"CultID": formatID(id)})
	}
	return c, nil
}

// liveCult returns the state for id, requiring it to be alive.
func (e *Engine) liveCult(id domain.CultID) (*cultState, error) {
	c, err := e.cult(id)
	if err != nil {
		return nil, err
	}
	if !c.snap.Alive {
		return nil, apperrors.WithMetadata(apperrors.CodeNotAlive,
			"cult is dead",
			map[string]string{"CultID": formatID(id)})
	}
	return c, nil
}

// newEvent builds an audit event with a marshaled payload. Sequence numbers
// are assigned by the journal on append.
func newEvent(t event.Type, id domain.CultID, ts time.Time, payload any) (event.Event, error) {
	data, err := event.MarshalPayload(payload)
	if err != nil {
		return event.Event{}, err
	}
	return event.Event{Type: t, CultID: id, Timestamp: ts, PayloadJSON: data}, nil
}

// deathEvent builds the CultDied record carrying the projected counters. The
// caller applies the matching bookkeeping only after the append succeeds.
func (e *Engine) deathEvent(c *cultState, now time.Time) (event.Event, error) {
	return newEvent(event.TypeCultDied, c.snap.ID, now, event.CultDiedPayload{
		DeathCount:  c.deathCount + 1,
		TotalDeaths: e.stats.TotalDeaths + 1,
	})
}

// applyDeath records death bookkeeping for c at now.
func (e *Engine) applyDeath(c *cultState, now time.Time) {
	c.snap.Alive = false
	c.deathTime = now
	c.deathCount++
	e.stats.TotalDeaths++
	if c.locked.Cmp(c.snap.Balance) > 0 {
		c.locked.Set(c.snap.Balance)
	}
}

// status assembles the full query view for c.
func (e *Engine) status(c *cultState) domain.CultStatus {
	return domain.CultStatus{
		Snapshot:         c.snap.Clone(),
		LockedBalance:    domain.Clone(c.locked),
		RaidRevenue:      domain.Clone(c.raidRevenue),
		StakingRevenue:   domain.Clone(c.stakingRevenue),
		TotalYieldEarned: domain.Clone(c.yieldEarned),
		ProphecyAccuracy: c.accuracy,
		DeathCount:       c.deathCount,
		DeathTimestamp:   c.deathTime,
		LastHarvestTime:  c.lastHarvest,
	}
}

// GetTreasury returns the full view for one cult.
func (e *Engine) GetTreasury(id domain.CultID) (domain.CultStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.cult(id)
	if err != nil {
		return domain.CultStatus{}, err
	}
	return e.status(c), nil
}

// Stats returns a copy of the global counters and pools.
func (e *Engine) Stats() domain.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.Clone()
}

// Params returns a copy of the current parameter set.
func (e *Engine) Params() domain.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params.Clone()
}

// EstimateRunway returns the whole number of burn ticks a cult survives at
// the current rate. Dead cults have zero runway. When the burn rate is zero
// the runway is unbounded and the returned ticks are nil.
func (e *Engine) EstimateRunway(id domain.CultID) (ticks *big.Int, unbounded bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.cult(id)
	if err != nil {
		return nil, false, err
	}
	if !c.snap.Alive {
		return new(big.Int), false, nil
	}
	if e.params.TickBurnRate.Sign() == 0 {
		return nil, true, nil
	}
	return new(big.Int).Div(c.snap.Balance, e.params.TickBurnRate), false, nil
}

// ExportState returns a deep copy of the full engine state for persistence.
func (e *Engine) ExportState() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := State{
		Params:       e.params.Clone(),
		Stats:        e.stats.Clone(),
		LastObserved: e.lastObserved,
		Visibility:   make(map[domain.CultID][]domain.CultID),
	}
	ids := make([]domain.CultID, 0, len(e.cults))
	for id := range e.cults {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := e.cults[id]
		state.Cults = append(state.Cults, CultRecord{
			Snapshot:        c.snap.Clone(),
			LockedBalance:   domain.Clone(c.locked),
			RaidRevenue:     domain.Clone(c.raidRevenue),
			StakingRevenue:  domain.Clone(c.stakingRevenue),
			YieldEarned:     domain.Clone(c.yieldEarned),
			Accuracy:        c.accuracy,
			DeathCount:      c.deathCount,
			DeathTimestamp:  c.deathTime,
			LastHarvestTime: c.lastHarvest,
		})
	}
	for owner, viewers := range e.visibility {
		list := make([]domain.CultID, 0, len(viewers))
		for viewer, granted := range viewers {
			if granted {
				list = append(list, viewer)
			}
		}
		if len(list) == 0 {
			continue
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		state.Visibility[owner] = list
	}
	return state
}

// restore loads a previously exported state into a fresh engine.
func (e *Engine) restore(state State) error {
	if err := state.Params.Validate(); err != nil {
		return err
	}
	e.params = state.Params.Clone()
	e.stats = state.Stats.Clone()
	e.lastObserved = state.LastObserved
	for _, record := range state.Cults {
		snap := record.Snapshot.Clone()
		if !domain.ValidAmount(snap.Balance) || !domain.ValidAmount(record.LockedBalance) {
			return errors.New("engine: restored cult carries an invalid amount")
		}
		e.cults[snap.ID] = &cultState{
			snap:           snap,
			locked:         domain.Clone(record.LockedBalance),
			raidRevenue:    domain.Clone(record.RaidRevenue),
			stakingRevenue: domain.Clone(record.StakingRevenue),
			yieldEarned:    domain.Clone(record.YieldEarned),
			accuracy:       record.Accuracy,
			deathCount:     record.DeathCount,
			deathTime:      record.DeathTimestamp,
			lastHarvest:    record.LastHarvestTime,
		}
	}
	for owner, viewers := range state.Visibility {
		set := make(map[domain.CultID]bool, len(viewers))
		for _, viewer := range viewers {
			set[viewer] = true
		}
		e.visibility[owner] = set
	}
	return nil
}
