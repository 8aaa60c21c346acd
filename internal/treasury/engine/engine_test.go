package engine_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/engine"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/storage/memory"
)

const operator = auth.Principal("operator")

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// testParams keeps the numbers small enough to reason about by hand.
func testParams() domain.Params {
	p := domain.DefaultParams()
	p.ProtocolFeeBps = 100
	p.TickBurnRate = big.NewInt(10)
	p.DeathCooldown = 300 * time.Second
	p.RebirthMinFunding = big.NewInt(100)
	p.HarvestCooldown = 60 * time.Second
	p.YieldPerFollower = big.NewInt(100)
	p.YieldPerStakedUnit = big.NewInt(50)
	p.YieldAccuracyBonus = big.NewInt(200)
	p.MaxYieldPerHarvest = new(big.Int).Mul(big.NewInt(1_000_000), domain.Scale)
	p.ProphecyRewardPerCorrect = big.NewInt(500)
	return p
}

func newTestEngine(t *testing.T) (*engine.Engine, *memory.Journal, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	journal := memory.NewJournal()
	params := testParams()
	e, err := engine.New(engine.Config{
		Operator: operator,
		Journal:  journal,
		Params:   &params,
		Clock:    clock.Now,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, journal, clock
}

func mustInit(t *testing.T, e *engine.Engine, id domain.CultID, balance int64) {
	t.Helper()
	if _, err := e.InitTreasury(context.Background(), operator, id, big.NewInt(balance)); err != nil {
		t.Fatalf("init treasury %d: %v", id, err)
	}
}

func wantCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

// checkConservation verifies balance == totalInflow - totalOutflow for id.
func checkConservation(t *testing.T, e *engine.Engine, id domain.CultID) {
	t.Helper()
	status, err := e.GetTreasury(id)
	if err != nil {
		t.Fatalf("get treasury %d: %v", id, err)
	}
	expected := new(big.Int).Sub(status.TotalInflow, status.TotalOutflow)
	if status.Balance.Cmp(expected) != 0 {
		t.Fatalf("cult %d violates conservation: balance=%s inflow=%s outflow=%s",
			id, status.Balance, status.TotalInflow, status.TotalOutflow)
	}
}

func TestNewRequiresOperatorAndJournal(t *testing.T) {
	if _, err := engine.New(engine.Config{Journal: memory.NewJournal()}); err == nil {
		t.Fatal("expected error for missing operator")
	}
	if _, err := engine.New(engine.Config{Operator: operator}); err == nil {
		t.Fatal("expected error for missing journal")
	}
}

func TestInitTreasury(t *testing.T) {
	e, journal, _ := newTestEngine(t)

	status, err := e.InitTreasury(context.Background(), operator, 1, big.NewInt(1000))
	if err != nil {
		t.Fatalf("init treasury: %v", err)
	}
	if status.Balance.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("expected balance 1000, got %s", status.Balance)
	}
	if !status.Alive {
		t.Fatal("expected cult to be alive")
	}
	if status.TotalInflow.Cmp(big.NewInt(1000)) != 0 || status.TotalOutflow.Sign() != 0 {
		t.Fatalf("unexpected lifetime counters: inflow=%s outflow=%s",
			status.TotalInflow, status.TotalOutflow)
	}
	checkConservation(t, e, 1)

	events := journal.Events()
	if len(events) != 1 || events[0].Type != event.TypeTreasuryInitialized {
		t.Fatalf("expected one TreasuryInitialized event, got %v", events)
	}
	if events[0].Seq != 1 {
		t.Fatalf("expected seq 1, got %d", events[0].Seq)
	}
}

func TestInitTreasuryAlreadyInitialized(t *testing.T) {
	e, _, _ := newTestEngine(t)
	mustInit(t, e, 1, 1000)

	_, err := e.InitTreasury(context.Background(), operator, 1, big.NewInt(50))
	wantCode(t, err, apperrors.CodeAlreadyInitialized)
}

func TestMutationsRequireOperator(t *testing.T) {
	e, _, _ := newTestEngine(t)
	mustInit(t, e, 1, 1000)
	mustInit(t, e, 2, 1000)
	ctx := context.Background()
	intruder := auth.Principal("intruder")

	tests := []struct {
		name string
		call func(p auth.Principal) error
	}{
		{"init", func(p auth.Principal) error {
			_, err := e.InitTreasury(ctx, p, 9, big.NewInt(1))
			return err
		}},
		{"inflow", func(p auth.Principal) error {
			_, err := e.RecordInflow(ctx, p, 1, big.NewInt(1), domain.SourceOther)
			return err
		}},
		{"outflow", func(p auth.Principal) error {
			_, err := e.RecordOutflow(ctx, p, 1, big.NewInt(1), "test")
			return err
		}},
		{"burn", func(p auth.Principal) error {
			_, err := e.ApplyTickBurn(ctx, p, 1)
			return err
		}},
		{"lock", func(p auth.Principal) error {
			_, err := e.LockFunds(ctx, p, 1, big.NewInt(1), "test")
			return err
		}},
		{"transfer", func(p auth.Principal) error {
			_, err := e.TransferFunds(ctx, p, 1, 2, big.NewInt(1), domain.TransferDonation)
			return err
		}},
		{"collect fee", func(p auth.Principal) error {
			_, err := e.CollectFee(ctx, p, 1, big.NewInt(100))
			return err
		}},
		{"distribute", func(p auth.Principal) error {
			_, err := e.DistributeProtocolFees(ctx, p)
			return err
		}},
		{"harvest", func(p auth.Principal) error {
			_, err := e.HarvestYield(ctx, p, 1, 1, big.NewInt(0), 0)
			return err
		}},
		{"claim reward", func(p auth.Principal) error {
			_, err := e.ClaimProphecyReward(ctx, p, 1)
			return err
		}},
		{"fund pool", func(p auth.Principal) error {
			_, err := e.FundProphecyPool(ctx, p, big.NewInt(1))
			return err
		}},
		{"rebirth", func(p auth.Principal) error {
			_, err := e.Rebirth(ctx, p, 1, big.NewInt(100))
			return err
		}},
		{"grant view", func(p auth.Principal) error {
			return e.GrantBalanceView(ctx, p, 1, 2)
		}},
		{"set fee", func(p auth.Principal) error {
			return e.SetProtocolFeeBps(ctx, p, 50)
		}},
		{"set burn rate", func(p auth.Principal) error {
			return e.SetTickBurnRate(ctx, p, big.NewInt(1))
		}},
		{"set distribution", func(p auth.Principal) error {
			return e.SetFeeDistribution(p, 5000, 3000, 2000)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCode(t, tt.call(intruder), apperrors.CodeUnauthorized)
			wantCode(t, tt.call(""), apperrors.CodeUnauthorized)
		})
	}
}

func TestGetTreasuryNotFound(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.GetTreasury(404)
	wantCode(t, err, apperrors.CodeNotFound)
}

func TestEstimateRunway(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 105)

	ticks, unbounded, err := e.EstimateRunway(1)
	if err != nil || unbounded {
		t.Fatalf("estimate runway: ticks=%v unbounded=%v err=%v", ticks, unbounded, err)
	}
	if ticks.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("expected 10 ticks at rate 10, got %s", ticks)
	}

	if err := e.SetTickBurnRate(ctx, operator, big.NewInt(0)); err != nil {
		t.Fatalf("set burn rate: %v", err)
	}
	if _, unbounded, err := e.EstimateRunway(1); err != nil || !unbounded {
		t.Fatalf("expected unbounded runway at zero rate, err=%v", err)
	}

	if err := e.SetTickBurnRate(ctx, operator, big.NewInt(200)); err != nil {
		t.Fatalf("set burn rate: %v", err)
	}
	if _, err := e.ApplyTickBurn(ctx, operator, 1); err != nil {
		t.Fatalf("apply tick burn: %v", err)
	}
	ticks, unbounded, err = e.EstimateRunway(1)
	if err != nil || unbounded {
		t.Fatalf("estimate runway after death: %v", err)
	}
	if ticks.Sign() != 0 {
		t.Fatalf("expected zero runway for dead cult, got %s", ticks)
	}
}

func TestClockRegressionIsClamped(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 1000)

	clock.Advance(time.Hour)
	if _, err := e.RecordInflow(ctx, operator, 1, big.NewInt(1), domain.SourceOther); err != nil {
		t.Fatalf("record inflow: %v", err)
	}
	observed, err := e.GetTreasury(1)
	if err != nil {
		t.Fatalf("get treasury: %v", err)
	}

	// A wall-clock regression must not move observed time backwards.
	clock.Advance(-30 * time.Minute)
	if _, err := e.RecordInflow(ctx, operator, 1, big.NewInt(1), domain.SourceOther); err != nil {
		t.Fatalf("record inflow: %v", err)
	}
	after, err := e.GetTreasury(1)
	if err != nil {
		t.Fatalf("get treasury: %v", err)
	}
	if after.LastUpdated.Before(observed.LastUpdated) {
		t.Fatalf("observed time regressed: %v -> %v", observed.LastUpdated, after.LastUpdated)
	}
}

type failingJournal struct{}

func (failingJournal) Append(ctx context.Context, events []event.Event) ([]event.Event, error) {
	return nil, errors.New("journal unavailable")
}

func TestJournalFailureLeavesNoPartialState(t *testing.T) {
	clock := newFakeClock()
	journal := memory.NewJournal()
	params := testParams()
	e, err := engine.New(engine.Config{
		Operator: operator,
		Journal:  journal,
		Params:   &params,
		Clock:    clock.Now,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	ctx := context.Background()
	mustInit(t, e, 1, 1000)

	// Swap in a failing journal through a fresh engine restored from state.
	broken, err := engine.New(engine.Config{
		Operator: operator,
		Journal:  failingJournal{},
		Clock:    clock.Now,
		Restore:  ptr(e.ExportState()),
	})
	if err != nil {
		t.Fatalf("restore engine: %v", err)
	}
	if _, err := broken.RecordOutflow(ctx, operator, 1, big.NewInt(400), "test"); err == nil {
		t.Fatal("expected journal failure to surface")
	}
	status, err := broken.GetTreasury(1)
	if err != nil {
		t.Fatalf("get treasury: %v", err)
	}
	if status.Balance.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("balance mutated despite journal failure: %s", status.Balance)
	}
	if status.TotalOutflow.Sign() != 0 {
		t.Fatalf("outflow mutated despite journal failure: %s", status.TotalOutflow)
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 1000)
	mustInit(t, e, 2, 500)
	if _, err := e.RecordInflow(ctx, operator, 1, big.NewInt(200), domain.SourceRaid); err != nil {
		t.Fatalf("record inflow: %v", err)
	}
	if _, err := e.LockFunds(ctx, operator, 1, big.NewInt(300), "wager"); err != nil {
		t.Fatalf("lock funds: %v", err)
	}
	if _, err := e.CollectFee(ctx, operator, 1, big.NewInt(5000)); err != nil {
		t.Fatalf("collect fee: %v", err)
	}
	if err := e.GrantBalanceView(ctx, operator, 1, 2); err != nil {
		t.Fatalf("grant view: %v", err)
	}

	restored, err := engine.New(engine.Config{
		Operator: operator,
		Journal:  memory.NewJournal(),
		Clock:    clock.Now,
		Restore:  ptr(e.ExportState()),
	})
	if err != nil {
		t.Fatalf("restore engine: %v", err)
	}

	want, err := e.GetTreasury(1)
	if err != nil {
		t.Fatalf("get treasury: %v", err)
	}
	got, err := restored.GetTreasury(1)
	if err != nil {
		t.Fatalf("get restored treasury: %v", err)
	}
	if got.Balance.Cmp(want.Balance) != 0 || got.LockedBalance.Cmp(want.LockedBalance) != 0 ||
		got.RaidRevenue.Cmp(want.RaidRevenue) != 0 {
		t.Fatalf("restored cult differs: got %+v want %+v", got, want)
	}
	if restored.Stats().UndistributedFees.Cmp(e.Stats().UndistributedFees) != 0 {
		t.Fatal("restored stats differ")
	}
	if _, visible := restored.GetVisibleBalance(1, 2); !visible {
		t.Fatal("restored engine lost the visibility edge")
	}
}

func ptr[T any](v T) *T {
	return &v
}
