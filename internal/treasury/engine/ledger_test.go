package engine_test

import (
	"context"
	"math/big"
	"testing"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/domain"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/event"
)

func TestRecordInflowSources(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	tests := []struct {
		name    string
		source  domain.InflowSource
		amount  int64
		raid    int64
		staking int64
	}{
		{"raid revenue", domain.SourceRaid, 50, 50, 0},
		{"staking revenue", domain.SourceStaking, 30, 50, 30},
		{"other counts only in aggregate", domain.SourceOther, 20, 50, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := e.RecordInflow(ctx, operator, 1, big.NewInt(tt.amount), tt.source)
			if err != nil {
				t.Fatalf("record inflow: %v", err)
			}
			if status.RaidRevenue.Cmp(big.NewInt(tt.raid)) != 0 {
				t.Fatalf("raid revenue = %s, want %d", status.RaidRevenue, tt.raid)
			}
			if status.StakingRevenue.Cmp(big.NewInt(tt.staking)) != 0 {
				t.Fatalf("staking revenue = %s, want %d", status.StakingRevenue, tt.staking)
			}
			checkConservation(t, e, 1)
		})
	}

	status, err := e.GetTreasury(1)
	if err != nil {
		t.Fatalf("get treasury: %v", err)
	}
	if status.Balance.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("expected balance 200, got %s", status.Balance)
	}
	if status.TotalInflow.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("expected total inflow 200, got %s", status.TotalInflow)
	}
}

func TestRecordInflowRejectsDeadAndInvalid(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	_, err := e.RecordInflow(ctx, operator, 1, big.NewInt(0), domain.SourceOther)
	wantCode(t, err, apperrors.CodeInvalidParameter)
	_, err = e.RecordInflow(ctx, operator, 1, big.NewInt(-5), domain.SourceOther)
	wantCode(t, err, apperrors.CodeInvalidParameter)

	if _, err := e.RecordOutflow(ctx, operator, 1, big.NewInt(100), "drain"); err != nil {
		t.Fatalf("record outflow: %v", err)
	}
	_, err = e.RecordInflow(ctx, operator, 1, big.NewInt(10), domain.SourceOther)
	wantCode(t, err, apperrors.CodeNotAlive)
}

func TestRecordOutflowInsufficientBalance(t *testing.T) {
	e, _, _ := newTestEngine(t)
	mustInit(t, e, 1, 100)

	_, err := e.RecordOutflow(context.Background(), operator, 1, big.NewInt(101), "too much")
	wantCode(t, err, apperrors.CodeInsufficientBalance)
	checkConservation(t, e, 1)
}

func TestRecordOutflowToZeroKillsCult(t *testing.T) {
	e, journal, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	status, err := e.RecordOutflow(ctx, operator, 1, big.NewInt(100), "drain")
	if err != nil {
		t.Fatalf("record outflow: %v", err)
	}
	if status.Alive {
		t.Fatal("expected cult to die on zero balance")
	}
	if status.DeathCount != 1 {
		t.Fatalf("expected death count 1, got %d", status.DeathCount)
	}
	if status.DeathTimestamp.IsZero() {
		t.Fatal("expected death timestamp to be recorded")
	}
	if e.Stats().TotalDeaths != 1 {
		t.Fatalf("expected global deaths 1, got %d", e.Stats().TotalDeaths)
	}
	checkConservation(t, e, 1)

	events := journal.Events()
	last := events[len(events)-1]
	if last.Type != event.TypeCultDied {
		t.Fatalf("expected trailing CultDied event, got %s", last.Type)
	}
	var payload event.CultDiedPayload
	if err := event.UnmarshalPayload(last.PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.DeathCount != 1 || payload.TotalDeaths != 1 {
		t.Fatalf("unexpected death payload: %+v", payload)
	}
}

func TestRecordOutflowPartialKeepsAlive(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	status, err := e.RecordOutflow(ctx, operator, 1, big.NewInt(60), "spend")
	if err != nil {
		t.Fatalf("record outflow: %v", err)
	}
	if !status.Alive {
		t.Fatal("expected cult to stay alive")
	}
	if status.Balance.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("expected balance 40, got %s", status.Balance)
	}
	checkConservation(t, e, 1)
}

// The lock invariant lockedBalance <= balance must survive outflows that
// undercut previously locked funds.
func TestRecordOutflowClampsLockedBalance(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	mustInit(t, e, 1, 100)

	if _, err := e.LockFunds(ctx, operator, 1, big.NewInt(80), "wager"); err != nil {
		t.Fatalf("lock funds: %v", err)
	}
	status, err := e.RecordOutflow(ctx, operator, 1, big.NewInt(50), "spend")
	if err != nil {
		t.Fatalf("record outflow: %v", err)
	}
	if status.LockedBalance.Cmp(status.Balance) > 0 {
		t.Fatalf("lock invariant violated: locked=%s balance=%s",
			status.LockedBalance, status.Balance)
	}
}
