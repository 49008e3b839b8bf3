package riskstate

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"trading-advisor/internal/risk"
)

func newMemoryStore(initial risk.AccountState) *Store {
	return NewStore(nil, initial, zerolog.Nop())
}

func TestCommitAndCloseTrade(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(risk.AccountState{Capital: 10000})

	state := store.CommitTrade(ctx, 200)
	if state.OpenPositions != 1 || state.OpenRisk != 200 {
		t.Fatalf("after commit: positions=%d risk=%.2f", state.OpenPositions, state.OpenRisk)
	}

	state = store.CloseTrade(ctx, 200, -150)
	if state.OpenPositions != 0 {
		t.Errorf("positions = %d, want 0", state.OpenPositions)
	}
	if state.OpenRisk != 0 {
		t.Errorf("open risk = %.2f, want 0", state.OpenRisk)
	}
	if state.DailyLoss != 150 {
		t.Errorf("daily loss = %.2f, want 150", state.DailyLoss)
	}
	if state.Capital != 9850 {
		t.Errorf("capital = %.2f, want 9850", state.Capital)
	}
}

func TestProfitGrowsCapitalAndPeak(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(risk.AccountState{Capital: 10000})

	store.CommitTrade(ctx, 100)
	state := store.CloseTrade(ctx, 100, 300)

	if state.Capital != 10300 {
		t.Errorf("capital = %.2f, want 10300", state.Capital)
	}
	if state.PeakCapital != 10300 {
		t.Errorf("peak = %.2f, want 10300", state.PeakCapital)
	}
	if state.DailyLoss != 0 {
		t.Errorf("profit must not count as daily loss, got %.2f", state.DailyLoss)
	}
}

func TestLossDoesNotLowerPeak(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(risk.AccountState{Capital: 10000})

	store.CommitTrade(ctx, 100)
	state := store.CloseTrade(ctx, 100, -400)

	if state.PeakCapital != 10000 {
		t.Errorf("peak = %.2f, want 10000", state.PeakCapital)
	}
}

func TestResetDaily(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(risk.AccountState{Capital: 10000})

	store.CommitTrade(ctx, 100)
	store.CloseTrade(ctx, 100, -250)
	store.ResetDaily(ctx)

	if got := store.Snapshot(ctx).DailyLoss; got != 0 {
		t.Errorf("daily loss after reset = %.2f, want 0", got)
	}
}

func TestSnapshotFeedsGate(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(risk.AccountState{Capital: 10000})
	limits := risk.DefaultLimits()

	store.CommitTrade(ctx, 100)
	store.CloseTrade(ctx, 100, -480)

	// 480 lost today; another 200 would breach the 5% daily budget.
	res := risk.ApplyGate(limits, store.Snapshot(ctx), 200, risk.RiskReward{Ratio: 1.7, Status: risk.RRAcceptable}, 75)
	if res.Passed {
		t.Fatal("gate should reject over the daily loss budget")
	}
}

func TestConcurrentCommitsStayConsistent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(risk.AccountState{Capital: 10000})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.CommitTrade(ctx, 10)
		}()
	}
	wg.Wait()

	state := store.Snapshot(ctx)
	if state.OpenPositions != 50 {
		t.Errorf("positions = %d, want 50", state.OpenPositions)
	}
	if state.OpenRisk < 499.99 || state.OpenRisk > 500.01 {
		t.Errorf("open risk = %.2f, want 500", state.OpenRisk)
	}
}

func TestMemoryOnlyStoreReportsRedisDown(t *testing.T) {
	store := newMemoryStore(risk.AccountState{Capital: 10000})
	if store.RedisAvailable() {
		t.Error("nil client must report redis unavailable")
	}
}
