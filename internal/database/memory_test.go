package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"trading-advisor/internal/engine"
	"trading-advisor/internal/signal"
)

func record(id, symbol, signalType string, score float64, gatePassed *bool) *AnalysisRecord {
	return &AnalysisRecord{
		ID:           id,
		Symbol:       symbol,
		Timeframe:    "4h",
		SignalType:   signalType,
		QualityScore: score,
		GatePassed:   gatePassed,
		CreatedAt:    time.Now(),
	}
}

func TestMemoryJournalRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	j := NewMemoryJournal(10)

	for i := 0; i < 5; i++ {
		j.SaveAnalysis(ctx, record(fmt.Sprintf("a%d", i), "BTCUSDT", "HOLD", 0, nil))
	}

	recs, err := j.RecentAnalyses(ctx, "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[0].ID != "a4" || recs[2].ID != "a2" {
		t.Errorf("order wrong: %s .. %s", recs[0].ID, recs[2].ID)
	}
}

func TestMemoryJournalRingOverwrites(t *testing.T) {
	ctx := context.Background()
	j := NewMemoryJournal(3)

	for i := 0; i < 5; i++ {
		j.SaveAnalysis(ctx, record(fmt.Sprintf("a%d", i), "BTCUSDT", "HOLD", 0, nil))
	}

	recs, _ := j.RecentAnalyses(ctx, "", 10)
	if len(recs) != 3 {
		t.Fatalf("ring should cap at 3, got %d", len(recs))
	}
	if recs[0].ID != "a4" || recs[2].ID != "a2" {
		t.Errorf("oldest entries should be gone: %s .. %s", recs[0].ID, recs[2].ID)
	}
}

func TestMemoryJournalSymbolFilter(t *testing.T) {
	ctx := context.Background()
	j := NewMemoryJournal(10)

	j.SaveAnalysis(ctx, record("a1", "BTCUSDT", "BUY", 80, nil))
	j.SaveAnalysis(ctx, record("a2", "ETHUSDT", "SELL", 70, nil))
	j.SaveAnalysis(ctx, record("a3", "BTCUSDT", "HOLD", 0, nil))

	recs, _ := j.RecentAnalyses(ctx, "ETHUSDT", 10)
	if len(recs) != 1 || recs[0].ID != "a2" {
		t.Fatalf("filter failed: %+v", recs)
	}
}

func TestMemoryJournalSummarize(t *testing.T) {
	ctx := context.Background()
	j := NewMemoryJournal(10)

	passed := true
	rejected := false
	j.SaveAnalysis(ctx, record("a1", "BTCUSDT", "BUY", 80, &passed))
	j.SaveAnalysis(ctx, record("a2", "BTCUSDT", "BUY", 60, &rejected))
	j.SaveAnalysis(ctx, record("a3", "BTCUSDT", "HOLD", 10, nil))

	s, err := j.Summarize(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TotalAnalyses != 3 {
		t.Errorf("total = %d, want 3", s.TotalAnalyses)
	}
	if s.BySignal["BUY"] != 2 || s.BySignal["HOLD"] != 1 {
		t.Errorf("by signal = %v", s.BySignal)
	}
	if s.GateRejected != 1 {
		t.Errorf("rejected = %d, want 1", s.GateRejected)
	}
	if s.AverageScore != 50 {
		t.Errorf("average score = %.2f, want 50", s.AverageScore)
	}
	if s.LastAnalysis == nil {
		t.Error("last analysis missing")
	}
}

func TestRecordFromPlanFlattens(t *testing.T) {
	plan := &engine.TradePlan{
		AnalysisID:  "a1",
		GeneratedAt: time.Now(),
		Symbol:      "BTCUSDT",
		Timeframe:   "4h",
		Price:       42500,
		Signal: signal.Classification{
			Type:            signal.Buy,
			Strength:        signal.Strong,
			Trigger:         signal.Immediate,
			QualityScore:    85,
			ConfluenceCount: 5,
		},
	}

	rec := RecordFromPlan(plan)
	if rec.ID != "a1" || rec.SignalType != "BUY" || rec.Strength != "STRONG" {
		t.Errorf("flatten wrong: %+v", rec)
	}
	if rec.StopPrice != nil || rec.GatePassed != nil {
		t.Error("missing sub-objects must flatten to nils")
	}
	if rec.Plan != plan {
		t.Error("record must keep the full plan")
	}
}
