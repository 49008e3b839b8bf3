package risk

import (
	"errors"
	"math"
	"testing"

	"trading-advisor/internal/signal"
)

func TestBuildLadderLong(t *testing.T) {
	l, err := BuildLadder(signal.Buy, 42500, 1275)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPrices := [3]float64{43775, 45050, 46325}
	wantClose := [3]int{50, 30, 20}
	for i, target := range l.Targets {
		if math.Abs(target.Price-wantPrices[i]) > 1e-9 {
			t.Errorf("target %d: expected price %v, got %v", i+1, wantPrices[i], target.Price)
		}
		if target.ClosePercent != wantClose[i] {
			t.Errorf("target %d: expected close %d%%, got %d%%", i+1, wantClose[i], target.ClosePercent)
		}
		if target.RiskMultiple != float64(i+1) {
			t.Errorf("target %d: expected multiple %d, got %v", i+1, i+1, target.RiskMultiple)
		}
	}

	// Targets strictly ordered away from entry, release sums to 100%.
	if !(l.Targets[0].Price < l.Targets[1].Price && l.Targets[1].Price < l.Targets[2].Price) {
		t.Error("long targets must ascend")
	}
	total := 0
	for _, target := range l.Targets {
		total += target.ClosePercent
	}
	if total != 100 {
		t.Errorf("close percents must total 100, got %d", total)
	}
}

func TestBuildLadderShortDescends(t *testing.T) {
	l, err := BuildLadder(signal.Sell, 42500, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(l.Targets[0].Price > l.Targets[1].Price && l.Targets[1].Price > l.Targets[2].Price) {
		t.Error("short targets must descend")
	}
	if l.Targets[0].Price != 41500 {
		t.Errorf("expected first short target 41500, got %v", l.Targets[0].Price)
	}
}

func TestBuildLadderRejectsZeroDistance(t *testing.T) {
	if _, err := BuildLadder(signal.Buy, 100, 0); !errors.Is(err, ErrInvalidStopDistance) {
		t.Errorf("expected ErrInvalidStopDistance, got %v", err)
	}
}

func TestEvaluateRiskReward(t *testing.T) {
	l, _ := BuildLadder(signal.Buy, 42500, 1275)
	rr := EvaluateRiskReward(l, 1275)

	// 1*0.5 + 2*0.3 + 3*0.2 = 1.7 regardless of stop distance.
	if math.Abs(rr.Ratio-1.7) > 1e-9 {
		t.Errorf("expected weighted ratio 1.7, got %v", rr.Ratio)
	}
	if rr.Status != RRAcceptable {
		t.Errorf("expected ACCEPTABLE, got %s", rr.Status)
	}
}

func TestRRStatusTiers(t *testing.T) {
	cases := []struct {
		ratio float64
		want  RRStatus
	}{
		{2.5, RRExcellent},
		{2.0, RRGood},
		{1.5, RRAcceptable},
		{1.49, RRReject},
	}
	for _, tc := range cases {
		if got := rrStatus(tc.ratio); got != tc.want {
			t.Errorf("ratio %v: expected %s, got %s", tc.ratio, tc.want, got)
		}
	}
}
