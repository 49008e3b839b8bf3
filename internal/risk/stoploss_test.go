package risk

import (
	"errors"
	"math"
	"testing"

	"trading-advisor/internal/analysis"
	"trading-advisor/internal/signal"
)

func TestCalculateStopATRFallback(t *testing.T) {
	// No usable level: 42500 - 1.5*850 = 41225.
	stop, err := CalculateStop(signal.Buy, 42500, 850, true, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stop.Method != StopATR {
		t.Errorf("expected ATR method, got %s", stop.Method)
	}
	if math.Abs(stop.Price-41225) > 1e-9 {
		t.Errorf("expected stop 41225, got %v", stop.Price)
	}
	if math.Abs(stop.Distance-1275) > 1e-9 {
		t.Errorf("expected distance 1275, got %v", stop.Distance)
	}
}

func TestCalculateStopPrefersLevel(t *testing.T) {
	// Support 1 ATR below entry: usable, buffered 0.2 ATR beyond.
	sup := &analysis.Level{Price: 41650, Kind: analysis.LevelSupport, Touches: 3}
	stop, err := CalculateStop(signal.Buy, 42500, 850, true, sup, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stop.Method != StopLevel {
		t.Errorf("expected LEVEL method, got %s", stop.Method)
	}
	want := 41650 - 0.2*850
	if math.Abs(stop.Price-want) > 1e-9 {
		t.Errorf("expected stop %v, got %v", want, stop.Price)
	}
}

func TestCalculateStopLevelWindow(t *testing.T) {
	cases := []struct {
		name     string
		support  float64
		wantUsed StopMethod
	}{
		{"too close", 42500 - 0.3*850, StopATR},
		{"lower bound", 42500 - 0.5*850, StopLevel},
		{"upper bound", 42500 - 3.0*850, StopLevel},
		{"too far", 42500 - 3.5*850, StopATR},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sup := &analysis.Level{Price: tc.support, Kind: analysis.LevelSupport}
			stop, err := CalculateStop(signal.Buy, 42500, 850, true, sup, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stop.Method != tc.wantUsed {
				t.Errorf("support at %v: expected %s, got %s", tc.support, tc.wantUsed, stop.Method)
			}
		})
	}
}

func TestCalculateStopPercentageWithoutATR(t *testing.T) {
	stop, err := CalculateStop(signal.Buy, 100, 0, false, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stop.Method != StopPercentage {
		t.Errorf("expected PERCENTAGE method, got %s", stop.Method)
	}
	if math.Abs(stop.Price-98) > 1e-9 {
		t.Errorf("expected stop 98, got %v", stop.Price)
	}
}

func TestCalculateStopSell(t *testing.T) {
	res := &analysis.Level{Price: 43350, Kind: analysis.LevelResistance}
	stop, err := CalculateStop(signal.Sell, 42500, 850, true, nil, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stop.Method != StopLevel {
		t.Errorf("expected LEVEL method, got %s", stop.Method)
	}
	want := 43350 + 0.2*850
	if math.Abs(stop.Price-want) > 1e-9 {
		t.Errorf("expected stop %v, got %v", want, stop.Price)
	}
	if stop.Distance <= 0 {
		t.Errorf("expected positive distance, got %v", stop.Distance)
	}
}

func TestCalculateStopRejectsDegenerateInputs(t *testing.T) {
	if _, err := CalculateStop(signal.Buy, 0, 850, true, nil, nil); !errors.Is(err, ErrInvalidStopDistance) {
		t.Errorf("expected ErrInvalidStopDistance for zero entry, got %v", err)
	}
	if _, err := CalculateStop(signal.Hold, 100, 5, true, nil, nil); !errors.Is(err, ErrInvalidStopDistance) {
		t.Errorf("expected ErrInvalidStopDistance for HOLD, got %v", err)
	}
	// ATR larger than the price would put the stop below zero.
	if _, err := CalculateStop(signal.Buy, 10, 20, true, nil, nil); !errors.Is(err, ErrInvalidStopDistance) {
		t.Errorf("expected ErrInvalidStopDistance for oversized ATR, got %v", err)
	}
}
