package risk

import (
	"errors"
	"math"
	"testing"
)

func TestSizePosition(t *testing.T) {
	// 10000 capital at 2% risks 200; stop 1275 away sizes ~0.1569 units.
	pos, err := SizePosition(10000, 2, 42500, 1275)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(pos.RiskAmount-200) > 1e-9 {
		t.Errorf("expected risk amount 200, got %v", pos.RiskAmount)
	}
	if math.Abs(pos.SizeUnits-200.0/1275.0) > 1e-9 {
		t.Errorf("expected size %v, got %v", 200.0/1275.0, pos.SizeUnits)
	}
	if math.Abs(pos.PositionValue-pos.SizeUnits*42500) > 1e-9 {
		t.Errorf("position value inconsistent: %v", pos.PositionValue)
	}
}

func TestSizePositionScalesInverselyWithStopDistance(t *testing.T) {
	near, _ := SizePosition(10000, 2, 100, 1)
	far, _ := SizePosition(10000, 2, 100, 4)

	if math.Abs(near.SizeUnits-4*far.SizeUnits) > 1e-9 {
		t.Errorf("quadrupling the stop distance should quarter the size: %v vs %v", near.SizeUnits, far.SizeUnits)
	}
	// Risk amount is identical either way.
	if near.RiskAmount != far.RiskAmount {
		t.Errorf("risk amount must not depend on stop distance: %v vs %v", near.RiskAmount, far.RiskAmount)
	}
}

func TestSizePositionRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name                                string
		capital, riskPct, entry, stopDist float64
	}{
		{"zero capital", 0, 2, 100, 1},
		{"negative risk", 10000, -1, 100, 1},
		{"risk above 100", 10000, 150, 100, 1},
		{"zero stop distance", 10000, 2, 100, 0},
		{"zero entry", 10000, 2, 0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := SizePosition(tc.capital, tc.riskPct, tc.entry, tc.stopDist); !errors.Is(err, ErrInvalidSizing) {
				t.Errorf("expected ErrInvalidSizing, got %v", err)
			}
		})
	}
}
