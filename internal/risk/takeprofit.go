package risk

import (
	"fmt"

	"trading-advisor/internal/signal"
)

// Fixed take-profit ladder: scale out half at 1R, 30% at 2R and let the
// last 20% run to 3R.
var (
	tpMultiples      = [3]float64{1, 2, 3}
	tpClosePercents  = [3]int{50, 30, 20}
)

// Target is one rung of the take-profit ladder.
type Target struct {
	Price        float64 `json:"price"`
	Distance     float64 `json:"distance"`
	RiskMultiple float64 `json:"risk_multiple"`
	ClosePercent int     `json:"close_percent"`
}

// Ladder holds the three take-profit targets, nearest first.
type Ladder struct {
	Targets [3]Target `json:"targets"`
}

// BuildLadder derives the ladder from the entry and the stop distance.
// Targets sit at whole risk multiples on the profit side of the entry.
func BuildLadder(direction signal.Type, entry, stopDistance float64) (Ladder, error) {
	if stopDistance <= 0 {
		return Ladder{}, fmt.Errorf("%w: stop distance %.8f", ErrInvalidStopDistance, stopDistance)
	}

	var l Ladder
	for i := range tpMultiples {
		dist := stopDistance * tpMultiples[i]
		price := entry + dist
		if direction == signal.Sell {
			price = entry - dist
		}
		l.Targets[i] = Target{
			Price:        price,
			Distance:     dist,
			RiskMultiple: tpMultiples[i],
			ClosePercent: tpClosePercents[i],
		}
	}

	return l, nil
}

// RRStatus grades the reward-to-risk ratio of a planned trade.
type RRStatus string

const (
	RRExcellent  RRStatus = "EXCELLENT"
	RRGood       RRStatus = "GOOD"
	RRAcceptable RRStatus = "ACCEPTABLE"
	RRReject     RRStatus = "REJECT"
)

// RiskReward is the expected reward per unit of risk across the ladder.
type RiskReward struct {
	Ratio  float64  `json:"ratio"`
	Status RRStatus `json:"status"`
}

// EvaluateRiskReward computes the ladder's expected reward weighted by
// how much of the position closes at each rung, per unit of risk.
func EvaluateRiskReward(l Ladder, stopDistance float64) RiskReward {
	if stopDistance <= 0 {
		return RiskReward{Status: RRReject}
	}

	expected := 0.0
	for _, t := range l.Targets {
		expected += t.Distance * float64(t.ClosePercent) / 100
	}
	ratio := expected / stopDistance

	return RiskReward{Ratio: ratio, Status: rrStatus(ratio)}
}

func rrStatus(ratio float64) RRStatus {
	switch {
	case ratio >= 2.5:
		return RRExcellent
	case ratio >= 2.0:
		return RRGood
	case ratio >= 1.5:
		return RRAcceptable
	}
	return RRReject
}
