package risk

import (
	"errors"
	"fmt"
)

// ErrInvalidSizing marks sizing inputs that cannot produce a position.
var ErrInvalidSizing = errors.New("invalid position sizing input")

// Position is the sized trade.
type Position struct {
	SizeUnits     float64 `json:"size_units"`
	PositionValue float64 `json:"position_value"`
	RiskAmount    float64 `json:"risk_amount"`
	RiskPercent   float64 `json:"risk_percent"`
}

// SizePosition computes the position from the capital at risk: the risk
// amount is the configured fraction of capital, and the stop distance
// converts it into units.
func SizePosition(capital, riskPercent, entry, stopDistance float64) (Position, error) {
	if capital <= 0 {
		return Position{}, fmt.Errorf("%w: capital %.2f", ErrInvalidSizing, capital)
	}
	if riskPercent <= 0 || riskPercent > 100 {
		return Position{}, fmt.Errorf("%w: risk percent %.2f", ErrInvalidSizing, riskPercent)
	}
	if entry <= 0 || stopDistance <= 0 {
		return Position{}, fmt.Errorf("%w: entry %.8f stop distance %.8f", ErrInvalidSizing, entry, stopDistance)
	}

	riskAmount := capital * riskPercent / 100
	sizeUnits := riskAmount / stopDistance

	return Position{
		SizeUnits:     sizeUnits,
		PositionValue: sizeUnits * entry,
		RiskAmount:    riskAmount,
		RiskPercent:   riskPercent,
	}, nil
}
