package risk

import (
	"errors"
	"fmt"

	"trading-advisor/internal/analysis"
	"trading-advisor/internal/signal"
)

// StopMethod names how a stop price was derived.
type StopMethod string

const (
	StopLevel      StopMethod = "LEVEL"
	StopATR        StopMethod = "ATR"
	StopPercentage StopMethod = "PERCENTAGE"
)

// Stop placement constants. A structural level only anchors the stop
// when it sits a sane distance away: closer than half an ATR gets
// stopped out by noise, further than three means giving up too much.
const (
	levelBufferATR      = 0.2
	minLevelDistanceATR = 0.5
	maxLevelDistanceATR = 3.0
	atrStopMultiplier   = 1.5
	percentageStop      = 2.0
)

// ErrInvalidStopDistance marks degenerate inputs that produce a zero or
// negative stop distance.
var ErrInvalidStopDistance = errors.New("invalid stop distance")

// StopLoss is a placed protective stop.
type StopLoss struct {
	Price           float64    `json:"price"`
	Method          StopMethod `json:"method"`
	Distance        float64    `json:"distance"`
	DistancePercent float64    `json:"distance_percent"`
}

// CalculateStop places the protective stop for a trade, highest
// priority first: a structural level within the sane ATR window, then a
// plain ATR stop, then a fixed percentage when volatility is undefined.
//
// For a BUY the anchoring level is the support below entry; for a SELL
// the resistance above. The stop is buffered 0.2 ATR beyond the level
// so that an exact retest does not knock the trade out.
func CalculateStop(direction signal.Type, entry, atr float64, atrValid bool, support, resistance *analysis.Level) (StopLoss, error) {
	if entry <= 0 {
		return StopLoss{}, fmt.Errorf("%w: entry %.8f", ErrInvalidStopDistance, entry)
	}

	var price float64
	var method StopMethod

	switch direction {
	case signal.Buy:
		if atrValid && support != nil {
			dist := entry - support.Price
			if dist >= minLevelDistanceATR*atr && dist <= maxLevelDistanceATR*atr {
				price = support.Price - levelBufferATR*atr
				method = StopLevel
			}
		}
		if method == "" && atrValid {
			price = entry - atrStopMultiplier*atr
			method = StopATR
		}
		if method == "" {
			price = entry * (1 - percentageStop/100)
			method = StopPercentage
		}

	case signal.Sell:
		if atrValid && resistance != nil {
			dist := resistance.Price - entry
			if dist >= minLevelDistanceATR*atr && dist <= maxLevelDistanceATR*atr {
				price = resistance.Price + levelBufferATR*atr
				method = StopLevel
			}
		}
		if method == "" && atrValid {
			price = entry + atrStopMultiplier*atr
			method = StopATR
		}
		if method == "" {
			price = entry * (1 + percentageStop/100)
			method = StopPercentage
		}

	default:
		return StopLoss{}, fmt.Errorf("%w: no stop for %s", ErrInvalidStopDistance, direction)
	}

	distance := entry - price
	if direction == signal.Sell {
		distance = price - entry
	}
	if distance <= 0 || price <= 0 {
		return StopLoss{}, fmt.Errorf("%w: entry %.8f stop %.8f (%s)", ErrInvalidStopDistance, entry, price, method)
	}

	return StopLoss{
		Price:           price,
		Method:          method,
		Distance:        distance,
		DistancePercent: distance / entry * 100,
	}, nil
}
