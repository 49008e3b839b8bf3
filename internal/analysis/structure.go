package analysis

import (
	"math"

	"trading-advisor/internal/market"
)

// TrendDirection represents the market trend.
type TrendDirection string

const (
	TrendBullish  TrendDirection = "bullish"
	TrendBearish  TrendDirection = "bearish"
	TrendSideways TrendDirection = "sideways"
)

// SwingPoint is a local extreme within the series.
type SwingPoint struct {
	Price       float64 `json:"price"`
	CandleIndex int     `json:"candle_index"`
	Type        string  `json:"type"` // "high" or "low"
}

// Structure is the analyzed market structure of a series.
type Structure struct {
	Trend         TrendDirection `json:"trend"`
	TrendStrength float64        `json:"trend_strength"` // 0.0 to 1.0
	HigherHighs   int            `json:"higher_highs"`
	HigherLows    int            `json:"higher_lows"`
	LowerHighs    int            `json:"lower_highs"`
	LowerLows     int            `json:"lower_lows"`
	SwingHighs    []SwingPoint   `json:"-"`
	SwingLows     []SwingPoint   `json:"-"`
	Support       []Level        `json:"support"`
	Resistance    []Level        `json:"resistance"`
}

// StructureAnalyzer finds swing points, trend direction and key levels.
type StructureAnalyzer struct {
	swingLookback int
}

// NewStructureAnalyzer creates an analyzer. Values <= 0 fall back to a
// 5-candle swing window.
func NewStructureAnalyzer(swingLookback int) *StructureAnalyzer {
	if swingLookback <= 0 {
		swingLookback = 5
	}
	return &StructureAnalyzer{swingLookback: swingLookback}
}

// Analyze performs the full structure analysis. Returns nil when the
// series is too short to contain a single swing window.
func (sa *StructureAnalyzer) Analyze(candles []market.Candle) *Structure {
	if len(candles) < sa.swingLookback*2+1 {
		return nil
	}

	s := &Structure{}
	s.SwingHighs = sa.findSwings(candles, true)
	s.SwingLows = sa.findSwings(candles, false)

	s.HigherHighs, s.LowerHighs = countSteps(s.SwingHighs)
	s.HigherLows, s.LowerLows = countSteps(s.SwingLows)

	s.Trend = determineTrend(s)
	s.TrendStrength = trendStrength(s)

	s.Support = clusterLevels(s.SwingLows, LevelSupport)
	s.Resistance = clusterLevels(s.SwingHighs, LevelResistance)

	return s
}

// findSwings returns the local extremes: candles whose high (or low) is
// the most extreme within swingLookback candles on both sides.
func (sa *StructureAnalyzer) findSwings(candles []market.Candle, highs bool) []SwingPoint {
	var swings []SwingPoint

	for i := sa.swingLookback; i < len(candles)-sa.swingLookback; i++ {
		extreme := true
		for j := i - sa.swingLookback; j <= i+sa.swingLookback; j++ {
			if j == i {
				continue
			}
			if highs && candles[j].High >= candles[i].High {
				extreme = false
				break
			}
			if !highs && candles[j].Low <= candles[i].Low {
				extreme = false
				break
			}
		}
		if !extreme {
			continue
		}

		sp := SwingPoint{CandleIndex: i}
		if highs {
			sp.Price = candles[i].High
			sp.Type = "high"
		} else {
			sp.Price = candles[i].Low
			sp.Type = "low"
		}
		swings = append(swings, sp)
	}

	return swings
}

// countSteps counts rising and falling transitions between consecutive
// swing points.
func countSteps(swings []SwingPoint) (higher, lower int) {
	for i := 1; i < len(swings); i++ {
		if swings[i].Price > swings[i-1].Price {
			higher++
		} else if swings[i].Price < swings[i-1].Price {
			lower++
		}
	}
	return higher, lower
}

func determineTrend(s *Structure) TrendDirection {
	if s.HigherHighs > 0 && s.HigherLows > 0 &&
		s.HigherHighs >= s.LowerHighs && s.HigherLows >= s.LowerLows {
		return TrendBullish
	}

	if s.LowerHighs > 0 && s.LowerLows > 0 &&
		s.LowerHighs >= s.HigherHighs && s.LowerLows >= s.HigherLows {
		return TrendBearish
	}

	return TrendSideways
}

func trendStrength(s *Structure) float64 {
	total := s.HigherHighs + s.HigherLows + s.LowerHighs + s.LowerLows
	if total == 0 {
		return 0
	}

	switch s.Trend {
	case TrendBullish:
		return float64(s.HigherHighs+s.HigherLows) / float64(total)
	case TrendBearish:
		return float64(s.LowerHighs+s.LowerLows) / float64(total)
	}
	return 0.3
}

func relDiff(a, b float64) float64 {
	if b == 0 {
		return math.Inf(1)
	}
	return math.Abs(a-b) / b
}
