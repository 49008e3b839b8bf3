package patterns

import (
	"math"

	"trading-advisor/internal/market"
)

// PatternType identifies a candlestick or chart pattern.
type PatternType string

const (
	// Reversal patterns
	MorningStar      PatternType = "morning_star"
	EveningStar      PatternType = "evening_star"
	ShootingStar     PatternType = "shooting_star"
	Hammer           PatternType = "hammer"
	HangingMan       PatternType = "hanging_man"
	BullishEngulfing PatternType = "bullish_engulfing"
	BearishEngulfing PatternType = "bearish_engulfing"
	Doji             PatternType = "doji"
	DragonflyDoji    PatternType = "dragonfly_doji"
	GravestoneDoji   PatternType = "gravestone_doji"
	BullishHarami    PatternType = "bullish_harami"
	BearishHarami    PatternType = "bearish_harami"

	// Continuation patterns
	BullishFlag        PatternType = "bullish_flag"
	BearishFlag        PatternType = "bearish_flag"
	AscendingTriangle  PatternType = "ascending_triangle"
	DescendingTriangle PatternType = "descending_triangle"
)

// Direction of the pressure a pattern implies.
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
	DirectionNeutral = "neutral"
)

// Detected is one pattern occurrence within a candle series.
// CandleIndex points at the last candle of the formation.
type Detected struct {
	Type        PatternType `json:"type"`
	CandleIndex int         `json:"candle_index"`
	Confidence  float64     `json:"confidence"`
	Direction   string      `json:"direction"`
}

// Detector scans candle series for known formations.
type Detector struct {
	minBodySize float64 // minimum candle body as % of price
}

// NewDetector creates a detector. minBodySize filters noise candles;
// values <= 0 fall back to 0.5%.
func NewDetector(minBodySize float64) *Detector {
	if minBodySize <= 0 {
		minBodySize = 0.5
	}
	return &Detector{minBodySize: minBodySize}
}

// Detect scans the whole series for reversal and continuation patterns.
func (d *Detector) Detect(candles []market.Candle) []Detected {
	var out []Detected
	out = append(out, d.detectStars(candles)...)
	out = append(out, d.detectReversals(candles)...)
	out = append(out, d.detectContinuations(candles)...)
	return out
}

// Recent returns the patterns whose formation completes within the last
// `within` candles. These are the occurrences that still say something
// about the next move.
func (d *Detector) Recent(candles []market.Candle, within int) []Detected {
	all := d.Detect(candles)
	cutoff := len(candles) - within

	var out []Detected
	for _, p := range all {
		if p.CandleIndex >= cutoff {
			out = append(out, p)
		}
	}
	return out
}

// detectStars scans for the three-candle star formations.
func (d *Detector) detectStars(candles []market.Candle) []Detected {
	var out []Detected
	if len(candles) < 3 {
		return out
	}

	for i := 2; i < len(candles); i++ {
		c1, c2, c3 := candles[i-2], candles[i-1], candles[i]

		if d.isMorningStar(c1, c2, c3) {
			out = append(out, Detected{
				Type:        MorningStar,
				CandleIndex: i,
				Confidence:  starConfidence(c1, c3),
				Direction:   DirectionBullish,
			})
		}

		if d.isEveningStar(c1, c2, c3) {
			out = append(out, Detected{
				Type:        EveningStar,
				CandleIndex: i,
				Confidence:  starConfidence(c1, c3),
				Direction:   DirectionBearish,
			})
		}
	}

	return out
}

// isMorningStar: long bearish candle, small indecision candle, long
// bullish candle closing above the midpoint of the first.
func (d *Detector) isMorningStar(c1, c2, c3 market.Candle) bool {
	if c1.IsBullish() {
		return false
	}
	if c1.Body() < c1.Range()*0.6 {
		return false
	}

	if c2.Body() > c1.Body()*0.4 {
		return false
	}

	if !c3.IsBullish() {
		return false
	}
	if c3.Body() < c3.Range()*0.6 {
		return false
	}

	midpoint := (c1.Open + c1.Close) / 2
	return c3.Close >= midpoint
}

// isEveningStar is the bearish mirror of the morning star.
func (d *Detector) isEveningStar(c1, c2, c3 market.Candle) bool {
	if !c1.IsBullish() {
		return false
	}
	if c1.Body() < c1.Range()*0.6 {
		return false
	}

	if c2.Body() > c1.Body()*0.4 {
		return false
	}

	if c3.IsBullish() {
		return false
	}
	if c3.Body() < c3.Range()*0.6 {
		return false
	}

	midpoint := (c1.Open + c1.Close) / 2
	return c3.Close <= midpoint
}

// starConfidence grades a star by the strength of the confirming candle
// against the setup candle.
func starConfidence(c1, c3 market.Candle) float64 {
	confidence := 0.7
	if c3.Body() > c1.Body()*1.2 {
		confidence += 0.1
	}
	return math.Min(confidence, 1.0)
}

func upperWick(c market.Candle) float64 {
	return c.High - math.Max(c.Open, c.Close)
}

func lowerWick(c market.Candle) float64 {
	return math.Min(c.Open, c.Close) - c.Low
}
