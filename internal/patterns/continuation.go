package patterns

import "trading-advisor/internal/market"

// Continuation formations: flags and triangles.

const (
	flagPoleBars          = 10
	flagConsolidationBars = 5
	triangleBars          = 10
)

// isBullishFlag checks for a strong up move followed by a small
// downward-sloping consolidation starting at startIdx.
func (d *Detector) isBullishFlag(candles []market.Candle, startIdx int) bool {
	if startIdx < flagPoleBars || startIdx+flagConsolidationBars >= len(candles) {
		return false
	}

	pole := candles[startIdx-flagPoleBars : startIdx]
	flag := candles[startIdx : startIdx+flagConsolidationBars]

	poleHeight := pole[len(pole)-1].Close - pole[0].Open
	if poleHeight <= 0 {
		return false
	}

	bullish := 0
	for _, c := range pole {
		if c.IsBullish() {
			bullish++
		}
	}
	if float64(bullish)/float64(len(pole)) < 0.6 {
		return false
	}

	flagStart := flag[0].High
	flagEnd := flag[len(flag)-1].Low
	if flagEnd > flagStart {
		return false
	}
	// Consolidation must stay shallow against the pole.
	return flagStart-flagEnd <= poleHeight*0.5
}

// isBearishFlag is the mirror: strong down move, shallow upward drift.
func (d *Detector) isBearishFlag(candles []market.Candle, startIdx int) bool {
	if startIdx < flagPoleBars || startIdx+flagConsolidationBars >= len(candles) {
		return false
	}

	pole := candles[startIdx-flagPoleBars : startIdx]
	flag := candles[startIdx : startIdx+flagConsolidationBars]

	poleHeight := pole[0].Open - pole[len(pole)-1].Close
	if poleHeight <= 0 {
		return false
	}

	bearish := 0
	for _, c := range pole {
		if !c.IsBullish() {
			bearish++
		}
	}
	if float64(bearish)/float64(len(pole)) < 0.6 {
		return false
	}

	flagStart := flag[0].Low
	flagEnd := flag[len(flag)-1].High
	if flagEnd < flagStart {
		return false
	}
	return flagEnd-flagStart <= poleHeight*0.5
}

// isAscendingTriangle: flat highs with rising lows over the window.
func (d *Detector) isAscendingTriangle(candles []market.Candle, startIdx int) bool {
	if startIdx+triangleBars >= len(candles) {
		return false
	}

	window := candles[startIdx : startIdx+triangleBars]
	highs := make([]float64, len(window))
	lows := make([]float64, len(window))
	for i, c := range window {
		highs[i] = c.High
		lows[i] = c.Low
	}

	if variance(highs) > average(highs)*0.02 {
		return false
	}
	return isRising(lows)
}

// isDescendingTriangle: flat lows with falling highs.
func (d *Detector) isDescendingTriangle(candles []market.Candle, startIdx int) bool {
	if startIdx+triangleBars >= len(candles) {
		return false
	}

	window := candles[startIdx : startIdx+triangleBars]
	highs := make([]float64, len(window))
	lows := make([]float64, len(window))
	for i, c := range window {
		highs[i] = c.High
		lows[i] = c.Low
	}

	if variance(lows) > average(lows)*0.02 {
		return false
	}
	return isDescending(highs)
}

// detectContinuations scans for flags and triangles. The reported index
// points at the end of the formation so recency filters work the same
// way as for reversal patterns.
func (d *Detector) detectContinuations(candles []market.Candle) []Detected {
	var out []Detected
	if len(candles) < flagPoleBars+flagConsolidationBars {
		return out
	}

	for i := flagPoleBars; i < len(candles)-flagConsolidationBars; i++ {
		if d.isBullishFlag(candles, i) {
			out = append(out, Detected{Type: BullishFlag, CandleIndex: i + flagConsolidationBars - 1, Confidence: 0.70, Direction: DirectionBullish})
		}
		if d.isBearishFlag(candles, i) {
			out = append(out, Detected{Type: BearishFlag, CandleIndex: i + flagConsolidationBars - 1, Confidence: 0.70, Direction: DirectionBearish})
		}
		if d.isAscendingTriangle(candles, i) {
			out = append(out, Detected{Type: AscendingTriangle, CandleIndex: i + triangleBars - 1, Confidence: 0.72, Direction: DirectionBullish})
		}
		if d.isDescendingTriangle(candles, i) {
			out = append(out, Detected{Type: DescendingTriangle, CandleIndex: i + triangleBars - 1, Confidence: 0.72, Direction: DirectionBearish})
		}
	}

	return out
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := average(values)
	sum := 0.0
	for _, v := range values {
		diff := v - avg
		sum += diff * diff
	}
	return sum / float64(len(values))
}

func isRising(values []float64) bool {
	if len(values) < 2 {
		return false
	}
	return average(values[len(values)/2:]) > average(values[:len(values)/2])
}

func isDescending(values []float64) bool {
	if len(values) < 2 {
		return false
	}
	return average(values[len(values)/2:]) < average(values[:len(values)/2])
}
