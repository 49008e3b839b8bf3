package indicators

import (
	"math"

	"trading-advisor/internal/market"
)

// Default lookback periods used by the analysis pipeline.
const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	BollingerPeriod  = 20
	BollingerStdDev  = 2.0
	EMAFastPeriod    = 21
	SMAMidPeriod     = 50
	SMASlowPeriod    = 200
	ATRPeriod        = 14
	ADXPeriod        = 14
	StochKPeriod     = 14
	StochDPeriod     = 3
	VolumePeriod     = 20
	FibLookback      = 100
)

// ============================================================================
// MOVING AVERAGES
// ============================================================================

// CalculateSMA calculates the Simple Moving Average over the last period
// candles. The second return value is false when the history is too short.
func CalculateSMA(candles []market.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period {
		return 0, false
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}

	return sum / float64(period), true
}

// CalculateEMA calculates the Exponential Moving Average, seeded with the
// SMA of the first period closes.
func CalculateEMA(candles []market.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period {
		return 0, false
	}

	series := emaSeries(closes(candles), period)
	return series[len(series)-1], true
}

// emaSeries computes the full EMA series over values. Entries before
// index period-1 are zero; the seed at period-1 is the SMA of the first
// period values.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		ema = values[i]*k + ema*(1-k)
		out[i] = ema
	}

	return out
}

func closes(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// ============================================================================
// RSI (Relative Strength Index)
// ============================================================================

// CalculateRSI calculates the Relative Strength Index from simple average
// gains and losses over the last period changes.
func CalculateRSI(candles []market.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period+1 {
		return 0, false
	}

	gains := 0.0
	losses := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			// Flat series: momentum is undefined, not neutral.
			return 0, false
		}
		return 100, true
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), true
}

// ============================================================================
// MACD (Moving Average Convergence Divergence)
// ============================================================================

// MACDResult holds the MACD line, signal line and histogram.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// CalculateMACD calculates the MACD line as fast EMA minus slow EMA and the
// signal line as an EMA over the MACD history, not an approximation of it.
func CalculateMACD(candles []market.Candle, fastPeriod, slowPeriod, signalPeriod int) (MACDResult, bool) {
	if len(candles) < slowPeriod+signalPeriod {
		return MACDResult{}, false
	}

	values := closes(candles)
	fast := emaSeries(values, fastPeriod)
	slow := emaSeries(values, slowPeriod)

	// MACD values exist once the slow EMA is seeded.
	macdVals := make([]float64, 0, len(values)-slowPeriod+1)
	for i := slowPeriod - 1; i < len(values); i++ {
		macdVals = append(macdVals, fast[i]-slow[i])
	}

	signalVals := emaSeries(macdVals, signalPeriod)

	macdLine := macdVals[len(macdVals)-1]
	signalLine := signalVals[len(signalVals)-1]

	return MACDResult{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: macdLine - signalLine,
	}, true
}

// ============================================================================
// BOLLINGER BANDS
// ============================================================================

// BollingerResult holds Bollinger Band values.
type BollingerResult struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// CalculateBollingerBands calculates Bollinger Bands around an SMA middle band.
func CalculateBollingerBands(candles []market.Candle, period int, stdDevMultiplier float64) (BollingerResult, bool) {
	middle, ok := CalculateSMA(candles, period)
	if !ok {
		return BollingerResult{}, false
	}

	variance := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		diff := candles[i].Close - middle
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(period))

	return BollingerResult{
		Upper:  middle + stdDev*stdDevMultiplier,
		Middle: middle,
		Lower:  middle - stdDev*stdDevMultiplier,
	}, true
}

// ============================================================================
// ATR (Average True Range)
// ============================================================================

// CalculateATR calculates the Average True Range as a simple average of the
// last period true ranges.
func CalculateATR(candles []market.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period+1 {
		return 0, false
	}

	trSum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		trSum += trueRange(candles[i], candles[i-1])
	}

	atr := trSum / float64(period)
	if atr <= 0 {
		return 0, false
	}
	return atr, true
}

func trueRange(cur, prev market.Candle) float64 {
	return math.Max(
		cur.High-cur.Low,
		math.Max(
			math.Abs(cur.High-prev.Close),
			math.Abs(cur.Low-prev.Close),
		),
	)
}

// ============================================================================
// ADX (Average Directional Index)
// ============================================================================

// ADXResult holds the ADX and its directional components.
type ADXResult struct {
	ADX     float64 `json:"adx"`
	PlusDI  float64 `json:"plus_di"`
	MinusDI float64 `json:"minus_di"`
}

// CalculateADX calculates the Average Directional Index using Wilder's
// smoothing for the true range and the directional movements. Needs at
// least 2*period+1 candles so the DX history can be averaged.
func CalculateADX(candles []market.Candle, period int) (ADXResult, bool) {
	if period <= 0 || len(candles) < 2*period+1 {
		return ADXResult{}, false
	}

	n := len(candles)
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i := 1; i < n; i++ {
		tr[i] = trueRange(candles[i], candles[i-1])

		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	// Wilder smoothing: seed with the sum of the first period values,
	// then smoothed = prev - prev/period + current.
	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	p := float64(period)
	var plusDI, minusDI float64
	var dxSum float64
	dxCount := 0
	adx := 0.0

	for i := period + 1; i < n; i++ {
		smTR = smTR - smTR/p + tr[i]
		smPlus = smPlus - smPlus/p + plusDM[i]
		smMinus = smMinus - smMinus/p + minusDM[i]

		if smTR == 0 {
			continue
		}
		plusDI = 100 * smPlus / smTR
		minusDI = 100 * smMinus / smTR

		diSum := plusDI + minusDI
		if diSum == 0 {
			continue
		}
		dx := 100 * math.Abs(plusDI-minusDI) / diSum

		dxCount++
		if dxCount < period {
			dxSum += dx
		} else if dxCount == period {
			dxSum += dx
			adx = dxSum / p
		} else {
			adx = (adx*(p-1) + dx) / p
		}
	}

	if dxCount < period {
		return ADXResult{}, false
	}

	return ADXResult{ADX: adx, PlusDI: plusDI, MinusDI: minusDI}, true
}

// ============================================================================
// STOCHASTIC OSCILLATOR
// ============================================================================

// StochasticResult holds Stochastic Oscillator values.
type StochasticResult struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// CalculateStochastic calculates %K over the kPeriod range and %D as the
// SMA of the last dPeriod %K values.
func CalculateStochastic(candles []market.Candle, kPeriod, dPeriod int) (StochasticResult, bool) {
	if kPeriod <= 0 || dPeriod <= 0 || len(candles) < kPeriod+dPeriod-1 {
		return StochasticResult{}, false
	}

	dSum := 0.0
	var k float64
	for j := 0; j < dPeriod; j++ {
		end := len(candles) - j
		kj, ok := percentK(candles[:end], kPeriod)
		if !ok {
			return StochasticResult{}, false
		}
		if j == 0 {
			k = kj
		}
		dSum += kj
	}

	return StochasticResult{K: k, D: dSum / float64(dPeriod)}, true
}

func percentK(candles []market.Candle, period int) (float64, bool) {
	start := len(candles) - period
	highest := candles[start].High
	lowest := candles[start].Low
	for i := start; i < len(candles); i++ {
		if candles[i].High > highest {
			highest = candles[i].High
		}
		if candles[i].Low < lowest {
			lowest = candles[i].Low
		}
	}

	if highest == lowest {
		return 0, false
	}
	close := candles[len(candles)-1].Close
	return (close - lowest) / (highest - lowest) * 100, true
}

// ============================================================================
// FIBONACCI RETRACEMENT
// ============================================================================

// FibonacciLevels holds retracement levels between the swing low and high
// of the lookback window.
type FibonacciLevels struct {
	High   float64            `json:"high"`
	Low    float64            `json:"low"`
	Levels map[string]float64 `json:"levels"`
}

var fibRatios = map[string]float64{
	"0.236": 0.236,
	"0.382": 0.382,
	"0.500": 0.500,
	"0.618": 0.618,
	"0.786": 0.786,
}

// CalculateFibonacci calculates retracement levels over the last lookback
// candles.
func CalculateFibonacci(candles []market.Candle, lookback int) (FibonacciLevels, bool) {
	if len(candles) < 2 {
		return FibonacciLevels{}, false
	}
	if lookback > len(candles) {
		lookback = len(candles)
	}

	start := len(candles) - lookback
	high := candles[start].High
	low := candles[start].Low
	for i := start; i < len(candles); i++ {
		if candles[i].High > high {
			high = candles[i].High
		}
		if candles[i].Low < low {
			low = candles[i].Low
		}
	}

	span := high - low
	if span <= 0 {
		return FibonacciLevels{}, false
	}

	levels := make(map[string]float64, len(fibRatios))
	for name, ratio := range fibRatios {
		levels[name] = high - span*ratio
	}

	return FibonacciLevels{High: high, Low: low, Levels: levels}, true
}

// ============================================================================
// VOLUME
// ============================================================================

// VolumeResult compares the latest volume against its rolling average.
type VolumeResult struct {
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Ratio   float64 `json:"ratio"`
}

// CalculateVolume calculates the latest volume relative to the average of
// the preceding period candles.
func CalculateVolume(candles []market.Candle, period int) (VolumeResult, bool) {
	if period <= 0 || len(candles) < period+1 {
		return VolumeResult{}, false
	}

	sum := 0.0
	for i := len(candles) - period - 1; i < len(candles)-1; i++ {
		sum += candles[i].Volume
	}
	avg := sum / float64(period)
	if avg <= 0 {
		return VolumeResult{}, false
	}

	current := candles[len(candles)-1].Volume
	return VolumeResult{
		Current: current,
		Average: avg,
		Ratio:   current / avg,
	}, true
}
