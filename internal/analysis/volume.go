package analysis

import (
	"math"

	"trading-advisor/internal/market"
)

// VolumeAnalyzer provides volume-based context for a series.
type VolumeAnalyzer struct {
	avgPeriod int
}

// VolumeProfile summarizes how the latest volume compares to history.
type VolumeProfile struct {
	CurrentVolume  float64 `json:"current_volume"`
	AverageVolume  float64 `json:"average_volume"`
	VolumeRatio    float64 `json:"volume_ratio"`
	IsHighVolume   bool    `json:"is_high_volume"`   // above 2x average
	IsClimaxVolume bool    `json:"is_climax_volume"` // above 3x average
	OBV            float64 `json:"obv"`
	VWAP           float64 `json:"vwap"`
	DryingUp       bool    `json:"drying_up"`
	Pressure       string  `json:"pressure"` // "buying", "selling", "neutral"
}

// NewVolumeAnalyzer creates an analyzer. Values <= 0 fall back to a
// 20-period average.
func NewVolumeAnalyzer(avgPeriod int) *VolumeAnalyzer {
	if avgPeriod <= 0 {
		avgPeriod = 20
	}
	return &VolumeAnalyzer{avgPeriod: avgPeriod}
}

// Analyze builds the volume profile for a series. Returns nil on an
// empty series.
func (va *VolumeAnalyzer) Analyze(candles []market.Candle) *VolumeProfile {
	if len(candles) == 0 {
		return nil
	}

	current := candles[len(candles)-1]
	avg := va.averageVolume(candles)

	ratio := 0.0
	if avg > 0 {
		ratio = current.Volume / avg
	}

	return &VolumeProfile{
		CurrentVolume:  current.Volume,
		AverageVolume:  avg,
		VolumeRatio:    ratio,
		IsHighVolume:   ratio > 2.0,
		IsClimaxVolume: ratio > 3.0,
		OBV:            calculateOBV(candles),
		VWAP:           calculateVWAP(candles),
		DryingUp:       va.volumeDryUp(candles),
		Pressure:       pressure(current),
	}
}

func (va *VolumeAnalyzer) averageVolume(candles []market.Candle) float64 {
	period := va.avgPeriod
	if len(candles) < period {
		period = len(candles)
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Volume
	}
	return sum / float64(period)
}

// pressure classifies the latest candle's volume as buying or selling
// based on where the close landed.
func pressure(c market.Candle) string {
	body := c.Body()
	upper := c.High - math.Max(c.Open, c.Close)
	lower := math.Min(c.Open, c.Close) - c.Low

	if c.Close > c.Open {
		if upper < body*0.2 {
			return "buying"
		}
		return "neutral"
	}
	if c.Close < c.Open {
		if lower < body*0.2 {
			return "selling"
		}
		return "neutral"
	}
	return "neutral"
}

// calculateOBV accumulates volume with the sign of each close-to-close move.
func calculateOBV(candles []market.Candle) float64 {
	obv := 0.0
	for i := 1; i < len(candles); i++ {
		if candles[i].Close > candles[i-1].Close {
			obv += candles[i].Volume
		} else if candles[i].Close < candles[i-1].Close {
			obv -= candles[i].Volume
		}
	}
	return obv
}

func calculateVWAP(candles []market.Candle) float64 {
	totalVolumePrice := 0.0
	totalVolume := 0.0
	for _, c := range candles {
		typical := (c.High + c.Low + c.Close) / 3
		totalVolumePrice += typical * c.Volume
		totalVolume += c.Volume
	}
	if totalVolume == 0 {
		return 0
	}
	return totalVolumePrice / totalVolume
}

// volumeDryUp reports whether volume in the second half of the average
// window dropped well below the first half.
func (va *VolumeAnalyzer) volumeDryUp(candles []market.Candle) bool {
	period := va.avgPeriod
	if len(candles) < period || period < 4 {
		return false
	}

	recent := candles[len(candles)-period:]
	mid := period / 2

	firstHalf := 0.0
	secondHalf := 0.0
	for i := 0; i < mid; i++ {
		firstHalf += recent[i].Volume
	}
	for i := mid; i < period; i++ {
		secondHalf += recent[i].Volume
	}
	firstHalf /= float64(mid)
	secondHalf /= float64(period - mid)

	return secondHalf < firstHalf*0.7
}
