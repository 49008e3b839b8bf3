package market

import (
	"errors"
	"fmt"
	"math"
)

// MinCandles is the shortest history the analysis pipeline accepts.
// Shorter windows leave the slow moving averages and ADX undefined for
// most of the series, which makes the confluence evaluation meaningless.
const MinCandles = 50

var (
	ErrInsufficientHistory = errors.New("insufficient candle history")
	ErrMalformedCandles    = errors.New("malformed candle data")
)

// Candle is a single OHLCV bar.
type Candle struct {
	OpenTime  int64   `json:"open_time,omitempty"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	CloseTime int64   `json:"close_time,omitempty"`
}

// Body returns the absolute size of the candle body.
func (c Candle) Body() float64 {
	return math.Abs(c.Close - c.Open)
}

// Range returns the high-to-low span of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// Series is an ordered OHLCV history for one symbol and timeframe.
// Candles are oldest first; the last element is the most recent bar.
type Series struct {
	Symbol    string   `json:"symbol"`
	Timeframe string   `json:"timeframe"`
	Candles   []Candle `json:"candles"`
}

// FromColumns builds a series from parallel OHLCV columns, the shape
// the HTTP API and the CLI receive. All five slices must have the same
// length.
func FromColumns(symbol, timeframe string, open, high, low, closes, volume []float64) (Series, error) {
	n := len(closes)
	if len(open) != n || len(high) != n || len(low) != n || len(volume) != n {
		return Series{}, fmt.Errorf("%w: column lengths differ (open=%d high=%d low=%d close=%d volume=%d)",
			ErrMalformedCandles, len(open), len(high), len(low), n, len(volume))
	}

	candles := make([]Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = Candle{
			Open:   open[i],
			High:   high[i],
			Low:    low[i],
			Close:  closes[i],
			Volume: volume[i],
		}
	}

	return Series{Symbol: symbol, Timeframe: timeframe, Candles: candles}, nil
}

// Validate checks that the series is long enough and every candle is
// internally consistent. It is called once at the pipeline entrance so
// the downstream stages can assume well formed data.
func (s Series) Validate() error {
	if len(s.Candles) < MinCandles {
		return fmt.Errorf("%w: got %d candles, need at least %d", ErrInsufficientHistory, len(s.Candles), MinCandles)
	}

	for i, c := range s.Candles {
		if !isFinite(c.Open) || !isFinite(c.High) || !isFinite(c.Low) || !isFinite(c.Close) || !isFinite(c.Volume) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrMalformedCandles, i)
		}
		if c.High < c.Low {
			return fmt.Errorf("%w: high %.8f below low %.8f at index %d", ErrMalformedCandles, c.High, c.Low, i)
		}
		if c.Open <= 0 || c.Close <= 0 || c.High <= 0 || c.Low <= 0 {
			return fmt.Errorf("%w: non-positive price at index %d", ErrMalformedCandles, i)
		}
		if c.Volume < 0 {
			return fmt.Errorf("%w: negative volume at index %d", ErrMalformedCandles, i)
		}
	}

	return nil
}

// Last returns the most recent candle. The series must be non-empty.
func (s Series) Last() Candle {
	return s.Candles[len(s.Candles)-1]
}

// LastClose returns the close of the most recent candle.
func (s Series) LastClose() float64 {
	return s.Last().Close
}

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
