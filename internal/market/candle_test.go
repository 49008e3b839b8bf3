package market

import (
	"errors"
	"math"
	"testing"
)

func buildSeries(n int, start float64) Series {
	candles := make([]Candle, n)
	price := start
	for i := 0; i < n; i++ {
		candles[i] = Candle{
			Open:   price,
			High:   price + 5,
			Low:    price - 5,
			Close:  price + 1,
			Volume: 1000,
		}
		price += 1
	}
	return Series{Symbol: "BTCUSDT", Timeframe: "1h", Candles: candles}
}

func TestValidateAcceptsHealthySeries(t *testing.T) {
	s := buildSeries(60, 100)
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid series, got %v", err)
	}
}

func TestValidateRejectsShortHistory(t *testing.T) {
	s := buildSeries(49, 100)
	err := s.Validate()
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestValidateRejectsMalformedCandles(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Candle)
	}{
		{"high below low", func(c *Candle) { c.High = c.Low - 1 }},
		{"NaN close", func(c *Candle) { c.Close = math.NaN() }},
		{"negative volume", func(c *Candle) { c.Volume = -1 }},
		{"zero price", func(c *Candle) { c.Open = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := buildSeries(60, 100)
			tc.mutate(&s.Candles[30])
			if err := s.Validate(); !errors.Is(err, ErrMalformedCandles) {
				t.Errorf("expected ErrMalformedCandles, got %v", err)
			}
		})
	}
}

func TestFromColumnsLengthMismatch(t *testing.T) {
	_, err := FromColumns("BTCUSDT", "1h",
		[]float64{1, 2}, []float64{1, 2}, []float64{1, 2}, []float64{1, 2, 3}, []float64{1, 2})
	if !errors.Is(err, ErrMalformedCandles) {
		t.Fatalf("expected ErrMalformedCandles, got %v", err)
	}
}

func TestFromColumnsBuildsCandles(t *testing.T) {
	s, err := FromColumns("ETHUSDT", "4h",
		[]float64{10, 11}, []float64{12, 13}, []float64{9, 10}, []float64{11, 12}, []float64{100, 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(s.Candles))
	}
	if s.LastClose() != 12 {
		t.Errorf("expected last close 12, got %v", s.LastClose())
	}
	if !s.Candles[0].IsBullish() {
		t.Errorf("expected first candle bullish")
	}
}
