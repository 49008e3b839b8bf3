package indicators

import "trading-advisor/internal/market"

// Snapshot is the full indicator state for the latest candle of a series.
// Each reading carries a Valid flag; downstream consumers must skip
// readings the history was too short to define instead of treating zero
// values as neutral.
type Snapshot struct {
	Price float64

	RSI      float64
	RSIValid bool

	MACD      MACDResult
	MACDValid bool

	Bollinger      BollingerResult
	BollingerValid bool

	EMAFast      float64
	EMAFastValid bool
	SMAMid       float64
	SMAMidValid  bool
	SMASlow      float64
	SMASlowValid bool

	ATR      float64
	ATRValid bool

	ADX      ADXResult
	ADXValid bool

	Stochastic      StochasticResult
	StochasticValid bool

	Fibonacci      FibonacciLevels
	FibonacciValid bool

	Volume      VolumeResult
	VolumeValid bool
}

// Compute evaluates every indicator over the series using the default
// periods.
func Compute(s market.Series) Snapshot {
	candles := s.Candles

	snap := Snapshot{Price: s.LastClose()}

	snap.RSI, snap.RSIValid = CalculateRSI(candles, RSIPeriod)
	snap.MACD, snap.MACDValid = CalculateMACD(candles, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	snap.Bollinger, snap.BollingerValid = CalculateBollingerBands(candles, BollingerPeriod, BollingerStdDev)
	snap.EMAFast, snap.EMAFastValid = CalculateEMA(candles, EMAFastPeriod)
	snap.SMAMid, snap.SMAMidValid = CalculateSMA(candles, SMAMidPeriod)
	snap.SMASlow, snap.SMASlowValid = CalculateSMA(candles, SMASlowPeriod)
	snap.ATR, snap.ATRValid = CalculateATR(candles, ATRPeriod)
	snap.ADX, snap.ADXValid = CalculateADX(candles, ADXPeriod)
	snap.Stochastic, snap.StochasticValid = CalculateStochastic(candles, StochKPeriod, StochDPeriod)
	snap.Fibonacci, snap.FibonacciValid = CalculateFibonacci(candles, FibLookback)
	snap.Volume, snap.VolumeValid = CalculateVolume(candles, VolumePeriod)

	return snap
}

// Descriptor describes one indicator for the catalog endpoint.
type Descriptor struct {
	Name        string `json:"name"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Catalog lists the indicators the pipeline evaluates, with their
// configured periods.
func Catalog() []Descriptor {
	return []Descriptor{
		{Name: "RSI", Period: "14", Description: "Relative Strength Index; oversold below 30, overbought above 70"},
		{Name: "MACD", Period: "12/26/9", Description: "MACD line, signal line and histogram"},
		{Name: "Bollinger Bands", Period: "20, 2.0 std", Description: "Volatility bands around a 20-period SMA"},
		{Name: "EMA", Period: "21", Description: "Fast exponential moving average"},
		{Name: "SMA", Period: "50, 200", Description: "Mid and slow simple moving averages"},
		{Name: "ATR", Period: "14", Description: "Average True Range volatility measure"},
		{Name: "ADX", Period: "14", Description: "Trend strength with +DI/-DI components"},
		{Name: "Stochastic", Period: "14/3", Description: "Stochastic oscillator %K and %D"},
		{Name: "Fibonacci", Period: "100 lookback", Description: "Retracement levels over the swing range"},
		{Name: "Volume", Period: "20", Description: "Latest volume against its rolling average"},
	}
}
