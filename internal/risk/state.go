package risk

// AccountState is the per-account risk snapshot the gate judges new
// trades against. DailyLoss and OpenRisk are positive amounts.
type AccountState struct {
	Capital       float64 `json:"capital"`
	DailyLoss     float64 `json:"daily_loss"`
	OpenPositions int     `json:"open_positions"`
	OpenRisk      float64 `json:"open_risk"`
	PeakCapital   float64 `json:"peak_capital"`
}

// Limits are the account-level risk boundaries.
type Limits struct {
	MaxRiskPerTradePercent  float64 `json:"max_risk_per_trade_percent"`
	MaxDailyLossPercent     float64 `json:"max_daily_loss_percent"`
	MaxPortfolioRiskPercent float64 `json:"max_portfolio_risk_percent"`
	MaxOpenPositions        int     `json:"max_open_positions"`
	MinQualityScore         float64 `json:"min_quality_score"`
}

// DefaultLimits returns the standard conservative limits.
func DefaultLimits() Limits {
	return Limits{
		MaxRiskPerTradePercent:  2.0,
		MaxDailyLossPercent:     5.0,
		MaxPortfolioRiskPercent: 10.0,
		MaxOpenPositions:        5,
		MinQualityScore:         40.0,
	}
}

// MaxDailyLoss converts the percentage limit into an absolute amount
// for the given account.
func (l Limits) MaxDailyLoss(capital float64) float64 {
	return capital * l.MaxDailyLossPercent / 100
}

// MaxPortfolioRisk converts the portfolio limit into an absolute amount.
func (l Limits) MaxPortfolioRisk(capital float64) float64 {
	return capital * l.MaxPortfolioRiskPercent / 100
}
