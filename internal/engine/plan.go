package engine

import (
	"time"

	"trading-advisor/internal/analysis"
	"trading-advisor/internal/confluence"
	"trading-advisor/internal/risk"
	"trading-advisor/internal/signal"
)

// TradePlan is the complete output of one evaluation. The risk
// sub-objects are nil on a HOLD verdict; no placeholder numbers are
// ever fabricated. AnalysisID and GeneratedAt are assigned by the
// serving layer so the engine itself stays deterministic.
type TradePlan struct {
	AnalysisID  string    `json:"analysis_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Symbol    string  `json:"symbol"`
	Timeframe string  `json:"timeframe"`
	Price     float64 `json:"price"`

	Signal     signal.Classification `json:"signal"`
	Confluence confluence.Result     `json:"confluence"`

	Trend         analysis.TrendDirection `json:"trend,omitempty"`
	TrendStrength float64                 `json:"trend_strength,omitempty"`

	StopLoss   *risk.StopLoss   `json:"stop_loss,omitempty"`
	TakeProfit *risk.Ladder     `json:"take_profit,omitempty"`
	Position   *risk.Position   `json:"position,omitempty"`
	RiskReward *risk.RiskReward `json:"risk_reward,omitempty"`
	Gate       *risk.GateResult `json:"gate,omitempty"`

	Reasons         []string `json:"reasons,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Checklist       []string `json:"execution_checklist,omitempty"`
}

// Tradeable reports whether the plan is both actionable and cleared by
// the risk gate.
func (p *TradePlan) Tradeable() bool {
	return p.Signal.Actionable() && p.Gate != nil && p.Gate.Passed
}
