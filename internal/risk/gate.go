package risk

import "fmt"

// Gate rejection reasons. Every failed check contributes its reason;
// the gate never hides a plan, it only annotates it.
const (
	ReasonDailyLossExceeded = "daily_loss_exceeded"
	ReasonMaxPositions      = "max_positions_reached"
	ReasonPortfolioRisk     = "portfolio_risk_exceeded"
	ReasonRiskRewardReject  = "risk_reward_rejected"
	ReasonQualityTooLow     = "quality_below_minimum"
)

// GateResult is the verdict of the pre-trade risk gate.
type GateResult struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
	Details []string `json:"details,omitempty"`
}

// ApplyGate runs every pre-trade check against the account state. All
// checks run even after one fails so the caller sees the complete
// picture.
func ApplyGate(limits Limits, state AccountState, riskAmount float64, rr RiskReward, qualityScore float64) GateResult {
	res := GateResult{Passed: true}

	maxDaily := limits.MaxDailyLoss(state.Capital)
	if state.DailyLoss+riskAmount > maxDaily {
		res.fail(ReasonDailyLossExceeded,
			fmt.Sprintf("daily loss %.2f plus new risk %.2f exceeds limit %.2f", state.DailyLoss, riskAmount, maxDaily))
	}

	if state.OpenPositions >= limits.MaxOpenPositions {
		res.fail(ReasonMaxPositions,
			fmt.Sprintf("%d positions open, limit %d", state.OpenPositions, limits.MaxOpenPositions))
	}

	maxPortfolio := limits.MaxPortfolioRisk(state.Capital)
	if state.OpenRisk+riskAmount > maxPortfolio {
		res.fail(ReasonPortfolioRisk,
			fmt.Sprintf("open risk %.2f plus new risk %.2f exceeds limit %.2f", state.OpenRisk, riskAmount, maxPortfolio))
	}

	if rr.Status == RRReject {
		res.fail(ReasonRiskRewardReject,
			fmt.Sprintf("reward/risk %.2f below acceptable", rr.Ratio))
	}

	if qualityScore < limits.MinQualityScore {
		res.fail(ReasonQualityTooLow,
			fmt.Sprintf("quality score %.1f below minimum %.1f", qualityScore, limits.MinQualityScore))
	}

	return res
}

func (r *GateResult) fail(reason, detail string) {
	r.Passed = false
	r.Reasons = append(r.Reasons, reason)
	r.Details = append(r.Details, detail)
}
