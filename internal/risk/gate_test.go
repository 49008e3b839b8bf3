package risk

import (
	"slices"
	"testing"
)

func healthyState() AccountState {
	return AccountState{Capital: 10000, DailyLoss: 0, OpenPositions: 0, OpenRisk: 0}
}

func acceptableRR() RiskReward {
	return RiskReward{Ratio: 1.7, Status: RRAcceptable}
}

func TestGatePassesHealthyAccount(t *testing.T) {
	res := ApplyGate(DefaultLimits(), healthyState(), 200, acceptableRR(), 75)
	if !res.Passed {
		t.Errorf("expected pass, got reasons %v", res.Reasons)
	}
	if len(res.Reasons) != 0 {
		t.Errorf("expected no reasons, got %v", res.Reasons)
	}
}

func TestGateDailyLossCheck(t *testing.T) {
	// 480 lost today plus 200 new risk breaches the 500 daily limit.
	state := healthyState()
	state.DailyLoss = 480

	res := ApplyGate(DefaultLimits(), state, 200, acceptableRR(), 75)
	if res.Passed {
		t.Error("expected rejection")
	}
	if !slices.Contains(res.Reasons, ReasonDailyLossExceeded) {
		t.Errorf("expected %s, got %v", ReasonDailyLossExceeded, res.Reasons)
	}
	// Only the daily check fails.
	if len(res.Reasons) != 1 {
		t.Errorf("expected exactly one reason, got %v", res.Reasons)
	}
}

func TestGateMaxPositions(t *testing.T) {
	state := healthyState()
	state.OpenPositions = 5

	res := ApplyGate(DefaultLimits(), state, 200, acceptableRR(), 75)
	if res.Passed || !slices.Contains(res.Reasons, ReasonMaxPositions) {
		t.Errorf("expected %s, got %v", ReasonMaxPositions, res.Reasons)
	}
}

func TestGatePortfolioRisk(t *testing.T) {
	state := healthyState()
	state.OpenRisk = 900 // 900 + 200 > 10% of 10000

	res := ApplyGate(DefaultLimits(), state, 200, acceptableRR(), 75)
	if res.Passed || !slices.Contains(res.Reasons, ReasonPortfolioRisk) {
		t.Errorf("expected %s, got %v", ReasonPortfolioRisk, res.Reasons)
	}
}

func TestGateQualityChecks(t *testing.T) {
	res := ApplyGate(DefaultLimits(), healthyState(), 200, RiskReward{Ratio: 1.2, Status: RRReject}, 30)
	if res.Passed {
		t.Error("expected rejection")
	}
	if !slices.Contains(res.Reasons, ReasonRiskRewardReject) {
		t.Errorf("expected %s, got %v", ReasonRiskRewardReject, res.Reasons)
	}
	if !slices.Contains(res.Reasons, ReasonQualityTooLow) {
		t.Errorf("expected %s, got %v", ReasonQualityTooLow, res.Reasons)
	}
}

func TestGateReportsAllFailures(t *testing.T) {
	state := AccountState{Capital: 10000, DailyLoss: 600, OpenPositions: 6, OpenRisk: 2000}
	res := ApplyGate(DefaultLimits(), state, 300, RiskReward{Status: RRReject}, 10)

	if res.Passed {
		t.Error("expected rejection")
	}
	if len(res.Reasons) != 5 {
		t.Errorf("expected all five checks to fail, got %v", res.Reasons)
	}
	if len(res.Details) != len(res.Reasons) {
		t.Errorf("details out of sync with reasons: %d vs %d", len(res.Details), len(res.Reasons))
	}
}
