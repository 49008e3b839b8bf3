// Package engine composes the analysis pipeline into a single trade
// plan: indicators, patterns, market structure and volume feed the
// confluence evaluator, the verdict is classified, and actionable
// signals get a stop, a take-profit ladder, a sized position and a
// risk-gate verdict.
package engine

import (
	"fmt"

	"trading-advisor/internal/analysis"
	"trading-advisor/internal/confluence"
	"trading-advisor/internal/indicators"
	"trading-advisor/internal/market"
	"trading-advisor/internal/patterns"
	"trading-advisor/internal/risk"
	"trading-advisor/internal/signal"
)

// patternWindow is how many closing candles back a pattern still counts
// as actionable evidence.
const patternWindow = 3

// Request is one evaluation request. ChartImage is accepted for
// journaling but pattern recognition runs on OHLC data only; a missing
// image is never an error.
type Request struct {
	Series      market.Series
	ChartImage  []byte
	Capital     float64
	RiskPercent float64
	State       risk.AccountState
}

// Engine runs the full evaluation pipeline. It holds no mutable state
// and is safe for concurrent use; identical requests produce identical
// plans.
type Engine struct {
	detector  *patterns.Detector
	structure *analysis.StructureAnalyzer
	volume    *analysis.VolumeAnalyzer
	evaluator *confluence.Evaluator
	limits    risk.Limits
}

// New creates an engine with the given risk limits.
func New(limits risk.Limits) *Engine {
	return &Engine{
		detector:  patterns.NewDetector(0),
		structure: analysis.NewStructureAnalyzer(0),
		volume:    analysis.NewVolumeAnalyzer(0),
		evaluator: confluence.NewEvaluator(),
		limits:    limits,
	}
}

// Limits returns the engine's configured risk limits.
func (e *Engine) Limits() risk.Limits {
	return e.limits
}

// Evaluate runs the pipeline and returns the plan. The only errors are
// malformed or insufficient input and a degenerate stop distance; a
// HOLD verdict and a failed gate are ordinary results.
func (e *Engine) Evaluate(req Request) (*TradePlan, error) {
	if err := req.Series.Validate(); err != nil {
		return nil, err
	}

	candles := req.Series.Candles
	price := req.Series.LastClose()

	snap := indicators.Compute(req.Series)
	pats := e.detector.Recent(candles, patternWindow)
	structure := e.structure.Analyze(candles)
	profile := e.volume.Analyze(candles)

	var support, resistance *analysis.Level
	if structure != nil {
		support = analysis.NearestSupport(structure.Support, price)
		resistance = analysis.NearestResistance(structure.Resistance, price)
	}

	verdict := e.evaluator.Evaluate(confluence.Inputs{
		Price:      price,
		Indicators: snap,
		Patterns:   pats,
		Support:    support,
		Resistance: resistance,
	})

	classified := signal.Classify(verdict)

	plan := &TradePlan{
		Symbol:     req.Series.Symbol,
		Timeframe:  req.Series.Timeframe,
		Price:      price,
		Signal:     classified,
		Confluence: verdict,
		Reasons:    reasons(verdict),
	}
	if structure != nil {
		plan.Trend = structure.Trend
		plan.TrendStrength = structure.TrendStrength
	}

	plan.Warnings = warnings(classified, structure, profile, snap)

	if !classified.Actionable() {
		plan.Recommendations = holdRecommendations(verdict)
		return plan, nil
	}

	stop, err := risk.CalculateStop(classified.Type, price, snap.ATR, snap.ATRValid, support, resistance)
	if err != nil {
		return nil, err
	}

	ladder, err := risk.BuildLadder(classified.Type, price, stop.Distance)
	if err != nil {
		return nil, err
	}

	riskPercent := req.RiskPercent
	if riskPercent <= 0 || riskPercent > e.limits.MaxRiskPerTradePercent {
		riskPercent = e.limits.MaxRiskPerTradePercent
	}

	position, err := risk.SizePosition(req.Capital, riskPercent, price, stop.Distance)
	if err != nil {
		return nil, err
	}

	rr := risk.EvaluateRiskReward(ladder, stop.Distance)

	state := req.State
	if state.Capital <= 0 {
		state.Capital = req.Capital
	}
	gate := risk.ApplyGate(e.limits, state, position.RiskAmount, rr, classified.QualityScore)

	plan.StopLoss = &stop
	plan.TakeProfit = &ladder
	plan.Position = &position
	plan.RiskReward = &rr
	plan.Gate = &gate
	plan.Recommendations = tradeRecommendations(plan)
	plan.Checklist = checklist(plan)

	if !gate.Passed {
		plan.Warnings = append(plan.Warnings, gate.Details...)
	}

	return plan, nil
}

// reasons lists the evidence behind the verdict, strongest first is not
// required; the evaluator's stable order is kept so identical inputs
// produce identical plans.
func reasons(res confluence.Result) []string {
	var out []string
	for _, item := range res.Items {
		if item.Detail != "" {
			out = append(out, item.Detail)
		}
	}
	return out
}

func warnings(c signal.Classification, structure *analysis.Structure, profile *analysis.VolumeProfile, snap indicators.Snapshot) []string {
	var out []string

	if structure != nil && c.Actionable() {
		against := (c.Type == signal.Buy && structure.Trend == analysis.TrendBearish) ||
			(c.Type == signal.Sell && structure.Trend == analysis.TrendBullish)
		if against {
			out = append(out, fmt.Sprintf("signal runs against the %s market structure", structure.Trend))
		}
	}

	if profile != nil {
		if profile.IsClimaxVolume {
			out = append(out, fmt.Sprintf("climax volume %.1fx average, move may be exhausting", profile.VolumeRatio))
		}
		if profile.DryingUp {
			out = append(out, "volume drying up, continuation is weak")
		}
	}

	if !snap.ATRValid {
		out = append(out, "volatility undefined, stop falls back to a fixed percentage")
	}

	return out
}

func holdRecommendations(res confluence.Result) []string {
	if len(res.Items) == 0 {
		return []string{"No evidence either way. Stay flat and wait for a setup."}
	}
	if res.Direction == confluence.DirectionNeutral && res.ConfluenceCount > 0 {
		return []string{"Evidence is conflicting. Wait for one side to take control before committing."}
	}
	return []string{"Confluence is too thin to act on. Wait for additional confirmation."}
}

func tradeRecommendations(p *TradePlan) []string {
	var out []string

	switch p.Signal.Trigger {
	case signal.Immediate:
		out = append(out, fmt.Sprintf("Enter %s at market near %.4f.", p.Signal.Type, p.Price))
	case signal.WaitConfirmation:
		out = append(out, fmt.Sprintf("Wait for the next candle to confirm before entering %s.", p.Signal.Type))
	default:
		out = append(out, fmt.Sprintf("Wait for a pullback toward %.4f before entering %s.", p.StopLoss.Price+(p.Price-p.StopLoss.Price)/2, p.Signal.Type))
	}

	out = append(out, fmt.Sprintf("Place the stop at %.4f (%s, %.2f%% away).",
		p.StopLoss.Price, p.StopLoss.Method, p.StopLoss.DistancePercent))

	t := p.TakeProfit.Targets
	out = append(out, fmt.Sprintf("Scale out %d%% at %.4f, %d%% at %.4f, %d%% at %.4f.",
		t[0].ClosePercent, t[0].Price, t[1].ClosePercent, t[1].Price, t[2].ClosePercent, t[2].Price))

	if p.Gate != nil && !p.Gate.Passed {
		out = append(out, "Risk gate rejected this trade. Do not take it; the plan is shown for review only.")
	}

	return out
}

func checklist(p *TradePlan) []string {
	return []string{
		fmt.Sprintf("Confirm %s signal is still valid on the %s chart", p.Signal.Type, p.Timeframe),
		fmt.Sprintf("Set stop loss at %.4f before entry", p.StopLoss.Price),
		fmt.Sprintf("Size the position at %.6f units (%.2f risked)", p.Position.SizeUnits, p.Position.RiskAmount),
		"Set all three take-profit orders immediately after the fill",
		"Move the stop to break even once the first target fills",
	}
}
