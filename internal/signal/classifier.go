package signal

import (
	"trading-advisor/internal/confluence"
)

// Type is the trade direction verdict.
type Type string

const (
	Buy  Type = "BUY"
	Sell Type = "SELL"
	Hold Type = "HOLD"
)

// Strength tiers an actionable signal by quality score and vote count.
type Strength string

const (
	Strong   Strength = "STRONG"
	Moderate Strength = "MODERATE"
	Weak     Strength = "WEAK"
)

// Trigger describes how the entry should be taken.
type Trigger string

const (
	Immediate        Trigger = "IMMEDIATE"
	WaitConfirmation Trigger = "WAIT_CONFIRMATION"
	Pullback         Trigger = "PULLBACK"
)

// Classification thresholds.
const (
	strongScore    = 80.0
	strongCount    = 3
	moderateScore  = 60.0
	moderateCount  = 2
	weakScore      = 40.0
	weakCount      = 1
	immediateScore = 70.0
	immediateCount = 4
)

// Classification is the classified signal derived from a confluence
// verdict.
type Classification struct {
	Type            Type     `json:"type"`
	Strength        Strength `json:"strength,omitempty"`
	Trigger         Trigger  `json:"trigger,omitempty"`
	Confidence      float64  `json:"confidence"`
	QualityScore    float64  `json:"quality_score"`
	ConfluenceCount int      `json:"confluence_count"`
}

// Actionable reports whether the signal calls for a trade at all.
func (c Classification) Actionable() bool {
	return c.Type == Buy || c.Type == Sell
}

// Classify maps a confluence verdict onto a typed signal.
//
// A neutral verdict is always HOLD regardless of score. Otherwise the
// score and vote count pick the tier; below the WEAK floor the signal
// degrades to HOLD. The trigger tightens with conviction: enough
// aligned votes and a high score allow an immediate entry, a couple of
// votes ask for confirmation, anything weaker waits for a pullback.
func Classify(res confluence.Result) Classification {
	c := Classification{
		Type:            Hold,
		QualityScore:    res.Score,
		ConfluenceCount: res.ConfluenceCount,
		Confidence:      confidence(res),
	}

	if res.Direction == confluence.DirectionNeutral {
		return c
	}
	if res.Score < weakScore || res.ConfluenceCount < weakCount {
		return c
	}

	if res.Direction == confluence.DirectionBullish {
		c.Type = Buy
	} else {
		c.Type = Sell
	}

	switch {
	case res.Score >= strongScore && res.ConfluenceCount >= strongCount:
		c.Strength = Strong
	case res.Score >= moderateScore && res.ConfluenceCount >= moderateCount:
		c.Strength = Moderate
	default:
		c.Strength = Weak
	}

	switch {
	case res.ConfluenceCount >= immediateCount && res.Score >= immediateScore:
		c.Trigger = Immediate
	case res.ConfluenceCount >= moderateCount:
		c.Trigger = WaitConfirmation
	default:
		c.Trigger = Pullback
	}

	return c
}

// confidence blends the dominance of the winning side with the vote
// count, capped at 100.
func confidence(res confluence.Result) float64 {
	if res.TotalWeight <= 0 {
		return 0
	}

	top := res.BullishWeight
	other := res.BearishWeight
	if res.BearishWeight > res.BullishWeight {
		top, other = res.BearishWeight, res.BullishWeight
	}
	if other < 0.1 {
		other = 0.1
	}

	conf := (top/other)*30 + float64(res.ConfluenceCount)*10
	if conf > 100 {
		conf = 100
	}
	return conf
}
