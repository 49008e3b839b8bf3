package confluence

import (
	"fmt"

	"trading-advisor/internal/analysis"
	"trading-advisor/internal/indicators"
	"trading-advisor/internal/patterns"
)

// Inputs carries everything the evaluator votes on for one candle series.
type Inputs struct {
	Price      float64
	Indicators indicators.Snapshot
	Patterns   []patterns.Detected
	Support    *analysis.Level
	Resistance *analysis.Level
}

// indicatorRule is one row of the vote table: a named source with a
// fixed weight and a judgment over the inputs. judge returns ok=false
// when the source is undefined or has nothing to say, in which case no
// evidence is emitted at all.
type indicatorRule struct {
	name   string
	weight float64
	judge  func(in Inputs) (Direction, string, bool)
}

var indicatorRules = []indicatorRule{
	{"RSI", WeightRSI, judgeRSI},
	{"MACD", WeightMACD, judgeMACD},
	{"Trend", WeightTrend, judgeTrend},
	{"Stochastic", WeightStochastic, judgeStochastic},
	{"Bollinger", WeightBollinger, judgeBollinger},
}

// Evaluator collects evidence from indicators, patterns, levels and
// volume, and scores it.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs the vote table over the inputs and aggregates the
// result. The same inputs always produce the same result.
func (e *Evaluator) Evaluate(in Inputs) Result {
	var items []Evidence

	for _, rule := range indicatorRules {
		dir, detail, ok := rule.judge(in)
		if !ok {
			continue
		}
		items = append(items, Evidence{
			Source:    SourceIndicator,
			Name:      rule.name,
			Direction: dir,
			Weight:    rule.weight,
			Detail:    detail,
		})
	}

	items = append(items, patternEvidence(in.Patterns)...)
	items = append(items, levelEvidence(in)...)

	// ADX does not vote on direction. At or above the threshold it
	// amplifies the trend vote by materializing the weight delta as an
	// extra agreeing item.
	items = applyADXAmplifier(items, in)

	// Volume never votes standalone: above-average volume only
	// reinforces whatever direction already leads.
	items = applyVolumeConfirmation(items, in)

	return score(items)
}

func judgeRSI(in Inputs) (Direction, string, bool) {
	if !in.Indicators.RSIValid {
		return DirectionNeutral, "", false
	}
	rsi := in.Indicators.RSI
	switch {
	case rsi < RSIOversold:
		return DirectionBullish, fmt.Sprintf("RSI %.1f oversold", rsi), true
	case rsi > RSIOverbought:
		return DirectionBearish, fmt.Sprintf("RSI %.1f overbought", rsi), true
	}
	return DirectionNeutral, "", false
}

func judgeMACD(in Inputs) (Direction, string, bool) {
	if !in.Indicators.MACDValid {
		return DirectionNeutral, "", false
	}
	hist := in.Indicators.MACD.Histogram
	switch {
	case hist > 0:
		return DirectionBullish, fmt.Sprintf("MACD histogram %.4f above zero", hist), true
	case hist < 0:
		return DirectionBearish, fmt.Sprintf("MACD histogram %.4f below zero", hist), true
	}
	return DirectionNeutral, "", false
}

// judgeTrend votes on moving average alignment: price above the fast
// EMA above the mid SMA is bullish, the mirror is bearish. When the
// slow SMA is defined it must agree as well.
func judgeTrend(in Inputs) (Direction, string, bool) {
	snap := in.Indicators
	if !snap.EMAFastValid || !snap.SMAMidValid {
		return DirectionNeutral, "", false
	}

	bullish := in.Price > snap.EMAFast && snap.EMAFast > snap.SMAMid
	bearish := in.Price < snap.EMAFast && snap.EMAFast < snap.SMAMid
	if snap.SMASlowValid {
		bullish = bullish && snap.SMAMid > snap.SMASlow
		bearish = bearish && snap.SMAMid < snap.SMASlow
	}

	switch {
	case bullish:
		return DirectionBullish, "price above aligned moving averages", true
	case bearish:
		return DirectionBearish, "price below aligned moving averages", true
	}
	return DirectionNeutral, "", false
}

func judgeStochastic(in Inputs) (Direction, string, bool) {
	if !in.Indicators.StochasticValid {
		return DirectionNeutral, "", false
	}
	k := in.Indicators.Stochastic.K
	switch {
	case k < StochOversold:
		return DirectionBullish, fmt.Sprintf("stochastic %%K %.1f oversold", k), true
	case k > StochOverbought:
		return DirectionBearish, fmt.Sprintf("stochastic %%K %.1f overbought", k), true
	}
	return DirectionNeutral, "", false
}

func judgeBollinger(in Inputs) (Direction, string, bool) {
	if !in.Indicators.BollingerValid {
		return DirectionNeutral, "", false
	}
	bb := in.Indicators.Bollinger
	switch {
	case in.Price < bb.Lower:
		return DirectionBullish, "price below lower Bollinger band", true
	case in.Price > bb.Upper:
		return DirectionBearish, "price above upper Bollinger band", true
	}
	return DirectionNeutral, "", false
}

// patternEvidence emits one vote per distinct recent pattern type,
// weighted by detector confidence.
func patternEvidence(detected []patterns.Detected) []Evidence {
	var items []Evidence
	seen := make(map[patterns.PatternType]bool)

	for _, p := range detected {
		if seen[p.Type] {
			continue
		}
		seen[p.Type] = true

		items = append(items, Evidence{
			Source:    SourcePattern,
			Name:      string(p.Type),
			Direction: Direction(p.Direction),
			Weight:    PatternWeightScale * p.Confidence,
			Detail:    fmt.Sprintf("%s (confidence %.2f)", p.Type, p.Confidence),
		})
	}

	return items
}

func levelEvidence(in Inputs) []Evidence {
	var items []Evidence

	if analysis.NearLevel(in.Support, in.Price, LevelTolerance) {
		items = append(items, Evidence{
			Source:    SourceLevel,
			Name:      "Support",
			Direction: DirectionBullish,
			Weight:    WeightLevel,
			Detail:    fmt.Sprintf("price at support %.4f (%d touches)", in.Support.Price, in.Support.Touches),
		})
	}

	if analysis.NearLevel(in.Resistance, in.Price, LevelTolerance) {
		items = append(items, Evidence{
			Source:    SourceLevel,
			Name:      "Resistance",
			Direction: DirectionBearish,
			Weight:    WeightLevel,
			Detail:    fmt.Sprintf("price at resistance %.4f (%d touches)", in.Resistance.Price, in.Resistance.Touches),
		})
	}

	return items
}

func applyADXAmplifier(items []Evidence, in Inputs) []Evidence {
	if !in.Indicators.ADXValid || in.Indicators.ADX.ADX < ADXThreshold {
		return items
	}

	for _, item := range items {
		if item.Source != SourceIndicator || item.Name != "Trend" || item.Direction == DirectionNeutral {
			continue
		}
		return append(items, Evidence{
			Source:    SourceIndicator,
			Name:      "ADX",
			Direction: item.Direction,
			Weight:    item.Weight * (ADXMultiplier - 1),
			Detail:    fmt.Sprintf("ADX %.1f confirms %s trend", in.Indicators.ADX.ADX, item.Direction),
		})
	}

	return items
}

func applyVolumeConfirmation(items []Evidence, in Inputs) []Evidence {
	if !in.Indicators.VolumeValid || in.Indicators.Volume.Ratio <= 1.0 {
		return items
	}

	var bull, bear float64
	for _, item := range items {
		switch item.Direction {
		case DirectionBullish:
			bull += item.Weight
		case DirectionBearish:
			bear += item.Weight
		}
	}

	var leader Direction
	switch {
	case bull > bear:
		leader = DirectionBullish
	case bear > bull:
		leader = DirectionBearish
	default:
		return items
	}

	return append(items, Evidence{
		Source:    SourceVolume,
		Name:      "Volume",
		Direction: leader,
		Weight:    WeightVolume,
		Detail:    fmt.Sprintf("volume %.2fx average confirms %s pressure", in.Indicators.Volume.Ratio, leader),
	})
}
