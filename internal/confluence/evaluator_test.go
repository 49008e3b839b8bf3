package confluence

import (
	"testing"

	"trading-advisor/internal/analysis"
	"trading-advisor/internal/indicators"
	"trading-advisor/internal/patterns"
)

// bullishSnapshot: oversold RSI, positive MACD histogram, aligned moving
// averages, strong ADX and above-average volume. Stochastic, Bollinger
// and the rest stay undefined so exactly five votes are cast.
func bullishSnapshot() indicators.Snapshot {
	return indicators.Snapshot{
		Price:        42500,
		RSI:          25,
		RSIValid:     true,
		MACD:         indicators.MACDResult{MACD: 120, Signal: 80, Histogram: 40},
		MACDValid:    true,
		EMAFast:      42000,
		EMAFastValid: true,
		SMAMid:       41000,
		SMAMidValid:  true,
		ADX:          indicators.ADXResult{ADX: 30, PlusDI: 28, MinusDI: 12},
		ADXValid:     true,
		Volume:       indicators.VolumeResult{Current: 1500, Average: 1000, Ratio: 1.5},
		VolumeValid:  true,
	}
}

func TestEvaluateStrongBullishAlignment(t *testing.T) {
	e := NewEvaluator()
	res := e.Evaluate(Inputs{Price: 42500, Indicators: bullishSnapshot()})

	if res.Direction != DirectionBullish {
		t.Fatalf("expected bullish verdict, got %s", res.Direction)
	}
	// RSI, MACD, trend, ADX amplifier, volume confirmation.
	if res.ConfluenceCount != 5 {
		t.Errorf("expected 5 agreeing votes, got %d: %+v", res.ConfluenceCount, res.Items)
	}
	if res.Score < 80 || res.Score > 100 {
		t.Errorf("expected score in [80,100], got %v", res.Score)
	}
}

func TestADXAmplifierMaterializesTrendDelta(t *testing.T) {
	e := NewEvaluator()
	res := e.Evaluate(Inputs{Price: 42500, Indicators: bullishSnapshot()})

	var adxWeight float64
	for _, item := range res.Items {
		if item.Name == "ADX" {
			adxWeight = item.Weight
		}
	}
	// Trend weight 0.8 amplified by 1.25: the extra 0.2 is the ADX item.
	if adxWeight < 0.199 || adxWeight > 0.201 {
		t.Errorf("expected ADX amplifier weight 0.2, got %v", adxWeight)
	}
}

func TestADXNeedsATrendVote(t *testing.T) {
	snap := indicators.Snapshot{
		Price:    100,
		RSI:      25,
		RSIValid: true,
		ADX:      indicators.ADXResult{ADX: 40},
		ADXValid: true,
	}

	e := NewEvaluator()
	res := e.Evaluate(Inputs{Price: 100, Indicators: snap})

	for _, item := range res.Items {
		if item.Name == "ADX" {
			t.Error("ADX must not vote without a trend vote to amplify")
		}
	}
	if res.ConfluenceCount != 1 {
		t.Errorf("expected only the RSI vote, got %d", res.ConfluenceCount)
	}
}

func TestVolumeNeverVotesStandalone(t *testing.T) {
	snap := indicators.Snapshot{
		Price:       100,
		Volume:      indicators.VolumeResult{Current: 3000, Average: 1000, Ratio: 3},
		VolumeValid: true,
	}

	e := NewEvaluator()
	res := e.Evaluate(Inputs{Price: 100, Indicators: snap})

	if len(res.Items) != 0 {
		t.Errorf("expected no votes with only volume defined, got %+v", res.Items)
	}
	if res.Direction != DirectionNeutral || res.Score != 0 {
		t.Errorf("expected neutral zero-score verdict, got %s %v", res.Direction, res.Score)
	}
}

func TestUndefinedIndicatorsCastNoVotes(t *testing.T) {
	// Mid-range RSI is defined but non-voting; everything else undefined.
	snap := indicators.Snapshot{Price: 100, RSI: 50, RSIValid: true}

	e := NewEvaluator()
	res := e.Evaluate(Inputs{Price: 100, Indicators: snap})

	if len(res.Items) != 0 {
		t.Errorf("expected no votes, got %+v", res.Items)
	}
}

func TestLevelEvidence(t *testing.T) {
	sup := &analysis.Level{Price: 99.5, Kind: analysis.LevelSupport, Touches: 3}
	res := NewEvaluator().Evaluate(Inputs{Price: 100, Support: sup})

	if len(res.Items) != 1 || res.Items[0].Name != "Support" {
		t.Fatalf("expected a single support vote, got %+v", res.Items)
	}
	if res.Items[0].Direction != DirectionBullish || res.Items[0].Weight != WeightLevel {
		t.Errorf("unexpected support vote: %+v", res.Items[0])
	}

	far := &analysis.Level{Price: 90, Kind: analysis.LevelSupport, Touches: 3}
	res = NewEvaluator().Evaluate(Inputs{Price: 100, Support: far})
	if len(res.Items) != 0 {
		t.Errorf("support 10%% away must not vote, got %+v", res.Items)
	}
}

func TestPatternEvidenceDedupesByType(t *testing.T) {
	detected := []patterns.Detected{
		{Type: patterns.Hammer, Direction: patterns.DirectionBullish, Confidence: 0.65, CandleIndex: 58},
		{Type: patterns.Hammer, Direction: patterns.DirectionBullish, Confidence: 0.65, CandleIndex: 59},
		{Type: patterns.Doji, Direction: patterns.DirectionNeutral, Confidence: 0.50, CandleIndex: 59},
	}

	res := NewEvaluator().Evaluate(Inputs{Price: 100, Patterns: detected})

	if len(res.Items) != 2 {
		t.Fatalf("expected 2 deduped pattern votes, got %+v", res.Items)
	}
	for _, item := range res.Items {
		if item.Source != SourcePattern {
			t.Errorf("expected pattern source, got %s", item.Source)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	in := Inputs{Price: 42500, Indicators: bullishSnapshot()}
	e := NewEvaluator()

	a := e.Evaluate(in)
	b := e.Evaluate(in)

	if a.Score != b.Score || a.Direction != b.Direction || a.ConfluenceCount != b.ConfluenceCount {
		t.Errorf("evaluation not deterministic: %+v vs %+v", a, b)
	}
}
