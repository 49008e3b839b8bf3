package confluence

// Direction of the pressure a piece of evidence implies.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Source categorizes where a piece of evidence came from.
type Source string

const (
	SourceIndicator Source = "indicator"
	SourcePattern   Source = "pattern"
	SourceLevel     Source = "level"
	SourceVolume    Source = "volume"
)

// Fixed vote weights. Each weight reflects how reliable the source has
// proven as a standalone signal; the trend alignment vote carries the
// most, the volume confirmation the least.
const (
	WeightRSI        = 0.6
	WeightMACD       = 0.7
	WeightTrend      = 0.8
	WeightStochastic = 0.5
	WeightBollinger  = 0.5
	WeightLevel      = 0.5
	WeightVolume     = 0.4

	// PatternWeightScale converts a detector confidence into a vote
	// weight.
	PatternWeightScale = 0.6

	// ADX at or above ADXThreshold amplifies the trend vote by
	// ADXMultiplier instead of casting its own vote.
	ADXThreshold  = 25.0
	ADXMultiplier = 1.25

	// RSI and stochastic bands.
	RSIOversold    = 30.0
	RSIOverbought  = 70.0
	StochOversold  = 20.0
	StochOverbought = 80.0

	// LevelTolerance: price within this fraction of a level counts as
	// sitting at the level.
	LevelTolerance = 0.01

	// TieTolerance: if the losing direction's weight is within this
	// fraction of the winning one, the evidence conflicts and the
	// verdict is neutral.
	TieTolerance = 0.05
)

// Evidence is a single directional vote cast by one source.
type Evidence struct {
	Source    Source    `json:"source"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Weight    float64   `json:"weight"`
	Detail    string    `json:"detail"`
}

// Result is the aggregated verdict over all collected evidence.
type Result struct {
	Direction       Direction  `json:"direction"`
	Score           float64    `json:"score"` // 0..100
	ConfluenceCount int        `json:"confluence_count"`
	BullishWeight   float64    `json:"bullish_weight"`
	BearishWeight   float64    `json:"bearish_weight"`
	TotalWeight     float64    `json:"total_weight"`
	Items           []Evidence `json:"items"`
}
