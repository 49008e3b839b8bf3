package confluence

// score aggregates evidence into the final verdict.
//
// The quality score is the winning direction's share of all cast weight,
// scaled to 0..100. Conflicting evidence therefore drags the score down
// even when one side nominally wins. When the two directions are within
// TieTolerance of each other the evidence is considered conflicting and
// the verdict is neutral.
func score(items []Evidence) Result {
	res := Result{
		Direction: DirectionNeutral,
		Items:     items,
	}

	if len(items) == 0 {
		return res
	}

	for _, item := range items {
		res.TotalWeight += item.Weight
		switch item.Direction {
		case DirectionBullish:
			res.BullishWeight += item.Weight
		case DirectionBearish:
			res.BearishWeight += item.Weight
		}
	}

	leading := DirectionNeutral
	top, second := res.BullishWeight, res.BearishWeight
	if res.BullishWeight > res.BearishWeight {
		leading = DirectionBullish
	} else if res.BearishWeight > res.BullishWeight {
		leading = DirectionBearish
		top, second = res.BearishWeight, res.BullishWeight
	}

	if leading == DirectionNeutral || res.TotalWeight <= 0 {
		return res
	}

	for _, item := range items {
		if item.Direction == leading {
			res.ConfluenceCount++
		}
	}

	res.Score = clampScore(100 * top / res.TotalWeight)

	// Near-tie between the two directions: conflicting evidence, hold.
	if second >= top*(1-TieTolerance) {
		return res
	}

	res.Direction = leading
	return res
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
