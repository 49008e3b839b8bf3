package patterns

import "trading-advisor/internal/market"

// Single- and two-candle reversal formations.

// isHammer: long lower wick, small upper wick, appearing after a bearish
// candle.
func (d *Detector) isHammer(c market.Candle, prev *market.Candle) bool {
	if c.Range() == 0 {
		return false
	}
	if lowerWick(c) < c.Body()*2 {
		return false
	}
	if upperWick(c) > c.Body()*0.3 {
		return false
	}
	if prev != nil && prev.IsBullish() {
		return false
	}
	return true
}

// isShootingStar: long upper wick, small lower wick, after a bullish candle.
func (d *Detector) isShootingStar(c market.Candle, prev *market.Candle) bool {
	if c.Range() == 0 {
		return false
	}
	if upperWick(c) < c.Body()*2 {
		return false
	}
	if lowerWick(c) > c.Body()*0.3 {
		return false
	}
	if prev != nil && !prev.IsBullish() {
		return false
	}
	return true
}

// isHangingMan has the hammer shape but appears after an up move, which
// flips its implication bearish.
func (d *Detector) isHangingMan(c market.Candle, prev *market.Candle) bool {
	if c.Range() == 0 {
		return false
	}
	if lowerWick(c) < c.Body()*2 {
		return false
	}
	if upperWick(c) > c.Body()*0.3 {
		return false
	}
	if prev != nil && !prev.IsBullish() {
		return false
	}
	return true
}

func (d *Detector) isBullishEngulfing(c1, c2 market.Candle) bool {
	if c1.IsBullish() || !c2.IsBullish() {
		return false
	}
	// C2 body must contain C1 body entirely.
	return c2.Open <= c1.Close && c2.Close >= c1.Open
}

func (d *Detector) isBearishEngulfing(c1, c2 market.Candle) bool {
	if !c1.IsBullish() || c2.IsBullish() {
		return false
	}
	return c2.Open >= c1.Close && c2.Close <= c1.Open
}

// isDoji: body under 10% of the candle range.
func (d *Detector) isDoji(c market.Candle) bool {
	r := c.Range()
	if r == 0 {
		return false
	}
	return c.Body()/r < 0.10
}

func (d *Detector) isDragonflyDoji(c market.Candle) bool {
	if !d.isDoji(c) {
		return false
	}
	// Wick thresholds are relative to the range: a doji body is near
	// zero, so body-relative ratios degenerate.
	r := c.Range()
	return lowerWick(c) > r*0.6 && upperWick(c) < r*0.1
}

func (d *Detector) isGravestoneDoji(c market.Candle) bool {
	if !d.isDoji(c) {
		return false
	}
	r := c.Range()
	return upperWick(c) > r*0.6 && lowerWick(c) < r*0.1
}

func (d *Detector) isBullishHarami(c1, c2 market.Candle) bool {
	if c1.IsBullish() {
		return false
	}
	if c1.Body() < c1.Range()*0.6 {
		return false
	}
	if !c2.IsBullish() {
		return false
	}
	// C2 body inside C1 body and clearly smaller.
	if c2.Open < c1.Close || c2.Close > c1.Open {
		return false
	}
	return c2.Body() <= c1.Body()*0.5
}

func (d *Detector) isBearishHarami(c1, c2 market.Candle) bool {
	if !c1.IsBullish() {
		return false
	}
	if c1.Body() < c1.Range()*0.6 {
		return false
	}
	if c2.IsBullish() {
		return false
	}
	if c2.Open > c1.Close || c2.Close < c1.Open {
		return false
	}
	return c2.Body() <= c1.Body()*0.5
}

// detectReversals scans for one- and two-candle reversal patterns.
func (d *Detector) detectReversals(candles []market.Candle) []Detected {
	var out []Detected
	if len(candles) < 2 {
		return out
	}

	for i := 1; i < len(candles); i++ {
		c1, c2 := candles[i-1], candles[i]

		if d.isBullishEngulfing(c1, c2) {
			out = append(out, Detected{Type: BullishEngulfing, CandleIndex: i, Confidence: 0.75, Direction: DirectionBullish})
		}
		if d.isBearishEngulfing(c1, c2) {
			out = append(out, Detected{Type: BearishEngulfing, CandleIndex: i, Confidence: 0.75, Direction: DirectionBearish})
		}
		if d.isBullishHarami(c1, c2) {
			out = append(out, Detected{Type: BullishHarami, CandleIndex: i, Confidence: 0.68, Direction: DirectionBullish})
		}
		if d.isBearishHarami(c1, c2) {
			out = append(out, Detected{Type: BearishHarami, CandleIndex: i, Confidence: 0.68, Direction: DirectionBearish})
		}
	}

	for i := 0; i < len(candles); i++ {
		c := candles[i]
		var prev *market.Candle
		if i > 0 {
			prev = &candles[i-1]
		}

		switch {
		case d.isDragonflyDoji(c):
			out = append(out, Detected{Type: DragonflyDoji, CandleIndex: i, Confidence: 0.62, Direction: DirectionBullish})
		case d.isGravestoneDoji(c):
			out = append(out, Detected{Type: GravestoneDoji, CandleIndex: i, Confidence: 0.62, Direction: DirectionBearish})
		case d.isDoji(c):
			out = append(out, Detected{Type: Doji, CandleIndex: i, Confidence: 0.50, Direction: DirectionNeutral})
		case d.isHammer(c, prev):
			out = append(out, Detected{Type: Hammer, CandleIndex: i, Confidence: 0.65, Direction: DirectionBullish})
		case d.isShootingStar(c, prev):
			out = append(out, Detected{Type: ShootingStar, CandleIndex: i, Confidence: 0.65, Direction: DirectionBearish})
		case d.isHangingMan(c, prev):
			out = append(out, Detected{Type: HangingMan, CandleIndex: i, Confidence: 0.60, Direction: DirectionBearish})
		}
	}

	return out
}
