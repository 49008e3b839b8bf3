package risk

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"trading-advisor/internal/signal"
)

// trailingATRMultiplier: the stop trails half an ATR behind the water
// mark. Once it reaches breakeven it never drops back below it.
const trailingATRMultiplier = 0.5

// NextTrailingStop ratchets a protective stop behind the best price
// seen so far. For longs the candidate is the high-water mark minus
// half an ATR, floored at breakeven; the stop only ever moves in the
// trade's favor.
func NextTrailingStop(direction signal.Type, entry, waterMark, atr, currentStop float64) float64 {
	switch direction {
	case signal.Buy:
		candidate := waterMark - trailingATRMultiplier*atr
		if waterMark > entry && candidate < entry {
			candidate = entry
		}
		if candidate > currentStop {
			return candidate
		}
	case signal.Sell:
		candidate := waterMark + trailingATRMultiplier*atr
		if waterMark < entry && candidate > entry {
			candidate = entry
		}
		if candidate < currentStop {
			return candidate
		}
	}
	return currentStop
}

// TrackedPosition is one open position with its trailing state.
type TrackedPosition struct {
	Symbol        string      `json:"symbol"`
	Direction     signal.Type `json:"direction"`
	EntryPrice    float64     `json:"entry_price"`
	CurrentStop   float64     `json:"current_stop"`
	OriginalStop  float64     `json:"original_stop"`
	ATR           float64     `json:"atr"`
	HighWaterMark float64     `json:"high_water_mark"`
	LowWaterMark  float64     `json:"low_water_mark"`
	RiskAmount    float64     `json:"risk_amount"`
	OpenedAt      time.Time   `json:"opened_at"`
	LastUpdate    time.Time   `json:"last_update"`
}

// StopUpdate reports a stop move or a stop hit after a price update.
type StopUpdate struct {
	Symbol       string  `json:"symbol"`
	OldStop      float64 `json:"old_stop"`
	NewStop      float64 `json:"new_stop"`
	Triggered    bool    `json:"triggered"`
	TriggerPrice float64 `json:"trigger_price,omitempty"`
}

// TrailingTracker keeps the trailing stops of open positions current as
// prices stream in.
type TrailingTracker struct {
	mu        sync.RWMutex
	positions map[string]*TrackedPosition
	logger    zerolog.Logger
}

// NewTrailingTracker creates an empty tracker.
func NewTrailingTracker(logger zerolog.Logger) *TrailingTracker {
	return &TrailingTracker{
		positions: make(map[string]*TrackedPosition),
		logger:    logger.With().Str("component", "trailing_tracker").Logger(),
	}
}

// Track registers an open position. An existing position for the same
// symbol is replaced.
func (t *TrailingTracker) Track(pos TrackedPosition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	pos.OriginalStop = pos.CurrentStop
	pos.HighWaterMark = pos.EntryPrice
	pos.LowWaterMark = pos.EntryPrice
	pos.OpenedAt = now
	pos.LastUpdate = now
	t.positions[pos.Symbol] = &pos

	t.logger.Info().
		Str("symbol", pos.Symbol).
		Str("direction", string(pos.Direction)).
		Float64("entry", pos.EntryPrice).
		Float64("stop", pos.CurrentStop).
		Msg("position tracked")
}

// Release stops tracking a symbol. Returns false when the symbol was
// not tracked.
func (t *TrailingTracker) Release(symbol string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.positions[symbol]; !ok {
		return false
	}
	delete(t.positions, symbol)
	t.logger.Info().Str("symbol", symbol).Msg("position released")
	return true
}

// UpdatePrice feeds a new price for the symbol. Returns a StopUpdate
// when the stop moved or was hit, nil otherwise.
func (t *TrailingTracker) UpdatePrice(symbol string, price float64) *StopUpdate {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.positions[symbol]
	if !ok {
		return nil
	}
	pos.LastUpdate = time.Now()

	triggered := (pos.Direction == signal.Buy && price <= pos.CurrentStop) ||
		(pos.Direction == signal.Sell && price >= pos.CurrentStop)
	if triggered {
		t.logger.Warn().
			Str("symbol", symbol).
			Float64("price", price).
			Float64("stop", pos.CurrentStop).
			Msg("stop hit")
		return &StopUpdate{
			Symbol:       symbol,
			OldStop:      pos.CurrentStop,
			NewStop:      pos.CurrentStop,
			Triggered:    true,
			TriggerPrice: price,
		}
	}

	if pos.Direction == signal.Buy && price > pos.HighWaterMark {
		pos.HighWaterMark = price
	}
	if pos.Direction == signal.Sell && price < pos.LowWaterMark {
		pos.LowWaterMark = price
	}

	waterMark := pos.HighWaterMark
	if pos.Direction == signal.Sell {
		waterMark = pos.LowWaterMark
	}

	next := NextTrailingStop(pos.Direction, pos.EntryPrice, waterMark, pos.ATR, pos.CurrentStop)
	if next == pos.CurrentStop {
		return nil
	}

	old := pos.CurrentStop
	pos.CurrentStop = next
	t.logger.Info().
		Str("symbol", symbol).
		Float64("old_stop", old).
		Float64("new_stop", next).
		Msg("trailing stop moved")

	return &StopUpdate{Symbol: symbol, OldStop: old, NewStop: next}
}

// Position returns a copy of the tracked position for symbol.
func (t *TrailingTracker) Position(symbol string) (TrackedPosition, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pos, ok := t.positions[symbol]
	if !ok {
		return TrackedPosition{}, false
	}
	return *pos, true
}

// Positions returns copies of all tracked positions.
func (t *TrailingTracker) Positions() []TrackedPosition {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]TrackedPosition, 0, len(t.positions))
	for _, pos := range t.positions {
		out = append(out, *pos)
	}
	return out
}
