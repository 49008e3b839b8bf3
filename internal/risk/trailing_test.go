package risk

import (
	"testing"

	"github.com/rs/zerolog"

	"trading-advisor/internal/signal"
)

func TestNextTrailingStopRatchetsUp(t *testing.T) {
	// Long from 100, stop 97, ATR 2. Water mark 106 trails to 105.
	next := NextTrailingStop(signal.Buy, 100, 106, 2, 97)
	if next != 105 {
		t.Errorf("expected stop 105, got %v", next)
	}

	// A lower water mark never moves the stop back down.
	if got := NextTrailingStop(signal.Buy, 100, 103, 2, 105); got != 105 {
		t.Errorf("stop must not retreat, got %v", got)
	}
}

func TestNextTrailingStopBreakevenFloor(t *testing.T) {
	// Water mark barely above entry: the raw trail sits below entry,
	// so the stop jumps to breakeven instead.
	next := NextTrailingStop(signal.Buy, 100, 100.5, 2, 97)
	if next != 100 {
		t.Errorf("expected breakeven stop 100, got %v", next)
	}
}

func TestNextTrailingStopShort(t *testing.T) {
	// Short from 100, stop 103, ATR 2. Water mark 94 trails to 95.
	next := NextTrailingStop(signal.Sell, 100, 94, 2, 103)
	if next != 95 {
		t.Errorf("expected stop 95, got %v", next)
	}
	if got := NextTrailingStop(signal.Sell, 100, 97, 2, 95); got != 95 {
		t.Errorf("short stop must not retreat, got %v", got)
	}
}

func TestTrailingTrackerLifecycle(t *testing.T) {
	tracker := NewTrailingTracker(zerolog.Nop())

	tracker.Track(TrackedPosition{
		Symbol:      "BTCUSDT",
		Direction:   signal.Buy,
		EntryPrice:  42500,
		CurrentStop: 41225,
		ATR:         850,
		RiskAmount:  200,
	})

	// Price advances: stop trails up.
	update := tracker.UpdatePrice("BTCUSDT", 44000)
	if update == nil || update.Triggered {
		t.Fatalf("expected a stop move, got %+v", update)
	}
	if update.NewStop != 44000-0.5*850 {
		t.Errorf("expected stop %v, got %v", 44000-0.5*850, update.NewStop)
	}

	// Quiet tick inside the trail: no update.
	if u := tracker.UpdatePrice("BTCUSDT", 43900); u != nil {
		t.Errorf("expected no update, got %+v", u)
	}

	// Price collapses through the stop: triggered.
	hit := tracker.UpdatePrice("BTCUSDT", 43000)
	if hit == nil || !hit.Triggered {
		t.Fatalf("expected trigger, got %+v", hit)
	}

	if !tracker.Release("BTCUSDT") {
		t.Error("expected release of tracked symbol")
	}
	if tracker.Release("BTCUSDT") {
		t.Error("double release must report false")
	}
	if tracker.UpdatePrice("BTCUSDT", 43000) != nil {
		t.Error("released symbol must not produce updates")
	}
}

func TestTrailingTrackerUnknownSymbol(t *testing.T) {
	tracker := NewTrailingTracker(zerolog.Nop())
	if tracker.UpdatePrice("ETHUSDT", 100) != nil {
		t.Error("unknown symbol must return nil")
	}
	if _, ok := tracker.Position("ETHUSDT"); ok {
		t.Error("unknown symbol must not be found")
	}
}
