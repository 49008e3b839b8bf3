package events

import (
	"sync"
	"testing"
	"time"
)

func TestPublishReachesTypedAndAllSubscribers(t *testing.T) {
	bus := NewEventBus()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var typed, all []Event

	bus.Subscribe(EventSignalGenerated, func(e Event) {
		mu.Lock()
		typed = append(typed, e)
		mu.Unlock()
		wg.Done()
	})
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		all = append(all, e)
		mu.Unlock()
		wg.Done()
	})

	bus.PublishSignal("a1", "BTCUSDT", "BUY", "STRONG", "IMMEDIATE", 42500)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscribers not notified")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(typed) != 1 || len(all) != 1 {
		t.Fatalf("typed=%d all=%d, want 1 each", len(typed), len(all))
	}
	if typed[0].Data["symbol"] != "BTCUSDT" {
		t.Errorf("symbol = %v", typed[0].Data["symbol"])
	}
	if typed[0].Timestamp.IsZero() {
		t.Error("timestamp should be stamped on publish")
	}
}

func TestSubscriberOnlySeesItsType(t *testing.T) {
	bus := NewEventBus()

	got := make(chan Event, 2)
	bus.Subscribe(EventGateRejected, func(e Event) { got <- e })

	bus.PublishSignal("a1", "BTCUSDT", "BUY", "WEAK", "PULLBACK", 100)
	bus.PublishGateRejected("a2", "ETHUSDT", []string{"daily_loss_exceeded"})

	select {
	case e := <-got:
		if e.Type != EventGateRejected {
			t.Fatalf("got %s, want %s", e.Type, EventGateRejected)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("gate rejection not delivered")
	}

	select {
	case e := <-got:
		t.Fatalf("unexpected extra event %s", e.Type)
	case <-time.After(100 * time.Millisecond):
	}
}
