package events

import (
	"sync"
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventAnalysisCompleted EventType = "ANALYSIS_COMPLETED"
	EventSignalGenerated   EventType = "SIGNAL_GENERATED"
	EventGateRejected      EventType = "GATE_REJECTED"
	EventStopMoved         EventType = "STOP_MOVED"
	EventStopTriggered     EventType = "STOP_TRIGGERED"
	EventPositionOpened    EventType = "POSITION_OPENED"
	EventPositionClosed    EventType = "POSITION_CLOSED"
	EventServerStarted     EventType = "SERVER_STARTED"
	EventError             EventType = "ERROR"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber is a function that handles events
type Subscriber func(Event)

// EventBus manages event publishing and subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber // subscribers to all events
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]Subscriber),
		allSubs:     make([]Subscriber, 0),
	}
}

// Subscribe registers a subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for all events
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish sends an event to all subscribers. Subscribers run in their
// own goroutines so a slow consumer never blocks the publisher.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if subs, ok := eb.subscribers[event.Type]; ok {
		for _, sub := range subs {
			go sub(event)
		}
	}

	for _, sub := range eb.allSubs {
		go sub(event)
	}
}

// PublishAnalysisCompleted publishes an analysis completed event
func (eb *EventBus) PublishAnalysisCompleted(analysisID, symbol, timeframe, signalType string, qualityScore float64) {
	eb.Publish(Event{
		Type: EventAnalysisCompleted,
		Data: map[string]interface{}{
			"analysis_id":   analysisID,
			"symbol":        symbol,
			"timeframe":     timeframe,
			"signal_type":   signalType,
			"quality_score": qualityScore,
		},
	})
}

// PublishSignal publishes a signal generated event for an actionable verdict
func (eb *EventBus) PublishSignal(analysisID, symbol, signalType, strength, trigger string, price float64) {
	eb.Publish(Event{
		Type: EventSignalGenerated,
		Data: map[string]interface{}{
			"analysis_id": analysisID,
			"symbol":      symbol,
			"signal_type": signalType,
			"strength":    strength,
			"trigger":     trigger,
			"price":       price,
		},
	})
}

// PublishGateRejected publishes a risk gate rejection event
func (eb *EventBus) PublishGateRejected(analysisID, symbol string, reasons []string) {
	eb.Publish(Event{
		Type: EventGateRejected,
		Data: map[string]interface{}{
			"analysis_id": analysisID,
			"symbol":      symbol,
			"reasons":     reasons,
		},
	})
}

// PublishStopMoved publishes a trailing stop move event
func (eb *EventBus) PublishStopMoved(symbol string, oldStop, newStop float64) {
	eb.Publish(Event{
		Type: EventStopMoved,
		Data: map[string]interface{}{
			"symbol":   symbol,
			"old_stop": oldStop,
			"new_stop": newStop,
		},
	})
}

// PublishStopTriggered publishes a stop hit event
func (eb *EventBus) PublishStopTriggered(symbol string, stop, price float64) {
	eb.Publish(Event{
		Type: EventStopTriggered,
		Data: map[string]interface{}{
			"symbol":        symbol,
			"stop":          stop,
			"trigger_price": price,
		},
	})
}

// PublishError publishes an error event
func (eb *EventBus) PublishError(source, message string, err error) {
	data := map[string]interface{}{
		"source":  source,
		"message": message,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	eb.Publish(Event{
		Type: EventError,
		Data: data,
	})
}
