package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

// Publisher is the side of the bus the lifecycle services depend on.
type Publisher interface {
	PublishSync(ctx context.Context, event Event) error
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) Payload() interface{}  { return e.Data }

type Handler func(ctx context.Context, event Event) error

// EventBus is an in-process fan-out. Subscriptions happen at wiring time;
// publishing only takes the read lock.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
	logger      *slog.Logger
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[string][]Handler),
		logger:      logger,
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	eb.subscribers[eventType] = append(eb.subscribers[eventType], handler)
	count := len(eb.subscribers[eventType])
	eb.mu.Unlock()

	eb.logger.Debug("event subscriber added", "event_type", eventType, "subscribers", count)
}

// Publish runs every subscriber on its own goroutine and waits for all of them.
// Subscriber failures are logged only.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	subscribers := eb.subscribersFor(event)
	if len(subscribers) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	wg.Add(len(subscribers))
	for _, h := range subscribers {
		go func(h Handler) {
			defer wg.Done()
			_ = eb.deliver(ctx, h, event)
		}(h)
	}
	wg.Wait()
	return nil
}

// PublishSync runs subscribers in registration order on the caller's goroutine.
// Every subscriber runs even when an earlier one fails; the failures are joined.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, h := range eb.subscribersFor(event) {
		if err := eb.deliver(ctx, h, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d subscriber(s) failed for %s: %w", len(errs), event.EventType(), errors.Join(errs...))
	}
	return nil
}

func (eb *EventBus) subscribersFor(event Event) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	subscribers := eb.subscribers[event.EventType()]
	if len(subscribers) == 0 {
		eb.logger.Debug("event has no subscribers", "event_type", event.EventType())
		return nil
	}
	return append([]Handler(nil), subscribers...)
}

func (eb *EventBus) deliver(ctx context.Context, h Handler, event Event) error {
	err := h(ctx, event)
	if err != nil {
		eb.logger.Error("event subscriber failed",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
	return err
}
