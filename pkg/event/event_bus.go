package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-arcade/guestline/pkg/log"
)

// EventBus dispatches events synchronously to the handlers registered for their name.
// Handler failures are logged and never propagate to the publisher.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) RegisterHandler(eventName string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventName] = append(eb.handlers[eventName], handler)
}

// Publish runs every handler for the event and returns how many failed.
func (eb *EventBus) Publish(ctx context.Context, event Event) int {
	eb.mu.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[event.EventName()]...)
	eb.mu.RUnlock()

	failed := 0
	for _, handler := range handlers {
		if err := eb.invoke(ctx, handler, event); err != nil {
			failed++
			log.Errorw("event handler failed", "event", event.EventName(), "type", event.EventType(), "error", err)
		}
	}
	return failed
}

func (eb *EventBus) invoke(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}
