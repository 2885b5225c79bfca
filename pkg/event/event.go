package event

import "context"

/**
 * @file: event.go
 * @description: domain events published after a workflow commits
 */

type Event interface {
	// EventName returns the name of the event, used for handler routing
	EventName() string
	// EventType returns the type of the event
	EventType() string
}

type EventHandler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}
