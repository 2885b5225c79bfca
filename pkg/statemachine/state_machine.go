// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

import (
	"fmt"
	"slices"
	"sync"
)

// Event names a trigger in a transition table.
type Event string

// InvalidTransitionError reports an event that is not defined for a state.
type InvalidTransitionError[T comparable] struct {
	From  T
	Event Event
}

func (e *InvalidTransitionError[T]) Error() string {
	return fmt.Sprintf("no transition defined for event %q in state %v", e.Event, e.From)
}

// StateMachine is a transition table over states of type T. It holds no
// current state: callers persist the state and ask Next where an event leads,
// so one machine is shared by every request.
type StateMachine[T comparable] struct {
	mu          sync.RWMutex
	transitions map[transitionKey[T]]T
	terminal    map[T]bool
}

type transitionKey[T comparable] struct {
	From  T
	Event Event
}

func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		transitions: make(map[transitionKey[T]]T),
		terminal:    make(map[T]bool),
	}
}

// On registers that event moves the machine from one state to another.
func (sm *StateMachine[T]) On(from T, event Event, to T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.transitions[transitionKey[T]{From: from, Event: event}] = to
	return sm
}

// Terminal marks states that accept no further events.
func (sm *StateMachine[T]) Terminal(states ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, s := range states {
		sm.terminal[s] = true
	}
	return sm
}

func (sm *StateMachine[T]) IsTerminal(state T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.terminal[state]
}

// Next resolves the target of event from the given state.
func (sm *StateMachine[T]) Next(from T, event Event) (T, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	to, ok := sm.transitions[transitionKey[T]{From: from, Event: event}]
	if !ok {
		var zero T
		return zero, &InvalidTransitionError[T]{From: from, Event: event}
	}
	return to, nil
}

func (sm *StateMachine[T]) Can(from T, event Event) bool {
	_, err := sm.Next(from, event)
	return err == nil
}

// Events returns the events accepted in state, sorted.
func (sm *StateMachine[T]) Events(from T) []Event {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	var events []Event
	for key := range sm.transitions {
		if key.From == from {
			events = append(events, key.Event)
		}
	}
	slices.Sort(events)
	return events
}
