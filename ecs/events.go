package ecs

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/ecs/component"
)

// EventKind identifies simulation events.
type EventKind uint8

const (
	EventAgentSpawned EventKind = iota
	EventAgentDamaged
	EventAgentKilled
	EventAgentRemoved
	EventRamStarted
	EventPlayerDamaged
)

var eventKindNames = [...]string{
	EventAgentSpawned:  "agent_spawned",
	EventAgentDamaged:  "agent_damaged",
	EventAgentKilled:   "agent_killed",
	EventAgentRemoved:  "agent_removed",
	EventRamStarted:    "ram_started",
	EventPlayerDamaged: "player_damaged",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is emitted by systems for presentation layers (sound, particles, UI).
// Events never feed back into the simulation.
type Event struct {
	Kind     EventKind
	Entity   Entity
	Amount   float64
	Position cp.Vector
	Source   component.DamageSource
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = q.items[:0]
}
