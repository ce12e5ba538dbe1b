package game

import "github.com/google/uuid"

type EventType int

const (
	EventStatus EventType = iota
	EventRaceStarted
	EventRaceFinished
	EventRaceReset
	EventStroke
)

func (t EventType) String() string {
	switch t {
	case EventStatus:
		return "status"
	case EventRaceStarted:
		return "race_started"
	case EventRaceFinished:
		return "race_finished"
	case EventRaceReset:
		return "race_reset"
	case EventStroke:
		return "stroke"
	}
	return "unknown"
}

type Event struct {
	Type    EventType
	RaceID  uuid.UUID
	Message string
	Lane    int     // winner lane for EventRaceFinished, stroking lane for EventStroke
	Elapsed float64 // race seconds at emission
}

type EventHandler func(Event)

// EventBus delivers events synchronously on the emitting goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
