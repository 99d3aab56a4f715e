package botconsole

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an Event for display.
type EventType string

const (
	EventSystem  EventType = "system"
	EventUser    EventType = "user"
	EventError   EventType = "error"
	EventSuccess EventType = "success"
)

// Event is an immutable, timestamped notification shown to the operator.
type Event struct {
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
}

// NewEvent stamps now as local HH:MM:SS and assigns a random ID.
func NewEvent(eventType EventType, message string, now time.Time) Event {
	return Event{
		ID:        uuid.New().String(),
		Timestamp: now.Local().Format(time.TimeOnly),
		Type:      eventType,
		Message:   message,
	}
}

// LogValue implements slog.LogValuer.
func (e Event) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", e.ID),
		slog.String("type", string(e.Type)),
		slog.String("message", e.Message),
	)
}

// EventLog is an append-only, insertion-ordered list of events. It is safe for
// concurrent use.
type EventLog struct {
	mu     sync.RWMutex
	events []Event
	logger *slog.Logger
}

// NewEventLog creates an empty log. Appended events are mirrored to logger;
// a nil logger discards them.
func NewEventLog(logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EventLog{logger: logger}
}

// Append adds e to the end of the log.
func (l *EventLog) Append(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()

	if e.Type == EventError {
		l.logger.Error("console event", "event", e)
	} else {
		l.logger.Info("console event", "event", e)
	}
}

// Len returns the number of events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Events returns a copy of all events in insertion order.
func (l *EventLog) Events() []Event {
	return l.Since(0)
}

// Since returns a copy of the events at index n and later. A negative n is
// treated as zero.
func (l *EventLog) Since(n int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n >= len(l.events) {
		return []Event{}
	}

	out := make([]Event, len(l.events)-n)
	copy(out, l.events[n:])
	return out
}
