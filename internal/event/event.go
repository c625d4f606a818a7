// Package event delivers project change notifications to subscribers
// without the model holding observer lists.
package event

import (
	"log/slog"
	"sync"
)

// Type identifies a kind of change.
type Type int

const (
	ElementChanged Type = iota
	TreeChanged
	ElementDeleted
)

// Event describes one change. ID is empty for project-wide changes.
type Event struct {
	Type Type
	ID   string
}

// Handler receives events synchronously on the publishing goroutine.
type Handler func(Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Type][]Handler
	logger      *slog.Logger
}

// NewBus creates an empty bus. A nil logger falls back to slog.Default.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[Type][]Handler),
		logger:      logger,
	}
}

// Subscribe registers h for events of type t.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[t] = append(b.subscribers[t], h)
}

// Publish delivers e to every subscriber of its type. A panicking handler
// is logged and does not stop delivery to the others.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[e.Type]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic", "type", e.Type, "id", e.ID, "panic", r)
		}
	}()
	h(e)
}
