package player

import (
	"sync"

	"github.com/rs/zerolog"
)

// Bus is a typed callback registry. Emit runs handlers synchronously in
// registration order; a panicking handler is recovered and logged so it
// cannot take down the event that raised it.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	log      zerolog.Logger
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
		log:      log,
	}
}

// On registers a handler for the given event type.
func (b *Bus) On(t EventType, h Handler) {
	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], h)
	b.mu.Unlock()
}

// Emit delivers the event to every handler registered for its type.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[e.Type]))
	copy(hs, b.handlers[e.Type])
	b.mu.RUnlock()

	b.log.Debug().Str("event", string(e.Type)).Int("handlers", len(hs)).Msg("emit")

	for _, h := range hs {
		b.call(h, e)
	}
}

func (b *Bus) call(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("event", string(e.Type)).Interface("panic", r).Msg("event handler panicked")
		}
	}()
	h(e)
}
