package player

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestBusDeliversInOrder(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var order []int
	b.On(EventTrackStart, func(Event) { order = append(order, 1) })
	b.On(EventTrackStart, func(Event) { order = append(order, 2) })
	b.On(EventTrackEnd, func(Event) { order = append(order, 99) })

	b.Emit(Event{Type: EventTrackStart})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected handlers in registration order, got %v", order)
	}
}

func TestBusEmitWithoutHandlers(t *testing.T) {
	b := NewBus(zerolog.Nop())
	b.Emit(Event{Type: EventQueueEnd}) // must not panic
}

func TestBusRecoversPanickingHandler(t *testing.T) {
	b := NewBus(zerolog.Nop())
	called := false
	b.On(EventTrackStart, func(Event) { panic("boom") })
	b.On(EventTrackStart, func(Event) { called = true })

	b.Emit(Event{Type: EventTrackStart})

	if !called {
		t.Error("expected later handlers to run after a panic")
	}
}
