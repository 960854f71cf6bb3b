package player

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/internal/music/track"
)

// router binds the manager's bus to the node connection: it advances guild
// queues when tracks end and translates node lifecycle events into semantic
// bus events. Handlers run recover-wrapped through the bus.
type router struct {
	m   *Manager
	log zerolog.Logger
}

func attachRouter(m *Manager) {
	r := &router{m: m, log: m.log.With().Str("component", "router").Logger()}
	m.bus.On(EventTrackEnd, r.handleTrackEnd)
	m.nodes.OnNodeEvent(r.handleNodeEvent)
}

func (r *router) handleTrackEnd(e Event) {
	if e.Dispatcher == nil {
		return
	}
	e.Dispatcher.advance(context.Background(), e.Track)
}

// advance moves the session forward after a track finishes: the previous
// marker rolls into history, the ended track is requeued or retired per the
// loop mode, autoplay gets a chance to extend the queue, and playback of
// the next head starts. queueEnd fires when nothing is left to play.
func (d *Dispatcher) advance(ctx context.Context, ended *track.Track) {
	maxHistory := d.manager.cfg.MaxHistorySize

	d.mu.Lock()
	if d.previous != nil {
		d.history.Push(d.previous)
		d.history.TrimHead(maxHistory)
	}
	switch {
	case ended == nil:
	case d.loop == LoopSong:
		d.queue.PushHead(ended)
	case d.loop == LoopQueue:
		d.queue.PushTail(ended)
	default:
		d.previous = ended
	}
	autoplay := d.autoplay
	d.mu.Unlock()

	if autoplay {
		d.Autoplay(ctx, ended, "")
	}

	d.mu.Lock()
	queueEmpty := d.queue.Len() == 0
	d.current = nil
	d.history.TrimHead(maxHistory)
	pl := d.player
	d.mu.Unlock()

	if queueEmpty {
		d.manager.Emit(Event{Type: EventQueueEnd, Player: pl, Track: ended, Dispatcher: d})
	}
	if d.manager.cfg.DeleteNowPlaying {
		d.DeleteNowPlaying()
	}
	d.Play()
}

func (r *router) handleNodeEvent(e lavalink.NodeEvent) {
	switch e.Type {
	case lavalink.NodeEventReady:
		t := EventNodeConnect
		if e.Reconnected {
			t = EventNodeReconnect
		}
		r.log.Debug().Str("node", e.Name).Bool("reconnected", e.Reconnected).Msg("node ready")
		r.m.Emit(Event{Type: t, Node: e.Name})
	case lavalink.NodeEventReconnecting:
		r.log.Debug().Str("node", e.Name).Int("attempts_left", e.Left).Msg("node reconnecting")
		r.m.Emit(Event{Type: EventNodeReconnect, Node: e.Name})
	case lavalink.NodeEventError:
		r.log.Debug().Str("node", e.Name).Err(e.Err).Msg("node error")
		r.m.Emit(Event{Type: EventNodeError, Node: e.Name, Err: e.Err})
	case lavalink.NodeEventClose:
		r.log.Debug().Str("node", e.Name).Int("code", e.Code).Str("reason", e.Reason).Msg("node closed")
		r.m.Emit(Event{Type: EventNodeDestroy, Node: e.Name, Code: e.Code, Reason: e.Reason})
	case lavalink.NodeEventDisconnect:
		r.log.Debug().Str("node", e.Name).Msg("node disconnected")
		r.m.Emit(Event{Type: EventNodeDisconnect, Node: e.Name, Code: e.Code, Reason: e.Reason})
	case lavalink.NodeEventDebug:
		r.m.Emit(Event{Type: EventNodeDebug, Node: e.Name, Info: e.Info})
	case lavalink.NodeEventRaw:
		r.m.Emit(Event{Type: EventNodeRaw, Node: e.Name, Raw: e.Raw})
	}
}
