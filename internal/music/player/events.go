package player

import (
	"encoding/json"

	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/internal/music/track"
)

// EventType enumerates the semantic events the player core emits for the
// command-dispatch layer to bind against.
type EventType string

const (
	EventTrackStart      EventType = "trackStart"
	EventTrackEnd        EventType = "trackEnd"
	EventTrackStuck      EventType = "trackStuck"
	EventTrackPaused     EventType = "trackPaused"
	EventTrackResumed    EventType = "trackResumed"
	EventQueueStart      EventType = "queueStart"
	EventQueueEnd        EventType = "queueEnd"
	EventPlayerCreate    EventType = "playerCreate"
	EventPlayerDestroy   EventType = "playerDestroy"
	EventPlayerException EventType = "playerException"
	EventPlayerUpdate    EventType = "playerUpdate"
	EventPlayerMove      EventType = "playerMove"
	EventSocketClosed    EventType = "socketClosed"
	EventNodeConnect     EventType = "nodeConnect"
	EventNodeReconnect   EventType = "nodeReconnect"
	EventNodeDisconnect  EventType = "nodeDisconnect"
	EventNodeError       EventType = "nodeError"
	EventNodeDestroy     EventType = "nodeDestroy"
	EventNodeDebug       EventType = "nodeDebug"
	EventNodeRaw         EventType = "nodeRaw"
)

// Event is the uniform envelope for semantic events. Player-scoped events
// carry Player/Track/Dispatcher; node-scoped events carry Node plus whatever
// detail the connection reported.
type Event struct {
	Type       EventType
	Player     lavalink.Player
	Track      *track.Track
	Dispatcher *Dispatcher

	Node      string
	OldChanID string // playerMove
	NewChanID string // playerMove
	Code      int
	Reason    string
	Err       error
	Info      string
	Raw       json.RawMessage
}

// Handler receives semantic events.
type Handler func(Event)
