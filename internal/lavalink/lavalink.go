// Package lavalink defines the contract this bot consumes from a Lavalink
// node client: the per-guild player handle, the node manager, and the
// payload shapes of the v4 REST/websocket API. The transport itself is an
// external collaborator and is not implemented here.
package lavalink

import (
	"context"
	"encoding/json"
)

// LoadType is the result kind of a REST resolve call.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// RawTrackInfo contains the node-reported metadata of a resolved track.
type RawTrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	ISRC       string `json:"isrc"`
	SourceName string `json:"sourceName"`
}

// RawTrack is a resolved track as returned by the node.
type RawTrack struct {
	Encoded    string         `json:"encoded"`
	Info       RawTrackInfo   `json:"info"`
	PluginInfo map[string]any `json:"pluginInfo"`
	UserData   map[string]any `json:"userData"`
}

// PlaylistInfo describes the playlist a load result belongs to.
type PlaylistInfo struct {
	Name          string `json:"name"`
	SelectedTrack int    `json:"selectedTrack"`
}

// LoadError carries the node-side failure of a resolve call.
type LoadError struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

func (e *LoadError) Error() string { return e.Message }

// LoadResult is the response of a REST resolve call.
type LoadResult struct {
	LoadType LoadType      `json:"loadType"`
	Tracks   []RawTrack    `json:"-"`
	Playlist *PlaylistInfo `json:"-"`
	Err      *LoadError    `json:"-"`
}

// UnmarshalJSON decodes the node response, whose data field changes shape
// with the load type: a single track, a playlist object, a search result
// array or an error object.
func (r *LoadResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		LoadType LoadType        `json:"loadType"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.LoadType = raw.LoadType

	switch raw.LoadType {
	case LoadTypeTrack:
		var t RawTrack
		if err := json.Unmarshal(raw.Data, &t); err != nil {
			return err
		}
		r.Tracks = []RawTrack{t}
	case LoadTypePlaylist:
		var pl struct {
			Info   PlaylistInfo `json:"info"`
			Tracks []RawTrack   `json:"tracks"`
		}
		if err := json.Unmarshal(raw.Data, &pl); err != nil {
			return err
		}
		r.Playlist = &pl.Info
		r.Tracks = pl.Tracks
	case LoadTypeSearch:
		if err := json.Unmarshal(raw.Data, &r.Tracks); err != nil {
			return err
		}
	case LoadTypeError:
		var le LoadError
		if err := json.Unmarshal(raw.Data, &le); err != nil {
			return err
		}
		r.Err = &le
	}
	return nil
}

// PlayerEventType enumerates player lifecycle events emitted by the node.
type PlayerEventType string

const (
	PlayerEventStart     PlayerEventType = "start"
	PlayerEventEnd       PlayerEventType = "end"
	PlayerEventStuck     PlayerEventType = "stuck"
	PlayerEventClosed    PlayerEventType = "closed"
	PlayerEventException PlayerEventType = "exception"
	PlayerEventUpdate    PlayerEventType = "update"
)

// PlayerEvent is one player lifecycle event.
type PlayerEvent struct {
	Type      PlayerEventType
	EndReason string // end: finished, loadFailed, stopped, replaced, cleanup
	Code      int    // closed: websocket close code
	Reason    string
	Err       error // exception
	Position  int64 // update
}

// PlayerEventHandler receives player lifecycle events.
type PlayerEventHandler func(PlayerEvent)

// Player is the per-guild playback handle exposed by the node client.
type Player interface {
	GuildID() string
	PlayTrack(encoded string) error
	StopTrack() error
	SetPaused(paused bool) error
	SeekTo(positionMs int64) error
	SetGlobalVolume(volume int) error
	SendVoiceUpdate(sessionID, token, endpoint string) error
	Position() int64
	Paused() bool
	Ping() int64
	// OnEvent registers a lifecycle event listener. Listeners are invoked
	// on the client's dispatch goroutine, one event at a time.
	OnEvent(handler PlayerEventHandler)
}

// NodeEventType enumerates manager-level connection lifecycle events.
type NodeEventType string

const (
	NodeEventReady        NodeEventType = "ready"
	NodeEventReconnecting NodeEventType = "reconnecting"
	NodeEventError        NodeEventType = "error"
	NodeEventClose        NodeEventType = "close"
	NodeEventDisconnect   NodeEventType = "disconnect"
	NodeEventDebug        NodeEventType = "debug"
	NodeEventRaw          NodeEventType = "raw"
)

// NodeEvent is one manager-level connection event.
type NodeEvent struct {
	Type        NodeEventType
	Name        string // node name
	Reconnected bool   // ready: true when this is a reconnect
	Left        int    // reconnecting: attempts left
	Code        int    // close: websocket close code
	Reason      string
	Err         error
	Info        string          // debug payload
	Raw         json.RawMessage // raw node payload
}

// RestClient resolves identifiers (URLs or "engine:query" strings) into
// playable tracks through the node's REST API.
type RestClient interface {
	Resolve(ctx context.Context, identifier string) (*LoadResult, error)
}

// Node is one audio node connection.
type Node interface {
	Name() string
	Rest() RestClient
}

// NodeConfig describes a node to register with the manager.
type NodeConfig struct {
	Name     string
	Host     string
	Port     int
	Password string
	Secure   bool
}

// JoinOptions parameterize a voice channel join.
type JoinOptions struct {
	GuildID   string
	ChannelID string
	ShardID   int
	Deaf      bool
	Mute      bool
}

// Manager is the node connection pool of the client.
type Manager interface {
	GetIdealNode() Node
	AddNode(cfg NodeConfig) error
	JoinVoiceChannel(ctx context.Context, opts JoinOptions) (Player, error)
	LeaveVoiceChannel(ctx context.Context, guildID string) error
	// OnNodeEvent registers a connection lifecycle listener.
	OnNodeEvent(handler func(NodeEvent))
}
