package client

import (
	"context"
	"sync"
	"time"

	"github.com/keshon/lavaqueue/internal/lavalink"
)

const restTimeout = 10 * time.Second

// Player is the per-guild playback handle. It implements lavalink.Player;
// every control method is a REST call against the node.
type Player struct {
	client  *Client
	node    *Node
	guildID string

	mu       sync.RWMutex
	handlers []lavalink.PlayerEventHandler
	position int64
	ping     int64
	paused   bool

	voiceSessionID string
	voiceToken     string
	voiceEndpoint  string
}

func newPlayer(c *Client, n *Node, guildID string) *Player {
	return &Player{client: c, node: n, guildID: guildID}
}

func (p *Player) GuildID() string { return p.guildID }

func (p *Player) PlayTrack(encoded string) error {
	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	return p.node.rest.updatePlayer(ctx, p.guildID, map[string]any{
		"track": map[string]any{"encoded": encoded},
	}, false)
}

func (p *Player) StopTrack() error {
	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	// An explicit null encoded field stops the current track.
	return p.node.rest.updatePlayer(ctx, p.guildID, map[string]any{
		"track": map[string]any{"encoded": nil},
	}, false)
}

func (p *Player) SetPaused(paused bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	if err := p.node.rest.updatePlayer(ctx, p.guildID, map[string]any{"paused": paused}, false); err != nil {
		return err
	}
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()
	return nil
}

func (p *Player) SeekTo(positionMs int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	return p.node.rest.updatePlayer(ctx, p.guildID, map[string]any{"position": positionMs}, false)
}

func (p *Player) SetGlobalVolume(volume int) error {
	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	return p.node.rest.updatePlayer(ctx, p.guildID, map[string]any{"volume": volume}, false)
}

// SendVoiceUpdate forwards Discord voice credentials to the node. The three
// parts arrive through separate gateway events; the update is sent once all
// are known.
func (p *Player) SendVoiceUpdate(sessionID, token, endpoint string) error {
	p.mu.Lock()
	if sessionID != "" {
		p.voiceSessionID = sessionID
	}
	if token != "" {
		p.voiceToken = token
	}
	if endpoint != "" {
		p.voiceEndpoint = endpoint
	}
	ready := p.voiceSessionID != "" && p.voiceToken != "" && p.voiceEndpoint != ""
	body := map[string]any{
		"voice": map[string]any{
			"sessionId": p.voiceSessionID,
			"token":     p.voiceToken,
			"endpoint":  p.voiceEndpoint,
		},
	}
	p.mu.Unlock()

	if !ready {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	return p.node.rest.updatePlayer(ctx, p.guildID, body, false)
}

func (p *Player) Position() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

func (p *Player) Paused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paused
}

func (p *Player) Ping() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ping
}

// OnEvent registers a lifecycle event listener. Listeners run on the node's
// websocket read goroutine, one event at a time.
func (p *Player) OnEvent(h lavalink.PlayerEventHandler) {
	p.mu.Lock()
	p.handlers = append(p.handlers, h)
	p.mu.Unlock()
}

func (p *Player) dispatch(e lavalink.PlayerEvent) {
	p.mu.RLock()
	hs := make([]lavalink.PlayerEventHandler, len(p.handlers))
	copy(hs, p.handlers)
	p.mu.RUnlock()
	for _, h := range hs {
		h(e)
	}
}

func (p *Player) handleUpdate(state *playerUpdateState) {
	p.mu.Lock()
	p.position = state.Position
	p.ping = state.Ping
	p.mu.Unlock()
	p.dispatch(lavalink.PlayerEvent{Type: lavalink.PlayerEventUpdate, Position: state.Position})
}

func (p *Player) destroy(ctx context.Context) error {
	return p.node.rest.destroyPlayer(ctx, p.guildID)
}
