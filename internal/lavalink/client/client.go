// Package client implements the audio-node contract against a Lavalink v4
// server: a websocket carries lifecycle events, REST carries player updates.
package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/keshon/lavaqueue/internal/lavalink"
)

var ErrNoNodesAvailable = errors.New("no connected audio nodes")

// VoiceGateway sends voice channel intents through the chat gateway. The
// Discord layer implements it; the node client never talks to Discord
// directly.
type VoiceGateway interface {
	SendVoiceJoin(guildID, channelID string, deaf, mute bool) error
	SendVoiceLeave(guildID string) error
	UserID() string
}

// Client is the node connection pool. It implements lavalink.Manager.
type Client struct {
	gateway VoiceGateway
	log     zerolog.Logger

	mu       sync.RWMutex
	nodes    []*Node
	players  map[string]*Player
	handlers []func(lavalink.NodeEvent)
}

func New(gateway VoiceGateway, log zerolog.Logger) *Client {
	return &Client{
		gateway: gateway,
		players: make(map[string]*Player),
		log:     log.With().Str("component", "lavalink").Logger(),
	}
}

// AddNode registers a node and starts its connection loop.
func (c *Client) AddNode(cfg lavalink.NodeConfig) error {
	if cfg.Host == "" || cfg.Port == 0 {
		return errors.New("node host and port are required")
	}
	n := newNode(c, cfg)
	c.mu.Lock()
	c.nodes = append(c.nodes, n)
	c.mu.Unlock()
	go n.run()
	return nil
}

// GetIdealNode returns the connected node with the fewest active players,
// or nil when none is connected.
func (c *Client) GetIdealNode() lavalink.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var best *Node
	for _, n := range c.nodes {
		if !n.isConnected() {
			continue
		}
		if best == nil || n.playerCount() < best.playerCount() {
			best = n
		}
	}
	if best == nil {
		return nil
	}
	return best
}

// OnNodeEvent registers a connection lifecycle listener.
func (c *Client) OnNodeEvent(h func(lavalink.NodeEvent)) {
	c.mu.Lock()
	c.handlers = append(c.handlers, h)
	c.mu.Unlock()
}

func (c *Client) emitNode(e lavalink.NodeEvent) {
	c.mu.RLock()
	hs := make([]func(lavalink.NodeEvent), len(c.handlers))
	copy(hs, c.handlers)
	c.mu.RUnlock()
	for _, h := range hs {
		h(e)
	}
}

// JoinVoiceChannel asks the gateway to join the voice channel and returns
// the guild's player, creating one on the ideal node if needed.
func (c *Client) JoinVoiceChannel(ctx context.Context, opts lavalink.JoinOptions) (lavalink.Player, error) {
	node, _ := c.GetIdealNode().(*Node)
	if node == nil {
		return nil, ErrNoNodesAvailable
	}

	c.mu.Lock()
	p, ok := c.players[opts.GuildID]
	if !ok {
		p = newPlayer(c, node, opts.GuildID)
		c.players[opts.GuildID] = p
	}
	c.mu.Unlock()

	if err := c.gateway.SendVoiceJoin(opts.GuildID, opts.ChannelID, opts.Deaf, opts.Mute); err != nil {
		if !ok {
			c.mu.Lock()
			delete(c.players, opts.GuildID)
			c.mu.Unlock()
		}
		return nil, err
	}
	return p, nil
}

// LeaveVoiceChannel leaves the guild's voice channel and destroys its
// server-side player.
func (c *Client) LeaveVoiceChannel(ctx context.Context, guildID string) error {
	c.mu.Lock()
	p := c.players[guildID]
	delete(c.players, guildID)
	c.mu.Unlock()

	err := c.gateway.SendVoiceLeave(guildID)
	if p != nil {
		if derr := p.destroy(ctx); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

// Player returns the guild's player handle, or nil.
func (c *Client) Player(guildID string) lavalink.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.players[guildID]
	if !ok {
		return nil
	}
	return p
}

// Close shuts down every node connection.
func (c *Client) Close() {
	c.mu.Lock()
	nodes := make([]*Node, len(c.nodes))
	copy(nodes, c.nodes)
	c.mu.Unlock()
	for _, n := range nodes {
		n.close()
	}
}
