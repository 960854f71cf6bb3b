package player

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/keshon/lavaqueue/internal/config"
	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/pkg/retrylimit"
)

var (
	ErrNoGuild        = errors.New("guild id is required")
	ErrNoVoiceChannel = errors.New("voice channel id is required")
	ErrNoTextChannel  = errors.New("text channel id is required")
	ErrNoNode         = errors.New("no audio node available")
	ErrQueueFull      = errors.New("queue is full")
)

// NowPlayingCleaner deletes a now-playing message, but only when the message
// was authored by the bot itself. Implementations absorb not-found errors.
type NowPlayingCleaner interface {
	DeleteOwnMessage(channelID, messageID string) error
}

// Manager owns the per-guild dispatcher registry, the event bus and the
// audio-node connection. One Manager serves the whole bot process.
type Manager struct {
	mu          sync.RWMutex
	dispatchers map[string]*Dispatcher
	cleaner     NowPlayingCleaner

	cfg     config.Music
	nodes   lavalink.Manager
	bus     *Bus
	limiter *retrylimit.AdaptiveLimiter
	log     zerolog.Logger
}

func NewManager(nodes lavalink.Manager, cfg config.Music, log zerolog.Logger) *Manager {
	m := &Manager{
		dispatchers: make(map[string]*Dispatcher),
		cfg:         cfg,
		nodes:       nodes,
		bus:         NewBus(log),
		limiter:     retrylimit.NewAdaptiveLimiter(rate.Limit(5), rate.Limit(1), rate.Limit(10), rate.Limit(1), 0.5),
		log:         log.With().Str("component", "player").Logger(),
	}
	attachRouter(m)
	return m
}

// On registers a handler on the manager's event bus.
func (m *Manager) On(t EventType, h Handler) { m.bus.On(t, h) }

// Emit publishes an event on the manager's bus.
func (m *Manager) Emit(e Event) { m.bus.Emit(e) }

// Config returns the music configuration the manager was built with.
func (m *Manager) Config() config.Music { return m.cfg }

// Nodes exposes the underlying audio-node manager.
func (m *Manager) Nodes() lavalink.Manager { return m.nodes }

// SetNowPlayingCleaner installs the chat-side message cleanup hook.
func (m *Manager) SetNowPlayingCleaner(c NowPlayingCleaner) {
	m.mu.Lock()
	m.cleaner = c
	m.mu.Unlock()
}

func (m *Manager) nowPlayingCleaner() NowPlayingCleaner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cleaner
}

// CreateOptions describes the voice session a new dispatcher is bound to.
type CreateOptions struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string
	ShardID        int
	Deaf           bool
	Mute           bool
	Node           lavalink.Node
}

// Create returns the guild's dispatcher, joining the voice channel and
// constructing one if the guild has none yet. Create is idempotent per
// guild: a second call returns the existing dispatcher untouched.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (*Dispatcher, error) {
	switch {
	case opts.GuildID == "":
		return nil, ErrNoGuild
	case opts.VoiceChannelID == "":
		return nil, ErrNoVoiceChannel
	case opts.TextChannelID == "":
		return nil, ErrNoTextChannel
	}

	if d := m.Get(opts.GuildID); d != nil {
		return d, nil
	}

	node := opts.Node
	if node == nil {
		node = m.nodes.GetIdealNode()
	}
	if node == nil {
		return nil, ErrNoNode
	}

	pl, err := m.nodes.JoinVoiceChannel(ctx, lavalink.JoinOptions{
		GuildID:   opts.GuildID,
		ChannelID: opts.VoiceChannelID,
		ShardID:   opts.ShardID,
		Deaf:      opts.Deaf,
		Mute:      opts.Mute,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if d, ok := m.dispatchers[opts.GuildID]; ok {
		// Another goroutine won the join race; its dispatcher stands.
		m.mu.Unlock()
		return d, nil
	}
	d := newDispatcher(m, node, pl, opts.GuildID, opts.TextChannelID, opts.VoiceChannelID)
	m.dispatchers[opts.GuildID] = d
	m.mu.Unlock()

	m.bus.Emit(Event{Type: EventPlayerCreate, Player: pl, Dispatcher: d})
	return d, nil
}

// Get returns the guild's dispatcher, or nil.
func (m *Manager) Get(guildID string) *Dispatcher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dispatchers[guildID]
}

// Has reports whether the guild has a live dispatcher.
func (m *Manager) Has(guildID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dispatchers[guildID]
	return ok
}

// Delete removes the guild's dispatcher from the registry. It does not
// stop playback; Dispatcher.Destroy handles the full teardown.
func (m *Manager) Delete(guildID string) {
	m.mu.Lock()
	delete(m.dispatchers, guildID)
	m.mu.Unlock()
}
