package player

import (
	"context"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/internal/music/queue"
	"github.com/keshon/lavaqueue/internal/music/track"
)

// LoopMode selects what happens to a track when it finishes.
type LoopMode string

const (
	LoopOff   LoopMode = "off"
	LoopSong  LoopMode = "song"
	LoopQueue LoopMode = "queue"
)

// NowPlaying tracks the bot's latest now-playing chat message so it can be
// cleaned up when the track changes. Last* keep the previous message around
// for edit-in-place flows.
type NowPlaying struct {
	MessageID     string
	ChannelID     string
	IsDeleted     bool
	LastMessageID string
	LastChannelID string
}

// Dispatcher is the per-guild playback session: the queue, the history, the
// loop and shuffle flags, and the node player the audio actually runs on.
// All mutable state is guarded by mu; events are emitted outside the lock.
type Dispatcher struct {
	manager *Manager
	node    lavalink.Node
	player  lavalink.Player
	guildID string
	log     zerolog.Logger

	mu             sync.Mutex
	channelID      string
	voiceChannelID string
	queue          *queue.Queue
	history        *queue.History
	current        *track.Track
	previous       *track.Track
	loop           LoopMode
	shuffle        bool
	paused         bool
	autoplay       bool
	autoplayType   string
	stopped        bool
	currentVolume  int
	nowPlaying     *NowPlaying
}

func newDispatcher(m *Manager, node lavalink.Node, pl lavalink.Player, guildID, textChannelID, voiceChannelID string) *Dispatcher {
	d := &Dispatcher{
		manager:        m,
		node:           node,
		player:         pl,
		guildID:        guildID,
		channelID:      textChannelID,
		voiceChannelID: voiceChannelID,
		queue:          queue.New(),
		history:        queue.NewHistory(),
		loop:           LoopOff,
		currentVolume:  m.cfg.DefaultVolume,
		log:            m.log.With().Str("guild", guildID).Logger(),
	}
	pl.OnEvent(d.handlePlayerEvent)
	return d
}

// handlePlayerEvent translates raw node player events into semantic bus
// events. It must not hold d.mu while emitting: trackEnd handlers re-enter
// the dispatcher.
func (d *Dispatcher) handlePlayerEvent(e lavalink.PlayerEvent) {
	switch e.Type {
	case lavalink.PlayerEventStart:
		d.mu.Lock()
		first := d.history.Len() == 0
		cur := d.current
		d.mu.Unlock()
		if first {
			d.manager.Emit(Event{Type: EventQueueStart, Player: d.player, Track: cur, Dispatcher: d})
		}
		d.manager.Emit(Event{Type: EventTrackStart, Player: d.player, Track: cur, Dispatcher: d})
	case lavalink.PlayerEventEnd:
		d.mu.Lock()
		cur := d.current
		d.mu.Unlock()
		d.manager.Emit(Event{Type: EventTrackEnd, Player: d.player, Track: cur, Dispatcher: d, Reason: e.EndReason})
	case lavalink.PlayerEventStuck:
		d.mu.Lock()
		cur := d.current
		d.mu.Unlock()
		d.manager.Emit(Event{Type: EventTrackStuck, Player: d.player, Track: cur, Dispatcher: d})
	case lavalink.PlayerEventClosed:
		d.manager.Emit(Event{Type: EventSocketClosed, Player: d.player, Dispatcher: d, Code: e.Code, Reason: e.Reason})
	case lavalink.PlayerEventException:
		d.manager.Emit(Event{Type: EventPlayerException, Player: d.player, Dispatcher: d, Err: e.Err})
	case lavalink.PlayerEventUpdate:
		d.manager.Emit(Event{Type: EventPlayerUpdate, Player: d.player, Dispatcher: d})
	}
}

func (d *Dispatcher) exists() bool { return d.manager.Has(d.guildID) }

// GuildID returns the guild this dispatcher serves.
func (d *Dispatcher) GuildID() string { return d.guildID }

// Player returns the underlying node player handle.
func (d *Dispatcher) Player() lavalink.Player { return d.player }

// Node returns the audio node the session is bound to.
func (d *Dispatcher) Node() lavalink.Node { return d.node }

// ChannelID returns the text channel bound to the session.
func (d *Dispatcher) ChannelID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.channelID
}

// SetChannelID rebinds the session's text channel.
func (d *Dispatcher) SetChannelID(id string) {
	d.mu.Lock()
	d.channelID = id
	d.mu.Unlock()
}

// VoiceChannelID returns the voice channel the session plays in.
func (d *Dispatcher) VoiceChannelID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.voiceChannelID
}

// SetVoiceChannelID records a voice channel move.
func (d *Dispatcher) SetVoiceChannelID(id string) {
	d.mu.Lock()
	d.voiceChannelID = id
	d.mu.Unlock()
}

// Current returns the track currently bound to the player, or nil.
func (d *Dispatcher) Current() *track.Track {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Previous returns the last naturally finished track, or nil.
func (d *Dispatcher) Previous() *track.Track {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.previous
}

// QueueSnapshot returns a copy of the pending queue.
func (d *Dispatcher) QueueSnapshot() []*track.Track {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Snapshot()
}

// QueueLen returns the number of pending tracks.
func (d *Dispatcher) QueueLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Len()
}

// HistorySnapshot returns a copy of the playback history, oldest first.
func (d *Dispatcher) HistorySnapshot() []*track.Track {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Snapshot()
}

// Loop returns the active loop mode.
func (d *Dispatcher) Loop() LoopMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loop
}

// SetLoop switches the loop mode.
func (d *Dispatcher) SetLoop(mode LoopMode) {
	d.mu.Lock()
	d.loop = mode
	d.mu.Unlock()
}

// Paused reports the session's pause flag.
func (d *Dispatcher) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// Shuffled reports whether shuffle mode is on.
func (d *Dispatcher) Shuffled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shuffle
}

// AutoplayEnabled reports whether the session extends the queue on its own.
func (d *Dispatcher) AutoplayEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.autoplay
}

// Volume returns the last volume applied to the player.
func (d *Dispatcher) Volume() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentVolume
}

// SetVolume applies a new volume to the player. Setting the current value
// again is a no-op.
func (d *Dispatcher) SetVolume(v int) {
	d.mu.Lock()
	if v == d.currentVolume {
		d.mu.Unlock()
		return
	}
	d.currentVolume = v
	pl := d.player
	d.mu.Unlock()
	if err := pl.SetGlobalVolume(v); err != nil {
		d.log.Debug().Err(err).Int("volume", v).Msg("set volume failed")
	}
}

// Enqueue appends tracks to the pending queue, rejecting the batch when it
// would push the queue past the configured size cap.
func (d *Dispatcher) Enqueue(tracks ...*track.Track) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if max := d.manager.cfg.MaxQueueSize; max > 0 && d.queue.Len()+len(tracks) > max {
		return ErrQueueFull
	}
	d.queue.PushTail(tracks...)
	return nil
}

// Play binds the queue head to the player and starts it. It is a no-op when
// the session is gone or there is nothing to play.
func (d *Dispatcher) Play() {
	d.mu.Lock()
	if !d.exists() || (d.queue.Len() == 0 && d.current == nil) {
		d.mu.Unlock()
		return
	}
	if d.queue.Len() > 0 {
		d.current = d.queue.Shift()
	}
	cur := d.current
	pl := d.player
	d.history.TrimHead(d.manager.cfg.MaxHistorySize)
	d.mu.Unlock()

	if cur == nil {
		return
	}
	if err := pl.PlayTrack(cur.Encoded); err != nil {
		d.log.Debug().Err(err).Str("track", cur.Info.Title).Msg("play failed")
	}
}

// EnsurePlaying nudges an idle session: when tracks are queued but nothing
// is bound and the player is not paused, it starts playback at the default
// volume. Calling it on an active session does nothing.
func (d *Dispatcher) EnsurePlaying() {
	d.mu.Lock()
	idle := d.queue.Len() > 0 && d.current == nil && !d.player.Paused()
	d.mu.Unlock()
	if !idle {
		return
	}
	d.Play()
	d.SetVolume(d.manager.cfg.DefaultVolume)
}

// Pause toggles the pause state and reports the new value.
func (d *Dispatcher) Pause() bool {
	d.mu.Lock()
	if !d.exists() {
		d.mu.Unlock()
		return false
	}
	d.paused = !d.paused
	paused := d.paused
	pl := d.player
	cur := d.current
	d.mu.Unlock()

	if err := pl.SetPaused(paused); err != nil {
		d.log.Debug().Err(err).Msg("set paused failed")
	}
	if paused {
		d.manager.Emit(Event{Type: EventTrackPaused, Player: pl, Track: cur, Dispatcher: d})
	} else {
		d.manager.Emit(Event{Type: EventTrackResumed, Player: pl, Track: cur, Dispatcher: d})
	}
	return paused
}

// Remove drops the queued track at index. Out-of-range indexes are ignored.
func (d *Dispatcher) Remove(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.exists() {
		return
	}
	d.queue.RemoveAt(index)
}

// MoveTrack repositions a queued track. Invalid positions are ignored.
func (d *Dispatcher) MoveTrack(from, to int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.exists() {
		return
	}
	d.queue.Move(from, to)
}

// PreviousTrack steps playback one track back through the history. The
// interrupted current track and the previous marker are pushed back onto the
// queue head so forward order survives the jump.
func (d *Dispatcher) PreviousTrack() {
	d.mu.Lock()
	if !d.exists() || d.previous == nil {
		d.mu.Unlock()
		return
	}
	if d.current != nil {
		d.queue.PushHead(d.current)
	}
	d.queue.PushHead(d.previous)
	d.current = d.history.Pop()
	d.previous = d.history.Pop()
	pl := d.player
	d.mu.Unlock()

	if err := pl.StopTrack(); err != nil {
		d.log.Debug().Err(err).Msg("stop track failed")
	}
}

// Replay restarts the current track from the beginning.
func (d *Dispatcher) Replay() {
	d.mu.Lock()
	if !d.exists() || d.current == nil {
		d.mu.Unlock()
		return
	}
	d.queue.PushHead(d.current)
	pl := d.player
	d.mu.Unlock()

	if err := pl.StopTrack(); err != nil {
		d.log.Debug().Err(err).Msg("stop track failed")
	}
}

// SetShuffle turns shuffle mode on or off and reshuffles the pending queue
// when enabling.
func (d *Dispatcher) SetShuffle(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.exists() {
		return
	}
	d.shuffle = on
	if on {
		d.queue.Shuffle()
	} else {
		d.queue.SortCanonical()
	}
}

// Skip ends the current track. Skip(n) with n greater than one first drops
// n-1 queued tracks so playback resumes that far ahead.
func (d *Dispatcher) Skip(n int) {
	d.mu.Lock()
	if !d.exists() {
		d.mu.Unlock()
		return
	}
	if n > 1 {
		d.queue.DropHead(n - 1)
	}
	pl := d.player
	d.mu.Unlock()

	if err := pl.StopTrack(); err != nil {
		d.log.Debug().Err(err).Msg("stop track failed")
	}
}

// Seek jumps to a position in the current track, in milliseconds.
func (d *Dispatcher) Seek(positionMs int64) {
	d.mu.Lock()
	if !d.exists() || d.current == nil {
		d.mu.Unlock()
		return
	}
	pl := d.player
	d.mu.Unlock()

	if err := pl.SeekTo(positionMs); err != nil {
		d.log.Debug().Err(err).Int64("position", positionMs).Msg("seek failed")
	}
}

// ClearQueue empties the pending queue without touching playback.
func (d *Dispatcher) ClearQueue() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue.Clear()
}

// ClearHistory forgets everything already played.
func (d *Dispatcher) ClearHistory() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history.Clear()
	d.previous = nil
}

// Stop halts playback and resets the session state. The stopped flag keeps
// the following teardown from announcing a destroy.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.exists() {
		d.mu.Unlock()
		return
	}
	d.queue.Clear()
	d.history.Clear()
	d.loop = LoopOff
	d.autoplay = false
	d.stopped = true
	pl := d.player
	d.mu.Unlock()

	if err := pl.StopTrack(); err != nil {
		d.log.Debug().Err(err).Msg("stop track failed")
	}
}

// Destroy tears the session down: playback state is reset, the bot leaves
// the voice channel and the dispatcher is removed from the registry. The
// destroy event is suppressed when the session was already stopped.
func (d *Dispatcher) Destroy() {
	d.mu.Lock()
	d.queue.Clear()
	d.history.Clear()
	d.current = nil
	d.loop = LoopOff
	d.autoplay = false
	wasStopped := d.stopped
	pl := d.player
	d.mu.Unlock()

	if err := d.manager.nodes.LeaveVoiceChannel(context.Background(), d.guildID); err != nil {
		d.log.Debug().Err(err).Msg("leave voice channel failed")
	}
	d.manager.Delete(d.guildID)

	if !wasStopped {
		d.manager.Emit(Event{Type: EventPlayerDestroy, Player: pl, Dispatcher: d})
	}
}

// Search resolves a query through the manager. Failures and empty results
// both collapse to nil so callers have a single miss path.
func (d *Dispatcher) Search(ctx context.Context, query, engine string) *lavalink.LoadResult {
	res, err := d.manager.Search(ctx, query, engine)
	if err != nil {
		d.log.Debug().Err(err).Str("query", query).Msg("search failed")
		return nil
	}
	if res == nil || res.LoadType == lavalink.LoadTypeEmpty || res.LoadType == lavalink.LoadTypeError {
		return nil
	}
	return res
}

// SetAutoplay switches queue self-extension on or off. Enabling it seeds an
// immediate autoplay pass from the current track or the queue head.
func (d *Dispatcher) SetAutoplay(ctx context.Context, enabled bool, engine string) {
	d.mu.Lock()
	d.autoplay = enabled
	if engine != "" {
		d.autoplayType = engine
	}
	seed := d.current
	if seed == nil {
		seed = d.queue.Head()
	}
	d.mu.Unlock()

	if enabled && seed != nil {
		d.Autoplay(ctx, seed, engine)
	}
}

// Autoplay searches for tracks related to seed and queues the first result
// not already seen in the queue, the history or the current/previous slots.
// It gives up after a bounded number of random draws; if the session is
// fully drained at that point it stops itself.
func (d *Dispatcher) Autoplay(ctx context.Context, seed *track.Track, engine string) {
	if seed == nil {
		return
	}
	if engine == "" {
		d.mu.Lock()
		engine = d.autoplayType
		d.mu.Unlock()
	}

	query := seed.Info.Author
	if query == "" {
		query = seed.Info.Title
	}
	res := d.Search(ctx, query, engine)
	if res == nil || len(res.Tracks) == 0 {
		d.stopIfDrained()
		return
	}

	requester := seed.Info.Requester

	attempts := 15
	if len(res.Tracks) < attempts {
		attempts = len(res.Tracks)
	}
	for ; attempts > 0; attempts-- {
		raw := res.Tracks[rand.Intn(len(res.Tracks))]
		t, err := track.Build(&raw, requester, nil)
		if err != nil {
			continue
		}

		d.mu.Lock()
		seen := d.queue.Has(t.Encoded) || d.history.Has(t.Encoded) ||
			(d.current != nil && d.current.Encoded == t.Encoded) ||
			(d.previous != nil && d.previous.Encoded == t.Encoded)
		if !seen {
			d.queue.PushTail(t)
		}
		d.mu.Unlock()

		if !seen {
			d.EnsurePlaying()
			return
		}
	}
	d.stopIfDrained()
}

func (d *Dispatcher) stopIfDrained() {
	d.mu.Lock()
	drained := d.queue.Len() == 0 && d.current == nil
	d.mu.Unlock()
	if drained {
		d.Stop()
	}
}

// SetNowPlaying records the chat message announcing the current track. The
// prior record rolls into the Last* slots.
func (d *Dispatcher) SetNowPlaying(channelID, messageID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	np := &NowPlaying{MessageID: messageID, ChannelID: channelID}
	if d.nowPlaying != nil {
		np.LastMessageID = d.nowPlaying.MessageID
		np.LastChannelID = d.nowPlaying.ChannelID
	}
	d.nowPlaying = np
}

// NowPlayingMessage returns a copy of the now-playing record, or nil.
func (d *Dispatcher) NowPlayingMessage() *NowPlaying {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.nowPlaying == nil {
		return nil
	}
	np := *d.nowPlaying
	return &np
}

// DeleteNowPlaying removes the recorded now-playing message through the
// chat-side cleaner. Deletion failures are absorbed; the record is marked
// deleted only if it still refers to the same message afterwards.
func (d *Dispatcher) DeleteNowPlaying() {
	d.mu.Lock()
	np := d.nowPlaying
	var channelID, messageID string
	if np != nil {
		channelID, messageID = np.ChannelID, np.MessageID
	}
	d.mu.Unlock()

	if np == nil || messageID == "" {
		return
	}
	if cleaner := d.manager.nowPlayingCleaner(); cleaner != nil {
		if err := cleaner.DeleteOwnMessage(channelID, messageID); err != nil {
			d.log.Debug().Err(err).Str("message", messageID).Msg("now playing cleanup failed")
		}
	}

	d.mu.Lock()
	if d.nowPlaying != nil && d.nowPlaying.MessageID == messageID {
		d.nowPlaying.IsDeleted = true
	}
	d.mu.Unlock()
}
