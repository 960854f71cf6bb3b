package player

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keshon/lavaqueue/internal/config"
	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/internal/music/track"
)

type fakeRest struct {
	mu          sync.Mutex
	identifiers []string
	result      *lavalink.LoadResult
	err         error
}

func (r *fakeRest) Resolve(ctx context.Context, identifier string) (*lavalink.LoadResult, error) {
	r.mu.Lock()
	r.identifiers = append(r.identifiers, identifier)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func (r *fakeRest) lastIdentifier() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.identifiers) == 0 {
		return ""
	}
	return r.identifiers[len(r.identifiers)-1]
}

type fakeNode struct {
	name string
	rest *fakeRest
}

func (n *fakeNode) Name() string              { return n.name }
func (n *fakeNode) Rest() lavalink.RestClient { return n.rest }

type fakePlayer struct {
	mu      sync.Mutex
	guildID string
	played  []string
	stops   int
	pauses  []bool
	seeks   []int64
	volumes []int
	handler lavalink.PlayerEventHandler
}

func (p *fakePlayer) GuildID() string { return p.guildID }

func (p *fakePlayer) PlayTrack(encoded string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, encoded)
	return nil
}

func (p *fakePlayer) StopTrack() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	return nil
}

func (p *fakePlayer) SetPaused(paused bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses = append(p.pauses, paused)
	return nil
}

func (p *fakePlayer) SeekTo(positionMs int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seeks = append(p.seeks, positionMs)
	return nil
}

func (p *fakePlayer) SetGlobalVolume(volume int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumes = append(p.volumes, volume)
	return nil
}

func (p *fakePlayer) SendVoiceUpdate(sessionID, token, endpoint string) error { return nil }
func (p *fakePlayer) Position() int64                                         { return 0 }
func (p *fakePlayer) Paused() bool                                            { return false }
func (p *fakePlayer) Ping() int64                                             { return 0 }

func (p *fakePlayer) OnEvent(handler lavalink.PlayerEventHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = handler
}

// fire delivers a node player event synchronously, the way the client's
// dispatch goroutine would.
func (p *fakePlayer) fire(e lavalink.PlayerEvent) {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h(e)
	}
}

func (p *fakePlayer) playedTracks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.played))
	copy(out, p.played)
	return out
}

func (p *fakePlayer) stopCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stops
}

type fakeNodeManager struct {
	mu          sync.Mutex
	node        lavalink.Node
	rest        *fakeRest
	player      *fakePlayer
	joined      []lavalink.JoinOptions
	left        []string
	joinErr     error
	nodeHandler func(lavalink.NodeEvent)
}

func newFakeNodeManager() *fakeNodeManager {
	rest := &fakeRest{}
	return &fakeNodeManager{
		node: &fakeNode{name: "test", rest: rest},
		rest: rest,
	}
}

func (f *fakeNodeManager) GetIdealNode() lavalink.Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.node
}

func (f *fakeNodeManager) AddNode(cfg lavalink.NodeConfig) error { return nil }

func (f *fakeNodeManager) JoinVoiceChannel(ctx context.Context, opts lavalink.JoinOptions) (lavalink.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	f.joined = append(f.joined, opts)
	if f.player == nil {
		f.player = &fakePlayer{guildID: opts.GuildID}
	}
	return f.player, nil
}

func (f *fakeNodeManager) LeaveVoiceChannel(ctx context.Context, guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.left = append(f.left, guildID)
	return nil
}

func (f *fakeNodeManager) OnNodeEvent(handler func(lavalink.NodeEvent)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodeHandler = handler
}

func (f *fakeNodeManager) fireNodeEvent(e lavalink.NodeEvent) {
	f.mu.Lock()
	h := f.nodeHandler
	f.mu.Unlock()
	if h != nil {
		h(e)
	}
}

// eventRecorder captures bus events; the bus is synchronous so no waiting
// is needed.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *eventRecorder) count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *eventRecorder) has(t EventType) bool { return r.count(t) > 0 }

func musicCfg() config.Music {
	return config.Music{
		MaxQueueSize:   100,
		MaxHistorySize: 50,
		DefaultVolume:  100,
		MaxVolume:      200,
		SearchEngine:   "ytsearch",
	}
}

func newTestManager(cfg config.Music) (*Manager, *fakeNodeManager) {
	fm := newFakeNodeManager()
	return NewManager(fm, cfg, zerolog.Nop()), fm
}

func newTestSession(t *testing.T, cfg config.Music) (*Manager, *Dispatcher, *fakePlayer, *fakeNodeManager) {
	t.Helper()
	m, fm := newTestManager(cfg)
	d, err := m.Create(context.Background(), CreateOptions{
		GuildID:        "g1",
		VoiceChannelID: "vc1",
		TextChannelID:  "tc1",
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return m, d, fm.player, fm
}

func testTrack(title string) *track.Track {
	return &track.Track{
		Encoded: "enc:" + title,
		Info:    track.Info{Title: title, Author: "author-" + title},
	}
}

func rawTrack(title string) lavalink.RawTrack {
	return lavalink.RawTrack{
		Encoded: "enc:" + title,
		Info:    lavalink.RawTrackInfo{Title: title, Author: "author-" + title},
	}
}
