package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/internal/version"
)

const (
	reconnectTries = 10
	reconnectDelay = 5 * time.Second
)

// Node is one Lavalink server connection. It implements lavalink.Node.
type Node struct {
	client *Client
	cfg    lavalink.NodeConfig
	rest   *Rest

	mu           sync.RWMutex
	conn         *websocket.Conn
	sessionID    string
	connected    bool
	wasConnected bool
	closed       bool
	players      int
}

func newNode(c *Client, cfg lavalink.NodeConfig) *Node {
	n := &Node{client: c, cfg: cfg}
	n.rest = newRest(n)
	return n
}

func (n *Node) Name() string              { return n.cfg.Name }
func (n *Node) Rest() lavalink.RestClient { return n.rest }

func (n *Node) isConnected() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.connected
}

func (n *Node) playerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.players
}

func (n *Node) currentSessionID() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sessionID
}

// run keeps the websocket alive until close is called, reconnecting with a
// fixed delay up to reconnectTries attempts in a row.
func (n *Node) run() {
	attempts := 0
	for {
		n.mu.RLock()
		closed := n.closed
		n.mu.RUnlock()
		if closed {
			return
		}

		if err := n.connect(); err != nil {
			attempts++
			n.client.emitNode(lavalink.NodeEvent{Type: lavalink.NodeEventError, Name: n.cfg.Name, Err: err})
			if attempts >= reconnectTries {
				n.client.emitNode(lavalink.NodeEvent{
					Type:   lavalink.NodeEventClose,
					Name:   n.cfg.Name,
					Reason: fmt.Sprintf("giving up after %d failed connection attempts", attempts),
				})
				return
			}
			n.client.emitNode(lavalink.NodeEvent{
				Type: lavalink.NodeEventReconnecting,
				Name: n.cfg.Name,
				Left: reconnectTries - attempts,
			})
			time.Sleep(reconnectDelay)
			continue
		}

		attempts = 0
		n.readLoop()

		n.mu.Lock()
		n.connected = false
		n.mu.Unlock()
		n.client.emitNode(lavalink.NodeEvent{Type: lavalink.NodeEventDisconnect, Name: n.cfg.Name})
		time.Sleep(reconnectDelay)
	}
}

func (n *Node) connect() error {
	scheme := "ws"
	if n.cfg.Secure {
		scheme = "wss"
	}
	url := fmt.Sprintf("%s://%s:%d/v4/websocket", scheme, n.cfg.Host, n.cfg.Port)

	headers := http.Header{}
	headers.Set("Authorization", n.cfg.Password)
	headers.Set("User-Id", n.client.gateway.UserID())
	headers.Set("Client-Name", fmt.Sprintf("%s/%s", version.AppName, version.AppVersion))
	if sid := n.currentSessionID(); sid != "" {
		headers.Set("Session-Id", sid)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(url, headers)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}

	n.mu.Lock()
	n.conn = conn
	n.connected = true
	n.mu.Unlock()
	return nil
}

// wsMessage is the superset of fields across node websocket payloads.
type wsMessage struct {
	Op        string              `json:"op"`
	SessionID string              `json:"sessionId"`
	Resumed   bool                `json:"resumed"`
	GuildID   string              `json:"guildId"`
	Type      string              `json:"type"`
	State     *playerUpdateState  `json:"state"`
	Reason    string              `json:"reason"`
	Code      int                 `json:"code"`
	Exception *lavalink.LoadError `json:"exception"`
	Players   int                 `json:"players"`
}

type playerUpdateState struct {
	Position  int64 `json:"position"`
	Connected bool  `json:"connected"`
	Ping      int64 `json:"ping"`
}

func (n *Node) readLoop() {
	for {
		n.mu.RLock()
		conn := n.conn
		n.mu.RUnlock()
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			n.mu.Lock()
			if n.conn != nil {
				n.conn.Close()
				n.conn = nil
			}
			n.mu.Unlock()
			return
		}

		n.client.emitNode(lavalink.NodeEvent{Type: lavalink.NodeEventRaw, Name: n.cfg.Name, Raw: json.RawMessage(data)})

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		n.handleMessage(&msg)
	}
}

func (n *Node) handleMessage(msg *wsMessage) {
	switch msg.Op {
	case "ready":
		n.mu.Lock()
		n.sessionID = msg.SessionID
		reconnected := msg.Resumed || n.wasConnected
		n.wasConnected = true
		n.mu.Unlock()
		n.client.emitNode(lavalink.NodeEvent{Type: lavalink.NodeEventReady, Name: n.cfg.Name, Reconnected: reconnected})
	case "playerUpdate":
		if msg.State == nil {
			return
		}
		if p, ok := n.client.Player(msg.GuildID).(*Player); ok {
			p.handleUpdate(msg.State)
		}
	case "event":
		n.handlePlayerEvent(msg)
	case "stats":
		n.mu.Lock()
		n.players = msg.Players
		n.mu.Unlock()
	default:
		n.client.emitNode(lavalink.NodeEvent{Type: lavalink.NodeEventDebug, Name: n.cfg.Name, Info: "unknown op " + msg.Op})
	}
}

func (n *Node) handlePlayerEvent(msg *wsMessage) {
	p, ok := n.client.Player(msg.GuildID).(*Player)
	if !ok {
		return
	}

	switch msg.Type {
	case "TrackStartEvent":
		p.dispatch(lavalink.PlayerEvent{Type: lavalink.PlayerEventStart})
	case "TrackEndEvent":
		p.dispatch(lavalink.PlayerEvent{Type: lavalink.PlayerEventEnd, EndReason: msg.Reason})
	case "TrackStuckEvent":
		p.dispatch(lavalink.PlayerEvent{Type: lavalink.PlayerEventStuck})
	case "TrackExceptionEvent":
		var err error
		if msg.Exception != nil {
			err = msg.Exception
		}
		p.dispatch(lavalink.PlayerEvent{Type: lavalink.PlayerEventException, Err: err})
	case "WebSocketClosedEvent":
		p.dispatch(lavalink.PlayerEvent{Type: lavalink.PlayerEventClosed, Code: msg.Code, Reason: msg.Reason})
	}
}

func (n *Node) close() {
	n.mu.Lock()
	n.closed = true
	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}
	n.connected = false
	n.mu.Unlock()
}
