package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/keshon/lavaqueue/internal/lavalink"
)

// Rest talks to the node's v4 REST API. It implements lavalink.RestClient.
type Rest struct {
	node *Node
	base string
	http *http.Client
}

func newRest(n *Node) *Rest {
	scheme := "http"
	if n.cfg.Secure {
		scheme = "https"
	}
	return &Rest{
		node: n,
		base: fmt.Sprintf("%s://%s:%d/v4", scheme, n.cfg.Host, n.cfg.Port),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve loads tracks for an identifier, either a URL or an
// "engine:query" search string.
func (r *Rest) Resolve(ctx context.Context, identifier string) (*lavalink.LoadResult, error) {
	endpoint := r.base + "/loadtracks?identifier=" + url.QueryEscape(identifier)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", r.node.cfg.Password)

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, r.apiError(resp)
	}

	var result lavalink.LoadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode load result: %w", err)
	}
	return &result, nil
}

// updatePlayer patches the guild's server-side player state.
func (r *Rest) updatePlayer(ctx context.Context, guildID string, body any, noReplace bool) error {
	sid := r.node.currentSessionID()
	if sid == "" {
		return fmt.Errorf("node %s has no session yet", r.node.cfg.Name)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/sessions/%s/players/%s?noReplace=%t", r.base, sid, guildID, noReplace)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", r.node.cfg.Password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return r.apiError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// destroyPlayer removes the guild's server-side player.
func (r *Rest) destroyPlayer(ctx context.Context, guildID string) error {
	sid := r.node.currentSessionID()
	if sid == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/sessions/%s/players/%s", r.base, sid, guildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", r.node.cfg.Password)

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return r.apiError(resp)
	}
	return nil
}

func (r *Rest) apiError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		return fmt.Errorf("node %s: %s (%d)", r.node.cfg.Name, body.Message, resp.StatusCode)
	}
	return fmt.Errorf("node %s: unexpected status %d", r.node.cfg.Name, resp.StatusCode)
}
