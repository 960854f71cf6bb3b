package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/keshon/lavaqueue/internal/lavalink"
)

// newRestAgainstServer points a Rest client at a local test server.
func newRestAgainstServer(t *testing.T, srv *httptest.Server) *Rest {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse server port: %v", err)
	}
	n := &Node{cfg: lavalink.NodeConfig{
		Name:     "test",
		Host:     u.Hostname(),
		Port:     port,
		Password: "secret",
	}}
	n.rest = newRest(n)
	return n.rest
}

func TestResolve(t *testing.T) {
	var gotAuth, gotIdentifier string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/loadtracks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotIdentifier = r.URL.Query().Get("identifier")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"loadType":"search","data":[{"encoded":"abc"}]}`))
	}))
	defer srv.Close()

	rest := newRestAgainstServer(t, srv)
	res, err := rest.Resolve(context.Background(), "ytsearch:never gonna")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "secret" {
		t.Errorf("expected password forwarded, got %q", gotAuth)
	}
	if gotIdentifier != "ytsearch:never gonna" {
		t.Errorf("identifier mangled in transit: %q", gotIdentifier)
	}
	if res.LoadType != lavalink.LoadTypeSearch || len(res.Tracks) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestResolveAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad password"}`))
	}))
	defer srv.Close()

	rest := newRestAgainstServer(t, srv)
	_, err := rest.Resolve(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "bad password") {
		t.Fatalf("expected node message in error, got %v", err)
	}
}

func TestUpdatePlayerRequiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a session")
	}))
	defer srv.Close()

	rest := newRestAgainstServer(t, srv)
	if err := rest.updatePlayer(context.Background(), "g1", map[string]any{}, false); err == nil {
		t.Fatal("expected error without a node session")
	}
}

func TestUpdatePlayerPatchesSessionPlayer(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	rest := newRestAgainstServer(t, srv)
	rest.node.mu.Lock()
	rest.node.sessionID = "sess1"
	rest.node.mu.Unlock()

	if err := rest.updatePlayer(context.Background(), "g1", map[string]any{"paused": true}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("expected PATCH, got %s", gotMethod)
	}
	if gotPath != "/v4/sessions/sess1/players/g1" {
		t.Errorf("unexpected path %s", gotPath)
	}
}

func TestDestroyPlayer(t *testing.T) {
	statuses := []int{http.StatusNoContent, http.StatusNotFound}
	idx := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statuses[idx])
	}))
	defer srv.Close()

	rest := newRestAgainstServer(t, srv)
	rest.node.mu.Lock()
	rest.node.sessionID = "sess1"
	rest.node.mu.Unlock()

	// 204 and 404 both count as gone.
	for idx = range statuses {
		if err := rest.destroyPlayer(context.Background(), "g1"); err != nil {
			t.Errorf("status %d: unexpected error %v", statuses[idx], err)
		}
	}

	// Without a session there is nothing to destroy.
	rest.node.mu.Lock()
	rest.node.sessionID = ""
	rest.node.mu.Unlock()
	if err := rest.destroyPlayer(context.Background(), "g1"); err != nil {
		t.Errorf("unexpected error without session: %v", err)
	}
}
