package player

import (
	"context"
	"regexp"
	"strings"

	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/pkg/retrylimit"
)

var urlPattern = regexp.MustCompile(`^https?://`)

// NormalizeEngine maps friendly source names onto node search prefixes.
// Unknown values pass through so native prefixes and plugin engines work
// unchanged.
func NormalizeEngine(engine string) string {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "youtube":
		return "ytsearch"
	case "youtubemusic":
		return "ytmsearch"
	case "spotify":
		return "spsearch"
	case "soundcloud":
		return "scsearch"
	case "deezer":
		return "dzsearch"
	case "applemusic":
		return "amsearch"
	default:
		return engine
	}
}

// Search resolves a query against the ideal node. Plain URLs are passed to
// the node verbatim; anything else is prefixed with the search engine. The
// engine falls back to the configured default, then to ytsearch.
func (m *Manager) Search(ctx context.Context, query, engine string) (*lavalink.LoadResult, error) {
	node := m.nodes.GetIdealNode()
	if node == nil {
		return nil, ErrNoNode
	}

	identifier := query
	if !urlPattern.MatchString(query) {
		eng := NormalizeEngine(engine)
		if eng == "" {
			eng = NormalizeEngine(m.cfg.SearchEngine)
		}
		if eng == "" {
			eng = "ytsearch"
		}
		identifier = eng + ":" + query
	}

	var res *lavalink.LoadResult
	err := retrylimit.WithRetryMax(ctx, func() error {
		r, err := node.Rest().Resolve(ctx, identifier)
		if err != nil {
			return err
		}
		res = r
		return nil
	}, m.limiter, 3)
	if err != nil {
		return nil, err
	}
	return res, nil
}
