// Package commands holds the bot's slash commands. Each file registers one
// command in its init; importing the package wires them all.
package commands

import (
	"fmt"

	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/music/track"
)

const categoryMusic = "🎵 Music"
const categoryPlaylist = "📂 Playlists"

type base struct {
	name        string
	description string
	category    string
}

func (b base) Name() string        { return b.name }
func (b base) Description() string { return b.description }
func (b base) Category() string    { return b.category }

func register(cmd core.Command, mws ...core.Middleware) {
	core.RegisterCommand(core.Apply(cmd, mws...))
}

func trackLine(t *track.Track) string {
	if t == nil {
		return "nothing"
	}
	if t.Info.URI != "" {
		return fmt.Sprintf("[%s](%s) `%s`", t.Info.Title, t.Info.URI, t.Info.Duration)
	}
	return fmt.Sprintf("%s `%s`", t.Info.Title, t.Info.Duration)
}
