package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type replayCommand struct{ base }

func init() {
	register(&replayCommand{base{
		name:        "replay",
		description: "Restart the current track from the beginning",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *replayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *replayCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	if d.Current() == nil {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "Nothing is playing right now.")
	}
	d.Replay()
	return core.Respond(ctx.Session, ctx.Event, "Replaying from the top.")
}
