package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type previousCommand struct{ base }

func init() {
	register(&previousCommand{base{
		name:        "previous",
		description: "Go back to the previously played track",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *previousCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *previousCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	if d.Previous() == nil {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "There is no previous track yet.")
	}
	d.PreviousTrack()
	return core.Respond(ctx.Session, ctx.Event, "Going back one track.")
}
