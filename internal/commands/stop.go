package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type stopCommand struct{ base }

func init() {
	register(&stopCommand{base{
		name:        "stop",
		description: "Stop playback and clear the queue",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *stopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *stopCommand) Run(ctx *core.Context) error {
	ctx.Dispatcher().Stop()
	return core.Respond(ctx.Session, ctx.Event, "Stopped and cleared the queue.")
}
