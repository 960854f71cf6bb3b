package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type disconnectCommand struct{ base }

func init() {
	register(&disconnectCommand{base{
		name:        "disconnect",
		description: "Disconnect the bot from the voice channel",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *disconnectCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *disconnectCommand) Run(ctx *core.Context) error {
	ctx.Dispatcher().Destroy()
	return core.Respond(ctx.Session, ctx.Event, "Disconnected. See you next time.")
}
