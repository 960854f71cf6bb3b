package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type pauseCommand struct{ base }

func init() {
	register(&pauseCommand{base{
		name:        "pause",
		description: "Pause or resume playback",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *pauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *pauseCommand) Run(ctx *core.Context) error {
	if ctx.Dispatcher().Pause() {
		return core.Respond(ctx.Session, ctx.Event, "Paused. Run `/pause` again to resume.")
	}
	return core.Respond(ctx.Session, ctx.Event, "Resumed.")
}
