package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type shuffleCommand struct{ base }

func init() {
	register(&shuffleCommand{base{
		name:        "shuffle",
		description: "Toggle shuffle mode",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *shuffleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *shuffleCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	on := !d.Shuffled()
	d.SetShuffle(on)
	if on {
		return core.Respond(ctx.Session, ctx.Event, "Shuffling the queue.")
	}
	return core.Respond(ctx.Session, ctx.Event, "Shuffle off, queue restored to title order.")
}
