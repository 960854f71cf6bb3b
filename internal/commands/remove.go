package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type removeCommand struct{ base }

func init() {
	register(&removeCommand{base{
		name:        "remove",
		description: "Remove a track from the queue",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *removeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "position",
				Description: "Queue position as shown by /queue",
				Required:    true,
				MinValue:    floatPtr(1),
			},
		},
	}
}

func (c *removeCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	pos := int(ctx.IntOption("position", 0))
	if pos < 1 || pos > d.QueueLen() {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "No track at that position.")
	}
	d.Remove(pos - 1)
	return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Removed track %d from the queue.", pos))
}
