package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type moveCommand struct{ base }

func init() {
	register(&moveCommand{base{
		name:        "move",
		description: "Move a track to another position in the queue",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *moveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "from",
				Description: "Current position",
				Required:    true,
				MinValue:    floatPtr(1),
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "to",
				Description: "Target position",
				Required:    true,
				MinValue:    floatPtr(1),
			},
		},
	}
}

func (c *moveCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	from := int(ctx.IntOption("from", 0))
	to := int(ctx.IntOption("to", 0))
	size := d.QueueLen()
	if from < 1 || from > size || to < 1 || to > size {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "No track at that position.")
	}
	d.MoveTrack(from-1, to-1)
	return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Moved track %d to position %d.", from, to))
}
