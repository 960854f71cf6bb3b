package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type skipCommand struct{ base }

func init() {
	register(&skipCommand{base{
		name:        "skip",
		description: "Skip the current track",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *skipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: "Jump this many tracks ahead",
				MinValue:    floatPtr(1),
			},
		},
	}
}

func (c *skipCommand) Run(ctx *core.Context) error {
	count := int(ctx.IntOption("count", 1))
	ctx.Dispatcher().Skip(count)
	if count > 1 {
		return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Skipped %d tracks.", count))
	}
	return core.Respond(ctx.Session, ctx.Event, "Skipped.")
}

func floatPtr(v float64) *float64 { return &v }
