package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type clearCommand struct{ base }

func init() {
	register(&clearCommand{base{
		name:        "clear",
		description: "Clear the queue or the history",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *clearCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "target",
				Description: "What to clear",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "queue", Value: "queue"},
					{Name: "history", Value: "history"},
				},
			},
		},
	}
}

func (c *clearCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	switch ctx.Option("target") {
	case "history":
		d.ClearHistory()
		return core.Respond(ctx.Session, ctx.Event, "History cleared.")
	default:
		d.ClearQueue()
		return core.Respond(ctx.Session, ctx.Event, "Queue cleared.")
	}
}
