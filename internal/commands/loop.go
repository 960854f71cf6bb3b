package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/music/player"
)

type loopCommand struct{ base }

func init() {
	register(&loopCommand{base{
		name:        "loop",
		description: "Set the loop mode",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *loopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "What to repeat",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "off", Value: string(player.LoopOff)},
					{Name: "song", Value: string(player.LoopSong)},
					{Name: "queue", Value: string(player.LoopQueue)},
				},
			},
		},
	}
}

func (c *loopCommand) Run(ctx *core.Context) error {
	mode := player.LoopMode(ctx.Option("mode"))
	ctx.Dispatcher().SetLoop(mode)
	if mode == player.LoopOff {
		return core.Respond(ctx.Session, ctx.Event, "Loop is off.")
	}
	return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Looping the %s.", mode))
}
