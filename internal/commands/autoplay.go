package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type autoplayCommand struct{ base }

func init() {
	register(&autoplayCommand{base{
		name:        "autoplay",
		description: "Toggle automatic queue extension with related tracks",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *autoplayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "engine",
				Description: "Search engine used for related tracks",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "YouTube", Value: "youtube"},
					{Name: "YouTube Music", Value: "youtubemusic"},
					{Name: "SoundCloud", Value: "soundcloud"},
					{Name: "Deezer", Value: "deezer"},
				},
			},
		},
	}
}

func (c *autoplayCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	enabled := !d.AutoplayEnabled()
	d.SetAutoplay(context.Background(), enabled, ctx.Option("engine"))
	if enabled {
		return core.Respond(ctx.Session, ctx.Event, "Autoplay is on, I will keep the queue going.")
	}
	return core.Respond(ctx.Session, ctx.Event, "Autoplay is off.")
}
