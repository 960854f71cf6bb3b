package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type volumeCommand struct{ base }

func init() {
	register(&volumeCommand{base{
		name:        "volume",
		description: "Show or change the playback volume",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *volumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "level",
				Description: "New volume, leave empty to show the current one",
				MinValue:    floatPtr(0),
			},
		},
	}
}

func (c *volumeCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()

	level := ctx.IntOption("level", -1)
	if level < 0 {
		return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Volume is at **%d%%**.", d.Volume()))
	}

	max := ctx.Config.MaxVolume
	if !ctx.Config.NoLimitVolume && int(level) > max {
		return core.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("Volume is capped at %d%%.", max))
	}

	d.SetVolume(int(level))
	return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Volume set to **%d%%**.", level))
}
