package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/music/track"
)

type seekCommand struct{ base }

func init() {
	register(&seekCommand{base{
		name:        "seek",
		description: "Jump to a position in the current track",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *seekCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "seconds",
				Description: "Position in seconds",
				Required:    true,
				MinValue:    floatPtr(0),
			},
		},
	}
}

func (c *seekCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	cur := d.Current()
	if cur == nil {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "Nothing is playing right now.")
	}
	if !cur.Info.IsSeekable {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "This track cannot be seeked.")
	}

	seconds := ctx.IntOption("seconds", 0)
	ms := seconds * 1000
	if ms > cur.Info.DurationMs {
		return core.RespondEphemeral(ctx.Session, ctx.Event,
			fmt.Sprintf("That is past the end, the track is only %s long.", cur.Info.Duration))
	}

	d.Seek(ms)
	return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Jumped to `%s`.", track.FormatTime(ms)))
}
