package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/music/track"
)

type nowPlayingCommand struct{ base }

func init() {
	register(&nowPlayingCommand{base{
		name:        "nowplaying",
		description: "Show the track that is playing right now",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *nowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *nowPlayingCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	cur := d.Current()
	if cur == nil {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "Nothing is playing right now.")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Now Playing",
		Description: trackLine(cur),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Author", Value: cur.Info.Author, Inline: true},
			{Name: "Position", Value: fmt.Sprintf("%s / %s", track.FormatTime(d.Player().Position()), cur.Info.Duration), Inline: true},
			{Name: "Requested by", Value: cur.Info.Requester.Username, Inline: true},
		},
	}
	if cur.Info.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: cur.Info.ArtworkURL}
	}
	return core.RespondEmbed(ctx.Session, ctx.Event, embed)
}
