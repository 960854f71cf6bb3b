package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/internal/music/player"
	"github.com/keshon/lavaqueue/internal/music/track"
)

type playCommand struct{ base }

func init() {
	register(&playCommand{base{
		name:        "play",
		description: "Play a track, playlist or search result",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithVoiceRequired())
}

func (c *playCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "input",
				Description: "Link or search query",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "engine",
				Description: "Search engine for plain queries",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "YouTube", Value: "youtube"},
					{Name: "YouTube Music", Value: "youtubemusic"},
					{Name: "SoundCloud", Value: "soundcloud"},
					{Name: "Spotify", Value: "spotify"},
					{Name: "Deezer", Value: "deezer"},
					{Name: "Apple Music", Value: "applemusic"},
				},
			},
		},
	}
}

func (c *playCommand) Run(ctx *core.Context) error {
	input := ctx.Option("input")
	if input == "" {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "Give me a link or a search query.")
	}

	channelID, err := ctx.Voice.FindUserVoiceState(ctx.GuildID(), ctx.UserID())
	if err != nil {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "Join a voice channel first.")
	}

	if err := core.Defer(ctx.Session, ctx.Event); err != nil {
		return err
	}

	d := ctx.Dispatcher()
	if d == nil {
		d, err = ctx.Players.Create(context.Background(), player.CreateOptions{
			GuildID:        ctx.GuildID(),
			VoiceChannelID: channelID,
			TextChannelID:  ctx.Event.ChannelID,
			Deaf:           true,
		})
		if err != nil {
			return core.Followup(ctx.Session, ctx.Event, fmt.Sprintf("Could not join the voice channel: %v", err))
		}
	}

	res := d.Search(context.Background(), input, ctx.Option("engine"))
	if res == nil {
		return core.Followup(ctx.Session, ctx.Event, "No results for that query.")
	}

	tracks, summary, err := collectTracks(res, ctx.User())
	if err != nil || len(tracks) == 0 {
		return core.Followup(ctx.Session, ctx.Event, "No playable tracks in that result.")
	}

	if err := d.Enqueue(tracks...); err != nil {
		if errors.Is(err, player.ErrQueueFull) {
			return core.Followup(ctx.Session, ctx.Event, "The queue is full.")
		}
		return core.Followup(ctx.Session, ctx.Event, fmt.Sprintf("Could not queue that: %v", err))
	}
	d.EnsurePlaying()

	return core.FollowupEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title:       "Queued",
		Description: summary,
	})
}

// collectTracks turns a load result into queueable tracks: a single track
// for track and search loads, everything for playlist loads.
func collectTracks(res *lavalink.LoadResult, user *discordgo.User) ([]*track.Track, string, error) {
	switch res.LoadType {
	case lavalink.LoadTypeTrack, lavalink.LoadTypeSearch:
		if len(res.Tracks) == 0 {
			return nil, "", track.ErrInvalidTrack
		}
		t, err := track.BuildForUser(&res.Tracks[0], user, nil)
		if err != nil {
			return nil, "", err
		}
		return []*track.Track{t}, trackLine(t), nil

	case lavalink.LoadTypePlaylist:
		var pl *track.PlaylistContext
		name := "playlist"
		if res.Playlist != nil {
			pl = &track.PlaylistContext{Name: res.Playlist.Name, SelectedTrack: res.Playlist.SelectedTrack}
			name = res.Playlist.Name
		}
		tracks := make([]*track.Track, 0, len(res.Tracks))
		for i := range res.Tracks {
			t, err := track.BuildForUser(&res.Tracks[i], user, pl)
			if err != nil {
				continue
			}
			tracks = append(tracks, t)
		}
		return tracks, fmt.Sprintf("%d tracks from **%s**", len(tracks), name), nil
	}
	return nil, "", track.ErrInvalidTrack
}
