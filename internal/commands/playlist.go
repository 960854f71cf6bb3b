package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/music/player"
	"github.com/keshon/lavaqueue/internal/music/track"
	"github.com/keshon/lavaqueue/internal/playlist"
)

type playlistCommand struct{ base }

func init() {
	register(&playlistCommand{base{
		name:        "playlist",
		description: "Manage your personal playlists",
		category:    categoryPlaylist,
	}}, core.WithGuildOnly())
}

func (c *playlistCommand) SlashDefinition() *discordgo.ApplicationCommand {
	nameOpt := func() *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Playlist name",
			Required:    true,
		}
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "create",
				Description: "Create a new playlist",
				Options:     []*discordgo.ApplicationCommandOption{nameOpt()},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "delete",
				Description: "Delete a playlist",
				Options:     []*discordgo.ApplicationCommandOption{nameOpt()},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "rename",
				Description: "Rename a playlist",
				Options: []*discordgo.ApplicationCommandOption{
					nameOpt(),
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "new-name",
						Description: "New playlist name", Required: true,
					},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list",
				Description: "List your playlists",
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "tracks",
				Description: "Show the tracks of a playlist",
				Options:     []*discordgo.ApplicationCommandOption{nameOpt()},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "add",
				Description: "Add a track to a playlist",
				Options: []*discordgo.ApplicationCommandOption{
					nameOpt(),
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "input",
						Description: "Link or search query, leave empty for the current track",
					},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "remove",
				Description: "Remove a track from a playlist",
				Options: []*discordgo.ApplicationCommandOption{
					nameOpt(),
					{
						Type: discordgo.ApplicationCommandOptionInteger, Name: "position",
						Description: "Track position", Required: true, MinValue: floatPtr(1),
					},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "move",
				Description: "Move a track inside a playlist",
				Options: []*discordgo.ApplicationCommandOption{
					nameOpt(),
					{
						Type: discordgo.ApplicationCommandOptionInteger, Name: "from",
						Description: "Current position", Required: true, MinValue: floatPtr(1),
					},
					{
						Type: discordgo.ApplicationCommandOptionInteger, Name: "to",
						Description: "Target position", Required: true, MinValue: floatPtr(1),
					},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "clear",
				Description: "Remove all tracks from a playlist",
				Options:     []*discordgo.ApplicationCommandOption{nameOpt()},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "play",
				Description: "Queue a playlist",
				Options:     []*discordgo.ApplicationCommandOption{nameOpt()},
			},
		},
	}
}

type subOptions struct {
	opts []*discordgo.ApplicationCommandInteractionDataOption
}

func (s subOptions) str(name string) string {
	for _, o := range s.opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}

func (s subOptions) integer(name string) int {
	for _, o := range s.opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return int(o.IntValue())
		}
	}
	return 0
}

func (c *playlistCommand) Run(ctx *core.Context) error {
	data := ctx.Event.ApplicationCommandData()
	if len(data.Options) == 0 {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "Pick a playlist action.")
	}
	sub := data.Options[0]
	opts := subOptions{opts: sub.Options}
	name := opts.str("name")
	userID := ctx.UserID()
	store := ctx.Playlists

	switch sub.Name {
	case "create":
		if err := store.Create(name, userID); err != nil {
			return respondPlaylistErr(ctx, err)
		}
		return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Playlist **%s** created.", name))

	case "delete":
		if err := store.Delete(name, userID); err != nil {
			return respondPlaylistErr(ctx, err)
		}
		return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Playlist **%s** deleted.", name))

	case "rename":
		newName := opts.str("new-name")
		if err := store.Rename(name, newName, userID); err != nil {
			return respondPlaylistErr(ctx, err)
		}
		return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Renamed **%s** to **%s**.", name, newName))

	case "list":
		return c.runList(ctx)

	case "tracks":
		return c.runTracks(ctx, name)

	case "add":
		return c.runAdd(ctx, name, opts.str("input"))

	case "remove":
		if err := store.RemoveTrack(name, userID, opts.integer("position")); err != nil {
			return respondPlaylistErr(ctx, err)
		}
		return core.Respond(ctx.Session, ctx.Event, "Track removed.")

	case "move":
		if err := store.MoveTrack(name, userID, opts.integer("from"), opts.integer("to")); err != nil {
			return respondPlaylistErr(ctx, err)
		}
		return core.Respond(ctx.Session, ctx.Event, "Track moved.")

	case "clear":
		if err := store.Clear(name, userID); err != nil {
			return respondPlaylistErr(ctx, err)
		}
		return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Playlist **%s** cleared.", name))

	case "play":
		return c.runPlay(ctx, name)
	}
	return nil
}

func (c *playlistCommand) runList(ctx *core.Context) error {
	lists, err := ctx.Playlists.Show(ctx.UserID())
	if err != nil {
		return respondPlaylistErr(ctx, err)
	}
	if len(lists) == 0 {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "You have no playlists yet, `/playlist create` makes one.")
	}
	var sb strings.Builder
	for _, pl := range lists {
		fmt.Fprintf(&sb, "**%s** (%d tracks)\n", pl.Name, pl.Length)
	}
	return core.RespondEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title:       "Your playlists",
		Description: sb.String(),
	})
}

func (c *playlistCommand) runTracks(ctx *core.Context, name string) error {
	tracks, err := ctx.Playlists.Get(name, ctx.UserID())
	if err != nil {
		return respondPlaylistErr(ctx, err)
	}
	if len(tracks) == 0 {
		return core.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("**%s** is empty.", name))
	}
	var sb strings.Builder
	for i, t := range tracks {
		fmt.Fprintf(&sb, "`%2d.` %s\n", i+1, trackLine(t))
	}
	return core.RespondEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title:       name,
		Description: sb.String(),
	})
}

// runAdd stores either the currently playing track or a resolved query.
func (c *playlistCommand) runAdd(ctx *core.Context, name, input string) error {
	var t *track.Track
	if input == "" {
		if d := ctx.Dispatcher(); d != nil {
			t = d.Current()
		}
		if t == nil {
			return core.RespondEphemeral(ctx.Session, ctx.Event, "Nothing is playing, give me a link or query instead.")
		}
	} else {
		res, err := ctx.Players.Search(context.Background(), input, "")
		if err != nil || len(res.Tracks) == 0 {
			return core.RespondEphemeral(ctx.Session, ctx.Event, "No results for that query.")
		}
		t, err = track.BuildForUser(&res.Tracks[0], ctx.User(), nil)
		if err != nil {
			return core.RespondEphemeral(ctx.Session, ctx.Event, "That result was not playable.")
		}
	}

	if err := ctx.Playlists.AddTrack(name, ctx.UserID(), t); err != nil {
		return respondPlaylistErr(ctx, err)
	}
	return core.Respond(ctx.Session, ctx.Event,
		fmt.Sprintf("Added %s to **%s**.", trackLine(t), name))
}

// runPlay queues a stored playlist, creating the session if needed.
func (c *playlistCommand) runPlay(ctx *core.Context, name string) error {
	tracks, err := ctx.Playlists.Get(name, ctx.UserID())
	if err != nil {
		return respondPlaylistErr(ctx, err)
	}
	if len(tracks) == 0 {
		return core.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("**%s** is empty.", name))
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

	if err := d.Enqueue(tracks...); err != nil {
		if errors.Is(err, player.ErrQueueFull) {
			return core.Followup(ctx.Session, ctx.Event, "The queue is full.")
		}
		return core.Followup(ctx.Session, ctx.Event, fmt.Sprintf("Could not queue the playlist: %v", err))
	}
	d.EnsurePlaying()
	return core.Followup(ctx.Session, ctx.Event, fmt.Sprintf("Queued %d tracks from **%s**.", len(tracks), name))
}

func respondPlaylistErr(ctx *core.Context, err error) error {
	var pe *playlist.Error
	if errors.As(err, &pe) {
		return core.RespondEphemeral(ctx.Session, ctx.Event, pe.Message+".")
	}
	return core.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("Playlist error: %v", err))
}
