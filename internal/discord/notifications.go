package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/music/player"
	"github.com/keshon/lavaqueue/internal/music/track"
)

// bindNotifications wires player bus events to chat messages and logs.
func (b *Bot) bindNotifications() {
	b.players.On(player.EventTrackStart, func(e player.Event) {
		if e.Dispatcher != nil {
			b.stopIdleWatch(e.Dispatcher.GuildID())
		}
		b.notifyTrackStart(e)
	})

	b.players.On(player.EventPlayerDestroy, func(e player.Event) {
		if e.Dispatcher != nil {
			b.stopIdleWatch(e.Dispatcher.GuildID())
		}
	})

	b.players.On(player.EventQueueEnd, func(e player.Event) {
		if e.Dispatcher == nil {
			return
		}
		b.startIdleWatch(e.Dispatcher)
		_, err := core.MessageEmbed(b.dg, e.Dispatcher.ChannelID(), &discordgo.MessageEmbed{
			Description: "Queue finished. Add more tracks or I will sit here quietly.",
		})
		if err != nil {
			b.log.Debug().Err(err).Msg("queue end notice failed")
		}
	})

	b.players.On(player.EventTrackStuck, func(e player.Event) {
		if e.Dispatcher == nil {
			return
		}
		_, _ = core.MessageEmbed(b.dg, e.Dispatcher.ChannelID(), &discordgo.MessageEmbed{
			Description: "That track got stuck, use `/skip` to move on.",
		})
	})

	b.players.On(player.EventPlayerException, func(e player.Event) {
		if e.Dispatcher == nil {
			return
		}
		b.log.Warn().Err(e.Err).Str("guild", e.Dispatcher.GuildID()).Msg("player exception")
		_, _ = core.MessageEmbed(b.dg, e.Dispatcher.ChannelID(), &discordgo.MessageEmbed{
			Description: "Playback failed on that track, skipping it.",
		})
	})

	b.players.On(player.EventPlayerMove, func(e player.Event) {
		if e.Dispatcher == nil {
			return
		}
		b.log.Info().
			Str("guild", e.Dispatcher.GuildID()).
			Str("from", e.OldChanID).
			Str("to", e.NewChanID).
			Msg("moved to another voice channel")
	})

	b.players.On(player.EventNodeConnect, func(e player.Event) {
		b.log.Info().Str("node", e.Node).Msg("audio node connected")
	})
	b.players.On(player.EventNodeReconnect, func(e player.Event) {
		b.log.Warn().Str("node", e.Node).Msg("audio node reconnecting")
	})
	b.players.On(player.EventNodeDisconnect, func(e player.Event) {
		b.log.Warn().Str("node", e.Node).Msg("audio node disconnected")
	})
	b.players.On(player.EventNodeError, func(e player.Event) {
		b.log.Error().Err(e.Err).Str("node", e.Node).Msg("audio node error")
	})
	b.players.On(player.EventNodeDestroy, func(e player.Event) {
		b.log.Error().Str("node", e.Node).Str("reason", e.Reason).Msg("audio node connection closed")
	})
}

// notifyTrackStart announces the new track and records the message so it
// can be cleaned up when the track changes.
func (b *Bot) notifyTrackStart(e player.Event) {
	if e.Dispatcher == nil || e.Track == nil {
		return
	}
	d := e.Dispatcher
	t := e.Track

	embed := &discordgo.MessageEmbed{
		Title:       "Now Playing",
		Description: formatTrack(t),
	}
	if t.Info.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Info.ArtworkURL}
	}
	if t.Info.Requester.Username != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Requested by " + t.Info.Requester.Username,
		}
	}

	msg, err := core.MessageEmbed(b.dg, d.ChannelID(), embed)
	if err != nil {
		b.log.Debug().Err(err).Str("guild", d.GuildID()).Msg("now playing notice failed")
		return
	}
	d.SetNowPlaying(msg.ChannelID, msg.ID)
}

func formatTrack(t *track.Track) string {
	if t.Info.URI != "" {
		return fmt.Sprintf("[%s](%s) `%s`", t.Info.Title, t.Info.URI, t.Info.Duration)
	}
	return fmt.Sprintf("%s `%s`", t.Info.Title, t.Info.Duration)
}
