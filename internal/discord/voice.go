package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/music/player"
)

// voiceSettleDelay gives Discord a moment to finish shuffling voice states
// before the session is reconciled against them. Kicks and moves arrive as
// a burst of partial updates.
const voiceSettleDelay = time.Second

// onVoiceStateUpdate tracks the bot's own voice state: it forwards the
// voice session id to the node and schedules a reconcile pass.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.UserID != b.UserID() {
		return
	}
	d := b.players.Get(v.GuildID)
	if d == nil {
		return
	}

	if v.ChannelID != "" {
		if err := d.Player().SendVoiceUpdate(v.SessionID, "", ""); err != nil {
			b.log.Debug().Err(err).Str("guild", v.GuildID).Msg("voice session forward failed")
		}
	}

	b.scheduleVoiceReconcile(v.GuildID)
}

// onVoiceServerUpdate forwards the voice server credentials to the node.
func (b *Bot) onVoiceServerUpdate(s *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	d := b.players.Get(v.GuildID)
	if d == nil {
		return
	}
	if err := d.Player().SendVoiceUpdate("", v.Token, v.Endpoint); err != nil {
		b.log.Debug().Err(err).Str("guild", v.GuildID).Msg("voice server forward failed")
	}
}

func (b *Bot) scheduleVoiceReconcile(guildID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.voiceTimers[guildID]; ok {
		t.Stop()
	}
	b.voiceTimers[guildID] = time.AfterFunc(voiceSettleDelay, func() {
		b.mu.Lock()
		delete(b.voiceTimers, guildID)
		b.mu.Unlock()
		b.reconcileVoice(guildID)
	})
}

// reconcileVoice compares the bot's settled voice state with the session:
// gone from voice means the session dies, a different channel is a move.
func (b *Bot) reconcileVoice(guildID string) {
	d := b.players.Get(guildID)
	if d == nil {
		return
	}

	channelID := ""
	if vs, err := b.dg.State.VoiceState(guildID, b.UserID()); err == nil && vs != nil {
		channelID = vs.ChannelID
	}

	switch {
	case channelID == "":
		b.log.Info().Str("guild", guildID).Msg("removed from voice, destroying session")
		d.Destroy()
	case channelID != d.VoiceChannelID():
		old := d.VoiceChannelID()
		d.SetVoiceChannelID(channelID)
		b.players.Emit(player.Event{
			Type:       player.EventPlayerMove,
			Player:     d.Player(),
			Dispatcher: d,
			OldChanID:  old,
			NewChanID:  channelID,
		})
	}
}
