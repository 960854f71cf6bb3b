// Package discord binds the player core to a Discord session: slash
// command routing, voice credential forwarding and chat notifications.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/lavaqueue/datastore"
	_ "github.com/keshon/lavaqueue/internal/commands" // register slash commands
	"github.com/keshon/lavaqueue/internal/config"
	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/lavalink"
	"github.com/keshon/lavaqueue/internal/lavalink/client"
	"github.com/keshon/lavaqueue/internal/music/player"
	"github.com/keshon/lavaqueue/internal/playlist"
	"github.com/keshon/lavaqueue/pkg/jobmgr"
)

// Bot is the Discord side of the player. It implements client.VoiceGateway
// and core.VoiceStateFinder.
type Bot struct {
	dg        *discordgo.Session
	cfg       *config.Config
	nodes     *client.Client
	players   *player.Manager
	playlists *playlist.Store
	jobs      *jobmgr.Manager
	log       zerolog.Logger

	mu          sync.Mutex
	voiceTimers map[string]*time.Timer
	nodeAdded   bool
}

// StartBot runs the bot until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, db *datastore.DataStore, log zerolog.Logger) error {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	b := &Bot{
		dg:          dg,
		cfg:         cfg,
		log:         log.With().Str("component", "discord").Logger(),
		voiceTimers: make(map[string]*time.Timer),
	}
	b.jobs = jobmgr.NewManager(func(msg string) {
		b.log.Debug().Msg(msg)
	})
	b.nodes = client.New(b, log)
	b.players = player.NewManager(b.nodes, cfg.Music, log)
	b.players.SetNowPlayingCleaner(b)
	b.playlists = playlist.NewStore(db, cfg.Music, log)
	b.bindNotifications()

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onVoiceStateUpdate)
	dg.AddHandler(b.onVoiceServerUpdate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer dg.Close()
	defer b.nodes.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, cleaning up")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Msg("session ready")

	b.mu.Lock()
	addNode := !b.nodeAdded
	b.nodeAdded = true
	b.mu.Unlock()
	if addNode {
		if err := b.nodes.AddNode(lavalink.NodeConfig(b.cfg.Node)); err != nil {
			b.log.Error().Err(err).Msg("registering audio node failed")
		}
	}

	if err := b.registerCommands(); err != nil {
		b.log.Error().Err(err).Msg("registering slash commands failed")
	}
}

func (b *Bot) registerCommands() error {
	defs := make([]*discordgo.ApplicationCommand, 0)
	for _, cmd := range core.AllCommands() {
		defs = append(defs, cmd.SlashDefinition())
	}
	_, err := b.dg.ApplicationCommandBulkOverwrite(b.dg.State.User.ID, "", defs)
	return err
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name
	cmd, ok := core.GetCommand(name)
	if !ok {
		return
	}

	ctx := &core.Context{
		Session:   s,
		Event:     i,
		Players:   b.players,
		Playlists: b.playlists,
		Config:    b.cfg.Music,
		Voice:     b,
	}
	if err := cmd.Run(ctx); err != nil {
		b.log.Error().Err(err).Str("command", name).Msg("command failed")
		_ = core.RespondEphemeral(s, i, "Something went wrong running that command.")
	}
}

// FindUserVoiceState returns the voice channel the member currently sits in.
func (b *Bot) FindUserVoiceState(guildID, userID string) (string, error) {
	g, err := b.dg.State.Guild(guildID)
	if err != nil {
		return "", err
	}
	for _, vs := range g.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, nil
		}
	}
	return "", errors.New("user is not in a voice channel")
}

// SendVoiceJoin asks the gateway to move the bot into a voice channel.
func (b *Bot) SendVoiceJoin(guildID, channelID string, deaf, mute bool) error {
	return b.dg.ChannelVoiceJoinManual(guildID, channelID, mute, deaf)
}

// SendVoiceLeave disconnects the bot from voice in the guild.
func (b *Bot) SendVoiceLeave(guildID string) error {
	return b.dg.ChannelVoiceJoinManual(guildID, "", false, false)
}

// UserID returns the bot's own user id once the session is ready.
func (b *Bot) UserID() string {
	if b.dg.State != nil && b.dg.State.User != nil {
		return b.dg.State.User.ID
	}
	return ""
}
