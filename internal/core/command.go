package core

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/config"
	"github.com/keshon/lavaqueue/internal/music/player"
	"github.com/keshon/lavaqueue/internal/playlist"
)

// Command is one slash command.
type Command interface {
	Name() string
	Description() string
	Category() string
	SlashDefinition() *discordgo.ApplicationCommand
	Run(ctx *Context) error
}

// VoiceStateFinder locates the voice channel a guild member is in.
type VoiceStateFinder interface {
	FindUserVoiceState(guildID, userID string) (channelID string, err error)
}

// Context is what the runtime hands a command when executing it.
type Context struct {
	Session   *discordgo.Session
	Event     *discordgo.InteractionCreate
	Players   *player.Manager
	Playlists *playlist.Store
	Config    config.Music
	Voice     VoiceStateFinder
}

// GuildID returns the guild the interaction came from.
func (c *Context) GuildID() string { return c.Event.GuildID }

// UserID returns the invoking user's id.
func (c *Context) UserID() string {
	if c.Event.Member != nil && c.Event.Member.User != nil {
		return c.Event.Member.User.ID
	}
	if c.Event.User != nil {
		return c.Event.User.ID
	}
	return ""
}

// User returns the invoking user.
func (c *Context) User() *discordgo.User {
	if c.Event.Member != nil && c.Event.Member.User != nil {
		return c.Event.Member.User
	}
	return c.Event.User
}

// Dispatcher returns the guild's playback session, or nil.
func (c *Context) Dispatcher() *player.Dispatcher {
	return c.Players.Get(c.GuildID())
}

// Option returns the named string option of the interaction, or "".
func (c *Context) Option(name string) string {
	for _, opt := range c.Event.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

// IntOption returns the named integer option, or def when absent.
func (c *Context) IntOption(name string, def int64) int64 {
	for _, opt := range c.Event.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionInteger {
			return opt.IntValue()
		}
	}
	return def
}

// BoolOption returns the named boolean option, or def when absent.
func (c *Context) BoolOption(name string, def bool) bool {
	for _, opt := range c.Event.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionBoolean {
			return opt.BoolValue()
		}
	}
	return def
}
