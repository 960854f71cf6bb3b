// Package track normalizes raw node-resolved tracks plus requester metadata
// into the stable value object the player core passes around.
package track

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/lavalink"
)

// ErrInvalidTrack is returned when no raw track payload was provided.
var ErrInvalidTrack = errors.New("track not provided")

// Requester identifies who asked for the track.
type Requester struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Banner   string `json:"banner,omitempty"`
}

// PlaylistContext ties a track to the playlist it was loaded from.
type PlaylistContext struct {
	Name          string `json:"name"`
	SelectedTrack int    `json:"selectedTrack"`
}

// Info is the normalized track metadata.
type Info struct {
	Identifier string           `json:"identifier"`
	Title      string           `json:"title"`
	Author     string           `json:"author"`
	URI        string           `json:"uri"`
	ArtworkURL string           `json:"artworkUrl,omitempty"`
	SourceName string           `json:"sourceName,omitempty"`
	ISRC       string           `json:"isrc,omitempty"`
	Duration   string           `json:"duration"`
	DurationMs int64            `json:"durationMs"`
	IsSeekable bool             `json:"isSeekable"`
	IsStream   bool             `json:"isStream"`
	Requester  Requester        `json:"requester"`
	PluginInfo map[string]any   `json:"pluginInfo"`
	UserData   map[string]any   `json:"userData"`
	Playlist   *PlaylistContext `json:"playlist,omitempty"`
}

// Track is one resolvable audio item. Identity for de-duplication is Encoded.
type Track struct {
	Encoded string `json:"encoded"`
	Info    Info   `json:"info"`
}

// Build copies a raw resolved track and attaches requester and playlist
// context. Missing nested payload fields default to empty maps.
func Build(raw *lavalink.RawTrack, requester Requester, pl *PlaylistContext) (*Track, error) {
	if raw == nil {
		return nil, ErrInvalidTrack
	}

	pluginInfo := raw.PluginInfo
	if pluginInfo == nil {
		pluginInfo = map[string]any{}
	}
	userData := raw.UserData
	if userData == nil {
		userData = map[string]any{}
	}

	return &Track{
		Encoded: raw.Encoded,
		Info: Info{
			Identifier: raw.Info.Identifier,
			Title:      raw.Info.Title,
			Author:     raw.Info.Author,
			URI:        raw.Info.URI,
			ArtworkURL: raw.Info.ArtworkURL,
			SourceName: raw.Info.SourceName,
			ISRC:       raw.Info.ISRC,
			Duration:   FormatTime(raw.Info.Length),
			DurationMs: raw.Info.Length,
			IsSeekable: raw.Info.IsSeekable,
			IsStream:   raw.Info.IsStream,
			Requester:  requester,
			PluginInfo: pluginInfo,
			UserData:   userData,
			Playlist:   pl,
		},
	}, nil
}

// BuildForUser is Build with the requester resolved from a Discord user,
// including its avatar and banner URLs when present.
func BuildForUser(raw *lavalink.RawTrack, user *discordgo.User, pl *PlaylistContext) (*Track, error) {
	var requester Requester
	if user != nil {
		requester = Requester{
			ID:       user.ID,
			Username: user.Username,
			Avatar:   user.AvatarURL(""),
			Banner:   user.BannerURL(""),
		}
	}
	return Build(raw, requester, pl)
}

// FormatTime renders a millisecond duration as a short human string.
func FormatTime(ms int64) string {
	const (
		minute = 60 * 1000
		hour   = 60 * minute
		day    = 24 * hour
	)
	switch {
	case ms < minute:
		return fmt.Sprintf("%ds", ms/1000)
	case ms < hour:
		return fmt.Sprintf("%dm %ds", ms/minute, (ms%minute)/1000)
	case ms < day:
		return fmt.Sprintf("%dh %dm", ms/hour, (ms%hour)/minute)
	default:
		return fmt.Sprintf("%dd %dh", ms/day, (ms%day)/hour)
	}
}
