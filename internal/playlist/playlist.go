package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keshon/lavaqueue/datastore"
	"github.com/keshon/lavaqueue/internal/config"
	"github.com/keshon/lavaqueue/internal/music/track"
)

// Error codes returned by the store. Callers branch on Code rather than on
// message text.
const (
	CodeNameInvalid     = "PLAYLIST_NAME_INVALID"
	CodeIDInvalid       = "PLAYLIST_ID_INVALID"
	CodeExists          = "PLAYLIST_EXISTS"
	CodeNotFound        = "PLAYLIST_NOT_FOUND"
	CodeMaxPlaylists    = "PLAYLIST_MAX_PLAYLIST"
	CodeMaxSongs        = "PLAYLIST_MAX_SONGS"
	CodeTrackInvalid    = "PLAYLIST_TRACK_INVALID"
	CodeTrackNotFound   = "PLAYLIST_TRACK_NOT_FOUND"
	CodePositionInvalid = "PLAYLIST_POSITION_INVALID"
)

// Error is a coded playlist failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func codedErrorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrCode extracts the playlist error code, or "" for other errors.
func ErrCode(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Summary is one row of a user's playlist listing.
type Summary struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

const maxNameLength = 255

// Store keeps per-user named playlists in the datastore. A playlist row is
// keyed by playlist name plus "playlist_<userID>" and holds a JSON array of
// tracks. All operations validate inputs and return coded errors; nothing
// here is a silent no-op.
type Store struct {
	db           *datastore.DataStore
	table        string
	maxSongs     int
	maxPlaylists int
	log          zerolog.Logger
}

func NewStore(db *datastore.DataStore, cfg config.Music, log zerolog.Logger) *Store {
	return &Store{
		db:           db,
		table:        cfg.PlaylistTable,
		maxSongs:     cfg.PlaylistMaxSongs,
		maxPlaylists: cfg.PlaylistMaxPlaylists,
		log:          log.With().Str("component", "playlist").Logger(),
	}
}

func userKey(userID string) string { return "playlist_" + userID }

func validate(name, userID string) error {
	if name == "" {
		return codedErrorf(CodeNameInvalid, "playlist name is required")
	}
	if len(name) > maxNameLength {
		return codedErrorf(CodeNameInvalid, "playlist name length cannot exceed %d characters", maxNameLength)
	}
	if userID == "" {
		return codedErrorf(CodeIDInvalid, "user id is required")
	}
	return nil
}

// Exists reports whether the user has a playlist with that name.
func (s *Store) Exists(name, userID string) bool {
	raw, ok := s.db.Get(s.table, name, userKey(userID))
	if !ok {
		return false
	}
	var tracks []*track.Track
	return json.Unmarshal([]byte(raw), &tracks) == nil
}

// Create makes a new empty playlist. It fails when the name is taken or the
// user is at the playlist cap.
func (s *Store) Create(name, userID string) error {
	if err := validate(name, userID); err != nil {
		return err
	}
	if s.Exists(name, userID) {
		return codedErrorf(CodeExists, "playlist %q already exists", name)
	}
	if s.Count(userID) >= s.maxPlaylists {
		return codedErrorf(CodeMaxPlaylists, "maximum playlist limit reached: %d", s.maxPlaylists)
	}
	return s.write(name, userID, []*track.Track{})
}

// Delete removes a playlist entirely.
func (s *Store) Delete(name, userID string) error {
	if err := validate(name, userID); err != nil {
		return err
	}
	if !s.Exists(name, userID) {
		return codedErrorf(CodeNotFound, "playlist %q not found", name)
	}
	s.db.Delete(s.table, name, userKey(userID))
	return nil
}

// Get returns the playlist's tracks.
func (s *Store) Get(name, userID string) ([]*track.Track, error) {
	if err := validate(name, userID); err != nil {
		return nil, err
	}
	raw, ok := s.db.Get(s.table, name, userKey(userID))
	if !ok {
		return nil, codedErrorf(CodeNotFound, "playlist %q not found", name)
	}
	var tracks []*track.Track
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil, codedErrorf(CodeNotFound, "playlist %q not found", name)
	}
	out := tracks[:0]
	for _, t := range tracks {
		if t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddTrack appends a track, enforcing the per-playlist song cap.
func (s *Store) AddTrack(name, userID string, t *track.Track) error {
	if err := validate(name, userID); err != nil {
		return err
	}
	if t == nil || t.Encoded == "" {
		return codedErrorf(CodeTrackInvalid, "invalid track")
	}
	tracks, err := s.Get(name, userID)
	if err != nil {
		return err
	}
	if len(tracks) >= s.maxSongs {
		return codedErrorf(CodeMaxSongs, "maximum songs limit reached: %d", s.maxSongs)
	}
	return s.write(name, userID, append(tracks, t))
}

// RemoveTrack drops the track at the 1-based position.
func (s *Store) RemoveTrack(name, userID string, position int) error {
	if err := validate(name, userID); err != nil {
		return err
	}
	tracks, err := s.Get(name, userID)
	if err != nil {
		return err
	}
	if position < 1 || position > len(tracks) {
		return codedErrorf(CodeTrackNotFound, "track not found in playlist")
	}
	tracks = append(tracks[:position-1], tracks[position:]...)
	return s.write(name, userID, tracks)
}

// GetTrack returns the track at the 1-based position.
func (s *Store) GetTrack(name, userID string, position int) (*track.Track, error) {
	if err := validate(name, userID); err != nil {
		return nil, err
	}
	tracks, err := s.Get(name, userID)
	if err != nil {
		return nil, err
	}
	if position < 1 || position > len(tracks) {
		return nil, codedErrorf(CodeTrackNotFound, "track not found in playlist")
	}
	return tracks[position-1], nil
}

// MoveTrack repositions a track between 1-based positions.
func (s *Store) MoveTrack(name, userID string, from, to int) error {
	if err := validate(name, userID); err != nil {
		return err
	}
	if from < 1 || to < 1 {
		return codedErrorf(CodePositionInvalid, "please provide a valid track position")
	}
	tracks, err := s.Get(name, userID)
	if err != nil {
		return err
	}
	if from > len(tracks) || to > len(tracks) {
		return codedErrorf(CodeTrackNotFound, "track not found in playlist")
	}
	t := tracks[from-1]
	tracks = append(tracks[:from-1], tracks[from:]...)
	tracks = append(tracks[:to-1], append([]*track.Track{t}, tracks[to-1:]...)...)
	return s.write(name, userID, tracks)
}

// Length returns the number of tracks in the playlist.
func (s *Store) Length(name, userID string) (int, error) {
	tracks, err := s.Get(name, userID)
	if err != nil {
		return 0, err
	}
	return len(tracks), nil
}

// Count returns how many playlists the user has.
func (s *Store) Count(userID string) int {
	if userID == "" {
		return 0
	}
	suffix := "_" + userKey(userID)
	rows := s.db.All(s.table, func(r datastore.Row) bool {
		return strings.HasSuffix(r.Key, suffix)
	})
	return len(rows)
}

// Show lists the user's playlists with their lengths.
func (s *Store) Show(userID string) ([]Summary, error) {
	if userID == "" {
		return nil, codedErrorf(CodeIDInvalid, "user id is required")
	}
	suffix := "_" + userKey(userID)
	rows := s.db.All(s.table, func(r datastore.Row) bool {
		return strings.HasSuffix(r.Key, suffix)
	})
	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		var tracks []*track.Track
		if err := json.Unmarshal([]byte(r.Value), &tracks); err != nil {
			s.log.Debug().Str("key", r.Key).Err(err).Msg("skipping unreadable playlist row")
			continue
		}
		out = append(out, Summary{
			Name:   strings.TrimSuffix(r.Key, suffix),
			Length: len(tracks),
		})
	}
	return out, nil
}

// Clear empties the playlist but keeps it.
func (s *Store) Clear(name, userID string) error {
	if err := validate(name, userID); err != nil {
		return err
	}
	if !s.Exists(name, userID) {
		return codedErrorf(CodeNotFound, "playlist %q not found", name)
	}
	return s.write(name, userID, []*track.Track{})
}

// Rename moves a playlist to a new name, keeping its tracks. The new name
// goes through the same validation and caps as Create.
func (s *Store) Rename(name, newName, userID string) error {
	if err := validate(name, userID); err != nil {
		return err
	}
	if err := validate(newName, userID); err != nil {
		return err
	}
	if s.Exists(newName, userID) {
		return codedErrorf(CodeExists, "playlist %q already exists", newName)
	}
	tracks, err := s.Get(name, userID)
	if err != nil {
		return err
	}
	if err := s.Delete(name, userID); err != nil {
		return err
	}
	if err := s.Create(newName, userID); err != nil {
		return err
	}
	return s.write(newName, userID, tracks)
}

func (s *Store) write(name, userID string, tracks []*track.Track) error {
	data, err := json.Marshal(tracks)
	if err != nil {
		return codedErrorf(CodeTrackInvalid, "playlist not serializable: %v", err)
	}
	s.db.Set(s.table, name, userKey(userID), string(data))
	return nil
}
