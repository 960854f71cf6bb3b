package playlist

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keshon/lavaqueue/datastore"
	"github.com/keshon/lavaqueue/internal/config"
	"github.com/keshon/lavaqueue/internal/music/track"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := datastore.New(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("create datastore: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Music{
		PlaylistTable:        "playlist",
		PlaylistMaxSongs:     3,
		PlaylistMaxPlaylists: 2,
	}
	return NewStore(db, cfg, zerolog.Nop())
}

func tr(title string) *track.Track {
	return &track.Track{
		Encoded: "enc:" + title,
		Info:    track.Info{Title: title},
	}
}

func TestCreateAndExists(t *testing.T) {
	s := newTestStore(t)

	if s.Exists("mix", "u1") {
		t.Fatal("playlist must not exist yet")
	}
	if err := s.Create("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Exists("mix", "u1") {
		t.Error("expected playlist to exist after create")
	}
	if s.Exists("mix", "u2") {
		t.Error("playlists are per user")
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.Create("mix", "u1")
	if ErrCode(err) != CodeExists {
		t.Errorf("expected %s, got %v", CodeExists, err)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestStore(t)

	if err := s.Create("", "u1"); ErrCode(err) != CodeNameInvalid {
		t.Errorf("expected %s for empty name, got %v", CodeNameInvalid, err)
	}
	long := strings.Repeat("x", 256)
	if err := s.Create(long, "u1"); ErrCode(err) != CodeNameInvalid {
		t.Errorf("expected %s for oversized name, got %v", CodeNameInvalid, err)
	}
	if err := s.Create("mix", ""); ErrCode(err) != CodeIDInvalid {
		t.Errorf("expected %s for empty user, got %v", CodeIDInvalid, err)
	}
}

func TestPlaylistCap(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("one", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Create("two", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.Create("three", "u1")
	if ErrCode(err) != CodeMaxPlaylists {
		t.Errorf("expected %s, got %v", CodeMaxPlaylists, err)
	}
	// Another user is unaffected by the cap.
	if err := s.Create("one", "u2"); err != nil {
		t.Errorf("unexpected error for other user: %v", err)
	}
}

func TestAddGetRemoveTrack(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.AddTrack("mix", "u1", tr("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddTrack("mix", "u1", tr("b")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetTrack("mix", "u1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Info.Title != "a" {
		t.Errorf("expected first track a, got %s", got.Info.Title)
	}

	if _, err := s.GetTrack("mix", "u1", 3); ErrCode(err) != CodeTrackNotFound {
		t.Errorf("expected %s for position past the end, got %v", CodeTrackNotFound, err)
	}
	if _, err := s.GetTrack("mix", "u1", 0); ErrCode(err) != CodeTrackNotFound {
		t.Errorf("expected %s for position zero, got %v", CodeTrackNotFound, err)
	}

	if err := s.RemoveTrack("mix", "u1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := s.Length("mix", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected length 1 after remove, got %d", n)
	}
	got, err = s.GetTrack("mix", "u1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Info.Title != "b" {
		t.Errorf("expected b promoted to first, got %s", got.Info.Title)
	}
}

func TestAddTrackValidation(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.AddTrack("mix", "u1", nil); ErrCode(err) != CodeTrackInvalid {
		t.Errorf("expected %s for nil track, got %v", CodeTrackInvalid, err)
	}
	if err := s.AddTrack("mix", "u1", &track.Track{}); ErrCode(err) != CodeTrackInvalid {
		t.Errorf("expected %s for empty encoded, got %v", CodeTrackInvalid, err)
	}
	if err := s.AddTrack("missing", "u1", tr("a")); ErrCode(err) != CodeNotFound {
		t.Errorf("expected %s for missing playlist, got %v", CodeNotFound, err)
	}
}

func TestSongCap(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, title := range []string{"a", "b", "c"} {
		if err := s.AddTrack("mix", "u1", tr(title)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	err := s.AddTrack("mix", "u1", tr("d"))
	if ErrCode(err) != CodeMaxSongs {
		t.Errorf("expected %s, got %v", CodeMaxSongs, err)
	}
}

func TestMoveTrack(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, title := range []string{"a", "b", "c"} {
		if err := s.AddTrack("mix", "u1", tr(title)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := s.MoveTrack("mix", "u1", 3, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tracks, err := s.Get("mix", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracks[0].Info.Title != "c" || tracks[1].Info.Title != "a" || tracks[2].Info.Title != "b" {
		t.Errorf("expected [c a b], got [%s %s %s]",
			tracks[0].Info.Title, tracks[1].Info.Title, tracks[2].Info.Title)
	}

	if err := s.MoveTrack("mix", "u1", 0, 1); ErrCode(err) != CodePositionInvalid {
		t.Errorf("expected %s for zero position, got %v", CodePositionInvalid, err)
	}
	if err := s.MoveTrack("mix", "u1", 1, 9); ErrCode(err) != CodeTrackNotFound {
		t.Errorf("expected %s for position past the end, got %v", CodeTrackNotFound, err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Exists("mix", "u1") {
		t.Error("expected playlist gone after delete")
	}
	if err := s.Delete("mix", "u1"); ErrCode(err) != CodeNotFound {
		t.Errorf("expected %s, got %v", CodeNotFound, err)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddTrack("mix", "u1", tr("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Clear("mix", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := s.Length("mix", "u1")
	if err != nil {
		t.Fatalf("expected playlist kept after clear: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty playlist, got %d tracks", n)
	}
}

func TestRenameKeepsTracks(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("old", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddTrack("old", "u1", tr("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Rename("old", "new", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Exists("old", "u1") {
		t.Error("expected old name gone")
	}
	tracks, err := s.Get("new", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Info.Title != "a" {
		t.Error("expected tracks carried over to the new name")
	}
}

func TestRenameToTakenName(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("one", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Create("two", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Rename("one", "two", "u1"); ErrCode(err) != CodeExists {
		t.Errorf("expected %s, got %v", CodeExists, err)
	}
	if !s.Exists("one", "u1") {
		t.Error("failed rename must keep the source playlist")
	}
}

func TestShowAndCount(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create("alpha", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Create("beta", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddTrack("beta", "u1", tr("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Create("gamma", "u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.Count("u1"); got != 2 {
		t.Errorf("expected count 2, got %d", got)
	}

	list, err := s.Show("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 playlists, got %d", len(list))
	}
	if list[0].Name != "alpha" || list[0].Length != 0 {
		t.Errorf("unexpected first summary %+v", list[0])
	}
	if list[1].Name != "beta" || list[1].Length != 1 {
		t.Errorf("unexpected second summary %+v", list[1])
	}

	if _, err := s.Show(""); ErrCode(err) != CodeIDInvalid {
		t.Errorf("expected %s for empty user, got %v", CodeIDInvalid, err)
	}
}
