package player

import (
	"context"
	"errors"
	"testing"
)

func TestCreateValidation(t *testing.T) {
	m, _ := newTestManager(musicCfg())
	ctx := context.Background()

	cases := []struct {
		name string
		opts CreateOptions
		want error
	}{
		{"missing guild", CreateOptions{VoiceChannelID: "v", TextChannelID: "t"}, ErrNoGuild},
		{"missing voice channel", CreateOptions{GuildID: "g", TextChannelID: "t"}, ErrNoVoiceChannel},
		{"missing text channel", CreateOptions{GuildID: "g", VoiceChannelID: "v"}, ErrNoTextChannel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Create(ctx, tc.opts)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateNoNode(t *testing.T) {
	m, fm := newTestManager(musicCfg())
	fm.node = nil

	_, err := m.Create(context.Background(), CreateOptions{
		GuildID:        "g1",
		VoiceChannelID: "v1",
		TextChannelID:  "t1",
	})
	if !errors.Is(err, ErrNoNode) {
		t.Fatalf("expected ErrNoNode, got %v", err)
	}
}

func TestCreateJoinError(t *testing.T) {
	m, fm := newTestManager(musicCfg())
	fm.joinErr = errors.New("voice join refused")

	_, err := m.Create(context.Background(), CreateOptions{
		GuildID:        "g1",
		VoiceChannelID: "v1",
		TextChannelID:  "t1",
	})
	if err == nil {
		t.Fatal("expected join error to propagate")
	}
	if m.Has("g1") {
		t.Error("failed create must not register a dispatcher")
	}
}

func TestCreateIdempotent(t *testing.T) {
	m, fm := newTestManager(musicCfg())
	ctx := context.Background()
	opts := CreateOptions{GuildID: "g1", VoiceChannelID: "v1", TextChannelID: "t1", Deaf: true}

	first, err := m.Create(ctx, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Create(ctx, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected second create to return the existing dispatcher")
	}
	if len(fm.joined) != 1 {
		t.Errorf("expected exactly one voice join, got %d", len(fm.joined))
	}
	if !fm.joined[0].Deaf {
		t.Error("join options not forwarded")
	}
}

func TestCreateEmitsPlayerCreate(t *testing.T) {
	m, _ := newTestManager(musicCfg())
	rec := &eventRecorder{}
	m.On(EventPlayerCreate, rec.record)

	if _, err := m.Create(context.Background(), CreateOptions{
		GuildID:        "g1",
		VoiceChannelID: "v1",
		TextChannelID:  "t1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.has(EventPlayerCreate) {
		t.Error("expected playerCreate event")
	}
}

func TestGetHasDelete(t *testing.T) {
	m, _, _, _ := newTestSession(t, musicCfg())

	if !m.Has("g1") {
		t.Fatal("expected dispatcher for g1")
	}
	if m.Get("g1") == nil {
		t.Fatal("expected Get to return the dispatcher")
	}
	if m.Get("other") != nil {
		t.Error("expected nil for unknown guild")
	}

	m.Delete("g1")
	if m.Has("g1") {
		t.Error("expected dispatcher gone after delete")
	}
}
