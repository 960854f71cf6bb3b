package discord

import (
	"context"
	"time"

	"github.com/keshon/lavaqueue/internal/music/player"
)

// startIdleWatch disconnects a drained session after the configured idle
// timeout. The job is named per guild so a new track cancels it cleanly.
func (b *Bot) startIdleWatch(d *player.Dispatcher) {
	timeout := time.Duration(b.cfg.Music.IdleTimeout) * time.Second
	if timeout <= 0 {
		return
	}
	guildID := d.GuildID()

	err := b.jobs.StartAsync("idle:"+guildID, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(timeout):
		}
		if d.Current() != nil || d.QueueLen() > 0 {
			return nil
		}
		b.log.Info().Str("guild", guildID).Dur("timeout", timeout).Msg("idle timeout, leaving voice")
		d.Destroy()
		return nil
	})
	if err != nil {
		b.log.Debug().Err(err).Str("guild", guildID).Msg("idle watch already running")
	}
}

func (b *Bot) stopIdleWatch(guildID string) {
	// Not running is fine, the watch only exists after a queue end.
	_ = b.jobs.Stop("idle:" + guildID)
}
