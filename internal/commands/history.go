package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

type historyCommand struct{ base }

func init() {
	register(&historyCommand{base{
		name:        "history",
		description: "Show recently played tracks",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *historyCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *historyCommand) Run(ctx *core.Context) error {
	items := ctx.Dispatcher().HistorySnapshot()
	if len(items) == 0 {
		return core.RespondEphemeral(ctx.Session, ctx.Event, "Nothing has played yet.")
	}

	var sb strings.Builder
	// Newest first.
	shown := 0
	for i := len(items) - 1; i >= 0 && shown < queuePageSize; i-- {
		fmt.Fprintf(&sb, "`%2d.` %s\n", shown+1, trackLine(items[i]))
		shown++
	}

	return core.RespondEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("History (%d tracks)", len(items)),
		Description: sb.String(),
	})
}
