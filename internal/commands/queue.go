package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
)

const queuePageSize = 10

type queueCommand struct{ base }

func init() {
	register(&queueCommand{base{
		name:        "queue",
		description: "Show the pending queue",
		category:    categoryMusic,
	}}, core.WithGuildOnly(), core.WithSessionRequired())
}

func (c *queueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *queueCommand) Run(ctx *core.Context) error {
	d := ctx.Dispatcher()
	items := d.QueueSnapshot()

	var sb strings.Builder
	if cur := d.Current(); cur != nil {
		fmt.Fprintf(&sb, "**Now:** %s\n\n", trackLine(cur))
	}
	if len(items) == 0 {
		sb.WriteString("The queue is empty.")
	}
	for i, t := range items {
		if i == queuePageSize {
			fmt.Fprintf(&sb, "…and %d more", len(items)-queuePageSize)
			break
		}
		fmt.Fprintf(&sb, "`%2d.` %s\n", i+1, trackLine(t))
	}

	return core.RespondEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Queue (%d tracks)", len(items)),
		Description: sb.String(),
	})
}
