package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/lavaqueue/internal/core"
	"github.com/keshon/lavaqueue/internal/version"
)

type aboutCommand struct{ base }

func init() {
	register(&aboutCommand{base{
		name:        "about",
		description: "About this bot",
		category:    "ℹ️ Information",
	}})
}

func (c *aboutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *aboutCommand) Run(ctx *core.Context) error {
	return core.RespondEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s v%s", version.AppName, version.AppVersion),
		Description: version.AppDescription,
	})
}
