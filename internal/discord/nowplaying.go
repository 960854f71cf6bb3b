package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// DeleteOwnMessage deletes a chat message, but only when the bot authored
// it. Already-deleted messages are not an error.
func (b *Bot) DeleteOwnMessage(channelID, messageID string) error {
	msg, err := b.dg.ChannelMessage(channelID, messageID)
	if err != nil {
		if isUnknownMessage(err) {
			return nil
		}
		return err
	}
	if msg.Author == nil || msg.Author.ID != b.UserID() {
		return nil
	}

	if err := b.dg.ChannelMessageDelete(channelID, messageID); err != nil && !isUnknownMessage(err) {
		return err
	}
	return nil
}

func isUnknownMessage(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownMessage
	}
	return false
}
