package discord

import (
	"github.com/bwmarrin/discordgo"
)

// interactionUserID is the member's user in a guild, the user in a DM.
func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// scopeOf partitions events by guild, or by channel outside guilds.
func scopeOf(guildID, channelID string) string {
	if guildID != "" {
		return guildID
	}
	return channelID
}

func respondMessage(s *discordgo.Session, i *discordgo.Interaction, msg Message, update bool) {
	typ := discordgo.InteractionResponseChannelMessageWithSource
	var flags discordgo.MessageFlags = discordgo.MessageFlagsEphemeral
	if update {
		typ = discordgo.InteractionResponseUpdateMessage
		flags = 0
	}
	components := msg.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: typ,
		Data: &discordgo.InteractionResponseData{
			Content:    msg.Content,
			Embeds:     embeds(msg),
			Components: components,
			Flags:      flags,
		},
	})
}

// embeds is never nil so an update clears the card of the previous prompt.
func embeds(msg Message) []*discordgo.MessageEmbed {
	if msg.Embed == nil {
		return []*discordgo.MessageEmbed{}
	}
	return []*discordgo.MessageEmbed{msg.Embed}
}

func respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func sendDM(s *discordgo.Session, userID, content string) error {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSend(ch.ID, content)
	return err
}
