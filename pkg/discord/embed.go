package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
)

const embedColor = 0x5865F2

func Mention(userID string) string {
	return "<@" + userID + ">"
}

// FormatMentions joins the participants' mentions in the order given.
func FormatMentions(participants []entities.Participant) string {
	mentions := make([]string, len(participants))
	for i, p := range participants {
		mentions[i] = Mention(p.UserID)
	}
	return strings.Join(mentions, " ")
}

// BuildEventEmbed builds the event card. Each line is one already translated
// field; footer may be empty.
func BuildEventEmbed(title string, lines []string, footer string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📅 " + title,
		Description: strings.Join(lines, "\n"),
		Color:       embedColor,
	}
	if footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	return embed
}
