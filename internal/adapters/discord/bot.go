package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"eventbot/internal/ports/input"
	pkgdiscord "eventbot/pkg/discord"
)

const (
	commandName    = "event"
	handlerTimeout = 10 * time.Second
)

// subcommands maps /event subcommands to home choices.
var subcommands = map[string]input.Choice{
	"create": input.ChoiceStartWizard,
	"list":   input.ChoiceList,
	"mine":   input.ChoiceMine,
	"help":   input.ChoiceHelp,
	"exit":   input.ChoiceHomeExit,
}

// Bot is the Discord adapter. Every interaction and message becomes one
// engine stimulus.
type Bot struct {
	session  *discordgo.Session
	engine   input.Engine
	renderer *Renderer
	logger   *zap.Logger
	guildID  string
	ctx      context.Context
}

func NewBot(token, guildID string, engine input.Engine, renderer *Renderer, logger *zap.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	bot := &Bot{
		session:  s,
		engine:   engine,
		renderer: renderer,
		logger:   logger,
		guildID:  guildID,
		ctx:      context.Background(),
	}
	s.AddHandler(bot.handleInteraction)
	s.AddHandler(bot.handleMessage)
	return bot, nil
}

// Start opens the gateway, registers /event and blocks until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer b.session.Close()

	if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, eventCommand()); err != nil {
		b.logger.Warn("register command failed", zap.String("command", commandName), zap.Error(err))
	}

	b.logger.Info("bot online", zap.String("user", b.session.State.User.Username))
	<-ctx.Done()
	return nil
}

func eventCommand() *discordgo.ApplicationCommand {
	sub := func(name, desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        name,
			Description: desc,
		}
	}
	return &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: "Plan events and manage attendance",
		Options: []*discordgo.ApplicationCommandOption{
			sub("create", "Create an event step by step"),
			sub("list", "Recent events here"),
			sub("mine", "Events you created"),
			sub("help", "How it works"),
			sub("exit", "Discard unfinished drafts"),
		},
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i.Interaction)
	if userID == "" {
		return
	}
	scopeID := scopeOf(i.GuildID, i.ChannelID)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		if data.Name != commandName || len(data.Options) == 0 {
			return
		}
		choice, ok := subcommands[data.Options[0].Name]
		if !ok {
			return
		}
		b.reply(s, i.Interaction, input.ChoiceStimulus(userID, scopeID, choice, ""), false)

	case discordgo.InteractionMessageComponent:
		choice, value, ok := decodeCustomID(i.MessageComponentData().CustomID)
		if !ok {
			return
		}
		if choice == choiceInput {
			b.openTextModal(s, i.Interaction, value)
			return
		}
		b.reply(s, i.Interaction, input.ChoiceStimulus(userID, scopeID, choice, value), true)

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		if data.CustomID != textModalID {
			return
		}
		text := pkgdiscord.ExtractModalValue(data, textInputID)
		b.reply(s, i.Interaction, input.TextStimulus(userID, scopeID, text), false)
	}
}

// handleMessage feeds free text to the engine. Text nobody is waiting for is
// ignored.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Content == "" {
		return
	}
	ctx, cancel := context.WithTimeout(b.ctx, handlerTimeout)
	defer cancel()

	stimulus := input.TextStimulus(m.Author.ID, scopeOf(m.GuildID, m.ChannelID), m.Content)
	p, err := b.engine.Handle(ctx, stimulus)
	if err != nil {
		b.logger.Error("handle message", zap.String("user_id", m.Author.ID), zap.Error(err))
		return
	}
	if p == nil {
		return
	}
	msg := b.renderer.Render(p)
	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:    msg.Content,
		Embeds:     embeds(msg),
		Components: msg.Components,
		Reference:  m.Reference(),
	})
	if err != nil {
		b.logger.Warn("send reply failed", zap.String("channel_id", m.ChannelID), zap.Error(err))
	}
	b.notifyPromotion(s, p)
}

// reply runs stimulus and answers the interaction. Component presses update
// the message they came from.
func (b *Bot) reply(s *discordgo.Session, i *discordgo.Interaction, stimulus input.Stimulus, update bool) {
	ctx, cancel := context.WithTimeout(b.ctx, handlerTimeout)
	defer cancel()

	p, err := b.engine.Handle(ctx, stimulus)
	if err != nil {
		b.logger.Error("handle interaction", zap.String("user_id", stimulus.UserID), zap.Error(err))
		respondEphemeral(s, i, b.renderer.Failure())
		return
	}
	if p == nil {
		respondEphemeral(s, i, b.renderer.Expired())
		return
	}
	msg := b.renderer.Render(p)
	respondMessage(s, i, msg, update)
	b.notifyPromotion(s, p)
}

// notifyPromotion tells a promoted waiter by direct message.
func (b *Bot) notifyPromotion(s *discordgo.Session, p *input.Prompt) {
	if p.Leave == nil || p.Leave.Promoted == nil {
		return
	}
	userID := p.Leave.Promoted.UserID
	if err := sendDM(s, userID, b.renderer.PromotionNotice()); err != nil {
		b.logger.Warn("promotion dm failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (b *Bot) openTextModal(s *discordgo.Session, i *discordgo.Interaction, promptName string) {
	title := []rune(b.renderer.tr("prompt."+promptName, nil))
	if len(title) > 45 {
		title = title[:45]
	}
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: textModalID,
			Title:    string(title),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: textInputID, Label: "✏️", Style: discordgo.TextInputShort, Required: true, MaxLength: 100},
				}},
			},
		},
	})
	if err != nil {
		b.logger.Warn("open modal failed", zap.Error(err))
	}
}
