package channel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"jarvis/internal/domain"
)

const (
	discordMaxMsgLen = 2000
)

// Discord implements domain.Channel for Discord.
type Discord struct {
	token   string
	guildID string
	session *discordgo.Session
	bus     domain.MessageBus
	logger  *slog.Logger
}

// DiscordConfig configures the Discord channel.
type DiscordConfig struct {
	Token   string
	GuildID string
	Logger  *slog.Logger
}

// NewDiscord creates a new Discord channel handler.
func NewDiscord(cfg DiscordConfig) *Discord {
	return &Discord{
		token:   cfg.Token,
		guildID: cfg.GuildID,
		logger:  cfg.Logger,
	}
}

func (d *Discord) Name() string { return "discord" }

// Start connects to Discord using a bot token and begins listening.
func (d *Discord) Start(ctx context.Context, bus domain.MessageBus) error {
	d.bus = bus

	session, err := discordgo.New("Bot " + d.token)
	if err != nil {
		return fmt.Errorf("discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	d.session = session

	// Register outbound handler.
	bus.OnOutbound("discord", func(msg domain.OutboundMessage) {
		d.sendMessage(msg.ChatID, RenderResult(msg.Result))
	})

	// Register message handler.
	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Ignore bot's own messages.
		if m.Author.ID == s.State.User.ID {
			return
		}

		// If guildID is set, filter messages.
		if d.guildID != "" && m.GuildID != d.guildID {
			return
		}

		d.logger.Info("discord message received",
			"author", m.Author.Username,
			"channel_id", m.ChannelID,
			"content_len", len(m.Content),
		)

		bus.Publish(domain.InboundMessage{
			Channel:   "discord",
			ChatID:    m.ChannelID,
			SenderID:  m.Author.ID,
			Utterance: m.Content,
			Timestamp: time.Now(),
		})
	})

	// Register slash commands handler.
	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := i.ApplicationCommandData()
		content := "/" + data.Name
		for _, opt := range data.Options {
			if opt.Type == discordgo.ApplicationCommandOptionString {
				content += " " + opt.StringValue()
			}
		}
		// /jarvis <utterance> is interpreted directly, without the command prefix.
		if data.Name == "jarvis" && len(content) > len("/jarvis ") {
			content = content[len("/jarvis "):]
		}

		// Acknowledge interaction.
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		})

		bus.Publish(domain.InboundMessage{
			Channel:   "discord",
			ChatID:    i.ChannelID,
			SenderID:  i.Member.User.ID,
			Utterance: content,
			Timestamp: time.Now(),
		})
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("discord connect: %w", err)
	}

	d.logger.Info("discord bot connected", "user", session.State.User.Username)

	// Register slash commands.
	d.registerSlashCommands()

	// Wait for context cancellation.
	<-ctx.Done()
	d.logger.Info("discord bot disconnecting")
	return session.Close()
}

func (d *Discord) Stop() error { return nil }

func (d *Discord) sendMessage(channelID, content string) {
	// Split long messages.
	chunks := splitMessage(content, discordMaxMsgLen)
	for _, chunk := range chunks {
		if _, err := d.session.ChannelMessageSend(channelID, chunk); err != nil {
			d.logger.Error("discord send failed", "channel", channelID, "err", err)
		}
	}
}

func (d *Discord) registerSlashCommands() {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "jarvis",
			Description: "Give Jarvis a voice command",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "utterance",
					Description: "What to do, e.g. call mom",
					Required:    true,
				},
			},
		},
		{
			Name:        "status",
			Description: "Show assistant status",
		},
		{
			Name:        "help",
			Description: "Show available commands",
		},
	}

	guildID := d.guildID // empty = global commands
	for _, cmd := range commands {
		_, err := d.session.ApplicationCommandCreate(d.session.State.User.ID, guildID, cmd)
		if err != nil {
			d.logger.Warn("failed to register slash command", "command", cmd.Name, "err", err)
		}
	}
}
