// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Client adapts the Telegram Bot API to the domain.PlatformClient
// capability. Inbound updates are classified into domain updates and
// forwarded over a channel; the channel is closed when the long poll
// stops, which the session router treats as fatal.
type Client struct {
	bot     *tgbot.Bot
	self    domain.User
	updates chan domain.Update
	logger  zerolog.Logger
}

// NewClient creates a new Telegram client and resolves the bot's own
// identity. A missing token or a failed identity lookup aborts startup.
func NewClient(token string, logger zerolog.Logger) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	c := &Client{
		updates: make(chan domain.Update, 64),
		logger:  logger,
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(c.handleUpdate),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	me, err := bot.GetMe(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bot identity: %w", err)
	}

	c.bot = bot
	c.self = domain.User{ID: domain.UserID(me.ID), Username: me.Username}

	logger.Info().Str("username", me.Username).Msg("Telegram bot created successfully")

	return c, nil
}

// Start starts the update long poll (blocking call). The update channel
// is closed on return.
func (c *Client) Start(ctx context.Context) {
	c.logger.Info().Msg("Starting Telegram bot...")
	c.bot.Start(ctx)
	close(c.updates)
	c.logger.Info().Msg("Telegram bot stopped")
}

// Updates returns the live update stream.
func (c *Client) Updates() <-chan domain.Update {
	return c.updates
}

// Self returns the bot's own identity.
func (c *Client) Self() domain.User {
	return c.self
}

// Send sends a text message to a chat.
func (c *Client) Send(ctx context.Context, chat domain.ChatID, text string, html bool) error {
	params := &tgbot.SendMessageParams{
		ChatID: int64(chat),
		Text:   text,
	}
	if html {
		params.ParseMode = models.ParseModeHTML
	}

	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendDocument sends a document to a chat by URL.
func (c *Client) SendDocument(ctx context.Context, chat domain.ChatID, url string) error {
	params := &tgbot.SendDocumentParams{
		ChatID:   int64(chat),
		Document: &models.InputFileString{Data: url},
	}

	if _, err := c.bot.SendDocument(ctx, params); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

// GetAdministrators fetches the administrator list of a group-like chat.
func (c *Client) GetAdministrators(ctx context.Context, chat domain.ChatID) ([]domain.UserID, error) {
	members, err := c.bot.GetChatAdministrators(ctx, &tgbot.GetChatAdministratorsParams{
		ChatID: int64(chat),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat administrators: %w", err)
	}

	admins := make([]domain.UserID, 0, len(members))
	for _, member := range members {
		switch {
		case member.Owner != nil:
			admins = append(admins, domain.UserID(member.Owner.User.ID))
		case member.Administrator != nil:
			admins = append(admins, domain.UserID(member.Administrator.User.ID))
		}
	}
	return admins, nil
}

// handleUpdate classifies a raw Telegram update and forwards it to the
// update stream. Unrecognized update kinds are dropped.
func (c *Client) handleUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	converted, ok := c.convert(update)
	if !ok {
		return
	}

	select {
	case c.updates <- converted:
	case <-ctx.Done():
	}
}

func (c *Client) convert(update *models.Update) (domain.Update, bool) {
	if member := update.MyChatMember; member != nil {
		switch member.NewChatMember.Type {
		case models.ChatMemberTypeLeft, models.ChatMemberTypeBanned:
			chat := convertChat(member.Chat)
			return domain.Update{BotRemoved: &chat}, true
		}
		return domain.Update{}, false
	}

	if msg := update.Message; msg != nil {
		if left := msg.LeftChatMember; left != nil && domain.UserID(left.ID) == c.self.ID {
			chat := convertChat(msg.Chat)
			return domain.Update{BotRemoved: &chat}, true
		}

		var from domain.UserID
		if msg.From != nil {
			from = domain.UserID(msg.From.ID)
		}
		return domain.Update{Message: &domain.Message{
			Chat: convertChat(msg.Chat),
			From: from,
			Text: msg.Text,
		}}, true
	}

	return domain.Update{}, false
}

func convertChat(chat models.Chat) domain.Chat {
	return domain.Chat{
		ID:      domain.ChatID(chat.ID),
		Private: chat.Type == "private",
	}
}
