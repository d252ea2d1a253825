// Package telegram delivers reports through the Telegram Bot API.
//
// Short messages go out as a single HTML message. Messages over the
// chunk budget are sent as plain text parts to avoid splitting an HTML
// tag across messages.
package telegram

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/curvewatch/curvewatch/delivery"
)

// Channel sends reports to a single Telegram chat.
type Channel struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New creates a Telegram delivery channel. The token is validated
// against the Bot API.
func New(token string, chatID int64) (*Channel, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating Telegram bot: %w", err)
	}
	log.Printf("[telegram] authorized as @%s", api.Self.UserName)
	return &Channel{api: api, chatID: chatID}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string { return "telegram" }

// Send delivers one report message, splitting into plain-text parts
// when the HTML rendering exceeds the chunk budget.
func (c *Channel) Send(ctx context.Context, msg delivery.Message) error {
	length := utf8.RuneCountInString(msg.HTML)
	if length <= delivery.MaxChunk {
		return c.send(ctx, msg.HTML, true)
	}

	log.Printf("[telegram] message is %d chars, splitting into parts", length)
	for _, part := range delivery.Chunks(msg.Text, delivery.MaxChunk) {
		if err := c.send(ctx, part, false); err != nil {
			return err
		}
	}
	return nil
}

func (c *Channel) send(ctx context.Context, text string, useHTML bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := tgbotapi.NewMessage(c.chatID, text)
	m.DisableWebPagePreview = true
	if useHTML {
		m.ParseMode = tgbotapi.ModeHTML
	}

	if _, err := c.api.Send(m); err != nil {
		log.Printf("[telegram] send failed: %v", err)
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
