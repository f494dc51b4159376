// Package notify delivers added-to-list notifications through a
// Telegram bot. Delivery is best-effort; the add flow logs failures and
// moves on.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends item notifications to a fixed chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return newTelegram(bot, chatID), nil
}

func newTelegram(bot *tgbotapi.BotAPI, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

// ItemAdded announces that an item landed on a list.
func (t *Telegram) ItemAdded(_ context.Context, itemLabel, listLabel string) error {
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("Added %q to %s", itemLabel, listLabel))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
