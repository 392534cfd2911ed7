// Package notify pushes the payments message to the club's Telegram chat.
package notify

import (
	"strconv"

	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram builds the announcer. token and chatID come from config;
// the caller skips construction entirely when they are unset.
func NewTelegram(token, chatID string) (*Telegram, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "TELEGRAM_CHAT_ID %q", chatID)
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram")
	}
	bot.Debug = false
	return &Telegram{bot: bot, chatID: id}, nil
}

func (t *Telegram) Announce(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.bot.Send(msg)
	return err
}
