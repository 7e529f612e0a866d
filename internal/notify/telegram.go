package notify

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Notifier delivers a text message to a patient's chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

type Telegram struct {
	bot *tgbotapi.BotAPI
	log *logrus.Logger
}

func NewTelegram(token string, log *logrus.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: telegram login: %w", err)
	}
	return &Telegram{bot: bot, log: log}, nil
}

// NewTelegramWithEndpoint points the bot at another API host. endpoint uses
// the "%s/%s" token/method form of tgbotapi.APIEndpoint.
func NewTelegramWithEndpoint(token, endpoint string, client *http.Client, log *logrus.Logger) (*Telegram, error) {
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("notify: telegram login: %w", err)
	}
	return &Telegram{bot: bot, log: log}, nil
}

func (t *Telegram) Notify(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("notify: send to %d: %w", chatID, err)
	}
	t.log.WithField("chat_id", chatID).Debug("telegram message sent")
	return nil
}

// LogNotifier only logs. It is used when no bot token is configured.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n LogNotifier) Notify(_ context.Context, chatID int64, text string) error {
	n.Log.WithField("chat_id", chatID).Info("notification skipped: telegram disabled")
	return nil
}
