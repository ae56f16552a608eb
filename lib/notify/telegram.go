package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// telegramAPI is the slice of the bot client the sender needs.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender pushes the notification to one bot chat. Destination phone
// numbers don't apply here; the chat id comes from config.
type TelegramSender struct {
	api    telegramAPI
	chatID int64
	log    *logrus.Entry
}

func NewTelegramSender(api telegramAPI, chatID int64, log *logrus.Entry) *TelegramSender {
	if log == nil {
		log = df.Log
	}
	return &TelegramSender{
		api:    api,
		chatID: chatID,
		log:    log,
	}
}

func newTelegramSenderFromConfig(log *logrus.Entry) (Sender, error) {
	token := viper.GetString("telegram.token")
	chatID := viper.GetInt64("telegram.chat")

	missing := []string{}
	if token == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if chatID == 0 {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}

	// NewBotAPI authenticates against the bot API, so a bad token fails here
	// rather than on the first notification
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	return NewTelegramSender(bot, chatID, log), nil
}

func (t *TelegramSender) Name() string { return "telegram" }

func (t *TelegramSender) Send(_ context.Context, _ []string, message string) error {
	sent, err := t.api.Send(tgbotapi.NewMessage(t.chatID, message))
	if err != nil {
		return err
	}
	t.log.WithFields(logrus.Fields{
		"telegram.chat":       t.chatID,
		"telegram.message.id": sent.MessageID,
	}).Info("Telegram message sent")
	return nil
}
