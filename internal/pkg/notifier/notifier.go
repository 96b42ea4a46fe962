package notifier

import (
	"fmt"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
)

const (
	TypeWhatsApp = "whatsapp"
	TypeTelegram = "telegram"
	TypeSlack    = "slack"
	TypeNone     = "none"
)

type Config struct {
	Type           string
	TelegramToken  string
	TelegramChatID int64
	SlackToken     string
	SlackChannel   string
}

// New builds the sink selected by cfg.Type.
func New(cfg Config) (notification.Sink, error) {
	switch cfg.Type {
	case TypeWhatsApp, "":
		return NewWhatsAppLink(nil), nil
	case TypeTelegram:
		return NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	case TypeSlack:
		return NewSlack(cfg.SlackToken, cfg.SlackChannel), nil
	case TypeNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", notification.ErrUnknownSinkType, cfg.Type)
	}
}
