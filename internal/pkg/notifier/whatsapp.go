package notifier

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
)

// Opener hands a prepared deep link to whatever can open it.
type Opener func(ctx context.Context, link string) error

// LogOpener records the link so an operator or front end can open it.
func LogOpener(ctx context.Context, link string) error {
	slog.InfoContext(ctx, "whatsapp link ready", "link", link)
	return nil
}

// WhatsAppLink builds https://wa.me deep links.
type WhatsAppLink struct {
	open Opener
}

func NewWhatsAppLink(open Opener) *WhatsAppLink {
	if open == nil {
		open = LogOpener
	}
	return &WhatsAppLink{open: open}
}

func (w *WhatsAppLink) Name() string { return "whatsapp" }

func (w *WhatsAppLink) Send(ctx context.Context, msg notification.Message) error {
	link, err := WhatsAppURL(msg.Recipient, msg.Text)
	if err != nil {
		return err
	}
	return w.open(ctx, link)
}

// WhatsAppURL encodes text the way a browser's encodeURIComponent does.
func WhatsAppURL(recipient, text string) (string, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return "", notification.ErrEmptyRecipient
	}
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + url.PathEscape(recipient) + "?text=" + encoded, nil
}
