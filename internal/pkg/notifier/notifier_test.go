package notifier_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/notifier"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppURL(t *testing.T) {
	tests := []struct {
		name      string
		recipient string
		text      string
		want      string
		wantErr   error
	}{
		{
			name:      "check-in message",
			recipient: "0775814859",
			text:      "Shashikala checked IN at 08:05:00\nShop: SENANI KURUWITA",
			want:      "https://wa.me/0775814859?text=Shashikala%20checked%20IN%20at%2008%3A05%3A00%0AShop%3A%20SENANI%20KURUWITA",
		},
		{
			name:      "plus and ampersand are escaped",
			recipient: "94771234567",
			text:      "a+b & c",
			want:      "https://wa.me/94771234567?text=a%2Bb%20%26%20c",
		},
		{
			name:    "empty recipient",
			text:    "hi",
			wantErr: notification.ErrEmptyRecipient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := notifier.WhatsAppURL(tt.recipient, tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWhatsAppLink_Send(t *testing.T) {
	var opened string
	sink := notifier.NewWhatsAppLink(func(ctx context.Context, link string) error {
		opened = link
		return nil
	})

	err := sink.Send(context.Background(), notification.Message{Recipient: "0775814859", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/0775814859?text=hello", opened)
}

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegram_Send(t *testing.T) {
	bot := &fakeBot{}
	sink := notifier.NewTelegramWithSender(bot, 4242)

	require.NoError(t, sink.Send(context.Background(), notification.Message{Text: "payslip"}))
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(4242), msg.ChatID)
	assert.Equal(t, "payslip", msg.Text)

	bot.err = errors.New("forbidden")
	assert.Error(t, sink.Send(context.Background(), notification.Message{Text: "again"}))
}

func TestSlack_Send(t *testing.T) {
	var gotChannel, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotChannel = r.FormValue("channel")
		gotText = r.FormValue("text")

		w.Header().Set("Content-Type", "application/json")
		if gotChannel == "C-missing" {
			w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
			return
		}
		w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1700000000.000100"}`))
	}))
	defer srv.Close()

	sink := notifier.NewSlack("xoxb-test", "C123", slack.OptionAPIURL(srv.URL+"/"))
	require.NoError(t, sink.Send(context.Background(), notification.Message{Text: "daily summary"}))
	assert.Equal(t, "C123", gotChannel)
	assert.Equal(t, "daily summary", gotText)

	missing := notifier.NewSlack("xoxb-test", "C-missing", slack.OptionAPIURL(srv.URL+"/"))
	assert.Error(t, missing.Send(context.Background(), notification.Message{Text: "x"}))
}

func TestNew(t *testing.T) {
	sink, err := notifier.New(notifier.Config{Type: notifier.TypeNone})
	require.NoError(t, err)
	assert.Equal(t, "none", sink.Name())

	sink, err = notifier.New(notifier.Config{})
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", sink.Name())

	_, err = notifier.New(notifier.Config{Type: "pigeon"})
	assert.ErrorIs(t, err, notification.ErrUnknownSinkType)
}
