package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramDeliverer sends each notification as a Telegram bot message.
type TelegramDeliverer struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramDeliverer uses a default client with an 8 second timeout when
// client is nil.
func NewTelegramDeliverer(botToken string, chatID string, client *http.Client) *TelegramDeliverer {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &TelegramDeliverer{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPIBase,
		client:   client,
	}
}

func (deliverer *TelegramDeliverer) Deliver(ctx context.Context, notification Notification) error {
	text := notification.Title
	if body := strings.TrimSpace(notification.Body); body != "" {
		text = text + "\n" + body
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", deliverer.baseURL, deliverer.botToken)
	form := url.Values{}
	form.Set("chat_id", deliverer.chatID)
	form.Set("text", text)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := deliverer.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// LogDeliverer writes notifications to the log. It is the fallback when no
// chat transport is configured.
type LogDeliverer struct {
	log logrus.FieldLogger
}

func NewLogDeliverer(log logrus.FieldLogger) *LogDeliverer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogDeliverer{log: log}
}

func (deliverer *LogDeliverer) Deliver(_ context.Context, notification Notification) error {
	deliverer.log.WithFields(logrus.Fields{
		"identifier": notification.Identifier,
		"trigger_at": notification.TriggerAt.Format(time.RFC3339),
		"body":       notification.Body,
	}).Info(notification.Title)
	return nil
}
