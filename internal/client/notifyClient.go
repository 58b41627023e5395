package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"winnerstore/internal/config"
	"winnerstore/internal/logger"
	"winnerstore/internal/model"
)

// NotifyClient posts new contact messages to an external webhook.
// Best-effort: failures are logged and dropped.
type NotifyClient interface {
	NotifyContactMessage(message *model.ContactMessage)
}

type notifyClientImpl struct {
	httpClient *http.Client
	webhookURL string
	log        *logger.Logger
}

func NewNotifyClient(notifyCfg *config.Notify, log *logger.Logger) NotifyClient {
	return &notifyClientImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		webhookURL: notifyCfg.WebhookURL,
		log:        log,
	}
}

func (c *notifyClientImpl) NotifyContactMessage(message *model.ContactMessage) {
	if c.webhookURL == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.send(ctx, message); err != nil {
			c.log.WithField("message_id", message.ID).
				Warnf("contact notification failed: %v", err)
		}
	}()
}

func (c *notifyClientImpl) send(ctx context.Context, message *model.ContactMessage) error {
	payload := map[string]interface{}{
		"type":    "contact_message",
		"name":    message.Name,
		"email":   message.Email,
		"subject": message.Subject,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
