package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"practice-automation/internal/leads"
	"practice-automation/internal/tasks"
)

var ErrNoWebhookURL = errors.New("notify: webhook url is required")

// WebhookMessenger posts {channel, text} JSON to a chat incoming-webhook URL.
// Any non-2xx answer is an error; there is no retry.
type WebhookMessenger struct {
	URL    string
	Client *http.Client
}

func NewWebhookMessenger(url string, timeout time.Duration) *WebhookMessenger {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookMessenger{URL: url, Client: &http.Client{Timeout: timeout}}
}

type webhookPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

func (m *WebhookMessenger) NotifyTaskCreated(ctx context.Context, l leads.Lead, ref tasks.Ref, mentions []string, channelID string) error {
	if m.URL == "" {
		return ErrNoWebhookURL
	}
	body, err := json.Marshal(webhookPayload{Channel: channelID, Text: FormatMessage(l, ref, mentions)})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("notify: webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
