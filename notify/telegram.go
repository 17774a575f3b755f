// Package notify sends deployment notifications to a Telegram chat.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ultrabuild/ultrabuild/domain"
)

const (
	DefaultTelegramAPIURL = "https://api.telegram.org"
	sendTimeout           = 10 * time.Second
)

// Telegram posts finished deployments to a chat through the Bot API
type Telegram struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
	wg      sync.WaitGroup
}

// NewTelegram creates a notifier. It returns a not configured error when the
// token or chat id is missing.
func NewTelegram(baseURL, token, chatID string, client *http.Client) (*Telegram, error) {
	if token == "" {
		return nil, domain.NotConfigured("TELEGRAM_BOT_TOKEN")
	}
	if chatID == "" {
		return nil, domain.NotConfigured("TELEGRAM_CHAT_ID")
	}
	if baseURL == "" {
		baseURL = DefaultTelegramAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: sendTimeout}
	}
	return &Telegram{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		client:  client,
	}, nil
}

// OnDeploymentEvent implements deploy.Observer. Only finished deployments are
// sent, asynchronously, so a slow Bot API never delays a deployment.
func (t *Telegram) OnDeploymentEvent(ctx context.Context, event domain.DeploymentEvent) {
	if event.Type == domain.DeploymentEventStarted {
		return
	}

	text := FormatEvent(event)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()
		if err := t.Send(sendCtx, text); err != nil {
			slog.Warn("Failed to send Telegram notification",
				"layer", "notify",
				"operation", "send",
				"deployment_id", event.DeploymentID,
				"error", err)
		}
	}()
}

// Wait blocks until pending notifications are sent
func (t *Telegram) Wait() {
	t.wg.Wait()
}

// Send posts text to the configured chat
func (t *Telegram) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]any{
		"chat_id":                  t.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return &domain.ExternalCallError{Service: "telegram", Operation: "sendMessage", Err: err}
	}
	defer resp.Body.Close()

	var decoded struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode != http.StatusOK || !decoded.OK {
		return &domain.ExternalCallError{
			Service:   "telegram",
			Operation: "sendMessage",
			Err:       fmt.Errorf("status %d: %s", resp.StatusCode, decoded.Description),
		}
	}
	return nil
}

// FormatEvent renders a deployment event as a chat message
func FormatEvent(event domain.DeploymentEvent) string {
	var b strings.Builder
	switch event.Type {
	case domain.DeploymentEventSuccess:
		b.WriteString("✅ Deployment succeeded")
	case domain.DeploymentEventFailed:
		b.WriteString("⚠️ Deployment failed")
	default:
		b.WriteString("❌ Deployment error")
	}
	fmt.Fprintf(&b, "\nProject: %s\nTarget: %s\nID: %s", event.ProjectName, event.Target, event.DeploymentID)
	if event.Result != nil {
		if event.Result.URL != "" {
			fmt.Fprintf(&b, "\nURL: %s", event.Result.URL)
		}
		fmt.Fprintf(&b, "\nDuration: %s", event.Result.Duration.Round(time.Millisecond))
	}
	if event.Error != "" {
		fmt.Fprintf(&b, "\nError: %s", event.Error)
	}
	return b.String()
}
