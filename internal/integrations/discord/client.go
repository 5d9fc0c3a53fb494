// internal/integrations/discord/client.go
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Discord bot API and to incoming webhooks.
type Client struct {
	botToken   string
	baseURL    string
	httpClient *http.Client
}

type inviteResponse struct {
	Code string `json:"code"`
}

func NewClient(botToken, baseURL string) *Client {
	return &Client{
		botToken: botToken,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateInvite mints a single-use invite to channelID that expires in
// seven days, and returns the full invite URL.
func (c *Client) CreateInvite(ctx context.Context, channelID string) (string, error) {
	payload := map[string]interface{}{
		"max_age":  604800,
		"max_uses": 1,
		"unique":   true,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal invite payload: %w", err)
	}

	url := fmt.Sprintf("%s/channels/%s/invites", c.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create invite (status %d): %s", resp.StatusCode, string(body))
	}

	var invite inviteResponse
	if err := json.Unmarshal(body, &invite); err != nil {
		return "", fmt.Errorf("failed to unmarshal invite response: %w", err)
	}
	if invite.Code == "" {
		return "", fmt.Errorf("invite response missing code")
	}

	return "https://discord.gg/" + invite.Code, nil
}

// PostWebhookMessage sends content to a Discord incoming webhook URL.
// No bot token is needed; the URL itself is the credential.
func (c *Client) PostWebhookMessage(ctx context.Context, webhookURL, content string) error {
	payload := map[string]string{"content": content}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook post failed (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
