// internal/integrations/whatsapp/client.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client sends WhatsApp messages through an OpenClaw gateway instance.
type Client struct {
	gatewayURL   string
	gatewayToken string
	httpClient   *http.Client
}

func NewClient(gatewayURL, gatewayToken string) *Client {
	return &Client{
		gatewayURL:   gatewayURL,
		gatewayToken: gatewayToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendMessage delivers text to a phone number in E.164 form.
func (c *Client) SendMessage(ctx context.Context, phone, text string) error {
	payload := map[string]string{
		"to":      phone,
		"message": text,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/api/message/send", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.gatewayToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway send failed (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
