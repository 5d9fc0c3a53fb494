// internal/integrations/sheets/client.go
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client reads and writes Google Sheets ranges with a bearer token.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// CellUpdate writes a single value into an A1-notation range.
type CellUpdate struct {
	Range string
	Value string
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

func NewClient(accessToken, baseURL string) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetValues fetches the cell grid for an A1-notation range.
func (c *Client) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s", c.baseURL, spreadsheetID, url.PathEscape(readRange))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to read range %s (status %d): %s", readRange, resp.StatusCode, string(body))
	}

	var values valuesResponse
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return values.Values, nil
}

// BatchUpdate writes each cell update in a single batchUpdate call.
func (c *Client) BatchUpdate(ctx context.Context, spreadsheetID string, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]map[string]interface{}, 0, len(updates))
	for _, update := range updates {
		data = append(data, map[string]interface{}{
			"range":  update.Range,
			"values": [][]string{{update.Value}},
		})
	}

	payload := map[string]interface{}{
		"valueInputOption": "USER_ENTERED",
		"data":             data,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal batch update: %w", err)
	}

	u := fmt.Sprintf("%s/spreadsheets/%s/values:batchUpdate", c.baseURL, spreadsheetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("batch update failed (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
