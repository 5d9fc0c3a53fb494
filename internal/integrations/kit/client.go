// internal/integrations/kit/client.go
package kit

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

// Client talks to the Kit (ConvertKit) v4 API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Subscriber is the slice of a Kit subscriber record the funnel uses.
type Subscriber struct {
	ID           int64             `json:"id"`
	EmailAddress string            `json:"email_address"`
	FirstName    string            `json:"first_name,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
}

type subscriberEnvelope struct {
	Subscriber Subscriber `json:"subscriber"`
}

type subscriberListEnvelope struct {
	Subscribers []Subscriber `json:"subscribers"`
	Pagination  struct {
		HasNextPage bool   `json:"has_next_page"`
		EndCursor   string `json:"end_cursor"`
	} `json:"pagination"`
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UpsertSubscriber creates or updates a subscriber by email address.
// Custom fields are merged into the existing record on update.
func (c *Client) UpsertSubscriber(ctx context.Context, email, firstName string, fields map[string]string) (*Subscriber, error) {
	payload := map[string]interface{}{
		"email_address": email,
	}
	if firstName != "" {
		payload["first_name"] = firstName
	}
	if len(fields) > 0 {
		payload["fields"] = fields
	}

	var envelope subscriberEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/subscribers", payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to upsert subscriber: %w", err)
	}
	return &envelope.Subscriber, nil
}

// TagSubscriberByEmail attaches tagID to the subscriber with the given
// email address. The subscriber must already exist.
func (c *Client) TagSubscriberByEmail(ctx context.Context, tagID, email string) error {
	payload := map[string]interface{}{
		"email_address": email,
	}
	path := fmt.Sprintf("/tags/%s/subscribers", tagID)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("failed to tag subscriber %s: %w", email, err)
	}
	return nil
}

// TagSubscriberByID attaches tagID to a subscriber by numeric id.
func (c *Client) TagSubscriberByID(ctx context.Context, tagID string, subscriberID int64) error {
	path := fmt.Sprintf("/tags/%s/subscribers/%d", tagID, subscriberID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("failed to tag subscriber %d: %w", subscriberID, err)
	}
	return nil
}

// LookupSubscriber finds a subscriber by exact email address. Returns
// nil when no subscriber matches.
func (c *Client) LookupSubscriber(ctx context.Context, email string) (*Subscriber, error) {
	path := "/subscribers?email_address=" + url.QueryEscape(email)

	var envelope subscriberListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("failed to look up subscriber: %w", err)
	}
	if len(envelope.Subscribers) == 0 {
		return nil, nil
	}
	return &envelope.Subscribers[0], nil
}

// ListSubscribersByTag pages through every subscriber carrying tagID.
func (c *Client) ListSubscribersByTag(ctx context.Context, tagID string) ([]Subscriber, error) {
	var all []Subscriber
	cursor := ""

	for {
		path := fmt.Sprintf("/tags/%s/subscribers?per_page=100", tagID)
		if cursor != "" {
			path += "&after=" + url.QueryEscape(cursor)
		}

		var envelope subscriberListEnvelope
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &envelope); err != nil {
			return nil, fmt.Errorf("failed to list subscribers for tag %s: %w", tagID, err)
		}

		all = append(all, envelope.Subscribers...)
		if !envelope.Pagination.HasNextPage || envelope.Pagination.EndCursor == "" {
			break
		}
		cursor = envelope.Pagination.EndCursor
	}

	return all, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Kit-Api-Key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
