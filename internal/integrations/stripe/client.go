// internal/integrations/stripe/client.go
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the Stripe REST API with form-encoded requests.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// Recurring describes the billing cadence for a subscription line item.
type Recurring struct {
	Interval      string
	IntervalCount int
}

// LineItem is a single priced item on a checkout session.
type LineItem struct {
	Name        string
	AmountCents int64
	Currency    string
	Quantity    int
	Recurring   *Recurring
}

// SessionParams are the inputs to a hosted checkout session.
type SessionParams struct {
	Mode                 string
	LineItems            []LineItem
	SuccessURL           string
	CancelURL            string
	CustomerEmail        string
	AllowPromotionCodes  bool
	Metadata             map[string]string
	SubscriptionMetadata map[string]string
}

// Session is a checkout session as returned by Stripe.
type Session struct {
	ID              string            `json:"id"`
	URL             string            `json:"url"`
	Mode            string            `json:"mode"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
	AmountTotal int64 `json:"amount_total"`
}

func NewClient(secretKey, baseURL string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateCheckoutSession opens a hosted checkout session and returns it
// with the redirect URL populated.
func (c *Client) CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", params.Mode)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	if params.AllowPromotionCodes {
		form.Set("allow_promotion_codes", "true")
	}

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", item.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.AmountCents, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Recurring != nil {
			form.Set(prefix+"[price_data][recurring][interval]", item.Recurring.Interval)
			form.Set(prefix+"[price_data][recurring][interval_count]", strconv.Itoa(item.Recurring.IntervalCount))
		}
	}

	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}
	for key, value := range params.SubscriptionMetadata {
		form.Set(fmt.Sprintf("subscription_data[metadata][%s]", key), value)
	}

	var session Session
	if err := c.doForm(ctx, http.MethodPost, "/checkout/sessions", form, &session); err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &session, nil
}

// RetrieveSession fetches an existing checkout session by id.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	path := "/checkout/sessions/" + url.PathEscape(sessionID)
	if err := c.doForm(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, fmt.Errorf("failed to retrieve session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
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

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
