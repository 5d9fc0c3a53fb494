package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"creator-funnel/internal/common/config"
	"creator-funnel/internal/funnel"
)

// FormsRelay mirrors each submission into a Google Form so the
// response sheet stays the operator's source of truth.
type FormsRelay struct {
	cfg        config.FormsConfig
	httpClient *http.Client
}

func NewFormsRelay(cfg config.FormsConfig) *FormsRelay {
	return &FormsRelay{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Submit posts the answers as a urlencoded form response. Fields
// without a configured entry id are skipped.
func (f *FormsRelay) Submit(ctx context.Context, data funnel.FormData, result funnel.QualificationResult) error {
	if f.cfg.ActionURL == "" {
		return nil
	}

	form := url.Values{}
	for field, entryID := range f.cfg.Fields {
		if entryID == "" {
			continue
		}
		if value := fieldValue(data, field); value != "" {
			form.Set(entryID, value)
		}
	}
	if f.cfg.Qualified != "" {
		form.Set(f.cfg.Qualified, strconv.FormatBool(result.Qualified))
	}
	if f.cfg.Score != "" {
		form.Set(f.cfg.Score, strconv.Itoa(result.Score))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.ActionURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("form relay rejected (status %d)", resp.StatusCode)
	}
	return nil
}

func fieldValue(data funnel.FormData, field string) string {
	switch field {
	case "first_name":
		return data.FirstName
	case "last_name":
		return data.LastName
	case "email":
		return data.Email
	case "phone":
		return data.Phone
	case "utm_source":
		return data.UTMSource
	case "utm_medium":
		return data.UTMMedium
	case "utm_campaign":
		return data.UTMCampaign
	default:
		return data.Answer(field)
	}
}
