package webhooks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-funnel/internal/common/errors"
	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/integrations/stripe"
	"creator-funnel/internal/notify"
)

type stubTagger struct {
	calls []string // "tagID:email"
	err   error
}

func (s *stubTagger) TagSubscriberByEmail(_ context.Context, tagID, email string) error {
	s.calls = append(s.calls, tagID+":"+email)
	return s.err
}

type recordingNotifier struct {
	name string
	sent []string
	err  error
}

func (r *recordingNotifier) Name() string { return r.name }

func (r *recordingNotifier) Send(_ context.Context, message string) error {
	r.sent = append(r.sent, message)
	return r.err
}

const webhookSecret = "whsec_test"

func newStripeProcessor(t *testing.T, crm *stubTagger, channel *recordingNotifier) *StripeProcessor {
	t.Helper()
	log := logger.NewTestLogger(t)
	p := NewStripeProcessor(webhookSecret, "8240961", crm, notify.NewDispatcher(log, channel), log)
	p.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func signedAt(payload []byte, at time.Time) string {
	return stripe.SignPayload(payload, webhookSecret, at)
}

func TestStripeProcessorCheckoutCompleted(t *testing.T) {
	crm := &stubTagger{}
	channel := &recordingNotifier{name: "discord"}
	p := newStripeProcessor(t, crm, channel)

	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_abc",
			"amount_total": 350000,
			"metadata": {"plan_code": "3mo"},
			"customer_details": {"email": "dave@example.com", "name": "Dave"}
		}}
	}`)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	results, err := p.Process(context.Background(), payload, signedAt(payload, now))
	require.NoError(t, err)

	assert.Equal(t, []string{"8240961:dave@example.com"}, crm.calls)
	require.Len(t, channel.sent, 1)
	assert.Contains(t, channel.sent[0], "Dave")
	assert.Contains(t, channel.sent[0], "3mo")
	assert.Contains(t, channel.sent[0], "$3,500")

	require.Len(t, results, 2)
	assert.Equal(t, "discord", results[0].Effect)
	assert.Equal(t, "crm-member-tag", results[1].Effect)
	assert.Equal(t, "ok", results[1].Status)
}

func TestStripeProcessorTagFailureReported(t *testing.T) {
	crm := &stubTagger{err: assert.AnError}
	channel := &recordingNotifier{name: "discord"}
	p := newStripeProcessor(t, crm, channel)

	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {"customer_details": {"email": "dave@example.com"}}}
	}`)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	results, err := p.Process(context.Background(), payload, signedAt(payload, now))
	require.NoError(t, err, "downstream failures never reject the webhook")
	require.Len(t, results, 2)
	assert.Equal(t, "error", results[1].Status)
	assert.Len(t, channel.sent, 1, "notification still sent")
}

func TestStripeProcessorInvalidSignature(t *testing.T) {
	p := newStripeProcessor(t, &stubTagger{}, &recordingNotifier{name: "discord"})

	payload := []byte(`{"type":"checkout.session.completed"}`)
	_, err := p.Process(context.Background(), payload, "t=123,v1=deadbeef")
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSignatureInvalid, stdErr.Code)
}

func TestStripeProcessorPaymentSucceeded(t *testing.T) {
	crm := &stubTagger{}
	channel := &recordingNotifier{name: "discord"}
	p := newStripeProcessor(t, crm, channel)

	payload := []byte(`{
		"type": "payment_intent.succeeded",
		"data": {"object": {"amount": 200000, "receipt_email": "dave@example.com"}}
	}`)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	results, err := p.Process(context.Background(), payload, signedAt(payload, now))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, channel.sent[0], "$2,000")
	assert.Empty(t, crm.calls, "installments do not re-tag")
}

func TestStripeProcessorIgnoresOtherEvents(t *testing.T) {
	channel := &recordingNotifier{name: "discord"}
	p := newStripeProcessor(t, &stubTagger{}, channel)

	payload := []byte(`{"type": "invoice.created", "data": {"object": {}}}`)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	results, err := p.Process(context.Background(), payload, signedAt(payload, now))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, channel.sent)
}
