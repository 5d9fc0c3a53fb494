// Package webhooks turns inbound vendor events into CRM tags, sheet
// updates, and operator notifications.
package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"creator-funnel/internal/checkout"
	"creator-funnel/internal/common/errors"
	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/common/metrics"
	"creator-funnel/internal/integrations/stripe"
	"creator-funnel/internal/notify"
)

// CRMTagger is the slice of the Kit client the processors need.
type CRMTagger interface {
	TagSubscriberByEmail(ctx context.Context, tagID, email string) error
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID              string            `json:"id"`
			Mode            string            `json:"mode"`
			AmountTotal     int64             `json:"amount_total"`
			Amount          int64             `json:"amount"`
			Metadata        map[string]string `json:"metadata"`
			CustomerDetails struct {
				Email string `json:"email"`
				Name  string `json:"name"`
			} `json:"customer_details"`
			ReceiptEmail string `json:"receipt_email"`
		} `json:"object"`
	} `json:"data"`
}

// StripeProcessor verifies and reacts to Stripe webhook events.
type StripeProcessor struct {
	webhookSecret string
	memberTagID   string
	crm           CRMTagger
	dispatcher    *notify.Dispatcher
	logger        logger.Logger
	now           func() time.Time
}

func NewStripeProcessor(webhookSecret, memberTagID string, crm CRMTagger, dispatcher *notify.Dispatcher, log logger.Logger) *StripeProcessor {
	return &StripeProcessor{
		webhookSecret: webhookSecret,
		memberTagID:   memberTagID,
		crm:           crm,
		dispatcher:    dispatcher,
		logger:        log.WithFields(map[string]interface{}{"component": "webhooks.stripe"}),
		now:           time.Now,
	}
}

// Process validates the signature and handles the event. Signature
// failures are client errors; everything downstream is best effort and
// reported through the returned effect results.
func (p *StripeProcessor) Process(ctx context.Context, payload []byte, signatureHeader string) ([]notify.EffectResult, error) {
	if err := stripe.VerifySignature(payload, signatureHeader, p.webhookSecret, stripe.DefaultTolerance, p.now()); err != nil {
		return nil, errors.NewSignatureInvalidError(err.Error())
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.NewUnrecognizedPayloadError(err.Error())
	}

	metrics.WebhookEventsTotal.WithLabelValues("stripe", event.Type).Inc()

	switch event.Type {
	case "checkout.session.completed":
		return p.handleCheckoutCompleted(ctx, event), nil
	case "payment_intent.succeeded":
		return p.handlePaymentSucceeded(ctx, event), nil
	default:
		p.logger.Debug("ignoring stripe event", map[string]interface{}{
			"eventType": event.Type,
		})
		return nil, nil
	}
}

func (p *StripeProcessor) handleCheckoutCompleted(ctx context.Context, event stripeEvent) []notify.EffectResult {
	obj := event.Data.Object
	email := obj.CustomerDetails.Email
	name := obj.CustomerDetails.Name
	plan := obj.Metadata["plan_code"]

	message := fmt.Sprintf("💰 New enrollment: %s (%s), plan %s, %s",
		name, email, plan, checkout.FormatCents(obj.AmountTotal))
	results := p.dispatcher.Dispatch(ctx, message)

	tagResult := notify.EffectResult{Effect: "crm-member-tag", Status: "ok"}
	if email == "" {
		tagResult.Status = "error"
		tagResult.Error = "checkout session has no customer email"
	} else if err := p.crm.TagSubscriberByEmail(ctx, p.memberTagID, email); err != nil {
		tagResult.Status = "error"
		tagResult.Error = err.Error()
		p.logger.WithError(err).Error("failed to tag new member", map[string]interface{}{
			"email": email,
		})
	}
	metrics.SideEffectsTotal.WithLabelValues(tagResult.Effect, tagResult.Status).Inc()

	return append(results, tagResult)
}

func (p *StripeProcessor) handlePaymentSucceeded(ctx context.Context, event stripeEvent) []notify.EffectResult {
	obj := event.Data.Object
	email := obj.ReceiptEmail
	if email == "" {
		email = obj.CustomerDetails.Email
	}

	message := fmt.Sprintf("💳 Installment payment received: %s, %s",
		email, checkout.FormatCents(obj.Amount))
	return p.dispatcher.Dispatch(ctx, message)
}
