package webhooks

import (
	"context"
	"fmt"

	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/common/metrics"
	"creator-funnel/internal/common/validation"
	"creator-funnel/internal/notify"
)

// CallSheetUpdater marks an applicant's sheet row when a call books.
type CallSheetUpdater interface {
	MarkCallBooked(ctx context.Context, email string) error
}

// CalProcessor reacts to Cal.com booking webhooks.
type CalProcessor struct {
	callBookedTagID string
	crm             CRMTagger
	tracker         CallSheetUpdater
	dispatcher      *notify.Dispatcher
	logger          logger.Logger
}

func NewCalProcessor(callBookedTagID string, crm CRMTagger, tracker CallSheetUpdater, dispatcher *notify.Dispatcher, log logger.Logger) *CalProcessor {
	return &CalProcessor{
		callBookedTagID: callBookedTagID,
		crm:             crm,
		tracker:         tracker,
		dispatcher:      dispatcher,
		logger:          log.WithFields(map[string]interface{}{"component": "webhooks.cal"}),
	}
}

// Process parses the booking payload and runs the booking side
// effects. A payload that parses is always accepted; individual side
// effects fail independently and are reported in the results.
func (p *CalProcessor) Process(ctx context.Context, payload []byte) ([]notify.EffectResult, error) {
	booking, err := validation.ParseBooking(payload)
	if err != nil {
		return nil, err
	}

	if booking.Ping {
		p.logger.Info("booking webhook ping", nil)
		return nil, nil
	}

	metrics.WebhookEventsTotal.WithLabelValues("cal", booking.TriggerEvent).Inc()

	if booking.TriggerEvent != "BOOKING_CREATED" {
		p.logger.Debug("ignoring booking event", map[string]interface{}{
			"triggerEvent": booking.TriggerEvent,
		})
		return nil, nil
	}
	if booking.Email == "" {
		p.logger.Warn("booking event without attendee email", map[string]interface{}{
			"shape": string(booking.Shape),
		})
		return nil, nil
	}

	var results []notify.EffectResult

	tagResult := notify.EffectResult{Effect: "crm-call-booked-tag", Status: "ok"}
	if err := p.crm.TagSubscriberByEmail(ctx, p.callBookedTagID, booking.Email); err != nil {
		tagResult.Status = "error"
		tagResult.Error = err.Error()
		p.logger.WithError(err).Error("failed to tag call booking", map[string]interface{}{
			"email": booking.Email,
		})
	}
	metrics.SideEffectsTotal.WithLabelValues(tagResult.Effect, tagResult.Status).Inc()
	results = append(results, tagResult)

	sheetResult := notify.EffectResult{Effect: "sheet-call-booked", Status: "ok"}
	if err := p.tracker.MarkCallBooked(ctx, booking.Email); err != nil {
		sheetResult.Status = "error"
		sheetResult.Error = err.Error()
		p.logger.WithError(err).Error("failed to update call sheet", map[string]interface{}{
			"email": booking.Email,
		})
	}
	metrics.SideEffectsTotal.WithLabelValues(sheetResult.Effect, sheetResult.Status).Inc()
	results = append(results, sheetResult)

	who := booking.Email
	if booking.Name != "" {
		who = fmt.Sprintf("%s (%s)", booking.Name, booking.Email)
	}
	results = append(results, p.dispatcher.Dispatch(ctx, "📅 Call booked: "+who)...)

	return results, nil
}
