package webhooks

import (
	"context"
	"encoding/json"
	"fmt"

	"creator-funnel/internal/common/errors"
	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/common/metrics"
	"creator-funnel/internal/notify"
)

// InviteMinter creates one-time community invites.
type InviteMinter interface {
	CreateInvite(ctx context.Context, channelID string) (string, error)
}

type kitMemberEvent struct {
	Subscriber struct {
		ID           int64  `json:"id"`
		EmailAddress string `json:"email_address"`
		FirstName    string `json:"first_name"`
	} `json:"subscriber"`
}

// KitMemberProcessor reacts to Kit's tag-added automation webhook for
// the member tag: it mints a community invite and alerts the operator.
type KitMemberProcessor struct {
	inviter          InviteMinter
	welcomeChannelID string
	dispatcher       *notify.Dispatcher
	logger           logger.Logger
}

func NewKitMemberProcessor(inviter InviteMinter, welcomeChannelID string, dispatcher *notify.Dispatcher, log logger.Logger) *KitMemberProcessor {
	return &KitMemberProcessor{
		inviter:          inviter,
		welcomeChannelID: welcomeChannelID,
		dispatcher:       dispatcher,
		logger:           log.WithFields(map[string]interface{}{"component": "webhooks.kit"}),
	}
}

func (p *KitMemberProcessor) Process(ctx context.Context, payload []byte) ([]notify.EffectResult, error) {
	var event kitMemberEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.NewUnrecognizedPayloadError(err.Error())
	}
	if event.Subscriber.EmailAddress == "" {
		return nil, errors.NewUnrecognizedPayloadError("subscriber email missing")
	}

	metrics.WebhookEventsTotal.WithLabelValues("kit", "member_tag_added").Inc()

	var results []notify.EffectResult

	inviteResult := notify.EffectResult{Effect: "discord-invite", Status: "ok"}
	inviteURL, err := p.inviter.CreateInvite(ctx, p.welcomeChannelID)
	if err != nil {
		inviteResult.Status = "error"
		inviteResult.Error = err.Error()
		p.logger.WithError(err).Error("failed to mint community invite", map[string]interface{}{
			"email": event.Subscriber.EmailAddress,
		})
	}
	metrics.SideEffectsTotal.WithLabelValues(inviteResult.Effect, inviteResult.Status).Inc()
	results = append(results, inviteResult)

	name := event.Subscriber.FirstName
	if name == "" {
		name = event.Subscriber.EmailAddress
	}
	message := fmt.Sprintf("🎉 New member: %s (%s)", name, event.Subscriber.EmailAddress)
	if inviteURL != "" {
		message += "\nCommunity invite: " + inviteURL
	}
	results = append(results, p.dispatcher.Dispatch(ctx, message)...)

	return results, nil
}
