package automation

import (
	"context"
	"fmt"
	"time"

	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/common/metrics"
	"creator-funnel/internal/integrations/kit"
	"creator-funnel/internal/notify"
)

// SubscriberLister pages subscribers carrying a tag.
type SubscriberLister interface {
	ListSubscribersByTag(ctx context.Context, tagID string) ([]kit.Subscriber, error)
}

// DirectMessenger sends a WhatsApp message to a phone number.
type DirectMessenger interface {
	SendMessage(ctx context.Context, phone, text string) error
}

// InviteMinter creates one-time community invites.
type InviteMinter interface {
	CreateInvite(ctx context.Context, channelID string) (string, error)
}

// SweepConfig carries the tag ids and destinations the sweep acts on.
type SweepConfig struct {
	ApplicantTagID   string
	MemberTagID      string
	WelcomeChannelID string
	BookingURL       string
}

// Report summarizes one sweep run.
type Report struct {
	NewApplicants int                   `json:"newApplicants"`
	NewMembers    int                   `json:"newMembers"`
	Effects       []notify.EffectResult `json:"effects,omitempty"`
	RanAt         time.Time             `json:"ranAt"`
}

// Sweeper polls the CRM for newly tagged applicants and members and
// runs their welcome side effects exactly once per subscriber.
type Sweeper struct {
	crm        SubscriberLister
	ledger     Ledger
	messenger  DirectMessenger
	inviter    InviteMinter
	dispatcher *notify.Dispatcher
	cfg        SweepConfig
	logger     logger.Logger
	now        func() time.Time
}

func NewSweeper(crm SubscriberLister, ledger Ledger, messenger DirectMessenger, inviter InviteMinter, dispatcher *notify.Dispatcher, cfg SweepConfig, log logger.Logger) *Sweeper {
	return &Sweeper{
		crm:        crm,
		ledger:     ledger,
		messenger:  messenger,
		inviter:    inviter,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     log.WithFields(map[string]interface{}{"component": "automation"}),
		now:        time.Now,
	}
}

// Run executes one sweep. A subscriber is marked processed only after
// their side effects were attempted, so a crash mid-run repeats at
// most the unmarked tail on the next invocation.
func (s *Sweeper) Run(ctx context.Context) (*Report, error) {
	report := &Report{RanAt: s.now()}

	if err := s.sweepApplicants(ctx, report); err != nil {
		return nil, err
	}
	if err := s.sweepMembers(ctx, report); err != nil {
		return nil, err
	}

	if err := s.ledger.SetLastCheck(ctx, report.RanAt); err != nil {
		s.logger.WithError(err).Warn("failed to record sweep timestamp", nil)
	}

	s.logger.Info("sweep complete", map[string]interface{}{
		"newApplicants": report.NewApplicants,
		"newMembers":    report.NewMembers,
	})
	return report, nil
}

func (s *Sweeper) sweepApplicants(ctx context.Context, report *Report) error {
	subscribers, err := s.crm.ListSubscribersByTag(ctx, s.cfg.ApplicantTagID)
	if err != nil {
		return fmt.Errorf("failed to list applicants: %w", err)
	}

	for _, sub := range subscribers {
		if sub.EmailAddress == "" {
			continue
		}
		done, err := s.ledger.IsApplicantProcessed(ctx, sub.EmailAddress)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		if phone := sub.Fields["phone"]; phone != "" && s.messenger != nil {
			text := fmt.Sprintf("Hey %s! Thanks for applying to the Boundless Creator Program. Grab a call slot here: %s",
				firstNameOrThere(sub), s.cfg.BookingURL)
			result := notify.EffectResult{Effect: "whatsapp-applicant-welcome", Status: "ok"}
			if err := s.messenger.SendMessage(ctx, phone, text); err != nil {
				result.Status = "error"
				result.Error = err.Error()
				s.logger.WithError(err).Error("failed to message applicant", map[string]interface{}{
					"email": sub.EmailAddress,
				})
			}
			metrics.SideEffectsTotal.WithLabelValues(result.Effect, result.Status).Inc()
			report.Effects = append(report.Effects, result)
		}

		alert := fmt.Sprintf("📋 New applicant: %s (%s)", firstNameOrThere(sub), sub.EmailAddress)
		report.Effects = append(report.Effects, s.dispatcher.Dispatch(ctx, alert)...)

		if err := s.ledger.MarkApplicantProcessed(ctx, sub.EmailAddress); err != nil {
			return err
		}
		metrics.SweepProcessedTotal.WithLabelValues("applicant").Inc()
		report.NewApplicants++
	}
	return nil
}

func (s *Sweeper) sweepMembers(ctx context.Context, report *Report) error {
	subscribers, err := s.crm.ListSubscribersByTag(ctx, s.cfg.MemberTagID)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	for _, sub := range subscribers {
		if sub.EmailAddress == "" {
			continue
		}
		done, err := s.ledger.IsMemberProcessed(ctx, sub.EmailAddress)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		inviteURL := ""
		if s.inviter != nil {
			result := notify.EffectResult{Effect: "discord-invite", Status: "ok"}
			inviteURL, err = s.inviter.CreateInvite(ctx, s.cfg.WelcomeChannelID)
			if err != nil {
				result.Status = "error"
				result.Error = err.Error()
				s.logger.WithError(err).Error("failed to mint member invite", map[string]interface{}{
					"email": sub.EmailAddress,
				})
			}
			metrics.SideEffectsTotal.WithLabelValues(result.Effect, result.Status).Inc()
			report.Effects = append(report.Effects, result)
		}

		if phone := sub.Fields["phone"]; phone != "" && s.messenger != nil {
			text := fmt.Sprintf("Welcome to the program, %s! 🎉", firstNameOrThere(sub))
			if inviteURL != "" {
				text += " Join the community here: " + inviteURL
			}
			result := notify.EffectResult{Effect: "whatsapp-member-welcome", Status: "ok"}
			if err := s.messenger.SendMessage(ctx, phone, text); err != nil {
				result.Status = "error"
				result.Error = err.Error()
				s.logger.WithError(err).Error("failed to message member", map[string]interface{}{
					"email": sub.EmailAddress,
				})
			}
			metrics.SideEffectsTotal.WithLabelValues(result.Effect, result.Status).Inc()
			report.Effects = append(report.Effects, result)
		}

		alert := fmt.Sprintf("🎉 New member: %s (%s)", firstNameOrThere(sub), sub.EmailAddress)
		report.Effects = append(report.Effects, s.dispatcher.Dispatch(ctx, alert)...)

		if err := s.ledger.MarkMemberProcessed(ctx, sub.EmailAddress); err != nil {
			return err
		}
		metrics.SweepProcessedTotal.WithLabelValues("member").Inc()
		report.NewMembers++
	}
	return nil
}

func firstNameOrThere(sub kit.Subscriber) string {
	if sub.FirstName != "" {
		return sub.FirstName
	}
	return "there"
}
