package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"creator-funnel/internal/checkout"
	"creator-funnel/internal/common/errors"
	"creator-funnel/internal/common/metrics"
	"creator-funnel/internal/funnel"
	"creator-funnel/internal/storage"
)

type submitResponse struct {
	Qualified     bool   `json:"qualified"`
	Score         int    `json:"score"`
	CalBookingURL string `json:"calBookingUrl,omitempty"`
}

// handleSubmit scores an application, optionally verifies the channel,
// records the submission, and kicks off the CRM side effects. Side
// effects never fail the submission.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var data funnel.FormData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.errResp.Respond(w, r, errors.NewInvalidSubmissionError("body is not valid JSON"))
		return
	}
	if data.Email == "" {
		s.errResp.Respond(w, r, errors.NewInvalidSubmissionError("email is required"))
		return
	}

	result := funnel.Qualify(data)

	if result.Qualified && s.deps.Config.Verification.Enabled && data.ChannelURL != "" && s.deps.Verifier != nil {
		vr := s.deps.Verifier.Verify(ctx, data.ChannelURL, data.HasOtherPlatform)
		result.Channel = &vr
		if !vr.Verified {
			result.Qualified = false
		}
	}

	s.syncSubmissionToCRM(r, data, result)

	if s.deps.FormsRelay != nil {
		if err := s.deps.FormsRelay.Submit(ctx, data, result); err != nil {
			s.logger.WithError(err).Warn("forms relay failed", map[string]interface{}{
				"email": data.Email,
			})
		}
	}

	submission := storage.Submission{
		ID:            uuid.New().String(),
		Timestamp:     time.Now().UTC(),
		Data:          data,
		Qualification: result,
	}
	// A lost log entry is recoverable from the CRM; the applicant's
	// result is not, so the response goes out regardless.
	if err := s.deps.Store.Append(ctx, submission); err != nil {
		s.logger.WithError(err).Error("failed to record submission", map[string]interface{}{
			"email":        data.Email,
			"submissionId": submission.ID,
		})
	}

	metrics.SubmissionsTotal.WithLabelValues(submissionOutcome(result)).Inc()

	resp := submitResponse{Qualified: result.Qualified, Score: result.Score}
	if result.Qualified {
		resp.CalBookingURL = s.deps.Config.Server.CalBookingURL
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) syncSubmissionToCRM(r *http.Request, data funnel.FormData, result funnel.QualificationResult) {
	if s.deps.CRM == nil {
		return
	}
	ctx := r.Context()
	tags := s.deps.Config.Integrations.Kit

	fields := map[string]string{
		"qualification_score": strconv.Itoa(result.Score),
	}
	if data.Phone != "" {
		fields["phone"] = data.Phone
	}
	if data.ChannelURL != "" {
		fields["channel_url"] = data.ChannelURL
	}
	if data.UTMSource != "" {
		fields["utm_source"] = data.UTMSource
	}

	if _, err := s.deps.CRM.UpsertSubscriber(ctx, data.Email, data.FirstName, fields); err != nil {
		s.logger.WithError(err).Warn("CRM upsert failed", map[string]interface{}{
			"email": data.Email,
		})
		return
	}

	tagIDs := []string{tags.TagApplicant}
	if result.Qualified {
		tagIDs = append(tagIDs, tags.TagQualified)
	} else {
		tagIDs = append(tagIDs, tags.TagUnqualified)
	}
	for _, tagID := range tagIDs {
		if tagID == "" {
			continue
		}
		if err := s.deps.CRM.TagSubscriberByEmail(ctx, tagID, data.Email); err != nil {
			s.logger.WithError(err).Warn("CRM tagging failed", map[string]interface{}{
				"email": data.Email,
				"tagId": tagID,
			})
		}
	}
}

func submissionOutcome(result funnel.QualificationResult) string {
	switch {
	case result.Qualified:
		return "qualified"
	case result.Disqualified:
		return "disqualified"
	default:
		return "unqualified"
	}
}

type checkoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkout.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errResp.Respond(w, r, errors.NewInvalidSubmissionError("body is not valid JSON"))
		return
	}

	params, err := checkout.BuildSession(req, s.deps.Config.Server.Origin)
	if err != nil {
		s.errResp.Respond(w, r, err)
		return
	}

	session, err := s.deps.Payments.CreateCheckoutSession(r.Context(), params)
	if err != nil {
		s.errResp.Respond(w, r, errors.NewCheckoutFailedError(err))
		return
	}

	metrics.CheckoutSessionsTotal.WithLabelValues(req.PlanCode, params.Mode).Inc()
	s.writeJSON(w, http.StatusOK, checkoutResponse{URL: session.URL, SessionID: session.ID})
}

type welcomeResponse struct {
	Confirmed bool   `json:"confirmed"`
	Email     string `json:"email,omitempty"`
	PlanCode  string `json:"planCode,omitempty"`
}

// handleWelcome confirms a completed checkout session and tags the
// buyer as a member. session_id=test bypasses the gateway for page
// development.
func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.errResp.Respond(w, r, errors.NewInvalidSubmissionError("session_id is required"))
		return
	}
	if sessionID == "test" {
		s.writeJSON(w, http.StatusOK, welcomeResponse{Confirmed: true})
		return
	}

	session, err := s.deps.Payments.RetrieveSession(r.Context(), sessionID)
	if err != nil {
		s.errResp.Respond(w, r, errors.NewSessionLookupFailedError(err))
		return
	}
	if session.PaymentStatus != "paid" && session.Status != "complete" {
		s.errResp.Respond(w, r, errors.NewPaymentNotConfirmedError(sessionID))
		return
	}

	email := session.CustomerDetails.Email
	memberTag := s.deps.Config.Integrations.Kit.TagMember
	if s.deps.CRM != nil && email != "" && memberTag != "" {
		s.tagMember(r.Context(), memberTag, email)
	}

	s.writeJSON(w, http.StatusOK, welcomeResponse{
		Confirmed: true,
		Email:     email,
		PlanCode:  session.Metadata["plan_code"],
	})
}

// tagMember tags an existing subscriber by id so the buyer keeps their
// profile and custom fields; tagging by email would create a fresh
// subscriber when the checkout email differs from the application one.
func (s *Server) tagMember(ctx context.Context, tagID, email string) {
	if sub, err := s.deps.CRM.LookupSubscriber(ctx, email); err == nil && sub != nil {
		if err := s.deps.CRM.TagSubscriberByID(ctx, tagID, sub.ID); err == nil {
			return
		}
	}
	if err := s.deps.CRM.TagSubscriberByEmail(ctx, tagID, email); err != nil {
		s.logger.WithError(err).Warn("member tagging failed", map[string]interface{}{
			"email": email,
		})
	}
}

// handleDiscordInvite redirects a token-bearing link to a freshly
// minted one-time invite.
func (s *Server) handleDiscordInvite(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	secret := s.deps.Config.Integrations.Discord.InviteSecret
	if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		s.errResp.Respond(w, r, errors.NewTokenInvalidError())
		return
	}

	inviteURL, err := s.deps.Inviter.CreateInvite(r.Context(), s.deps.Config.Integrations.Discord.WelcomeChannelID)
	if err != nil {
		s.errResp.Respond(w, r, errors.NewInviteCreationFailedError(err))
		return
	}

	http.Redirect(w, r, inviteURL, http.StatusFound)
}

// handleAutomationSweep runs one CRM sweep. The caller must present
// the cron secret as a bearer token.
func (s *Server) handleAutomationSweep(w http.ResponseWriter, r *http.Request) {
	secret := s.deps.Config.Automation.CronSecret
	auth := r.Header.Get("Authorization")
	if secret == "" || subtle.ConstantTimeCompare([]byte(auth), []byte("Bearer "+secret)) != 1 {
		s.errResp.Respond(w, r, errors.NewUnauthorizedError())
		return
	}

	report, err := s.deps.Sweeper.Run(r.Context())
	if err != nil {
		s.errResp.Respond(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response", nil)
	}
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 1<<20))
}
