package server

import (
	"net/http"

	"creator-funnel/internal/common/errors"
	"creator-funnel/internal/notify"
)

type webhookResponse struct {
	Received bool                  `json:"received"`
	Effects  []notify.EffectResult `json:"effects,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		s.errResp.Respond(w, r, errors.NewInvalidSubmissionError("failed to read body"))
		return
	}

	effects, err := s.deps.StripeWebhook.Process(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.errResp.Respond(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, webhookResponse{Received: true, Effects: effects})
}

// handleCalWebhook accepts booking events. Every path answers 200,
// including unrecognized payloads, because Cal.com disables webhooks
// that keep failing; the error is logged and surfaced in the body.
func (s *Server) handleCalWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		s.errResp.Respond(w, r, errors.NewInvalidSubmissionError("failed to read body"))
		return
	}

	effects, err := s.deps.CalWebhook.Process(r.Context(), payload)
	if err != nil {
		s.logger.WithError(err).Warn("unrecognized booking payload", nil)
		s.writeJSON(w, http.StatusOK, webhookResponse{Received: true, Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, webhookResponse{Received: true, Effects: effects})
}

func (s *Server) handleKitMemberWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		s.errResp.Respond(w, r, errors.NewInvalidSubmissionError("failed to read body"))
		return
	}

	effects, err := s.deps.KitWebhook.Process(r.Context(), payload)
	if err != nil {
		s.errResp.Respond(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, webhookResponse{Received: true, Effects: effects})
}
