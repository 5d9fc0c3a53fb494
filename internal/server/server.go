// Package server wires the funnel's HTTP surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creator-funnel/internal/automation"
	"creator-funnel/internal/common/config"
	"creator-funnel/internal/common/errors"
	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/integrations/kit"
	"creator-funnel/internal/integrations/stripe"
	"creator-funnel/internal/notify"
	"creator-funnel/internal/storage"
	"creator-funnel/internal/verify"
)

// CRM is the slice of the Kit client the handlers use.
type CRM interface {
	UpsertSubscriber(ctx context.Context, email, firstName string, fields map[string]string) (*kit.Subscriber, error)
	TagSubscriberByEmail(ctx context.Context, tagID, email string) error
	TagSubscriberByID(ctx context.Context, tagID string, subscriberID int64) error
	LookupSubscriber(ctx context.Context, email string) (*kit.Subscriber, error)
}

// ChannelVerifier gates qualified applicants on channel health.
type ChannelVerifier interface {
	Verify(ctx context.Context, channelURL string, hasOtherPlatform bool) verify.VerifyResult
}

// PaymentGateway opens and retrieves hosted checkout sessions.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params stripe.SessionParams) (*stripe.Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*stripe.Session, error)
}

// SignedWebhookProcessor handles webhooks carrying a signature header.
type SignedWebhookProcessor interface {
	Process(ctx context.Context, payload []byte, signatureHeader string) ([]notify.EffectResult, error)
}

// WebhookProcessor handles unsigned webhook payloads.
type WebhookProcessor interface {
	Process(ctx context.Context, payload []byte) ([]notify.EffectResult, error)
}

// SweepRunner executes one automation sweep.
type SweepRunner interface {
	Run(ctx context.Context) (*automation.Report, error)
}

// InviteMinter creates one-time community invites.
type InviteMinter interface {
	CreateInvite(ctx context.Context, channelID string) (string, error)
}

// Dependencies carries everything the HTTP layer calls into. Nil
// optional members disable their endpoints' side effects.
type Dependencies struct {
	Config        *config.Config
	Logger        logger.Logger
	Store         storage.Store
	CRM           CRM
	Verifier      ChannelVerifier
	Payments      PaymentGateway
	FormsRelay    *FormsRelay
	StripeWebhook SignedWebhookProcessor
	CalWebhook    WebhookProcessor
	KitWebhook    WebhookProcessor
	Sweeper       SweepRunner
	Inviter       InviteMinter
}

// Server is the funnel HTTP server.
type Server struct {
	deps    Dependencies
	router  chi.Router
	errResp *errors.ErrorResponder
	logger  logger.Logger
}

func New(deps Dependencies) *Server {
	s := &Server{deps: deps}
	s.logger = deps.Logger.WithFields(map[string]interface{}{"component": "server"})
	s.errResp = errors.NewErrorResponder(s.logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Post("/submit", s.handleSubmit)
		r.Post("/checkout", s.handleCheckout)
		r.Get("/welcome", s.handleWelcome)
		r.Get("/discord-invite", s.handleDiscordInvite)
		r.Get("/automation/kit", s.handleAutomationSweep)
		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/stripe", s.handleStripeWebhook)
			r.Post("/cal", s.handleCalWebhook)
			r.Post("/kit-member", s.handleKitMemberWebhook)
		})
	})
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
