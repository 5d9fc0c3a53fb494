// Package notify fans a single event message out to every configured
// channel and reports per-channel outcomes instead of swallowing them.
package notify

import (
	"context"

	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/common/metrics"
)

// Notifier delivers a message to one outbound channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, message string) error
}

// EffectResult records the outcome of one delivery attempt.
type EffectResult struct {
	Effect string `json:"effect"`
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error,omitempty"`
}

// Dispatcher sends to a fixed set of notifiers.
type Dispatcher struct {
	notifiers []Notifier
	logger    logger.Logger
}

func NewDispatcher(log logger.Logger, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{
		notifiers: notifiers,
		logger:    log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// Dispatch delivers message to every notifier. A failed channel never
// blocks the others; each result is logged and counted.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) []EffectResult {
	results := make([]EffectResult, 0, len(d.notifiers))

	for _, n := range d.notifiers {
		result := EffectResult{Effect: n.Name(), Status: "ok"}
		if err := n.Send(ctx, message); err != nil {
			result.Status = "error"
			result.Error = err.Error()
			d.logger.WithError(err).Error("notification delivery failed", map[string]interface{}{
				"channel": n.Name(),
			})
		} else {
			d.logger.Debug("notification delivered", map[string]interface{}{
				"channel": n.Name(),
			})
		}
		metrics.SideEffectsTotal.WithLabelValues(n.Name(), result.Status).Inc()
		results = append(results, result)
	}

	return results
}
