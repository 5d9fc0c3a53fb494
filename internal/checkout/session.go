package checkout

import (
	"fmt"
	"strconv"

	"creator-funnel/internal/common/errors"
	"creator-funnel/internal/integrations/stripe"
)

// SessionRequest is a checkout request from the payment page.
type SessionRequest struct {
	PlanCode string `json:"plan"`
	Option   string `json:"option"`
	Email    string `json:"email,omitempty"`
}

// BuildSession translates a plan selection into Stripe session
// parameters. Full payments use payment mode; installments use
// subscription mode with the payment count recorded so the
// subscription can be ended after the final charge.
func BuildSession(req SessionRequest, origin string) (stripe.SessionParams, error) {
	plan, ok := ResolvePlan(req.PlanCode)
	if !ok {
		return stripe.SessionParams{}, errors.NewInvalidPlanError(req.PlanCode)
	}

	option, ok := plan.FindOption(req.Option)
	if !ok {
		return stripe.SessionParams{}, errors.NewInvalidOptionError(plan.Code, req.Option)
	}

	item := stripe.LineItem{
		Name:        planItemName(plan, option),
		AmountCents: option.AmountCents,
		Currency:    "usd",
		Quantity:    1,
	}

	params := stripe.SessionParams{
		SuccessURL:          origin + "/welcome?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:           origin + "/checkout?plan=" + plan.Code,
		CustomerEmail:       req.Email,
		AllowPromotionCodes: true,
		Metadata: map[string]string{
			"plan_code":      plan.Code,
			"payment_option": option.Option,
			"duration":       strconv.Itoa(plan.DurationMonths),
		},
	}

	if option.Payments == 1 {
		params.Mode = "payment"
	} else {
		params.Mode = "subscription"
		item.Recurring = &stripe.Recurring{Interval: "month", IntervalCount: 1}
		params.SubscriptionMetadata = map[string]string{
			"total_payments": strconv.Itoa(option.Payments),
			"plan_code":      plan.Code,
		}
	}

	params.LineItems = []stripe.LineItem{item}
	return params, nil
}

func planItemName(plan Plan, option PaymentOption) string {
	if option.Payments == 1 {
		return plan.Name
	}
	return fmt.Sprintf("%s (%d payments of %s)", plan.Name, option.Payments, FormatCents(option.AmountCents))
}
