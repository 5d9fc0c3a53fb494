// Package checkout maps plan codes and payment options onto Stripe
// checkout sessions.
package checkout

import "fmt"

// PaymentOption is one way of paying for a plan: full up front or a
// fixed number of monthly installments.
type PaymentOption struct {
	Option      string // "full", "2pay", "3pay"
	AmountCents int64  // per-payment amount
	Payments    int    // total number of payments
}

// Plan is a purchasable program tier.
type Plan struct {
	Code           string
	Name           string
	DurationMonths int
	Options        []PaymentOption
}

// Plans is the standard catalog keyed by plan code.
var Plans = map[string]Plan{
	"3mo": {
		Code:           "3mo",
		Name:           "Boundless Creator Program (3 months)",
		DurationMonths: 3,
		Options: []PaymentOption{
			{Option: "full", AmountCents: 350000, Payments: 1},
			{Option: "2pay", AmountCents: 200000, Payments: 2},
		},
	},
	"3mo-plus": {
		Code:           "3mo-plus",
		Name:           "Boundless Creator Program Plus (3 months)",
		DurationMonths: 3,
		Options: []PaymentOption{
			{Option: "full", AmountCents: 600000, Payments: 1},
			{Option: "2pay", AmountCents: 350000, Payments: 2},
			{Option: "3pay", AmountCents: 250000, Payments: 3},
		},
	},
	"6mo": {
		Code:           "6mo",
		Name:           "Boundless Creator Program (6 months)",
		DurationMonths: 6,
		Options: []PaymentOption{
			{Option: "full", AmountCents: 580000, Payments: 1},
			{Option: "2pay", AmountCents: 330000, Payments: 2},
			{Option: "3pay", AmountCents: 240000, Payments: 3},
		},
	},
	"6mo-plus": {
		Code:           "6mo-plus",
		Name:           "Boundless Creator Program Plus (6 months)",
		DurationMonths: 6,
		Options: []PaymentOption{
			{Option: "full", AmountCents: 960000, Payments: 1},
			{Option: "2pay", AmountCents: 550000, Payments: 2},
			{Option: "3pay", AmountCents: 400000, Payments: 3},
		},
	},
}

// alumniDiscount is applied to every standard option for returning
// members, rounded down to the cent.
const alumniDiscountPercent = 25

// ResolvePlan returns the plan for code. Codes with an "alumni-"
// prefix map to the base plan with the alumni discount applied.
func ResolvePlan(code string) (Plan, bool) {
	if plan, ok := Plans[code]; ok {
		return plan, true
	}

	const prefix = "alumni-"
	if len(code) > len(prefix) && code[:len(prefix)] == prefix {
		base, ok := Plans[code[len(prefix):]]
		if !ok {
			return Plan{}, false
		}
		discounted := Plan{
			Code:           code,
			Name:           base.Name + " (Alumni)",
			DurationMonths: base.DurationMonths,
			Options:        make([]PaymentOption, len(base.Options)),
		}
		for i, opt := range base.Options {
			discounted.Options[i] = PaymentOption{
				Option:      opt.Option,
				AmountCents: opt.AmountCents * (100 - alumniDiscountPercent) / 100,
				Payments:    opt.Payments,
			}
		}
		return discounted, true
	}

	return Plan{}, false
}

// FindOption looks up a payment option by name within a plan.
func (p Plan) FindOption(option string) (PaymentOption, bool) {
	for _, opt := range p.Options {
		if opt.Option == option {
			return opt, true
		}
	}
	return PaymentOption{}, false
}

// FormatCents renders a cent amount as a dollar string, e.g. 350000
// becomes "$3,500".
func FormatCents(cents int64) string {
	dollars := cents / 100
	remainder := cents % 100

	s := fmt.Sprintf("%d", dollars)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if remainder != 0 {
		return fmt.Sprintf("$%s.%02d", s, remainder)
	}
	return "$" + s
}
