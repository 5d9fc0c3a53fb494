package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-funnel/internal/common/errors"
)

const origin = "https://apply.example.com"

func TestBuildSessionFullPayment(t *testing.T) {
	params, err := BuildSession(SessionRequest{PlanCode: "3mo", Option: "full"}, origin)
	require.NoError(t, err)

	assert.Equal(t, "payment", params.Mode)
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, int64(350000), params.LineItems[0].AmountCents)
	assert.Nil(t, params.LineItems[0].Recurring)
	assert.Equal(t, origin+"/welcome?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, origin+"/checkout?plan=3mo", params.CancelURL)
	assert.True(t, params.AllowPromotionCodes)
	assert.Equal(t, "3mo", params.Metadata["plan_code"])
	assert.Equal(t, "full", params.Metadata["payment_option"])
	assert.Equal(t, "3", params.Metadata["duration"])
	assert.Empty(t, params.SubscriptionMetadata)
}

func TestBuildSessionInstallments(t *testing.T) {
	params, err := BuildSession(SessionRequest{PlanCode: "6mo-plus", Option: "3pay"}, origin)
	require.NoError(t, err)

	assert.Equal(t, "subscription", params.Mode)
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, int64(400000), params.LineItems[0].AmountCents)
	require.NotNil(t, params.LineItems[0].Recurring)
	assert.Equal(t, "month", params.LineItems[0].Recurring.Interval)
	assert.Equal(t, 1, params.LineItems[0].Recurring.IntervalCount)
	assert.Equal(t, "3", params.SubscriptionMetadata["total_payments"])
	assert.Contains(t, params.LineItems[0].Name, "3 payments of $4,000")
}

func TestBuildSessionInvalidPlan(t *testing.T) {
	_, err := BuildSession(SessionRequest{PlanCode: "12mo", Option: "full"}, origin)
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeInvalidPlan, stdErr.Code)
	assert.True(t, stdErr.IsClientError())
}

func TestBuildSessionInvalidOption(t *testing.T) {
	_, err := BuildSession(SessionRequest{PlanCode: "3mo", Option: "3pay"}, origin)
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeInvalidOption, stdErr.Code)
}

func TestResolvePlanAlumni(t *testing.T) {
	plan, ok := ResolvePlan("alumni-6mo")
	require.True(t, ok)
	assert.Equal(t, "alumni-6mo", plan.Code)
	assert.Equal(t, 6, plan.DurationMonths)

	full, ok := plan.FindOption("full")
	require.True(t, ok)
	assert.Equal(t, int64(435000), full.AmountCents)

	twoPay, ok := plan.FindOption("2pay")
	require.True(t, ok)
	assert.Equal(t, int64(247500), twoPay.AmountCents)
}

func TestResolvePlanAlumniUnknownBase(t *testing.T) {
	_, ok := ResolvePlan("alumni-9mo")
	assert.False(t, ok)
}

func TestPlanCatalogPrices(t *testing.T) {
	tests := []struct {
		plan   string
		option string
		cents  int64
	}{
		{"3mo", "full", 350000},
		{"3mo", "2pay", 200000},
		{"3mo-plus", "full", 600000},
		{"3mo-plus", "2pay", 350000},
		{"3mo-plus", "3pay", 250000},
		{"6mo", "full", 580000},
		{"6mo", "2pay", 330000},
		{"6mo", "3pay", 240000},
		{"6mo-plus", "full", 960000},
		{"6mo-plus", "2pay", 550000},
		{"6mo-plus", "3pay", 400000},
	}

	for _, tt := range tests {
		plan, ok := ResolvePlan(tt.plan)
		require.True(t, ok, tt.plan)
		option, ok := plan.FindOption(tt.option)
		require.True(t, ok, "%s/%s", tt.plan, tt.option)
		assert.Equal(t, tt.cents, option.AmountCents, "%s/%s", tt.plan, tt.option)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$3,500", FormatCents(350000))
	assert.Equal(t, "$960", FormatCents(96000))
	assert.Equal(t, "$2,475", FormatCents(247500))
	assert.Equal(t, "$1,234.56", FormatCents(123456))
}
