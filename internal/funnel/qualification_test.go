package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualify(t *testing.T) {
	tests := []struct {
		name             string
		data             FormData
		wantQualified    bool
		wantScore        int
		wantDisqualified bool
		wantReason       string
	}{
		{
			name: "strong applicant scores full marks",
			data: FormData{
				ActiveCreator:   "yes",
				Duration:        "2yr+",
				Subscribers:     "5k+",
				Goal:            "full-time",
				InvestmentReady: "yes",
				TimeCommitment:  "yes",
			},
			wantQualified: true,
			wantScore:     5,
		},
		{
			name: "exactly at threshold qualifies",
			data: FormData{
				ActiveCreator:   "yes",
				Duration:        "<6mo",
				Subscribers:     "100-1k",
				Goal:            "hobby",
				InvestmentReady: "yes",
				TimeCommitment:  "yes",
			},
			wantQualified: true,
			wantScore:     3,
		},
		{
			name: "one below threshold does not qualify",
			data: FormData{
				ActiveCreator:   "yes",
				Duration:        "<6mo",
				Subscribers:     "0-99",
				Goal:            "hobby",
				InvestmentReady: "yes",
				TimeCommitment:  "yes",
			},
			wantQualified: false,
			wantScore:     2,
		},
		{
			name: "not an active creator disqualifies immediately",
			data: FormData{
				ActiveCreator:   "no",
				Duration:        "2yr+",
				Subscribers:     "5k+",
				Goal:            "full-time",
				InvestmentReady: "yes",
				TimeCommitment:  "yes",
			},
			wantQualified:    false,
			wantScore:        0,
			wantDisqualified: true,
			wantReason:       "active_creator",
		},
		{
			name: "not ready to invest disqualifies with partial score",
			data: FormData{
				ActiveCreator:   "yes",
				Duration:        "2yr+",
				Subscribers:     "5k+",
				Goal:            "full-time",
				InvestmentReady: "no",
				TimeCommitment:  "yes",
			},
			wantQualified:    false,
			wantScore:        3,
			wantDisqualified: true,
			wantReason:       "investment_ready",
		},
		{
			name: "unsure about time commitment disqualifies",
			data: FormData{
				ActiveCreator:   "yes",
				Duration:        "2yr+",
				Subscribers:     "5k+",
				Goal:            "full-time",
				InvestmentReady: "yes",
				TimeCommitment:  "unsure",
			},
			wantQualified:    false,
			wantScore:        4,
			wantDisqualified: true,
			wantReason:       "time_commitment",
		},
		{
			name:          "empty submission scores zero without disqualifying",
			data:          FormData{},
			wantQualified: false,
			wantScore:     0,
		},
		{
			name: "unrecognized answer values contribute nothing",
			data: FormData{
				ActiveCreator:   "maybe",
				Duration:        "forever",
				Subscribers:     "5k+",
				Goal:            "full-time",
				InvestmentReady: "yes",
				TimeCommitment:  "yes",
			},
			wantQualified: true,
			wantScore:     4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Qualify(tt.data)
			assert.Equal(t, tt.wantQualified, result.Qualified, "qualified")
			assert.Equal(t, tt.wantScore, result.Score, "score")
			assert.Equal(t, tt.wantDisqualified, result.Disqualified, "disqualified")
			assert.Equal(t, tt.wantReason, result.DisqualifyReason, "disqualifyReason")
		})
	}
}

func TestQuestionCatalogShape(t *testing.T) {
	byID := map[string]Question{}
	for _, q := range Questions {
		byID[q.ID] = q
	}

	assert.Len(t, Questions, 8)
	assert.Equal(t, TypeText, byID["challenge"].Type)
	assert.Equal(t, TypeURL, byID["channel_url"].Type)

	disqualifiers := 0
	for _, q := range Questions {
		for _, c := range q.Choices {
			if c.Disqualifies {
				disqualifiers++
			}
		}
	}
	assert.Equal(t, 3, disqualifiers)
}
