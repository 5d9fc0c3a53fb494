// Package funnel holds the application questionnaire and the
// qualification scoring engine.
package funnel

// QuestionType distinguishes how a question is answered.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeText           QuestionType = "text"
	TypeURL            QuestionType = "url"
)

// Choice is one selectable answer for a multiple-choice question.
type Choice struct {
	Text         string `json:"text"`
	Value        string `json:"value"`
	Score        int    `json:"score"`
	Disqualifies bool   `json:"disqualifies,omitempty"`
}

// Question is one entry in the ordered application questionnaire.
type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	Subtext     string       `json:"subtext,omitempty"`
	Choices     []Choice     `json:"choices,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// Questions is the static ordered catalog. Order drives the client
// screen flow; scoring walks the same order.
var Questions = []Question{
	{
		ID:       "active_creator",
		Type:     TypeMultipleChoice,
		Question: "Are you an active YouTube creator?",
		Choices: []Choice{
			{Text: "Yes", Value: "yes", Score: 0},
			{Text: "No", Value: "no", Score: 0, Disqualifies: true},
		},
	},
	{
		ID:       "duration",
		Type:     TypeMultipleChoice,
		Question: "How long have you been creating on YouTube?",
		Choices: []Choice{
			{Text: "Less than 6 months", Value: "<6mo", Score: 0},
			{Text: "6-12 months", Value: "6-12mo", Score: 1},
			{Text: "1-2 years", Value: "1-2yr", Score: 1},
			{Text: "More than 2 years", Value: "2yr+", Score: 1},
		},
	},
	{
		ID:       "subscribers",
		Type:     TypeMultipleChoice,
		Question: "How many subscribers do you have?",
		Choices: []Choice{
			{Text: "0-99", Value: "0-99", Score: 0},
			{Text: "100-1,000", Value: "100-1k", Score: 1},
			{Text: "1,001-5,000", Value: "1k-5k", Score: 1},
			{Text: "5,000+", Value: "5k+", Score: 1},
		},
	},
	{
		ID:       "goal",
		Type:     TypeMultipleChoice,
		Question: "What is your primary goal with YouTube?",
		Choices: []Choice{
			{Text: "Turn it into a full-time career or significantly grow my business", Value: "full-time", Score: 1},
			{Text: "It's more of a hobby or side project", Value: "hobby", Score: 0},
		},
	},
	{
		ID:       "investment_ready",
		Type:     TypeMultipleChoice,
		Question: "Are you prepared to invest in your growth?",
		Subtext:  "The Boundless Creator Program is a serious investment in your channel's future.",
		Choices: []Choice{
			{Text: "Yes, I'm ready to invest in my growth", Value: "yes", Score: 1},
			{Text: "Not right now", Value: "no", Score: 0, Disqualifies: true},
		},
	},
	{
		ID:       "time_commitment",
		Type:     TypeMultipleChoice,
		Question: "Are you ready to commit the time?",
		Subtext:  "This program requires dedicating 5-10+ hours per week to your channel.",
		Choices: []Choice{
			{Text: "Yes, I'm all in", Value: "yes", Score: 1},
			{Text: "I'm not sure I have the time", Value: "unsure", Score: 0, Disqualifies: true},
		},
	},
	{
		ID:          "challenge",
		Type:        TypeText,
		Question:    "What's the #1 biggest challenge you're facing with your YouTube channel right now?",
		Subtext:     "Be as specific as possible — this helps me understand your situation before our call.",
		Required:    true,
		Placeholder: "Type your answer here...",
	},
	{
		ID:          "channel_url",
		Type:        TypeURL,
		Question:    "Link to your YouTube channel",
		Required:    true,
		Placeholder: "https://youtube.com/@yourchannel",
	},
}

// FormData is the answer set submitted once per applicant, including
// contact and attribution fields collected on the final screen.
type FormData struct {
	ActiveCreator    string `json:"active_creator,omitempty"`
	Duration         string `json:"duration,omitempty"`
	Subscribers      string `json:"subscribers,omitempty"`
	Goal             string `json:"goal,omitempty"`
	InvestmentReady  string `json:"investment_ready,omitempty"`
	TimeCommitment   string `json:"time_commitment,omitempty"`
	Challenge        string `json:"challenge,omitempty"`
	ChannelURL       string `json:"channel_url,omitempty"`
	HasOtherPlatform bool   `json:"has_other_platform,omitempty"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
}

// Answer returns the answer value for a question id, empty when unanswered.
func (d FormData) Answer(questionID string) string {
	switch questionID {
	case "active_creator":
		return d.ActiveCreator
	case "duration":
		return d.Duration
	case "subscribers":
		return d.Subscribers
	case "goal":
		return d.Goal
	case "investment_ready":
		return d.InvestmentReady
	case "time_commitment":
		return d.TimeCommitment
	case "challenge":
		return d.Challenge
	case "channel_url":
		return d.ChannelURL
	default:
		return ""
	}
}
