package funnel

import "creator-funnel/internal/verify"

// QualifyThreshold is the minimum summed choice score for a pass.
const QualifyThreshold = 3

// QualificationResult is the outcome of scoring one answer set.
type QualificationResult struct {
	Qualified        bool                 `json:"qualified"`
	Score            int                  `json:"score"`
	Disqualified     bool                 `json:"disqualified"`
	DisqualifyReason string               `json:"disqualifyReason,omitempty"`
	Channel          *verify.VerifyResult `json:"channelVerification,omitempty"`
}

// Qualify scores an answer set against the question catalog.
//
// Questions are walked in catalog order; only multiple-choice questions
// score. An answered question contributes its matched choice's score;
// an answer value matching no choice contributes nothing. The first
// disqualifying choice stops scoring and records the question id.
func Qualify(data FormData) QualificationResult {
	score := 0
	disqualified := false
	disqualifyReason := ""

	for _, question := range Questions {
		if question.Type != TypeMultipleChoice || len(question.Choices) == 0 {
			continue
		}

		answer := data.Answer(question.ID)
		if answer == "" {
			continue
		}

		for _, choice := range question.Choices {
			if choice.Value != answer {
				continue
			}

			score += choice.Score

			if choice.Disqualifies {
				disqualified = true
				disqualifyReason = question.ID
			}
			break
		}

		if disqualified {
			break
		}
	}

	return QualificationResult{
		Qualified:        score >= QualifyThreshold && !disqualified,
		Score:            score,
		Disqualified:     disqualified,
		DisqualifyReason: disqualifyReason,
	}
}
