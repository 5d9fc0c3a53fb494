// Package storage persists funnel submissions.
package storage

import (
	"context"
	"time"

	"creator-funnel/internal/funnel"
)

// Submission is one recorded application.
type Submission struct {
	ID            string                     `json:"id"`
	Timestamp     time.Time                  `json:"timestamp"`
	Data          funnel.FormData            `json:"data"`
	Qualification funnel.QualificationResult `json:"qualification"`
}

// Store appends and lists submissions.
type Store interface {
	Append(ctx context.Context, submission Submission) error
	List(ctx context.Context) ([]Submission, error)
}
