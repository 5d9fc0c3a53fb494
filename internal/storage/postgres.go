package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"creator-funnel/internal/common/database"
	"creator-funnel/internal/common/errors"
)

// PostgresStore persists submissions in a submissions table with the
// form data and qualification held as JSONB columns.
type PostgresStore struct {
	db *database.PostgresClient
}

func NewPostgresStore(db *database.PostgresClient) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, submission Submission) error {
	data, err := json.Marshal(submission.Data)
	if err != nil {
		return errors.NewStorageFailedError(fmt.Errorf("failed to marshal form data: %w", err))
	}
	qualification, err := json.Marshal(submission.Qualification)
	if err != nil {
		return errors.NewStorageFailedError(fmt.Errorf("failed to marshal qualification: %w", err))
	}

	const query = `
		INSERT INTO submissions (id, submitted_at, form_data, qualification)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.db.Exec(ctx, query, submission.ID, submission.Timestamp, data, qualification); err != nil {
		return errors.NewStorageFailedError(fmt.Errorf("failed to insert submission: %w", err))
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Submission, error) {
	const query = `
		SELECT id, submitted_at, form_data, qualification
		FROM submissions
		ORDER BY submitted_at ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, errors.NewStorageFailedError(fmt.Errorf("failed to query submissions: %w", err))
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var sub Submission
		var data, qualification []byte
		if err := rows.Scan(&sub.ID, &sub.Timestamp, &data, &qualification); err != nil {
			return nil, errors.NewStorageFailedError(fmt.Errorf("failed to scan submission: %w", err))
		}
		if err := json.Unmarshal(data, &sub.Data); err != nil {
			return nil, errors.NewStorageFailedError(fmt.Errorf("failed to parse form data: %w", err))
		}
		if err := json.Unmarshal(qualification, &sub.Qualification); err != nil {
			return nil, errors.NewStorageFailedError(fmt.Errorf("failed to parse qualification: %w", err))
		}
		submissions = append(submissions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageFailedError(err)
	}
	return submissions, nil
}
