package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"creator-funnel/internal/common/errors"
)

// FileStore keeps submissions in a single JSON array on disk. Writes
// rewrite the whole file under a lock; adequate for funnel volume.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Append(ctx context.Context, submission Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.load()
	if err != nil {
		return errors.NewStorageFailedError(err)
	}

	submissions = append(submissions, submission)
	if err := s.save(submissions); err != nil {
		return errors.NewStorageFailedError(err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.load()
	if err != nil {
		return nil, errors.NewStorageFailedError(err)
	}
	return submissions, nil
}

func (s *FileStore) load() ([]Submission, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read submissions file: %w", err)
	}
	if len(data) == 0 {
		return []Submission{}, nil
	}

	var submissions []Submission
	if err := json.Unmarshal(data, &submissions); err != nil {
		return nil, fmt.Errorf("failed to parse submissions file: %w", err)
	}
	return submissions, nil
}

func (s *FileStore) save(submissions []Submission) error {
	data, err := json.MarshalIndent(submissions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Write-then-rename so a crash mid-write never truncates the file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write submissions file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace submissions file: %w", err)
	}
	return nil
}
