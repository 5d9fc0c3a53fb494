// Package automation runs the scheduled CRM sweep that welcomes new
// applicants and members.
package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"creator-funnel/internal/common/database"
	"creator-funnel/internal/common/errors"
)

// Ledger records which subscriber emails the sweep has already
// handled, so repeated runs stay idempotent. Marks are written after
// the side effects succeed, giving at-least-once delivery.
type Ledger interface {
	IsApplicantProcessed(ctx context.Context, email string) (bool, error)
	MarkApplicantProcessed(ctx context.Context, email string) error
	IsMemberProcessed(ctx context.Context, email string) (bool, error)
	MarkMemberProcessed(ctx context.Context, email string) error
	SetLastCheck(ctx context.Context, at time.Time) error
	LastCheck(ctx context.Context) (time.Time, error)
}

const (
	redisApplicantsKey = "funnel:processed:applicants"
	redisMembersKey    = "funnel:processed:members"
	redisLastCheckKey  = "funnel:sweep:last_check"
)

// RedisLedger keeps the processed sets in Redis.
type RedisLedger struct {
	client *database.RedisClient
}

func NewRedisLedger(client *database.RedisClient) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) IsApplicantProcessed(ctx context.Context, email string) (bool, error) {
	ok, err := l.client.SIsMember(ctx, redisApplicantsKey, email)
	if err != nil {
		return false, errors.NewLedgerFailedError(err)
	}
	return ok, nil
}

func (l *RedisLedger) MarkApplicantProcessed(ctx context.Context, email string) error {
	if err := l.client.SAdd(ctx, redisApplicantsKey, email); err != nil {
		return errors.NewLedgerFailedError(err)
	}
	return nil
}

func (l *RedisLedger) IsMemberProcessed(ctx context.Context, email string) (bool, error) {
	ok, err := l.client.SIsMember(ctx, redisMembersKey, email)
	if err != nil {
		return false, errors.NewLedgerFailedError(err)
	}
	return ok, nil
}

func (l *RedisLedger) MarkMemberProcessed(ctx context.Context, email string) error {
	if err := l.client.SAdd(ctx, redisMembersKey, email); err != nil {
		return errors.NewLedgerFailedError(err)
	}
	return nil
}

func (l *RedisLedger) SetLastCheck(ctx context.Context, at time.Time) error {
	if err := l.client.Set(ctx, redisLastCheckKey, at.UTC().Format(time.RFC3339), 0); err != nil {
		return errors.NewLedgerFailedError(err)
	}
	return nil
}

func (l *RedisLedger) LastCheck(ctx context.Context) (time.Time, error) {
	value, err := l.client.Get(ctx, redisLastCheckKey)
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.NewLedgerFailedError(err)
	}
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.NewLedgerFailedError(fmt.Errorf("invalid last-check value %q: %w", value, err))
	}
	return at, nil
}

type ledgerState struct {
	ProcessedApplicants []string `json:"processedApplicants"`
	ProcessedMembers    []string `json:"processedMembers"`
	LastCheck           string   `json:"lastCheck,omitempty"`
}

// FileLedger keeps the processed sets in a single JSON state file, for
// deployments without Redis.
type FileLedger struct {
	path string
	mu   sync.Mutex
}

func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

func (l *FileLedger) IsApplicantProcessed(_ context.Context, email string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	state, err := l.load()
	if err != nil {
		return false, err
	}
	return contains(state.ProcessedApplicants, email), nil
}

func (l *FileLedger) MarkApplicantProcessed(_ context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.update(func(state *ledgerState) {
		if !contains(state.ProcessedApplicants, email) {
			state.ProcessedApplicants = append(state.ProcessedApplicants, email)
		}
	})
}

func (l *FileLedger) IsMemberProcessed(_ context.Context, email string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	state, err := l.load()
	if err != nil {
		return false, err
	}
	return contains(state.ProcessedMembers, email), nil
}

func (l *FileLedger) MarkMemberProcessed(_ context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.update(func(state *ledgerState) {
		if !contains(state.ProcessedMembers, email) {
			state.ProcessedMembers = append(state.ProcessedMembers, email)
		}
	})
}

func (l *FileLedger) SetLastCheck(_ context.Context, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.update(func(state *ledgerState) {
		state.LastCheck = at.UTC().Format(time.RFC3339)
	})
}

func (l *FileLedger) LastCheck(_ context.Context) (time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	state, err := l.load()
	if err != nil {
		return time.Time{}, err
	}
	if state.LastCheck == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse(time.RFC3339, state.LastCheck)
	if err != nil {
		return time.Time{}, errors.NewLedgerFailedError(err)
	}
	return at, nil
}

func (l *FileLedger) load() (*ledgerState, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return &ledgerState{}, nil
	}
	if err != nil {
		return nil, errors.NewLedgerFailedError(err)
	}

	var state ledgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.NewLedgerFailedError(fmt.Errorf("failed to parse ledger file: %w", err))
	}
	return &state, nil
}

func (l *FileLedger) update(mutate func(*ledgerState)) error {
	state, err := l.load()
	if err != nil {
		return err
	}
	mutate(state)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.NewLedgerFailedError(err)
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewLedgerFailedError(err)
		}
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return errors.NewLedgerFailedError(err)
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
