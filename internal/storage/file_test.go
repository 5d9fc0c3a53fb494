package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-funnel/internal/funnel"
)

func TestFileStoreAppendAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.json")
	store := NewFileStore(path)
	ctx := context.Background()

	first := Submission{
		ID:        "sub-1",
		Timestamp: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Data:      funnel.FormData{Email: "a@example.com", ActiveCreator: "yes"},
		Qualification: funnel.QualificationResult{
			Qualified: true,
			Score:     4,
		},
	}
	second := Submission{
		ID:        "sub-2",
		Timestamp: time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC),
		Data:      funnel.FormData{Email: "b@example.com", ActiveCreator: "no"},
		Qualification: funnel.QualificationResult{
			Disqualified:     true,
			DisqualifyReason: "active_creator",
		},
	}

	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	submissions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, "sub-1", submissions[0].ID)
	assert.Equal(t, "a@example.com", submissions[0].Data.Email)
	assert.True(t, submissions[0].Qualification.Qualified)
	assert.Equal(t, "active_creator", submissions[1].Qualification.DisqualifyReason)
}

func TestFileStoreListMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "never-written.json"))
	submissions, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, submissions)
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "submissions.json")
	store := NewFileStore(path)

	require.NoError(t, store.Append(context.Background(), Submission{ID: "sub-1", Timestamp: time.Now()}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	store := NewFileStore(path)
	_, err := store.List(context.Background())
	assert.Error(t, err)
}
