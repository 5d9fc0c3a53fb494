package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-funnel/internal/common/database"
	"creator-funnel/internal/funnel"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(&database.PostgresClient{DB: db}), mock
}

func TestPostgresStoreAppend(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO submissions").
		WithArgs("sub-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Append(context.Background(), Submission{
		ID:        "sub-1",
		Timestamp: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Data:      funnel.FormData{Email: "a@example.com"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreAppendFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO submissions").
		WillReturnError(assert.AnError)

	err := store.Append(context.Background(), Submission{ID: "sub-1", Timestamp: time.Now()})
	assert.Error(t, err)
}

func TestPostgresStoreList(t *testing.T) {
	store, mock := newMockStore(t)

	submittedAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "submitted_at", "form_data", "qualification"}).
		AddRow("sub-1", submittedAt,
			[]byte(`{"email":"a@example.com","active_creator":"yes"}`),
			[]byte(`{"qualified":true,"score":4,"disqualified":false}`))

	mock.ExpectQuery("SELECT id, submitted_at, form_data, qualification").
		WillReturnRows(rows)

	submissions, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "sub-1", submissions[0].ID)
	assert.Equal(t, "a@example.com", submissions[0].Data.Email)
	assert.True(t, submissions[0].Qualification.Qualified)
	assert.Equal(t, 4, submissions[0].Qualification.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
