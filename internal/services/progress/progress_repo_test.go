package progress

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlabs/worksync/internal/perrors"
)

func newMockRepo(t *testing.T) (*ProgressRepo, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewProgressRepo(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func TestProgressRepo_Fetch(t *testing.T) {
	t.Run("decodes the stored record", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		stored, err := DefaultWeeks().Value()
		require.NoError(t, err)
		mock.ExpectQuery("SELECT progress").
			WithArgs("user-a").
			WillReturnRows(sqlmock.NewRows([]string{"progress"}).AddRow(stored))

		weeks, err := repo.Fetch(context.Background(), "user-a")

		require.NoError(t, err)
		require.Len(t, weeks, TotalWeeks)
		assert.Equal(t, "Week 1", weeks[0].Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a missing row to not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT progress").
			WithArgs("user-a").
			WillReturnRows(sqlmock.NewRows([]string{"progress"}))

		_, err := repo.Fetch(context.Background(), "user-a")

		assert.True(t, perrors.Is(err, perrors.ErrCodeNotFound))
	})

	t.Run("maps a store failure to persistence failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT progress").
			WithArgs("user-a").
			WillReturnError(assert.AnError)

		_, err := repo.Fetch(context.Background(), "user-a")

		assert.True(t, perrors.Is(err, perrors.ErrCodePersistenceFailure))
	})
}

func TestProgressRepo_Upsert(t *testing.T) {
	t.Run("replaces the record whole", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		weeks := DefaultWeeks()
		now := time.Now()
		mock.ExpectExec("INSERT INTO user_progress").
			WithArgs("user-a", weeks, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Upsert(context.Background(), "user-a", weeks, now)

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a store failure to persistence failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec("INSERT INTO user_progress").
			WillReturnError(assert.AnError)

		err := repo.Upsert(context.Background(), "user-a", DefaultWeeks(), time.Now())

		assert.True(t, perrors.Is(err, perrors.ErrCodePersistenceFailure))
	})
}
