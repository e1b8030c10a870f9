package profile

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

var profileTestColumns = []string{"id", "display_name", "created_at", "updated_at"}

func newMockService(t *testing.T) (*ProfileService, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &ProfileService{repo: NewProfileRepo(sqlx.NewDb(mockDB, "sqlmock"))}, mock
}

func TestProfileService_GetOrCreate(t *testing.T) {
	t.Run("returns the existing profile", func(t *testing.T) {
		svc, mock := newMockService(t)

		now := time.Now()
		mock.ExpectQuery("FROM profiles").
			WithArgs("user-a").
			WillReturnRows(sqlmock.NewRows(profileTestColumns).
				AddRow("user-a", "Ada", now, now))

		p, err := svc.GetOrCreate(context.Background(), "user-a")

		require.NoError(t, err)
		assert.Equal(t, "Ada", p.DisplayName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lazily creates an empty profile on first access", func(t *testing.T) {
		svc, mock := newMockService(t)

		now := time.Now()
		mock.ExpectQuery("FROM profiles").
			WithArgs("user-a").
			WillReturnRows(sqlmock.NewRows(profileTestColumns))
		mock.ExpectQuery("INSERT INTO profiles").
			WithArgs("user-a", "").
			WillReturnRows(sqlmock.NewRows(profileTestColumns).
				AddRow("user-a", "", now, now))

		p, err := svc.GetOrCreate(context.Background(), "user-a")

		require.NoError(t, err)
		assert.Empty(t, p.DisplayName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no backend is surfaced as not configured", func(t *testing.T) {
		svc := &ProfileService{}

		_, err := svc.GetOrCreate(context.Background(), "user-a")

		assert.True(t, perrors.Is(err, perrors.ErrCodeNotConfigured))
	})
}

func TestProfileService_SetDisplayName(t *testing.T) {
	t.Run("trims and persists the name", func(t *testing.T) {
		svc, mock := newMockService(t)

		now := time.Now()
		mock.ExpectQuery("INSERT INTO profiles").
			WithArgs("user-a", "Ada").
			WillReturnRows(sqlmock.NewRows(profileTestColumns).
				AddRow("user-a", "Ada", now, now))

		p, err := svc.SetDisplayName(context.Background(), "user-a", "  Ada  ")

		require.NoError(t, err)
		assert.Equal(t, "Ada", p.DisplayName)
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		svc, mock := newMockService(t)

		_, err := svc.SetDisplayName(context.Background(), "user-a", "   ")

		assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidRequest))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
