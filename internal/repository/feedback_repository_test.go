package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedbackMock(t *testing.T) (*FeedbackRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFeedbackRepo(db), mock
}

func TestFeedbackUpsertRidesOnUniqueDesignKey(t *testing.T) {
	repo, mock := newFeedbackMock(t)

	mock.ExpectExec(`INSERT INTO feedback \(design_id, admin_id, rating, comments\)\s+VALUES \(\?, \?, \?, \?\)\s+ON DUPLICATE KEY UPDATE`).
		WithArgs(7, 100, 4, "solid").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM feedback WHERE design_id = \? LIMIT 1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "design_id", "admin_id", "rating", "comments", "created_at"}).
			AddRow(1, 7, 100, 4, "solid", time.Now()))

	f, err := repo.Upsert(context.Background(), 7, 100, 4, "solid")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), f.DesignID)
	assert.Equal(t, 4, f.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackGetByDesignNotFound(t *testing.T) {
	repo, mock := newFeedbackMock(t)

	mock.ExpectQuery(`FROM feedback WHERE design_id = \?`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByDesign(context.Background(), 7)
	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}

func TestFeedbackDetailJoinsAdminUsername(t *testing.T) {
	repo, mock := newFeedbackMock(t)

	mock.ExpectQuery(`INNER JOIN users u ON u\.id = f\.admin_id\s+WHERE f\.design_id = \?`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "design_id", "admin_id", "rating", "comments", "created_at", "username"}).
			AddRow(1, 7, 100, 5, "great", time.Now(), "grader"))

	fd, err := repo.GetDetailByDesign(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "grader", fd.AdminUsername)
}
