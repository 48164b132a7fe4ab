package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlabs/design-arena/internal/model"
)

func newDesignMock(t *testing.T) (*DesignRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDesignRepo(db), mock
}

func designRows(id, userID, scenarioID uint64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "scenario_id", "diagram_data", "text_explanation", "status", "created_at", "submitted_at",
	}).AddRow(id, userID, scenarioID, "[]", "", status, time.Now(), nil)
}

func TestGetDraftPicksNewestDraftOnly(t *testing.T) {
	repo, mock := newDesignMock(t)

	mock.ExpectQuery(`status = 'DRAFT'\s+ORDER BY id DESC\s+LIMIT 1`).
		WithArgs(1, 10).
		WillReturnRows(designRows(7, 1, 10, model.StatusDraft))

	d, err := repo.GetDraftByUserAndScenario(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), d.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDraftNotFound(t *testing.T) {
	repo, mock := newDesignMock(t)

	mock.ExpectQuery(`ORDER BY id DESC`).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetDraftByUserAndScenario(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrDesignNotFound)
}

func TestUpdateDraftGuardedByOwnerAndStatus(t *testing.T) {
	repo, mock := newDesignMock(t)

	mock.ExpectExec(`UPDATE designs\s+SET diagram_data = \?, text_explanation = \?\s+WHERE id = \? AND user_id = \? AND status = 'DRAFT'`).
		WithArgs(`[{"a":1}]`, "notes", 7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM designs WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(designRows(7, 1, 10, model.StatusDraft))

	d, err := repo.UpdateDraft(context.Background(), 7, 1, `[{"a":1}]`, "notes")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), d.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDraftZeroRowsReportsNoRowsUpdated(t *testing.T) {
	repo, mock := newDesignMock(t)

	mock.ExpectExec(`UPDATE designs`).
		WithArgs("[]", "", 7, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateDraft(context.Background(), 7, 2, "[]", "")
	assert.ErrorIs(t, err, ErrNoRowsUpdated)
}

func TestSubmitStampsAndGuards(t *testing.T) {
	repo, mock := newDesignMock(t)

	mock.ExpectExec(`SET status = 'SUBMITTED', submitted_at = UTC_TIMESTAMP\(\)\s+WHERE id = \? AND user_id = \? AND status = 'DRAFT'`).
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM designs WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(designRows(7, 1, 10, model.StatusSubmitted))

	d, err := repo.Submit(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, d.Status)

	// Second submit matches zero rows.
	mock.ExpectExec(`SET status = 'SUBMITTED'`).
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = repo.Submit(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrNoRowsUpdated)
}

func TestMarkGradedIsUnconditional(t *testing.T) {
	repo, mock := newDesignMock(t)

	mock.ExpectExec(`UPDATE designs SET status = 'GRADED' WHERE id = \?`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkGraded(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUserAppliesStatusFilter(t *testing.T) {
	repo, mock := newDesignMock(t)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "scenario_id", "status", "created_at", "submitted_at",
		"title", "difficulty", "username",
	}).AddRow(9, 1, 10, model.StatusSubmitted, time.Now(), time.Now(), "URL shortener", "MEDIUM", "alice")

	mock.ExpectQuery(`WHERE d\.user_id = \? AND d\.status = \?\s+ORDER BY d\.id DESC`).
		WithArgs(1, model.StatusSubmitted).
		WillReturnRows(rows)

	items, err := repo.ListByUser(context.Background(), 1, model.StatusSubmitted)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "URL shortener", items[0].ScenarioTitle)
	assert.Equal(t, "alice", items[0].Username)
}
