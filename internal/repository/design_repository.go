// Package repository: design persistence. The DesignRepo owns every SQL
// statement touching the `designs` table, including the guarded
// lifecycle updates (draft mutation and submission) that enforce
// owner + status in the WHERE clause and report zero affected rows to
// callers instead of guessing why the row did not match. Status
// interpretation (which error the caller deserves) happens one layer
// up, in the lifecycle service.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/archlabs/design-arena/internal/model"
)

// ErrDesignNotFound is returned when a design cannot be found in the DB.
var ErrDesignNotFound = errors.New("design not found")

// ErrNoRowsUpdated is returned by the guarded updates (UpdateDraft,
// Submit) when the WHERE clause matched nothing: the design is missing,
// owned by someone else, or not a DRAFT. The lifecycle service
// re-checks the row to produce the precise error.
var ErrNoRowsUpdated = errors.New("no rows updated")

// DesignRepo encapsulates all database queries related to designs.
type DesignRepo struct {
	db *sql.DB
}

// NewDesignRepo constructs a DesignRepo with the provided DB handle.
func NewDesignRepo(db *sql.DB) *DesignRepo {
	return &DesignRepo{db: db}
}

const designCols = "id, user_id, scenario_id, diagram_data, text_explanation, status, created_at, submitted_at"

func scanDesign(sc interface{ Scan(...any) error }) (*model.Design, error) {
	var (
		d           model.Design
		submittedAt sql.NullTime
	)
	err := sc.Scan(&d.ID, &d.UserID, &d.ScenarioID, &d.DiagramData, &d.TextExplanation,
		&d.Status, &d.CreatedAt, &submittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDesignNotFound
		}
		return nil, err
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		d.SubmittedAt = &t
	}
	return &d, nil
}

// GetByID fetches a design by its ID regardless of owner. Returns
// ErrDesignNotFound when absent.
func (r *DesignRepo) GetByID(ctx context.Context, id uint64) (*model.Design, error) {
	return scanDesign(r.db.QueryRowContext(ctx,
		"SELECT "+designCols+" FROM designs WHERE id = ?", id))
}

// GetDraftByUserAndScenario returns the caller's current DRAFT for a
// scenario, or ErrDesignNotFound when there is none. If concurrent
// upserts ever raced a second DRAFT into existence, the highest id wins
// here, which is what lets a later load self-resolve the duplicate.
func (r *DesignRepo) GetDraftByUserAndScenario(ctx context.Context, userID, scenarioID uint64) (*model.Design, error) {
	const q = `SELECT ` + designCols + `
	           FROM designs
	           WHERE user_id = ? AND scenario_id = ? AND status = 'DRAFT'
	           ORDER BY id DESC
	           LIMIT 1`
	return scanDesign(r.db.QueryRowContext(ctx, q, userID, scenarioID))
}

// Create inserts a new DRAFT design and returns the stored row.
func (r *DesignRepo) Create(ctx context.Context, userID, scenarioID uint64, diagramData, textExplanation string) (*model.Design, error) {
	const q = `INSERT INTO designs (user_id, scenario_id, diagram_data, text_explanation)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, userID, scenarioID, diagramData, textExplanation)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// UpdateDraft overwrites diagram and explanation in place, but only
// while the row is still the caller's DRAFT. Returns ErrNoRowsUpdated
// when the guard matched nothing.
func (r *DesignRepo) UpdateDraft(ctx context.Context, id, userID uint64, diagramData, textExplanation string) (*model.Design, error) {
	const q = `UPDATE designs
	           SET diagram_data = ?, text_explanation = ?
	           WHERE id = ? AND user_id = ? AND status = 'DRAFT'`
	res, err := r.db.ExecContext(ctx, q, diagramData, textExplanation, id, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNoRowsUpdated
	}
	return r.GetByID(ctx, id)
}

// Submit transitions the caller's DRAFT to SUBMITTED and stamps the
// submission time. The guard makes a second submit affect zero rows,
// so an already-SUBMITTED design is never re-stamped.
func (r *DesignRepo) Submit(ctx context.Context, id, userID uint64) (*model.Design, error) {
	const q = `UPDATE designs
	           SET status = 'SUBMITTED', submitted_at = UTC_TIMESTAMP()
	           WHERE id = ? AND user_id = ? AND status = 'DRAFT'`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNoRowsUpdated
	}
	return r.GetByID(ctx, id)
}

// MarkGraded unconditionally sets status = GRADED. Only the feedback
// path calls it, after verifying the design was SUBMITTED or GRADED;
// re-running it on a GRADED design is a harmless self-loop, which makes
// the feedback-then-status write sequence safe to retry.
func (r *DesignRepo) MarkGraded(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE designs SET status = 'GRADED' WHERE id = ?", id)
	return err
}

const designListSelect = `
	SELECT d.id, d.user_id, d.scenario_id, d.status, d.created_at, d.submitted_at,
	       s.title, s.difficulty, u.username
	FROM designs d
	INNER JOIN scenarios s ON s.id = d.scenario_id
	INNER JOIN users u ON u.id = d.user_id`

func collectListItems(rows *sql.Rows) ([]*model.DesignListItem, error) {
	defer rows.Close()
	var out []*model.DesignListItem
	for rows.Next() {
		var (
			it          model.DesignListItem
			submittedAt sql.NullTime
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.ScenarioID, &it.Status, &it.CreatedAt, &submittedAt,
			&it.ScenarioTitle, &it.ScenarioDifficulty, &it.Username); err != nil {
			return nil, err
		}
		if submittedAt.Valid {
			t := submittedAt.Time
			it.SubmittedAt = &t
		}
		out = append(out, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns the user's designs joined with scenario title,
// difficulty and username, newest id first. An empty status means no
// filter; validation of the status value happens at the boundary.
func (r *DesignRepo) ListByUser(ctx context.Context, userID uint64, status string) ([]*model.DesignListItem, error) {
	q := designListSelect + " WHERE d.user_id = ?"
	args := []any{userID}
	if status != "" {
		q += " AND d.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY d.id DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectListItems(rows)
}

// ListAll returns every user's designs for the admin review queue,
// with the same joins and ordering as ListByUser.
func (r *DesignRepo) ListAll(ctx context.Context, status string) ([]*model.DesignListItem, error) {
	q := designListSelect
	var args []any
	if status != "" {
		q += " WHERE d.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY d.id DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectListItems(rows)
}

// GetDetail fetches a design joined with its author and the full
// scenario record. Returns ErrDesignNotFound when absent.
func (r *DesignRepo) GetDetail(ctx context.Context, id uint64) (*model.DesignDetail, error) {
	const q = `SELECT d.id, d.user_id, d.scenario_id, d.diagram_data, d.text_explanation,
	                  d.status, d.created_at, d.submitted_at,
	                  u.username, u.email,
	                  s.title, s.description, s.difficulty,
	                  s.functional_requirements, s.non_functional_requirements, s.capacity_estimations
	           FROM designs d
	           INNER JOIN users u ON u.id = d.user_id
	           INNER JOIN scenarios s ON s.id = d.scenario_id
	           WHERE d.id = ?`
	var (
		dd          model.DesignDetail
		submittedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&dd.ID, &dd.UserID, &dd.ScenarioID, &dd.DiagramData, &dd.TextExplanation,
		&dd.Status, &dd.CreatedAt, &submittedAt,
		&dd.Username, &dd.UserEmail,
		&dd.ScenarioTitle, &dd.ScenarioDescription, &dd.ScenarioDifficulty,
		&dd.ScenarioFunctionalRequirements, &dd.ScenarioNonFunctionalRequirements, &dd.ScenarioCapacityEstimations)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDesignNotFound
		}
		return nil, err
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		dd.SubmittedAt = &t
	}
	return &dd, nil
}
