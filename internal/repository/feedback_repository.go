package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/archlabs/design-arena/internal/model"
)

// ErrFeedbackNotFound is returned when no feedback row exists for a design.
var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepo encapsulates all database queries related to feedback.
// There is at most one feedback row per design (unique key on
// design_id); re-grading overwrites rather than appends.
type FeedbackRepo struct {
	db *sql.DB
}

// NewFeedbackRepo constructs a FeedbackRepo with the provided DB handle.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

// Upsert writes the feedback row for a design, inserting on first grade
// and overwriting admin, rating, comments and timestamp on re-grade.
// The single INSERT ... ON DUPLICATE KEY UPDATE statement rides on the
// unique design_id key, so concurrent grades cannot produce two rows.
func (r *FeedbackRepo) Upsert(ctx context.Context, designID, adminID uint64, rating int, comments string) (*model.Feedback, error) {
	const q = `INSERT INTO feedback (design_id, admin_id, rating, comments)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               admin_id = VALUES(admin_id),
	               rating = VALUES(rating),
	               comments = VALUES(comments),
	               created_at = UTC_TIMESTAMP()`
	if _, err := r.db.ExecContext(ctx, q, designID, adminID, rating, comments); err != nil {
		return nil, err
	}
	return r.GetByDesign(ctx, designID)
}

// GetByDesign fetches the feedback row for a design, or
// ErrFeedbackNotFound when the design has not been graded.
func (r *FeedbackRepo) GetByDesign(ctx context.Context, designID uint64) (*model.Feedback, error) {
	const q = `SELECT id, design_id, admin_id, rating, comments, created_at
	           FROM feedback WHERE design_id = ? LIMIT 1`
	var f model.Feedback
	err := r.db.QueryRowContext(ctx, q, designID).Scan(
		&f.ID, &f.DesignID, &f.AdminID, &f.Rating, &f.Comments, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetDetailByDesign returns the feedback row joined with the grading
// admin's username for the read endpoint.
func (r *FeedbackRepo) GetDetailByDesign(ctx context.Context, designID uint64) (*model.FeedbackDetail, error) {
	const q = `SELECT f.id, f.design_id, f.admin_id, f.rating, f.comments, f.created_at, u.username
	           FROM feedback f
	           INNER JOIN users u ON u.id = f.admin_id
	           WHERE f.design_id = ? LIMIT 1`
	var fd model.FeedbackDetail
	err := r.db.QueryRowContext(ctx, q, designID).Scan(
		&fd.ID, &fd.DesignID, &fd.AdminID, &fd.Rating, &fd.Comments, &fd.CreatedAt, &fd.AdminUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &fd, nil
}
