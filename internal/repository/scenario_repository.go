// Package repository contains data access logic separated from HTTP
// handlers and services. This file defines repository methods for
// scenario CRUD. A Scenario is a design prompt authored by an admin;
// its requirement columns are opaque JSON blobs validated at the
// handler boundary, never interpreted here.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/archlabs/design-arena/internal/model"
)

// ErrScenarioNotFound is returned when a scenario cannot be found in the DB.
var ErrScenarioNotFound = errors.New("scenario not found")

// ScenarioRepo encapsulates all database queries related to scenarios.
// It depends on a sql.DB connection injected at startup.
type ScenarioRepo struct {
	db *sql.DB
}

// NewScenarioRepo constructs a ScenarioRepo with the provided DB handle.
func NewScenarioRepo(db *sql.DB) *ScenarioRepo {
	return &ScenarioRepo{db: db}
}

const scenarioCols = "id, title, description, difficulty, functional_requirements, non_functional_requirements, capacity_estimations, created_at"

func scanScenario(row *sql.Row) (*model.Scenario, error) {
	var s model.Scenario
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Difficulty,
		&s.FunctionalRequirements, &s.NonFunctionalRequirements, &s.CapacityEstimations, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScenarioNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new scenario. On success the ID field is populated
// with the auto-generated value and a follow-up SELECT fills the
// created_at default so callers receive a fully populated record.
func (r *ScenarioRepo) Create(ctx context.Context, s *model.Scenario) error {
	const q = `INSERT INTO scenarios
	           (title, description, difficulty, functional_requirements, non_functional_requirements, capacity_estimations)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Title, s.Description, s.Difficulty,
		s.FunctionalRequirements, s.NonFunctionalRequirements, s.CapacityEstimations)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM scenarios WHERE id = ?", s.ID).Scan(&s.CreatedAt)
}

// GetByID fetches a scenario by its ID. It returns ErrScenarioNotFound
// if no row is found.
func (r *ScenarioRepo) GetByID(ctx context.Context, id uint64) (*model.Scenario, error) {
	return scanScenario(r.db.QueryRowContext(ctx,
		"SELECT "+scenarioCols+" FROM scenarios WHERE id = ?", id))
}

// List returns all scenarios, newest first.
func (r *ScenarioRepo) List(ctx context.Context) ([]*model.Scenario, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+scenarioCols+" FROM scenarios ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Scenario
	for rows.Next() {
		s := new(model.Scenario)
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Difficulty,
			&s.FunctionalRequirements, &s.NonFunctionalRequirements, &s.CapacityEstimations, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites all editable fields of a scenario. It returns
// ErrScenarioNotFound when no row matches the id.
func (r *ScenarioRepo) Update(ctx context.Context, s *model.Scenario) error {
	const q = `UPDATE scenarios
	           SET title = ?, description = ?, difficulty = ?,
	               functional_requirements = ?, non_functional_requirements = ?, capacity_estimations = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Title, s.Description, s.Difficulty,
		s.FunctionalRequirements, s.NonFunctionalRequirements, s.CapacityEstimations, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "missing" from "no change": an UPDATE with identical
		// values also affects zero rows on MySQL, so check existence.
		var exists uint64
		if err := r.db.QueryRowContext(ctx, "SELECT id FROM scenarios WHERE id = ?", s.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrScenarioNotFound
			}
			return err
		}
	}
	return nil
}

// DeleteCascade removes a scenario together with every design answering
// it and all feedback on those designs. Referential constraints force
// the order feedback -> designs -> scenario, and the whole sequence runs
// in a single transaction so a failure leaves no orphans behind. It
// returns ErrScenarioNotFound when the scenario does not exist.
func (r *ScenarioRepo) DeleteCascade(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM scenarios WHERE id = ?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrScenarioNotFound
		}
		return err
	}

	// Feedback rows hang off designs, so they go first.
	if _, err = tx.ExecContext(ctx,
		`DELETE f FROM feedback f
		 JOIN designs d ON d.id = f.design_id
		 WHERE d.scenario_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM designs WHERE scenario_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}
