package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/archlabs/design-arena/internal/model"
	"github.com/archlabs/design-arena/internal/queue"
	"github.com/archlabs/design-arena/internal/repository"
)

// Validation errors produced before any store access. Handlers map all
// of them to HTTP 400.
var (
	ErrInvalidDiagram      = errors.New("diagram payload must be a JSON array")
	ErrInvalidRating       = errors.New("rating must be an integer between 1 and 5")
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// DesignStore is the slice of the design repository the lifecycle
// service needs. *repository.DesignRepo satisfies it; tests substitute
// an in-memory fake.
type DesignStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Design, error)
	GetDraftByUserAndScenario(ctx context.Context, userID, scenarioID uint64) (*model.Design, error)
	Create(ctx context.Context, userID, scenarioID uint64, diagramData, textExplanation string) (*model.Design, error)
	UpdateDraft(ctx context.Context, id, userID uint64, diagramData, textExplanation string) (*model.Design, error)
	Submit(ctx context.Context, id, userID uint64) (*model.Design, error)
	MarkGraded(ctx context.Context, id uint64) error
	ListByUser(ctx context.Context, userID uint64, status string) ([]*model.DesignListItem, error)
	ListAll(ctx context.Context, status string) ([]*model.DesignListItem, error)
	GetDetail(ctx context.Context, id uint64) (*model.DesignDetail, error)
}

// FeedbackStore is the slice of the feedback repository the service needs.
type FeedbackStore interface {
	Upsert(ctx context.Context, designID, adminID uint64, rating int, comments string) (*model.Feedback, error)
	GetDetailByDesign(ctx context.Context, designID uint64) (*model.FeedbackDetail, error)
}

// ScenarioStore is the read-only slice of the scenario repository the
// service needs to verify scenario existence and enrich events.
type ScenarioStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Scenario, error)
}

// EventPublisher emits review events after successful transitions.
// Implementations must not block the request path on broker failures.
type EventPublisher interface {
	DesignSubmitted(ctx context.Context, ev queue.DesignSubmittedEvent) error
	DesignGraded(ctx context.Context, ev queue.DesignGradedEvent) error
}

// DesignService owns every status transition of the design lifecycle:
//
//	DRAFT --submit--> SUBMITTED --grade--> GRADED
//
// Handlers stay thin: they parse and authenticate, then delegate here.
// The service fails fast on validation, checks existence before
// ownership (so 404 is never leaked as 403 and vice versa), and keeps
// each mutation a single repository write.
type DesignService struct {
	designs   DesignStore
	feedback  FeedbackStore
	scenarios ScenarioStore
	events    EventPublisher // may be nil; events are best-effort
}

// NewDesignService constructs a DesignService. events may be nil to
// disable publishing (used by tests and broker-less deployments).
func NewDesignService(d DesignStore, f FeedbackStore, s ScenarioStore, events EventPublisher) *DesignService {
	if d == nil || f == nil || s == nil {
		panic("nil store passed to NewDesignService")
	}
	return &DesignService{designs: d, feedback: f, scenarios: s, events: events}
}

// UpsertDraft finds the caller's existing DRAFT for the scenario and
// overwrites it in place, or inserts a new DRAFT when none exists. The
// returned bool reports whether a new record was created (drives 201 vs
// 200 at the HTTP boundary). The find-then-write sequence is not a
// serializable unit: two concurrent first-time upserts can both insert,
// and the ORDER BY id DESC draft lookup then picks the newer row on the
// next load. That weak point is inherited behavior, not a guarantee.
func (s *DesignService) UpsertDraft(ctx context.Context, userID, scenarioID uint64, diagramData, textExplanation string) (*model.Design, bool, error) {
	if !model.ValidDiagramData(diagramData) {
		return nil, false, ErrInvalidDiagram
	}
	if _, err := s.scenarios.GetByID(ctx, scenarioID); err != nil {
		return nil, false, err
	}

	existing, err := s.designs.GetDraftByUserAndScenario(ctx, userID, scenarioID)
	switch {
	case err == nil:
		updated, err := s.designs.UpdateDraft(ctx, existing.ID, userID, diagramData, textExplanation)
		if err != nil {
			if errors.Is(err, repository.ErrNoRowsUpdated) {
				// The draft moved out from under us between lookup and write
				// (e.g. submitted in another tab).
				return nil, false, repository.ErrConflict
			}
			return nil, false, err
		}
		return updated, false, nil
	case errors.Is(err, repository.ErrDesignNotFound):
		created, err := s.designs.Create(ctx, userID, scenarioID, diagramData, textExplanation)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	default:
		return nil, false, err
	}
}

// UpdateDraft overwrites an owned DRAFT's diagram and explanation.
// Checks run existence -> ownership -> status so the caller receives
// the precise failure: ErrDesignNotFound, ErrForbidden or ErrConflict.
func (s *DesignService) UpdateDraft(ctx context.Context, designID, userID uint64, diagramData, textExplanation string) (*model.Design, error) {
	if !model.ValidDiagramData(diagramData) {
		return nil, ErrInvalidDiagram
	}
	if err := s.checkOwnedDraft(ctx, designID, userID); err != nil {
		return nil, err
	}
	updated, err := s.designs.UpdateDraft(ctx, designID, userID, diagramData, textExplanation)
	if errors.Is(err, repository.ErrNoRowsUpdated) {
		return nil, repository.ErrConflict
	}
	return updated, err
}

// SubmitDraft transitions an owned DRAFT to SUBMITTED and stamps the
// submission time. A design that is already SUBMITTED (or GRADED)
// yields ErrConflict and zero row writes, so double submission can
// never reset the stamp.
func (s *DesignService) SubmitDraft(ctx context.Context, designID, userID uint64) (*model.Design, error) {
	if err := s.checkOwnedDraft(ctx, designID, userID); err != nil {
		return nil, err
	}
	submitted, err := s.designs.Submit(ctx, designID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRowsUpdated) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	s.publishSubmitted(ctx, submitted)
	return submitted, nil
}

// checkOwnedDraft verifies a design exists, belongs to userID and is
// still a DRAFT, in that order.
func (s *DesignService) checkOwnedDraft(ctx context.Context, designID, userID uint64) error {
	d, err := s.designs.GetByID(ctx, designID)
	if err != nil {
		return err
	}
	if d.UserID != userID {
		return repository.ErrForbidden
	}
	if d.Status != model.StatusDraft {
		return repository.ErrConflict
	}
	return nil
}

// RecordFeedback upserts the feedback row for a design and marks the
// design GRADED. The rating is validated before any store access; the
// target must already be SUBMITTED or GRADED. Feedback is written
// before the status flip so a crash between the two leaves a
// still-SUBMITTED design that can simply be graded again. Re-grading
// overwrites the prior row and keeps status GRADED.
func (s *DesignService) RecordFeedback(ctx context.Context, designID, adminID uint64, rating int, comments string) (*model.FeedbackDetail, error) {
	if !model.ValidRating(rating) {
		return nil, ErrInvalidRating
	}
	d, err := s.designs.GetByID(ctx, designID)
	if err != nil {
		return nil, err
	}
	if !model.GradableStatus(d.Status) {
		return nil, repository.ErrConflict
	}
	if _, err := s.feedback.Upsert(ctx, designID, adminID, rating, comments); err != nil {
		return nil, err
	}
	if err := s.designs.MarkGraded(ctx, designID); err != nil {
		return nil, err
	}
	detail, err := s.feedback.GetDetailByDesign(ctx, designID)
	if err != nil {
		return nil, err
	}
	s.publishGraded(ctx, d, adminID, rating)
	return detail, nil
}

// GetFeedback returns the feedback for a design together with the
// design row. Visibility checks run in a fixed order: the design's
// existence is checked first (404), then ownership (403: only the
// design's author or an admin may read its feedback), then the feedback
// row itself (404).
func (s *DesignService) GetFeedback(ctx context.Context, designID, callerID uint64, isAdmin bool) (*model.FeedbackDetail, *model.Design, error) {
	d, err := s.designs.GetByID(ctx, designID)
	if err != nil {
		return nil, nil, err
	}
	if !isAdmin && d.UserID != callerID {
		return nil, nil, repository.ErrForbidden
	}
	fd, err := s.feedback.GetDetailByDesign(ctx, designID)
	if err != nil {
		return nil, nil, err
	}
	return fd, d, nil
}

// GetDraft returns the caller's current DRAFT for a scenario, or nil
// when none exists. The scenario must exist.
func (s *DesignService) GetDraft(ctx context.Context, userID, scenarioID uint64) (*model.Design, error) {
	if _, err := s.scenarios.GetByID(ctx, scenarioID); err != nil {
		return nil, err
	}
	d, err := s.designs.GetDraftByUserAndScenario(ctx, userID, scenarioID)
	if errors.Is(err, repository.ErrDesignNotFound) {
		return nil, nil
	}
	return d, err
}

// ListForUser returns the user's designs, optionally filtered by a
// status that must be one of DRAFT, SUBMITTED or GRADED.
func (s *DesignService) ListForUser(ctx context.Context, userID uint64, status string) ([]*model.DesignListItem, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, ErrInvalidStatusFilter
	}
	return s.designs.ListByUser(ctx, userID, status)
}

// ListForAdmin returns every user's designs for the review queue.
func (s *DesignService) ListForAdmin(ctx context.Context, status string) ([]*model.DesignListItem, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, ErrInvalidStatusFilter
	}
	return s.designs.ListAll(ctx, status)
}

// GetDetail returns the joined detail record, or ErrDesignNotFound.
func (s *DesignService) GetDetail(ctx context.Context, designID uint64) (*model.DesignDetail, error) {
	return s.designs.GetDetail(ctx, designID)
}

// publishSubmitted emits a design.submitted event. Best-effort: any
// failure is logged by the publisher and ignored here.
func (s *DesignService) publishSubmitted(ctx context.Context, d *model.Design) {
	if s.events == nil {
		return
	}
	ev := queue.DesignSubmittedEvent{
		DesignID:   d.ID,
		UserID:     d.UserID,
		ScenarioID: d.ScenarioID,
	}
	if d.SubmittedAt != nil {
		ev.SubmittedAt = d.SubmittedAt.UTC().Format(time.RFC3339)
	}
	if sc, err := s.scenarios.GetByID(ctx, d.ScenarioID); err == nil {
		ev.ScenarioTitle = sc.Title
	}
	if err := s.events.DesignSubmitted(ctx, ev); err != nil {
		log.Printf("design-service: publish submitted event failed: %v", err)
	}
}

// publishGraded emits a design.graded event, same contract as above.
func (s *DesignService) publishGraded(ctx context.Context, d *model.Design, adminID uint64, rating int) {
	if s.events == nil {
		return
	}
	ev := queue.DesignGradedEvent{
		DesignID: d.ID,
		AdminID:  adminID,
		Rating:   rating,
		GradedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if sc, err := s.scenarios.GetByID(ctx, d.ScenarioID); err == nil {
		ev.ScenarioTitle = sc.Title
	}
	if err := s.events.DesignGraded(ctx, ev); err != nil {
		log.Printf("design-service: publish graded event failed: %v", err)
	}
}
