package model

import (
    "encoding/json"
    "time"
)

// Design statuses. A design only ever moves forward:
//
//	DRAFT --submit--> SUBMITTED --grade--> GRADED
//
// GRADED is terminal for the status column, though feedback content
// may be overwritten by repeated grading (a self-loop on GRADED).
const (
    StatusDraft     = "DRAFT"
    StatusSubmitted = "SUBMITTED"
    StatusGraded    = "GRADED"
)

// ValidStatus reports whether s is one of the accepted design
// statuses. Used to validate the ?status= list filter.
func ValidStatus(s string) bool {
    switch s {
    case StatusDraft, StatusSubmitted, StatusGraded:
        return true
    }
    return false
}

// Design is the central mutable entity of the platform: one user's
// answer to one scenario. DiagramData holds a JSON-encoded array of
// opaque drawable elements produced by the whiteboard component; the
// server validates only that it is an array and never inspects the
// elements themselves.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – owning user.
//  ScenarioID      – scenario being answered.
//  DiagramData     – JSON array of opaque drawing elements.
//  TextExplanation – free-text explanation, may be empty.
//  Status          – DRAFT, SUBMITTED or GRADED.
//  CreatedAt       – creation timestamp.
//  SubmittedAt     – stamped on the DRAFT→SUBMITTED transition (null before).
type Design struct {
    ID              uint64     // designs.id
    UserID          uint64     // designs.user_id
    ScenarioID      uint64     // designs.scenario_id
    DiagramData     string     // designs.diagram_data
    TextExplanation string     // designs.text_explanation
    Status          string     // designs.status
    CreatedAt       time.Time  // designs.created_at
    SubmittedAt     *time.Time // designs.submitted_at (nullable)
}

// GradableStatus reports whether a design in status s may receive
// feedback. Grading a DRAFT is a state conflict.
func GradableStatus(s string) bool {
    return s == StatusSubmitted || s == StatusGraded
}

// ValidDiagramData reports whether raw deserializes to a JSON array.
// This is the entire server-side contract for diagram payloads: an
// ordered list of opaque element records. Element internals belong to
// the whiteboard component.
func ValidDiagramData(raw string) bool {
    var elements []json.RawMessage
    return json.Unmarshal([]byte(raw), &elements) == nil
}

// DesignListItem is a read-only list projection joining the columns
// the dashboard needs: scenario title/difficulty and the author's
// username. Rows are ordered newest-id-first by the repository.
type DesignListItem struct {
    ID                 uint64     // designs.id
    UserID             uint64     // designs.user_id
    ScenarioID         uint64     // designs.scenario_id
    Status             string     // designs.status
    CreatedAt          time.Time  // designs.created_at
    SubmittedAt        *time.Time // designs.submitted_at
    ScenarioTitle      string     // scenarios.title
    ScenarioDifficulty string     // scenarios.difficulty
    Username           string     // users.username
}

// DesignDetail joins a design with its author and the full scenario
// record for the detail endpoint and the feedback view.
type DesignDetail struct {
    Design
    Username                          string // users.username
    UserEmail                         string // users.email
    ScenarioTitle                     string // scenarios.title
    ScenarioDescription               string // scenarios.description
    ScenarioDifficulty                string // scenarios.difficulty
    ScenarioFunctionalRequirements    string // scenarios.functional_requirements
    ScenarioNonFunctionalRequirements string // scenarios.non_functional_requirements
    ScenarioCapacityEstimations       string // scenarios.capacity_estimations
}
