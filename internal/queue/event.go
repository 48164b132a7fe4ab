// Package queue defines message payloads exchanged over the message broker.
package queue

// DesignSubmittedEvent is published when a user submits a design for
// grading. It carries enough information for downstream consumers to
// log or notify reviewers without querying the primary database.
type DesignSubmittedEvent struct {
    DesignID      uint64 `json:"design_id"`
    UserID        uint64 `json:"user_id"`
    Username      string `json:"username"`
    ScenarioID    uint64 `json:"scenario_id"`
    ScenarioTitle string `json:"scenario_title"`
    SubmittedAt   string `json:"submitted_at"`
}

// DesignGradedEvent is published when an admin records (or overwrites)
// feedback for a design.
type DesignGradedEvent struct {
    DesignID      uint64 `json:"design_id"`
    AdminID       uint64 `json:"admin_id"`
    ScenarioTitle string `json:"scenario_title"`
    Rating        int    `json:"rating"`
    GradedAt      string `json:"graded_at"`
}
