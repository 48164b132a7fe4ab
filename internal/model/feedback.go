package model

import "time"

// Rating bounds for feedback. Ratings outside this range are
// rejected before any store access.
const (
    MinRating = 1
    MaxRating = 5
)

// ValidRating reports whether r is an acceptable feedback rating.
func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }

// Feedback holds an admin's grade for a single design. There is at
// most one row per design (feedback.design_id is unique); re-grading
// overwrites admin, rating, comments and timestamp rather than
// appending history.
//
// Fields:
//  ID        – primary key identifier.
//  DesignID  – graded design (unique).
//  AdminID   – grading admin.
//  Rating    – integer in [1,5].
//  Comments  – free-text comments, may be empty.
//  CreatedAt – refreshed on every upsert.
type Feedback struct {
    ID        uint64    // feedback.id
    DesignID  uint64    // feedback.design_id
    AdminID   uint64    // feedback.admin_id
    Rating    int       // feedback.rating
    Comments  string    // feedback.comments
    CreatedAt time.Time // feedback.created_at
}

// FeedbackDetail joins the feedback row with the grading admin's
// username for the read endpoint.
type FeedbackDetail struct {
    Feedback
    AdminUsername string // users.username
}
