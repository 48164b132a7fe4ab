// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current user
// is not authorized to operate on a resource owned by someone else,
// while ErrConflict signals that an operation cannot proceed because of
// the resource's current state (e.g. submitting a design that is no
// longer a draft).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as mutating a design that has already
// been submitted or grading one that is still a draft. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
