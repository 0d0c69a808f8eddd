package models

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match with errors.Is; specific errors below wrap one of them.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrDataIntegrity = errors.New("data integrity error")
	ErrDependency    = errors.New("dependency error")
)

var (
	ErrNotApproved        = fmt.Errorf("entry is not approved: %w", ErrValidation)
	ErrNoValidContestant  = fmt.Errorf("no valid contestant: %w", ErrDataIntegrity)
	ErrInvalidStatus      = fmt.Errorf("invalid performance status: %w", ErrValidation)
	ErrNoScores           = fmt.Errorf("performance has no scores: %w", ErrValidation)
	ErrEventNotFound      = fmt.Errorf("event: %w", ErrNotFound)
	ErrEntryNotFound      = fmt.Errorf("entry: %w", ErrNotFound)
	ErrPerformanceMissing = fmt.Errorf("performance: %w", ErrNotFound)
	ErrScoreNotFound      = fmt.Errorf("score: %w", ErrNotFound)
	ErrDuplicateScore     = fmt.Errorf("judge already scored this performance: %w", ErrConflict)
	ErrItemNumberLocked   = fmt.Errorf("item number already assigned: %w", ErrConflict)
)
