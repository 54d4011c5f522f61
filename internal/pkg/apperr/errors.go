package apperr

import "errors"

// Domain error taxonomy shared by services and the HTTP error middleware.
// Ownership mismatches surface as ErrNotFound on purpose: responses must not
// reveal whether another user's instance exists.
var (
	ErrNotFound               = errors.New("resource not found")
	ErrTemplateNotFound       = errors.New("procedure template not found")
	ErrValidationFailed       = errors.New("validation failed")
	ErrIncompleteRequirements = errors.New("incomplete requirements")
	ErrConflict               = errors.New("conflicting operation in progress")

	// ErrAdvisorUnavailable is internal to the reconciliation engine; callers
	// never see it because the engine degrades to a missing match instead.
	ErrAdvisorUnavailable = errors.New("substitution advisor unavailable")

	ErrUnauthorized = errors.New("invalid credentials")
)
