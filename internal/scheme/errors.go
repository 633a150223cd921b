package scheme

import "errors"

// Error taxonomy for scheme operations. Callers distinguish these with
// errors.Is; handlers map them to HTTP statuses and machine-readable codes.
var (
	// ErrNotFound means the referenced scheme or nomination does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor lacks the relationship the operation
	// requires (owner/admin for mutation, current winner for nomination,
	// scheme admin for nomination decisions).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means a required field is missing or malformed.
	// No mutation is applied.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidMember means a referenced member ID is not part of the
	// scheme's membership.
	ErrInvalidMember = errors.New("member is not part of this scheme")

	// ErrConflict means the operation targets state that has already been
	// resolved, e.g. deciding a nomination that is no longer pending.
	ErrConflict = errors.New("conflict with current state")

	// ErrTooEarly means the taken date for the requested month has not
	// arrived yet, so winner assignment is not eligible.
	ErrTooEarly = errors.New("winner assignment not yet eligible for this month")

	// ErrRotationPolicy means the operation belongs to the rotation policy
	// this deployment does not run.
	ErrRotationPolicy = errors.New("operation not available under the configured rotation policy")
)
