package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied means the actor's role tier does not satisfy the
	// capability the action requires. No state is changed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStateConflict means the entity was not in a state the transition
	// accepts, either because it is terminal or because a concurrent handler
	// won the race.
	ErrStateConflict = errors.New("state conflict")

	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrNotEnrolled     = errors.New("not enrolled")

	ErrNotFound = errors.New("not found")
)

// ConfigurationError means a required channel or role setting is unset. The
// operation aborts before any state mutation.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration missing: %s", e.Setting)
}

// ValidationError reports a malformed or missing user-supplied field. Always
// user-correctable, no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsUserError(err error) bool {
	var ve *ValidationError
	var ce *ConfigurationError
	return errors.As(err, &ve) || errors.As(err, &ce) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrNotEnrolled) ||
		errors.Is(err, ErrStateConflict)
}
