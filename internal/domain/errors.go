package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist or is owned by a different user. The two cases are
// deliberately indistinguishable to callers.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a create would violate a uniqueness rule,
// such as registering an email address that is already in use.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials are wrong or no caller
// identity is available. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrPartialCascade is matched by a *CascadeError via errors.Is.
var ErrPartialCascade = errors.New("partial cascade failure")

// CascadeStep is the outcome of one sub-operation of a multi-record write.
type CascadeStep struct {
	Name string
	Err  error
}

// CascadeError reports a multi-record operation that was only partly applied.
// Succeeded and Failed name the individual steps so that an operator (or a
// retrying client) knows which records are already gone.
type CascadeError struct {
	Op        string
	Succeeded []string
	Failed    []CascadeStep
}

func (e *CascadeError) Error() string {
	failed := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		failed[i] = fmt.Sprintf("%s (%v)", f.Name, f.Err)
	}
	return fmt.Sprintf("%s: %v: succeeded [%s], failed [%s]",
		e.Op, ErrPartialCascade, strings.Join(e.Succeeded, ", "), strings.Join(failed, ", "))
}

// Is lets errors.Is(err, ErrPartialCascade) match.
func (e *CascadeError) Is(target error) bool {
	return target == ErrPartialCascade
}

// Unwrap exposes the individual step errors to errors.Is / errors.As.
func (e *CascadeError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f.Err
	}
	return errs
}
