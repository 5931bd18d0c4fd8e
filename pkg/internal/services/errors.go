package services

import (
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateIdentity  = errors.New("name already taken")
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrForbidden          = errors.New("you are not allowed to do that")

	ErrNotFound           = store.ErrNotFound
	ErrStorageUnavailable = store.ErrUnavailable
)

type ValidationError struct {
	Field  string
	Reason string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", v.Field, v.Reason)
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

// PartialFailureError reports a multi-step operation that failed after some of
// its steps were already committed. The committed steps are not undone.
type PartialFailureError struct {
	Operation string
	Step      string
	Completed []string
	Err       error
}

func (v *PartialFailureError) Error() string {
	return fmt.Sprintf(
		"%s may be partially applied: step %s failed after %s: %v",
		v.Operation, v.Step, strings.Join(v.Completed, ", "), v.Err,
	)
}

func (v *PartialFailureError) Unwrap() error {
	return v.Err
}
