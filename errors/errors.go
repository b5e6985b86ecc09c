// Package errors provides an API for errors across the application.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies the category of a rule violation. The HTTP layer
// switches on Kind when choosing a status code; the engine never
// inspects error message content.
type Kind string

const (
	// InvalidField indicates a structural bound violation: a missing
	// required field, an out-of-range number, an over-length string or
	// an unrecognized enum token.
	InvalidField Kind = "INVALID_FIELD"

	// InvalidKeyValueFormat indicates a key value that fails its
	// type-specific format validator.
	InvalidKeyValueFormat Kind = "INVALID_KEY_VALUE_FORMAT"

	// DuplicateKeyValue indicates a (keyType, keyValue) pair that
	// already exists, active or not.
	DuplicateKeyValue Kind = "DUPLICATE_KEY_VALUE"

	// PersonTypeMismatch indicates a branch/account pair already
	// registered under a different person type.
	PersonTypeMismatch Kind = "PERSON_TYPE_MISMATCH"

	// AccountQuotaExceeded indicates the active key quota for the
	// branch/account pair is already met.
	AccountQuotaExceeded Kind = "ACCOUNT_QUOTA_EXCEEDED"

	// NotFound indicates the operation targets a non-existent key id.
	NotFound Kind = "NOT_FOUND"

	// AlreadyInactive indicates an amend or deactivate on a key that
	// has already been deactivated.
	AlreadyInactive Kind = "ALREADY_INACTIVE"

	// NoChange indicates an amend whose patch would not alter any field.
	NoChange Kind = "NO_CHANGE"
)

// ValidationError is a rule engine failure with a closed, typed identity.
type ValidationError struct {
	Kind Kind
	Err  error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError of the given kind.
func NewValidationError(kind Kind, format string, a ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Err: fmt.Errorf(format, a...)}
}

// KindOf returns the Kind of err if it is (or wraps) a ValidationError.
func KindOf(err error) (Kind, bool) {
	var v *ValidationError
	if stderrors.As(err, &v) {
		return v.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// RequestError is a transport-level error carrying an HTTP status code.
// It is used for failures that happen before a request reaches the rule
// engine, such as malformed path parameters.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}
