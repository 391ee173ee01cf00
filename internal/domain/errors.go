package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. DomainError values wrap one of these so callers can use errors.Is.
var (
	// ErrSourceNotFound means a source file has not been uploaded yet.
	ErrSourceNotFound = errors.New("source not found")
	// ErrInput means a source file is empty or cannot be parsed.
	ErrInput = errors.New("input error")
	// ErrMalformedInput means a record could not be assigned a group key.
	ErrMalformedInput = errors.New("malformed input")
	// ErrFillerUnavailable means no placeholder provider was configured.
	ErrFillerUnavailable = errors.New("filler unavailable")
	// ErrSideEffect marks failures of work that runs after the primary operation.
	ErrSideEffect = errors.New("side effect failure")

	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInternal      = errors.New("internal error")
)

// DomainError carries a stable code and a message that is safe to show to API clients.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the client facing message without internal details.
func (e *DomainError) UserMessage() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewSourceNotFoundError reports that the named source file does not exist.
func NewSourceNotFoundError(source string, err error) error {
	return &DomainError{
		Code:    "SOURCE_NOT_FOUND",
		Message: fmt.Sprintf("source '%s' has not been uploaded", source),
		Err:     errors.Join(ErrSourceNotFound, ErrInput, err),
	}
}

// NewInputError reports an empty or unparseable source.
func NewInputError(source, message string, err error) error {
	return &DomainError{
		Code:    "INPUT_ERROR",
		Message: fmt.Sprintf("source '%s': %s", source, message),
		Err:     errors.Join(ErrInput, err),
	}
}

// NewMalformedInputError reports a record whose group key could not be derived.
func NewMalformedInputError(row int, err error) error {
	return &DomainError{
		Code:    "MALFORMED_INPUT",
		Message: fmt.Sprintf("row %d: cannot derive group key", row),
		Err:     errors.Join(ErrMalformedInput, err),
	}
}

// NewFillerUnavailableError reports a missing placeholder provider.
func NewFillerUnavailableError() error {
	return &DomainError{
		Code:    "FILLER_UNAVAILABLE",
		Message: "placeholder provider is not configured",
		Err:     ErrFillerUnavailable,
	}
}

// NewSideEffectError wraps a failure of a fire-and-forget operation.
func NewSideEffectError(operation string, err error) error {
	return &DomainError{
		Code:    "SIDE_EFFECT_FAILURE",
		Message: fmt.Sprintf("%s failed", operation),
		Err:     errors.Join(ErrSideEffect, err),
	}
}

func NewNotFoundError(resourceType, name string) error {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s '%s' not found", resourceType, name),
		Err:     ErrNotFound,
	}
}

func NewAlreadyExistsError(resourceType, name string) error {
	return &DomainError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s '%s' already exists", resourceType, name),
		Err:     ErrAlreadyExists,
	}
}

func NewInvalidInputError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

func NewUnauthorizedError(message string) error {
	return &DomainError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Err:     ErrUnauthorized,
	}
}

// NewInternalError hides err behind a generic message.
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

func IsSourceNotFound(err error) bool { return errors.Is(err, ErrSourceNotFound) }
func IsInput(err error) bool          { return errors.Is(err, ErrInput) }
func IsMalformedInput(err error) bool { return errors.Is(err, ErrMalformedInput) }
func IsNotFound(err error) bool       { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool  { return errors.Is(err, ErrAlreadyExists) }
func IsInvalidInput(err error) bool   { return errors.Is(err, ErrInvalidInput) }
func IsUnauthorized(err error) bool   { return errors.Is(err, ErrUnauthorized) }
