package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the admin console session core
var (
	// Token errors
	ErrDecode       = errors.New("malformed token")
	ErrTokenExpired = errors.New("token expired")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrServer             = errors.New("server error")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Transport errors
	ErrRequest = errors.New("request failed")

	// Storage errors
	ErrNotFound = errors.New("not found")
)

// Kind returns the sentinel from the taxonomy that err wraps, or nil when err is
// not classified.
func Kind(err error) error {
	for _, kind := range []error{
		ErrDecode,
		ErrTokenExpired,
		ErrInvalidCredentials,
		ErrValidation,
		ErrServer,
		ErrSessionExpired,
		ErrNotAuthenticated,
		ErrRequest,
		ErrNotFound,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Error is a classified error carrying a message that is safe to show to the user.
type Error struct {
	Kind    error  // One of the sentinels above
	Message string // User facing message, usually provided by the backend
	Err     error  // Underlying cause
}

// New builds a classified error.
func New(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := "error"
	if e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is matches the error against its kind so errors.Is(err, ErrValidation) works.
func (e *Error) Is(target error) bool {
	return e != nil && e.Kind == target
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
