package session

import (
	apperrors "github.com/jrsteele09/go-assoc-admin/internal/errors"
)

// Result is the success flag plus message the UI and CLI render.
type Result struct {
	Success bool
	Message string
}

var kindMessages = map[error]string{
	apperrors.ErrDecode:             "your session is invalid, please log in again",
	apperrors.ErrTokenExpired:       "your session has expired, please log in again",
	apperrors.ErrInvalidCredentials: "invalid email or password",
	apperrors.ErrValidation:         "please check the details you entered",
	apperrors.ErrServer:             "server error, try again later",
	apperrors.ErrSessionExpired:     "your session has expired, please log in again",
	apperrors.ErrNotAuthenticated:   "you need to log in first",
	apperrors.ErrRequest:            "the request could not be completed",
}

// ResultOf turns an operation's error into a Result. Classified errors keep
// their own message; anything else gets a generic one.
func ResultOf(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	var classified *apperrors.Error
	if apperrors.As(err, &classified) && classified.Message != "" {
		return Result{Message: classified.Message}
	}
	if msg, ok := kindMessages[apperrors.Kind(err)]; ok {
		return Result{Message: msg}
	}
	return Result{Message: "something went wrong, try again later"}
}

// ResultWith is ResultOf with a success message.
func ResultWith(message string, err error) Result {
	result := ResultOf(err)
	if result.Success {
		result.Message = message
	}
	return result
}
