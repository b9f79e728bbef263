package httpclient

import (
	"errors"
	"fmt"
)

// RequestError describes a failed backend call. StatusCode is zero when the
// request never got a response.
type RequestError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Message    string // Backend provided message, if any
	Err        error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	target := e.Op
	if e.Method != "" {
		target = fmt.Sprintf("%s %s %s", e.Op, e.Method, e.Path)
	}
	switch {
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d: %v", target, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", target, e.Err)
	case e.StatusCode > 0 && e.Message != "":
		return fmt.Sprintf("%s: status=%d: %s", target, e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d", target, e.StatusCode)
	default:
		return target
	}
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
