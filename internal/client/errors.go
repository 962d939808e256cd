package client

import (
	"fmt"
	"net/http"
)

// Kind classifies a client error.
type Kind int

const (
	// KindHTTP is a transport or connection failure.
	KindHTTP Kind = iota
	// KindIO is a local file system failure.
	KindIO
	// KindParse is a response body that could not be decoded.
	KindParse
	// KindInvalidResponse is a non-200 status reported by the service.
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http client error"
	case KindIO:
		return "io error"
	case KindParse:
		return "parse error"
	case KindInvalidResponse:
		return "invalid response"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind    Kind
	Status  int // set for KindInvalidResponse
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindInvalidResponse {
		return fmt.Sprintf("%s (%d), %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s, %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func httpError(err error) *Error {
	return &Error{Kind: KindHTTP, Message: err.Error(), Err: err}
}

func ioError(err error) *Error {
	return &Error{Kind: KindIO, Message: err.Error(), Err: err}
}

func parseError(status int, err error) *Error {
	return &Error{
		Kind:    KindParse,
		Status:  status,
		Message: fmt.Sprintf("decode response (status %d): %v", status, err),
		Err:     err,
	}
}

func invalidResponse(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Kind: KindInvalidResponse, Status: status, Message: message}
}
