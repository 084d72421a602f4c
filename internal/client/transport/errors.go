package transport

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/console/internal/common"
)

// ErrUnexpectedResponse is returned by Client.Do when a 2xx response does
// not carry a JSON envelope.
var ErrUnexpectedResponse = errors.New("unexpected response body")

type NetworkErrorKind string

const (
	KindTimeout    NetworkErrorKind = "timeout"
	KindConnection NetworkErrorKind = "connection"
	KindHTTPStatus NetworkErrorKind = "http_status"
)

// NetworkError is a failure of the transport itself, as opposed to a
// well-formed envelope carrying a failure status.
type NetworkError struct {
	Kind       NetworkErrorKind
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("network error (%s): %s", e.Kind, e.Message())
	}
	return fmt.Sprintf("network error (%s): %v", e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Message is the text shown to the operator.
func (e *NetworkError) Message() string {
	switch e.Kind {
	case KindTimeout:
		return "request timed out"
	case KindConnection:
		return "backend connection failed"
	case KindHTTPStatus:
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	default:
		return common.DefaultErrorMessage
	}
}

// BusinessError is an envelope with a status other than 0 and 401.
type BusinessError struct {
	Status int
	Msg    string
}

func (e *BusinessError) Error() string { return e.Msg }

// UnauthenticatedError is an envelope with status 401. By the time it is
// returned the session has already been wiped.
type UnauthenticatedError struct {
	Msg string
}

func (e *UnauthenticatedError) Error() string { return e.Msg }

func (e *UnauthenticatedError) Unwrap() error { return common.ErrUnauthenticated }
