package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/console/internal/client/transport"
)

// API is the subset of *transport.Client used by the services.
type API interface {
	Send(ctx context.Context, path string, opts transport.RequestOptions) (transport.Outcome, error)
	Do(ctx context.Context, path string, opts transport.RequestOptions, out any) error
}

// ValidationError is a client-side input error. No request was sent.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}
