package transport

import (
	"context"

	"github.com/dmitrijs2005/console/internal/logging"
)

// Notifier shows transient messages to the operator.
type Notifier interface {
	Warn(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
	Success(ctx context.Context, msg string)
}

// LogNotifier writes notifications to a logger. It is the default when no
// user-facing notifier is configured.
type LogNotifier struct {
	Logger logging.Logger
}

func (n LogNotifier) Warn(ctx context.Context, msg string) {
	n.Logger.Warn(ctx, msg, "notification", true)
}

func (n LogNotifier) Error(ctx context.Context, msg string) {
	n.Logger.Error(ctx, msg, "notification", true)
}

func (n LogNotifier) Success(ctx context.Context, msg string) {
	n.Logger.Info(ctx, msg, "notification", true)
}
