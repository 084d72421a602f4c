package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/console/internal/client/redirect"
	"github.com/dmitrijs2005/console/internal/client/services"
	"github.com/dmitrijs2005/console/internal/client/transport"
	"github.com/dmitrijs2005/console/internal/common"
)

// Root starts the page load at the console home and runs the REPL until the
// user exits.
func (a *App) Root(ctx context.Context) error {
	a.ctx = ctx

	printlnFn("Welcome to the admin console CLI (type 'help' for commands)")

	if err := a.session.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}
	defer a.session.Teardown()

	a.navigate(ctx, redirect.Home)

	if info, ok, err := a.auth.Remembered(ctx); err == nil && ok {
		printlnFn(fmt.Sprintf("Remembered login: %s (leave the user name empty at login to use it)", info.UserName))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// Open navigates to the location given as the first argument.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: open <path>")
		return nil
	}
	if a.navigate(ctx, args[0]) {
		printlnFn("Opened", args[0])
	}
	return nil
}

func (a *App) Where(context.Context) error {
	printlnFn(a.href(a.currentLocation()))
	return nil
}

// report shows a command failure. Network failures and expired sessions
// were already shown by the transport client.
func (a *App) report(ctx context.Context, err error) {
	var (
		verr *services.ValidationError
		berr *transport.BusinessError
		nerr *transport.NetworkError
	)

	switch {
	case errors.Is(err, context.Canceled):
	case errors.As(err, &nerr), errors.Is(err, common.ErrUnauthenticated):
		a.logger.Debug(ctx, "command failed", "error", err)
	case errors.As(err, &verr):
		a.notifier.Warn(ctx, verr.Msg)
	case errors.As(err, &berr):
		a.notifier.Error(ctx, berr.Msg)
	default:
		a.notifier.Error(ctx, err.Error())
	}
}
