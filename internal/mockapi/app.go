// Package mockapi runs a local stand-in for the express-api backend of the
// admin console: user sign-up and login with signed tokens, and the student
// register.
package mockapi

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/console/internal/logging"
	"github.com/dmitrijs2005/console/internal/mockapi/config"
	"github.com/dmitrijs2005/console/internal/mockapi/httpapi"
	"github.com/dmitrijs2005/console/internal/mockapi/students"
	"github.com/dmitrijs2005/console/internal/mockapi/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(c *config.Config) *App {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	us := users.NewService(users.NewMemoryRepository(), c)
	srv := httpapi.NewServer(c.APIPrefix, logger, us, students.NewRepository())

	return &App{config: c, logger: logger, server: srv}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx, app.config.Addr); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
