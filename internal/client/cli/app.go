package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/console/internal/client/config"
	"github.com/dmitrijs2005/console/internal/client/credentials"
	"github.com/dmitrijs2005/console/internal/client/guard"
	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/client/redirect"
	"github.com/dmitrijs2005/console/internal/client/services"
	"github.com/dmitrijs2005/console/internal/client/session"
	"github.com/dmitrijs2005/console/internal/client/transport"
	"github.com/dmitrijs2005/console/internal/logging"
)

// Console locations the commands navigate to.
const (
	welcomePath     = "/welcome"
	studentListPath = "/list/student"
)

type authService interface {
	Login(ctx context.Context, form services.LoginForm) (redirect.Resolution, error)
	LoginRemembered(ctx context.Context) (redirect.Resolution, error)
	Remembered(ctx context.Context) (*models.LoginInfo, bool, error)
	Register(ctx context.Context, form services.RegisterForm) error
	Logout(ctx context.Context, location string) (string, error)
}

type studentService interface {
	List(ctx context.Context, p models.StudentListParams) (*models.StudentList, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, st models.Student) error
	Update(ctx context.Context, st models.Student) error
	Delete(ctx context.Context, id string) error
}

// pageLoad is the part of the session the app drives on reload.
type pageLoad interface {
	Initialize(ctx context.Context) error
	Teardown()
}

type navigator interface {
	Evaluate(ctx context.Context, location string) guard.Decision
}

type App struct {
	auth     authService
	students studentService
	session  pageLoad
	guard    navigator
	notifier transport.Notifier
	logger   logging.Logger
	origin   string
	reader   *bufio.Reader
	out      io.Writer
	closeFn  func() error

	// ctx is the context of the running REPL, used by the reload callback.
	ctx context.Context

	mu       sync.Mutex
	location string
	user     *models.User
}

// NewApp builds the credential store, the session context, the transport
// client and the services from c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	jar, err := credentials.NewCookieJar()
	if err != nil {
		return nil, err
	}

	store, closeFn, err := openStore(ctx, c, jar)
	if err != nil {
		logger.Error(ctx, "error initializing credential store", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	out := os.Stdout
	notifier := newPrintNotifier(out)
	sess := session.New(store, logger)

	client := transport.New(transport.Options{
		BaseURL:     c.ServerBaseURL,
		Prefix:      c.APIPrefix,
		Timeout:     c.RequestTimeout,
		Jar:         jar,
		Notifier:    notifier,
		ReloadDelay: c.ReloadDelay,
		Logger:      logger,
	}, sess)

	resolver := redirect.Resolver{RouterBase: c.RouterBase}

	a := &App{
		auth:     services.NewAuthService(client, sess, resolver, c.ConsoleOrigin, c.LoginPath),
		students: services.NewStudentService(client),
		session:  sess,
		guard:    guard.New(sess, c.LoginPath, logger),
		notifier: notifier,
		logger:   logger,
		origin:   c.ConsoleOrigin,
		reader:   bufio.NewReader(os.Stdin),
		out:      out,
		closeFn:  closeFn,
	}
	client.OnReload(a.reload)

	return a, nil
}

// Close releases the credential store.
func (a *App) Close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	return a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user.Valid()
}

func (a *App) currentLocation() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

// href turns a console location into an absolute URL on the console origin.
func (a *App) href(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if !strings.HasPrefix(location, "/") {
		location = "/" + location
	}
	return strings.TrimRight(a.origin, "/") + location
}

// navigate moves to location through the guard and reports whether the
// location was reached.
func (a *App) navigate(ctx context.Context, location string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.evaluate(ctx, location)
}

// evaluate must be called with a.mu held. A denied location lands on the
// login page, which the guard evaluates again so the redirect is captured.
func (a *App) evaluate(ctx context.Context, location string) bool {
	d := a.guard.Evaluate(ctx, a.href(location))

	switch d.State {
	case guard.Authorized:
		a.location = location
		a.user = d.User
		return true

	case guard.Denied:
		a.guard.Evaluate(ctx, a.href(d.LoginTarget))
		a.location = d.LoginTarget
		a.user = nil
		printlnFn("Please log in to open", location)
		return false

	default:
		printlnFn("Still loading, try again")
		return false
	}
}

// hardNavigate is a full page load followed by navigation to location.
func (a *App) hardNavigate(ctx context.Context, location string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.Teardown()
	if err := a.session.Initialize(ctx); err != nil {
		a.logger.Error(ctx, "failed to initialize session", "error", err)
		return false
	}
	return a.evaluate(ctx, location)
}

// reload runs after the transport saw an expired session: the page is loaded
// again at the current location.
func (a *App) reload() {
	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	location := a.currentLocation()
	if location == "" {
		location = redirect.Home
	}
	a.logger.Info(ctx, "reloading console", "location", location)
	a.hardNavigate(ctx, location)
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.location
	if a.user.Valid() {
		s = fmt.Sprintf("%s %s", a.user.DisplayName(), s)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
