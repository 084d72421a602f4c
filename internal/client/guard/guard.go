// Package guard decides whether a protected location may be shown to the
// current operator.
//
// Every evaluation walks the same states: Initializing on entry, then
// Checking while the current user is resolved, then Authorized or Denied.
// Denied carries the login navigation target with the requested location in
// the redirect query parameter.
package guard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/logging"
)

// DefaultLoginPath is where unauthenticated operators are sent.
const DefaultLoginPath = "/user/login"

// ErrUserPending is returned by a UserResolver whose lookup is still in
// flight. The guard then stays in Checking.
var ErrUserPending = errors.New("current user lookup in progress")

type State uint8

const (
	Initializing State = iota
	Checking
	Authorized
	Denied
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Checking:
		return "checking"
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// UserResolver yields the current user, or nil when nobody is signed in.
type UserResolver interface {
	ResolveUser(ctx context.Context) (*models.User, error)
}

// RedirectCapturer receives the redirect parameter found on the login page.
type RedirectCapturer interface {
	CaptureRedirect(target string)
}

// Decision is the outcome of one evaluation.
type Decision struct {
	State State
	// User is set when State is Authorized and someone is signed in.
	User *models.User
	// Anonymous marks access to the login page itself without a user.
	Anonymous bool
	// LoginTarget is set when State is Denied.
	LoginTarget string
}

type Guard struct {
	users     UserResolver
	loginPath string
	logger    logging.Logger

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

// New builds a guard over the session context. The session also receives
// the redirect captured on the login page when it implements
// RedirectCapturer.
func New(users UserResolver, loginPath string, logger logging.Logger) *Guard {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Guard{users: users, loginPath: loginPath, logger: logger}
}

func (g *Guard) LoginPath() string {
	return g.loginPath
}

func (g *Guard) transition(from, to State) State {
	if g.OnTransition != nil && from != to {
		g.OnTransition(from, to)
	}
	return to
}

// Evaluate runs the state machine for location, a path with optional query
// or a full URL. Resolver failures other than ErrUserPending deny access.
func (g *Guard) Evaluate(ctx context.Context, location string) Decision {
	state := g.transition(Initializing, Checking)

	user, err := g.users.ResolveUser(ctx)
	if errors.Is(err, ErrUserPending) {
		return Decision{State: state}
	}
	if err != nil {
		g.logger.Error(ctx, "failed to resolve current user", "error", err)
		user = nil
	}

	atLogin := g.IsLoginPath(location)
	if atLogin {
		g.captureRedirect(location)
	}

	switch {
	case user.Valid():
		g.transition(state, Authorized)
		return Decision{State: Authorized, User: user}
	case atLogin:
		g.transition(state, Authorized)
		return Decision{State: Authorized, Anonymous: true}
	default:
		g.transition(state, Denied)
		return Decision{State: Denied, LoginTarget: g.LoginTarget(location)}
	}
}

// LoginTarget is the login path carrying location in the redirect parameter.
func (g *Guard) LoginTarget(location string) string {
	return LoginTarget(g.loginPath, location)
}

func LoginTarget(loginPath, location string) string {
	return loginPath + "?" + url.Values{common.RedirectParam: {location}}.Encode()
}

// IsLoginPath reports whether location points at the login page.
func (g *Guard) IsLoginPath(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return strings.TrimRight(u.Path, "/") == strings.TrimRight(g.loginPath, "/")
}

func (g *Guard) captureRedirect(location string) {
	c, ok := g.users.(RedirectCapturer)
	if !ok {
		return
	}
	u, err := url.Parse(location)
	if err != nil {
		return
	}
	if target := u.Query().Get(common.RedirectParam); target != "" {
		c.CaptureRedirect(target)
	}
}
