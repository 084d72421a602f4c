package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/console/internal/client/credentials"
	"github.com/dmitrijs2005/console/internal/client/guard"
	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/client/redirect"
	"github.com/dmitrijs2005/console/internal/client/session"
	"github.com/dmitrijs2005/console/internal/client/transport"
	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/cryptox"
)

// DefaultLevel is the account level sent when registration leaves it unset.
const DefaultLevel = 16

// Validity is one choice of how long a login stays valid.
type Validity struct {
	Label    string
	Duration time.Duration
}

const day = 24 * time.Hour

// ValidityOptions are the offered login validity windows. The first one is
// the default.
var ValidityOptions = []Validity{
	{"24 hours", day},
	{"7 days", 7 * day},
	{"30 days", 30 * day},
	{"180 days", 180 * day},
	{"365 days", 365 * day},
}

var phonePattern = regexp.MustCompile(`^1\d{10}$`)

type LoginForm struct {
	UserName   string
	Password   []byte
	Validity   time.Duration
	RememberMe bool
}

type RegisterForm struct {
	UserName        string
	Password        []byte
	ConfirmPassword []byte
	Email           string
	Phone           string
	Level           int
}

// AuthService signs operators in and out.
type AuthService struct {
	api       API
	sess      *session.Session
	resolver  redirect.Resolver
	origin    string
	loginPath string
}

// NewAuthService binds the service to the API client and session context.
// origin is the console origin the redirect resolver compares against.
func NewAuthService(api API, sess *session.Session, resolver redirect.Resolver, origin, loginPath string) *AuthService {
	if loginPath == "" {
		loginPath = guard.DefaultLoginPath
	}
	return &AuthService{api: api, sess: sess, resolver: resolver, origin: origin, loginPath: loginPath}
}

// Login submits the credentials, persists the result and returns where to
// navigate next, consuming the pending redirect.
func (a *AuthService) Login(ctx context.Context, form LoginForm) (redirect.Resolution, error) {
	if strings.TrimSpace(form.UserName) == "" {
		return redirect.Resolution{}, &ValidationError{Field: "userName", Msg: "please enter your user name"}
	}
	if len(form.Password) == 0 {
		return redirect.Resolution{}, &ValidationError{Field: "passWord", Msg: "please enter your password"}
	}

	validity := form.Validity
	if validity <= 0 {
		validity = ValidityOptions[0].Duration
	}

	digest := cryptox.PasswordDigest(form.Password)
	return a.login(ctx, strings.TrimSpace(form.UserName), digest, validity, form.RememberMe)
}

// LoginRemembered signs in with the remembered login. The stored digest is
// sent as is. Returns common.ErrNotFound when nothing is remembered.
func (a *AuthService) LoginRemembered(ctx context.Context) (redirect.Resolution, error) {
	info, ok, err := a.Remembered(ctx)
	if err != nil {
		return redirect.Resolution{}, err
	}
	if !ok {
		return redirect.Resolution{}, fmt.Errorf("remembered login: %w", common.ErrNotFound)
	}

	validity := time.Duration(info.ValidityTimeSeconds) * time.Second
	if validity <= 0 {
		validity = ValidityOptions[0].Duration
	}
	return a.login(ctx, info.UserName, info.PasswordDigest, validity, true)
}

// Remembered returns the remembered login used to prefill the login form.
func (a *AuthService) Remembered(ctx context.Context) (*models.LoginInfo, bool, error) {
	info, ok, err := credentials.LoadRemembered(ctx, a.sess.Store())
	if errors.Is(err, common.ErrInconsistentRecord) {
		return nil, false, nil
	}
	return info, ok, err
}

func (a *AuthService) login(ctx context.Context, userName, digest string, validity time.Duration, remember bool) (redirect.Resolution, error) {
	seconds := int64(validity / time.Second)

	var res models.LoginResult
	err := a.api.Do(ctx, "/login", transport.RequestOptions{
		Method: http.MethodPost,
		Data: models.LoginRequest{
			UserName:     userName,
			PassWord:     digest,
			ValidityTime: seconds,
			AutoLogin:    remember,
		},
		SkipAuth: true,
	}, &res)
	if err != nil {
		return redirect.Resolution{}, fmt.Errorf("login failed: %w", err)
	}
	if res.Token == "" {
		return redirect.Resolution{}, fmt.Errorf("login failed: %w", common.ErrInvalidToken)
	}

	user := res.User
	if !user.Valid() {
		user = &models.User{ID: userName, Name: userName}
	}

	store := a.sess.Store()
	days := float64(seconds) / 86400
	if remember {
		err = credentials.SetRemember(ctx, store, true, credentials.Record{
			Token: res.Token,
			LoginInfo: models.LoginInfo{
				UserName:            userName,
				PasswordDigest:      digest,
				ValidityTimeSeconds: seconds,
			},
			User: user,
		}, days)
	} else {
		err = credentials.SetRemember(ctx, store, false, credentials.Record{}, 0)
		if err == nil {
			err = credentials.SaveSession(ctx, store, res.Token, user, 0)
		}
	}
	if err != nil {
		return redirect.Resolution{}, fmt.Errorf("failed to persist credentials: %w", err)
	}

	a.sess.Establish(res.Token, user)

	target, _ := a.sess.TakeRedirect()
	return a.resolver.Resolve(a.origin, target), nil
}

// Register validates the form and creates the account. The confirmation
// never leaves the client and the password is sent as its digest.
func (a *AuthService) Register(ctx context.Context, form RegisterForm) error {
	if err := validateRegister(form); err != nil {
		return err
	}

	level := form.Level
	if level == 0 {
		level = DefaultLevel
	}

	err := a.api.Do(ctx, "/signup", transport.RequestOptions{
		Method: http.MethodPost,
		Data: models.SignupRequest{
			UserName: strings.TrimSpace(form.UserName),
			PassWord: cryptox.PasswordDigest(form.Password),
			Email:    form.Email,
			Phone:    form.Phone,
			Level:    level,
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

func validateRegister(form RegisterForm) error {
	switch {
	case strings.TrimSpace(form.UserName) == "":
		return &ValidationError{Field: "userName", Msg: "please enter a user name"}
	case len(form.Password) == 0:
		return &ValidationError{Field: "passWord", Msg: "please enter a password"}
	case len(form.ConfirmPassword) == 0:
		return &ValidationError{Field: "confirmPassWord", Msg: "please confirm the password"}
	case form.Email == "":
		return &ValidationError{Field: "email", Msg: "please enter an e-mail address"}
	case form.Phone == "":
		return &ValidationError{Field: "phone", Msg: "please enter a phone number"}
	}

	if len(form.Password) != len(form.ConfirmPassword) ||
		subtle.ConstantTimeCompare(form.Password, form.ConfirmPassword) != 1 {
		return &ValidationError{Field: "confirmPassWord", Msg: "passwords do not match"}
	}

	if addr, err := mail.ParseAddress(form.Email); err != nil || addr.Address != form.Email {
		return &ValidationError{Field: "email", Msg: "invalid e-mail address"}
	}

	if !phonePattern.MatchString(form.Phone) {
		return &ValidationError{Field: "phone", Msg: "invalid phone number"}
	}
	return nil
}

// Logout wipes the session and returns the login page location. The login
// page carries location as redirect unless location already is the login
// page or already has a redirect parameter.
func (a *AuthService) Logout(ctx context.Context, location string) (string, error) {
	if err := a.sess.Wipe(ctx); err != nil {
		return "", fmt.Errorf("logout: %w", err)
	}

	u, err := url.Parse(location)
	if err != nil || location == "" {
		return a.loginPath, nil
	}
	if strings.TrimRight(u.Path, "/") == strings.TrimRight(a.loginPath, "/") || u.Query().Has(common.RedirectParam) {
		return a.loginPath, nil
	}
	return guard.LoginTarget(a.loginPath, location), nil
}
