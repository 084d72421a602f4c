package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/console/internal/client/credentials"
	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/client/redirect"
	"github.com/dmitrijs2005/console/internal/client/services"
	"github.com/dmitrijs2005/console/internal/client/session"
	"github.com/dmitrijs2005/console/internal/client/transport"
	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/logging"
	"github.com/dmitrijs2005/console/internal/mockapi/config"
	"github.com/dmitrijs2005/console/internal/mockapi/httpapi"
	"github.com/dmitrijs2005/console/internal/mockapi/students"
	"github.com/dmitrijs2005/console/internal/mockapi/users"
)

const origin = "http://localhost:8000"

type scheduled struct {
	mu    sync.Mutex
	funcs []func()
}

func (s *scheduled) AfterFunc(_ time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs = append(s.funcs, f)
}

func (s *scheduled) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.funcs)
}

type notes struct {
	mu    sync.Mutex
	warns []string
	errs  []string
}

func (n *notes) Warn(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, msg)
}

func (n *notes) Error(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, msg)
}

func (n *notes) Success(context.Context, string) {}

type stack struct {
	sess     *session.Session
	store    *credentials.MemoryStore
	auth     *services.AuthService
	students *services.StudentService
	sched    *scheduled
	notes    *notes
}

func newStack(t *testing.T) *stack {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	srv := httpapi.NewServer(cfg.APIPrefix, logging.Discard(),
		users.NewService(users.NewMemoryRepository(), cfg), students.NewRepository())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	st := &stack{store: credentials.NewMemoryStore(), sched: &scheduled{}, notes: &notes{}}
	st.sess = session.New(st.store, logging.Discard())
	require.NoError(t, st.sess.Initialize(context.Background()))

	client := transport.New(transport.Options{
		BaseURL:   ts.URL,
		Prefix:    cfg.APIPrefix,
		Notifier:  st.notes,
		Scheduler: st.sched,
	}, st.sess)

	st.auth = services.NewAuthService(client, st.sess, redirect.Resolver{}, origin, "")
	st.students = services.NewStudentService(client)
	return st
}

func (st *stack) signIn(t *testing.T, remember bool) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.auth.Register(ctx, services.RegisterForm{
		UserName:        "alice",
		Password:        []byte("secret"),
		ConfirmPassword: []byte("secret"),
		Email:           "alice@example.org",
		Phone:           "13800000000",
	}))

	st.sess.CaptureRedirect(origin + "/list/student")
	res, err := st.auth.Login(ctx, services.LoginForm{
		UserName:   "alice",
		Password:   []byte("secret"),
		RememberMe: remember,
	})
	require.NoError(t, err)
	assert.Equal(t, "/list/student", res.Path)
	assert.False(t, res.HardNavigation)
}

func TestClient_LoginAndStudents(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	st.signIn(t, false)

	user, err := st.sess.ResolveUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "admin", user.Authority)

	token, ok, err := credentials.Token(ctx, st.store)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	require.NoError(t, st.students.Create(ctx, models.Student{Name: "Bob", Sex: true, Birth: "2001-02-03", Phone: "13800000001"}))
	require.NoError(t, st.students.Create(ctx, models.Student{Name: "Carol", Birth: "2002-03-04", Phone: "13800000002"}))

	list, err := st.students.List(ctx, models.StudentListParams{PageIndex: 1, PageSize: 10, Filter: map[string]string{"name": "bob"}})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, 1, list.Total)
	assert.True(t, list.Success)

	bob := list.Data[0]
	got, err := st.students.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	got.Bro = "class monitor"
	require.NoError(t, st.students.Update(ctx, *got))

	got, err = st.students.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "class monitor", got.Bro)

	require.NoError(t, st.students.Delete(ctx, bob.ID))

	_, err = st.students.Get(ctx, bob.ID)
	var berr *transport.BusinessError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "student not found", berr.Msg)

	list, err = st.students.List(ctx, models.StudentListParams{PageIndex: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	assert.Empty(t, st.notes.warns)
	assert.Zero(t, st.sched.count())
}

func TestClient_RememberedLogin(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	st.signIn(t, true)

	info, ok, err := st.auth.Remembered(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", info.UserName)

	st.sess.Teardown()
	require.NoError(t, st.sess.Initialize(ctx))

	res, err := st.auth.LoginRemembered(ctx)
	require.NoError(t, err)
	assert.Equal(t, redirect.Home, res.Path)
}

func TestClient_WrongPassword(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	st.signIn(t, false)

	_, err := st.auth.Logout(ctx, origin+"/welcome")
	require.NoError(t, err)

	_, err = st.auth.Login(ctx, services.LoginForm{UserName: "alice", Password: []byte("nope")})
	var berr *transport.BusinessError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "invalid user name or password", berr.Msg)

	_, ok, err := credentials.Token(ctx, st.store)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_RejectedTokenWipesSession(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	st.signIn(t, false)

	user := st.sess.CurrentUser()
	require.NoError(t, credentials.SaveSession(ctx, st.store, "forged", user, 0))
	st.sess.Establish("forged", user)

	_, err := st.students.List(ctx, models.StudentListParams{PageIndex: 1, PageSize: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthenticated))

	_, ok, err := credentials.Token(ctx, st.store)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, st.sess.CurrentUser())

	_, err = st.students.Get(ctx, "any")
	require.Error(t, err)

	assert.Equal(t, 1, st.sched.count())
	assert.Equal(t, []string{"login expired, please log in again"}, st.notes.warns)
}

func TestClient_JarSessionOpensGuardedPage(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	srv := httpapi.NewServer(cfg.APIPrefix, logging.Discard(),
		users.NewService(users.NewMemoryRepository(), cfg), students.NewRepository())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := credentials.NewCookieJar()
	require.NoError(t, err)
	durable, err := credentials.NewJarStore(jar, ts.URL)
	require.NoError(t, err)

	sess := session.New(credentials.NewScopedStore(durable), logging.Discard())
	require.NoError(t, sess.Initialize(ctx))
	client := transport.New(transport.Options{
		BaseURL:   ts.URL,
		Prefix:    cfg.APIPrefix,
		Jar:       jar,
		Notifier:  &notes{},
		Scheduler: &scheduled{},
	}, sess)
	auth := services.NewAuthService(client, sess, redirect.Resolver{}, origin, "")

	browser := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := browser.Get(ts.URL + httpapi.WelcomePath)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	require.NoError(t, auth.Register(ctx, services.RegisterForm{
		UserName:        "alice",
		Password:        []byte("secret"),
		ConfirmPassword: []byte("secret"),
		Email:           "alice@example.org",
		Phone:           "13800000000",
	}))
	_, err = auth.Login(ctx, services.LoginForm{UserName: "alice", Password: []byte("secret"), RememberMe: true})
	require.NoError(t, err)

	resp, err = browser.Get(ts.URL + httpapi.WelcomePath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status int         `json:"status"`
		Data   models.User `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0, body.Status)
	assert.Equal(t, "alice", body.Data.Name)
}
