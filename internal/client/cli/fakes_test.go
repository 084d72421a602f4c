package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/console/internal/client/guard"
	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/client/redirect"
	"github.com/dmitrijs2005/console/internal/client/services"
	"github.com/dmitrijs2005/console/internal/logging"
)

const testOrigin = "http://localhost:8000"

// fakeSession is the user resolver behind the guard and the page load
// driven on reload.
type fakeSession struct {
	user     *models.User
	err      error
	redirect string

	inits     int
	teardowns int
	initErr   error
}

func (f *fakeSession) ResolveUser(context.Context) (*models.User, error) { return f.user, f.err }
func (f *fakeSession) CaptureRedirect(target string)                     { f.redirect = target }
func (f *fakeSession) Initialize(context.Context) error                  { f.inits++; return f.initErr }
func (f *fakeSession) Teardown()                                         { f.teardowns++ }

type fakeAuth struct {
	// Login
	loginForm   services.LoginForm
	loginPass   string
	loginRes    redirect.Resolution
	loginErr    error
	onLogin     func()
	rememberedN int

	// Remembered
	info       *models.LoginInfo
	remembered bool

	// Register
	regForm    services.RegisterForm
	regPass    string
	regConfirm string
	regErr     error

	// Logout
	logoutLocation string
	logoutTarget   string
	logoutErr      error
}

func (f *fakeAuth) Login(_ context.Context, form services.LoginForm) (redirect.Resolution, error) {
	f.loginForm = form
	f.loginPass = string(form.Password)
	if f.loginErr == nil && f.onLogin != nil {
		f.onLogin()
	}
	return f.loginRes, f.loginErr
}

func (f *fakeAuth) LoginRemembered(context.Context) (redirect.Resolution, error) {
	f.rememberedN++
	if f.loginErr == nil && f.onLogin != nil {
		f.onLogin()
	}
	return f.loginRes, f.loginErr
}

func (f *fakeAuth) Remembered(context.Context) (*models.LoginInfo, bool, error) {
	return f.info, f.remembered, nil
}

func (f *fakeAuth) Register(_ context.Context, form services.RegisterForm) error {
	f.regForm = form
	f.regPass, f.regConfirm = string(form.Password), string(form.ConfirmPassword)
	return f.regErr
}

func (f *fakeAuth) Logout(_ context.Context, location string) (string, error) {
	f.logoutLocation = location
	return f.logoutTarget, f.logoutErr
}

type fakeStudents struct {
	listParams models.StudentListParams
	listOut    *models.StudentList
	listErr    error
	listCalls  int

	getID  string
	getOut *models.Student
	getErr error

	created *models.Student
	updated *models.Student
	deleted string
	err     error
}

func (f *fakeStudents) List(_ context.Context, p models.StudentListParams) (*models.StudentList, error) {
	f.listCalls++
	f.listParams = p
	return f.listOut, f.listErr
}

func (f *fakeStudents) Get(_ context.Context, id string) (*models.Student, error) {
	f.getID = id
	return f.getOut, f.getErr
}

func (f *fakeStudents) Create(_ context.Context, st models.Student) error {
	f.created = &st
	return f.err
}

func (f *fakeStudents) Update(_ context.Context, st models.Student) error {
	f.updated = &st
	return f.err
}

func (f *fakeStudents) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

type testApp struct {
	*App
	sess     *fakeSession
	auth     *fakeAuth
	students *fakeStudents
	out      *bytes.Buffer
}

// newTestApp wires an App to fakes. input feeds every prompt.
func newTestApp(input string) *testApp {
	sess := &fakeSession{}
	auth := &fakeAuth{}
	students := &fakeStudents{}
	out := &bytes.Buffer{}

	a := &App{
		auth:     auth,
		students: students,
		session:  sess,
		guard:    guard.New(sess, guard.DefaultLoginPath, logging.Discard()),
		notifier: newPrintNotifier(out),
		logger:   logging.Discard(),
		origin:   testOrigin,
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      out,
	}
	return &testApp{App: a, sess: sess, auth: auth, students: students, out: out}
}

func alice() *models.User {
	return &models.User{ID: "u-1", Name: "Alice", Email: "alice@example.org", Authority: "admin"}
}

// capturePrintln redirects printlnFn into a buffer for the test.
func capturePrintln(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

// stubPasswords makes getPassword return the given passwords in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(pws) == 0 {
			t.Fatalf("unexpected password prompt")
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
}
