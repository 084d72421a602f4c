package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/logging"
	"github.com/dmitrijs2005/console/internal/mockapi/config"
	"github.com/dmitrijs2005/console/internal/mockapi/students"
	"github.com/dmitrijs2005/console/internal/mockapi/users"
)

const (
	prefix = "/express-api"
	digest = "5ebe2294ecd0e0f08eab7690d2a6ee69"
)

type reply struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
	Total  *int            `json:"total"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewServer(prefix, logging.Discard(), users.NewService(users.NewMemoryRepository(), cfg), students.NewRepository())
}

func call(t *testing.T, s *Server, method, path, token string, body any) reply {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, prefix+path, &buf)
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	if token != "" {
		req.Header.Set(common.TokenHeaderName, token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var r reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r), rec.Body.String())
	return r
}

func signupAndLogin(t *testing.T, s *Server) string {
	t.Helper()

	r := call(t, s, http.MethodPost, "/signup", "", signupRequest{
		UserName: "alice", PassWord: digest, Email: "alice@example.org", Phone: "13800000000", Level: 16,
	})
	require.Equal(t, StatusOK, r.Status, r.Msg)

	r = call(t, s, http.MethodPost, "/login", "", loginRequest{UserName: "alice", PassWord: digest, ValidityTime: 3600})
	require.Equal(t, StatusOK, r.Status, r.Msg)

	var res loginResult
	require.NoError(t, json.Unmarshal(r.Data, &res))
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Name)
	assert.NotEmpty(t, res.User.ID)
	return res.Token
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	signupAndLogin(t, s)

	tests := []struct {
		name string
		body any
		msg  string
	}{
		{"wrong password", loginRequest{UserName: "alice", PassWord: "bad"}, "invalid user name or password"},
		{"unknown user", loginRequest{UserName: "bob", PassWord: digest}, "invalid user name or password"},
		{"missing fields", loginRequest{UserName: "alice"}, "user name and password are required"},
		{"not json", "not an object", "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := call(t, s, http.MethodPost, "/login", "", tt.body)
			assert.Equal(t, StatusFailed, r.Status)
			assert.Equal(t, tt.msg, r.Msg)
		})
	}
}

func TestSignup_Failures(t *testing.T) {
	s := newTestServer(t)
	signupAndLogin(t, s)

	r := call(t, s, http.MethodPost, "/signup", "", signupRequest{
		UserName: "alice", PassWord: digest, Email: "a@example.org", Phone: "13800000000",
	})
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "user already exists", r.Msg)

	r = call(t, s, http.MethodPost, "/signup", "", signupRequest{UserName: "bob"})
	assert.Equal(t, StatusFailed, r.Status)
}

func TestStudentRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, token := range []string{"", "garbage"} {
		r := call(t, s, http.MethodGet, "/student/getStudentList", token, nil)
		assert.Equal(t, StatusUnauthenticated, r.Status)
		assert.NotEmpty(t, r.Msg)
	}
}

func TestStudentCRUD(t *testing.T) {
	s := newTestServer(t)
	token := signupAndLogin(t, s)

	r := call(t, s, http.MethodPost, "/student/createStudent", token, students.Student{Name: "Bob", Sex: true, Birth: "2001-02-03"})
	require.Equal(t, StatusOK, r.Status, r.Msg)
	var created students.Student
	require.NoError(t, json.Unmarshal(r.Data, &created))
	require.NotEmpty(t, created.ID)

	call(t, s, http.MethodPost, "/student/createStudent", token, students.Student{Name: "Carol", Birth: "2002-03-04"})

	r = call(t, s, http.MethodGet, "/student/getStudentList?pageIndex=1&pageSize=10&filter%5Bname%5D=bob", token, nil)
	require.Equal(t, StatusOK, r.Status)
	require.NotNil(t, r.Total)
	assert.Equal(t, 1, *r.Total)
	var page []students.Student
	require.NoError(t, json.Unmarshal(r.Data, &page))
	require.Len(t, page, 1)
	assert.Equal(t, "Bob", page[0].Name)

	r = call(t, s, http.MethodGet, "/student/getStudentById/"+created.ID, token, nil)
	require.Equal(t, StatusOK, r.Status)

	r = call(t, s, http.MethodPut, "/student/updateStudentById/"+created.ID, token, students.Student{Name: "Robert", Birth: "2001-02-03"})
	require.Equal(t, StatusOK, r.Status, r.Msg)
	var updated students.Student
	require.NoError(t, json.Unmarshal(r.Data, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Robert", updated.Name)

	r = call(t, s, http.MethodDelete, "/student/deleteStudentById/"+created.ID, token, nil)
	require.Equal(t, StatusOK, r.Status)

	r = call(t, s, http.MethodGet, "/student/getStudentById/"+created.ID, token, nil)
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "student not found", r.Msg)

	r = call(t, s, http.MethodGet, "/student/getStudentList", token, nil)
	require.NotNil(t, r.Total)
	assert.Equal(t, 1, *r.Total)
}

func TestStudentCreate_Validation(t *testing.T) {
	s := newTestServer(t)
	token := signupAndLogin(t, s)

	r := call(t, s, http.MethodPost, "/student/createStudent", token, students.Student{Birth: "2001-02-03"})
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "name is required", r.Msg)

	r = call(t, s, http.MethodPut, "/student/updateStudentById/nope", token, students.Student{Name: "X", Birth: "2001-02-03"})
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "student not found", r.Msg)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, prefix+"/nope", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWelcome_RedirectsAnonymous(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://localhost:8000"+WelcomePath, nil))

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/user/login", loc.Path)
	assert.Equal(t, "http://localhost:8000/welcome", loc.Query().Get("redirect"))
}

func TestWelcome_ShowsCookieUser(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, WelcomePath, nil)
	req.AddCookie(&http.Cookie{Name: common.UserInfoKey, Value: url.QueryEscape(`{"userid":"u1","name":"bob"}`)})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var r reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, StatusOK, r.Status)
	assert.JSONEq(t, `{"userid":"u1","name":"bob"}`, string(r.Data))
}

func TestLoginPage_IsNotGuarded(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/login?redirect=%2Fwelcome", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var r reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.JSONEq(t, `{"redirect":"/welcome"}`, string(r.Data))
}
