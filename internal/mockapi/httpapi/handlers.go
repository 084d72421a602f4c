package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/mockapi/students"
	"github.com/dmitrijs2005/console/internal/mockapi/users"
)

type loginRequest struct {
	UserName     string `json:"userName"`
	PassWord     string `json:"passWord"`
	ValidityTime int64  `json:"validityTime"`
	AutoLogin    bool   `json:"autoLogin"`
}

type userInfo struct {
	ID        string `json:"userid"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Authority string `json:"currentAuthority"`
}

type loginResult struct {
	Token string   `json:"token"`
	User  userInfo `json:"userInfo"`
}

type signupRequest struct {
	UserName string `json:"userName"`
	PassWord string `json:"passWord"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Level    int    `json:"level"`
}

// requireToken answers a 401 envelope unless the token header holds a valid
// session token.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		user, err := s.users.Authenticate(ctx, c.Request().Header.Get(common.TokenHeaderName))
		if err != nil {
			s.logger.Debug(ctx, "rejected token", "error", err)
			return unauthenticated(c)
		}
		c.Set(contextKeyUser, user)
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, "invalid request body")
	}
	if req.UserName == "" || req.PassWord == "" {
		return fail(c, "user name and password are required")
	}

	ctx := c.Request().Context()
	token, user, err := s.users.Login(ctx, req.UserName, req.PassWord, time.Duration(req.ValidityTime)*time.Second)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			return fail(c, err.Error())
		}
		s.logger.Error(ctx, "login error", "error", err)
		return fail(c, "login failed")
	}

	return ok(c, loginResult{
		Token: token,
		User: userInfo{
			ID:        user.ID,
			Name:      user.UserName,
			Email:     user.Email,
			Authority: "admin",
		},
	})
}

func (s *Server) signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, "invalid request body")
	}
	if req.UserName == "" || req.PassWord == "" || req.Email == "" || req.Phone == "" {
		return fail(c, "userName, passWord, email and phone are required")
	}

	ctx := c.Request().Context()
	_, err := s.users.Register(ctx, &users.User{
		UserName:       req.UserName,
		PasswordDigest: req.PassWord,
		Email:          req.Email,
		Phone:          req.Phone,
		Level:          req.Level,
	})
	if err != nil {
		if errors.Is(err, users.ErrUserExists) {
			return fail(c, "user already exists")
		}
		s.logger.Error(ctx, "signup error", "error", err)
		return fail(c, "registration failed")
	}
	return ok(c, nil)
}

// parseQuery reads pageIndex, pageSize, startTime, endTime and the
// filter[key]=value pairs.
func parseQuery(c echo.Context) students.Query {
	q := students.Query{
		StartTime: c.QueryParam("startTime"),
		EndTime:   c.QueryParam("endTime"),
		Filter:    map[string]string{},
	}
	q.PageIndex, _ = strconv.Atoi(c.QueryParam("pageIndex"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))

	for k, v := range c.QueryParams() {
		if len(v) == 0 || !strings.HasPrefix(k, "filter[") || !strings.HasSuffix(k, "]") {
			continue
		}
		q.Filter[k[len("filter["):len(k)-1]] = v[0]
	}
	return q
}

func (s *Server) listStudents(c echo.Context) error {
	page, total := s.students.List(c.Request().Context(), parseQuery(c))
	return c.JSON(http.StatusOK, envelope{Status: StatusOK, Data: page, Total: &total})
}

func (s *Server) getStudent(c echo.Context) error {
	st, err := s.students.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.studentError(c, err)
	}
	return ok(c, st)
}

func validStudent(st students.Student) string {
	switch {
	case st.Name == "":
		return "name is required"
	case st.Birth == "":
		return "birth is required"
	}
	return ""
}

func (s *Server) createStudent(c echo.Context) error {
	var st students.Student
	if err := c.Bind(&st); err != nil {
		return fail(c, "invalid request body")
	}
	if msg := validStudent(st); msg != "" {
		return fail(c, msg)
	}

	created, err := s.students.Create(c.Request().Context(), st)
	if err != nil {
		return s.studentError(c, err)
	}
	return ok(c, created)
}

func (s *Server) updateStudent(c echo.Context) error {
	var st students.Student
	if err := c.Bind(&st); err != nil {
		return fail(c, "invalid request body")
	}
	if msg := validStudent(st); msg != "" {
		return fail(c, msg)
	}

	updated, err := s.students.Update(c.Request().Context(), c.Param("id"), st)
	if err != nil {
		return s.studentError(c, err)
	}
	return ok(c, updated)
}

func (s *Server) deleteStudent(c echo.Context) error {
	if err := s.students.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.studentError(c, err)
	}
	return ok(c, nil)
}

func (s *Server) studentError(c echo.Context, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return fail(c, "student not found")
	}
	s.logger.Error(c.Request().Context(), "student store error", "error", err)
	return fail(c, "operation failed")
}
