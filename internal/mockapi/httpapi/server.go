// Package httpapi serves the express-api contract of the admin console over
// echo: JSON envelopes, token header authentication and the student routes.
// It also serves the guarded console pages backed by cookie sessions.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/console/internal/logging"
	"github.com/dmitrijs2005/console/internal/mockapi/students"
	"github.com/dmitrijs2005/console/internal/mockapi/users"
)

const (
	contextKeyUser  = "user"
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	echo     *echo.Echo
	users    *users.Service
	students *students.Repository
	logger   logging.Logger
}

// NewServer mounts every route under prefix.
func NewServer(prefix string, logger logging.Logger, us *users.Service, repo *students.Repository) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, users: us, students: repo, logger: logger}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info(c.Request().Context(), "request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	api := e.Group(strings.TrimRight(prefix, "/"))
	api.POST("/login", s.login)
	api.POST("/signup", s.signup)

	st := api.Group("/student", s.requireToken)
	st.GET("/getStudentList", s.listStudents)
	st.GET("/getStudentById/:id", s.getStudent)
	st.POST("/createStudent", s.createStudent)
	st.PUT("/updateStudentById/:id", s.updateStudent)
	st.DELETE("/deleteStudentById/:id", s.deleteStudent)

	s.mountPages()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "mock express-api listening", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "shutting down mock express-api")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
