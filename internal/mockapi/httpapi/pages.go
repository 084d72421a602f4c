package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/console/internal/client/credentials"
	"github.com/dmitrijs2005/console/internal/client/guard"
	"github.com/dmitrijs2005/console/internal/client/session"
)

// WelcomePath is the guarded landing page of the console.
const WelcomePath = "/welcome"

// mountPages serves the console pages behind the session guard. The session
// of each request lives in its cookies.
func (s *Server) mountPages() {
	sessions := func(w http.ResponseWriter, r *http.Request) guard.UserResolver {
		return session.New(credentials.NewCookieStore(w, r), s.logger)
	}
	guarded := echo.WrapMiddleware(guard.Middleware(guard.DefaultLoginPath, sessions, s.logger))

	s.echo.GET(WelcomePath, s.welcome, guarded)
	s.echo.GET(guard.DefaultLoginPath, s.loginPage, guarded)
}

func (s *Server) welcome(c echo.Context) error {
	u, _ := guard.UserFromContext(c.Request().Context())
	return ok(c, u)
}

func (s *Server) loginPage(c echo.Context) error {
	return ok(c, map[string]string{"redirect": c.QueryParam("redirect")})
}
