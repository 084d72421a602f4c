package guard

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/logging"
)

type ctxKey struct{}

// UserFromContext returns the user stored by Middleware, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}

// ResolverFactory builds the user resolver for one request, typically a
// session over a cookie store bound to w and r.
type ResolverFactory func(w http.ResponseWriter, r *http.Request) UserResolver

// Middleware guards every request of next. Denied requests are redirected
// to the login page with the absolute request URL as redirect parameter;
// requests whose user lookup is still pending get 503 with Retry-After.
func Middleware(loginPath string, users ResolverFactory, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g := New(users(w, r), loginPath, logger)

			d := g.Evaluate(r.Context(), requestURL(r))
			switch d.State {
			case Authorized:
				ctx := r.Context()
				if d.User != nil {
					ctx = context.WithValue(ctx, ctxKey{}, d.User)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
			case Denied:
				http.Redirect(w, r, d.LoginTarget, http.StatusFound)
			default:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "loading", http.StatusServiceUnavailable)
			}
		})
	}
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
