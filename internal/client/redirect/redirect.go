// Package redirect computes where to go after a successful login from the
// redirect parameter captured at the login wall.
package redirect

import (
	"net/url"
	"strings"
)

// Home is the fallback destination.
const Home = "/"

// Resolution is the post-login destination. HardNavigation asks the caller
// to do a full navigation to Path instead of a client-side route change; it
// is set when the captured value was rejected as untrusted.
type Resolution struct {
	Path           string
	HardNavigation bool
}

var untrusted = Resolution{Path: Home, HardNavigation: true}

// Resolver resolves redirect parameters for an application mounted under
// RouterBase ("/" when empty).
type Resolver struct {
	RouterBase string
}

// Resolve maps the captured redirect value to a relative path on
// currentOrigin. Values pointing at another origin, values that cannot be
// parsed and non-HTTP schemes all resolve to Home with HardNavigation.
// A redirect to the login page is honored like any other path.
func (r Resolver) Resolve(currentOrigin, redirectParam string) Resolution {
	param := strings.TrimSpace(redirectParam)
	if param == "" {
		return Resolution{Path: Home}
	}

	// Browsers treat backslashes like slashes, so "/\evil" is "//evil".
	if strings.HasPrefix(param, `\`) || strings.HasPrefix(param, `/\`) {
		return untrusted
	}

	u, err := url.Parse(param)
	if err != nil {
		return untrusted
	}

	var rel string
	if u.Scheme != "" || u.Host != "" || strings.HasPrefix(param, "//") {
		cur, err := url.Parse(currentOrigin)
		if err != nil || cur.Host == "" {
			return untrusted
		}
		if u.Scheme == "" {
			u.Scheme = cur.Scheme
		}
		if u.Host == "" || !sameOrigin(cur, u) {
			return untrusted
		}
		rel = u.RequestURI()
		if u.Fragment != "" {
			rel += "#" + u.EscapedFragment()
		}
	} else {
		rel = param
		if !strings.HasPrefix(rel, "/") {
			rel = "/" + rel
		}
	}

	rel = r.stripBase(rel)
	rel = stripHashRoute(rel)
	if rel == "" {
		return Resolution{Path: Home}
	}
	return Resolution{Path: rel}
}

func (r Resolver) stripBase(p string) string {
	base := r.RouterBase
	if base == "" || base == "/" {
		return p
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if strings.HasPrefix(p, base) {
		return "/" + p[len(base):]
	}
	if p+"/" == base {
		return Home
	}
	return p
}

// stripHashRoute keeps what follows the first '#' of a path such as
// "/#/welcome", left over from hash-based routing.
func stripHashRoute(p string) string {
	i := strings.IndexByte(p, '#')
	if i < 1 || !strings.HasPrefix(p, "/") {
		return p
	}
	rest := p[i+1:]
	if rest != "" && !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return rest
}

func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}
