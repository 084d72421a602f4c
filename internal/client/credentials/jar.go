package credentials

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// NewCookieJar returns an in-memory jar using the public suffix list for
// domain matching.
func NewCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// JarStore stores credentials as cookies of origin inside an http.CookieJar.
// Sharing the jar with an http.Client makes the credentials visible to the
// backend the same way a browser would send them.
type JarStore struct {
	jar    http.CookieJar
	origin *url.URL
	now    func() time.Time
}

func NewJarStore(jar http.CookieJar, origin string) (*JarStore, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid cookie origin %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid cookie origin %q", origin)
	}
	return &JarStore{jar: jar, origin: &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, now: time.Now}, nil
}

func (s *JarStore) at(path string) *url.URL {
	u := *s.origin
	u.Path = normPath(path)
	return &u
}

// Get looks the key up among the cookies sent to the origin root.
func (s *JarStore) Get(_ context.Context, key string) (string, bool, error) {
	for _, c := range s.jar.Cookies(s.origin) {
		if c.Name != key {
			continue
		}
		v, err := url.QueryUnescape(c.Value)
		if err != nil {
			return "", false, fmt.Errorf("malformed cookie %s: %w", key, err)
		}
		return v, true, nil
	}
	return "", false, nil
}

func (s *JarStore) Set(_ context.Context, key, value string, opts SetOptions) error {
	c := &http.Cookie{
		Name:  key,
		Value: url.QueryEscape(value),
		Path:  normPath(opts.Path),
	}
	if exp := ExpiryTime(s.now(), opts.ExpiresInDays); !exp.IsZero() {
		c.Expires = exp
	}
	s.jar.SetCookies(s.at(opts.Path), []*http.Cookie{c})
	return nil
}

func (s *JarStore) Remove(_ context.Context, key string, opts RemoveOptions) error {
	c := &http.Cookie{Name: key, Path: normPath(opts.Path), MaxAge: -1}
	s.jar.SetCookies(s.at(opts.Path), []*http.Cookie{c})
	return nil
}
