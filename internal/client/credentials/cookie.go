package credentials

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// CookieStore reads credentials from the cookies of an incoming request and
// writes changes as Set-Cookie headers on the response. Writes are also kept
// in an overlay so later reads within the same request see them.
type CookieStore struct {
	w   http.ResponseWriter
	r   *http.Request
	now func() time.Time

	mu      sync.Mutex
	overlay map[string]*http.Cookie
}

func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r, now: time.Now, overlay: make(map[string]*http.Cookie)}
}

func (s *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	c, ok := s.overlay[key]
	s.mu.Unlock()

	if ok {
		if c.MaxAge < 0 {
			return "", false, nil
		}
	} else {
		var err error
		if c, err = s.r.Cookie(key); err != nil {
			return "", false, nil
		}
	}

	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", false, fmt.Errorf("malformed cookie %s: %w", key, err)
	}
	return v, true, nil
}

func (s *CookieStore) Set(_ context.Context, key, value string, opts SetOptions) error {
	c := &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     normPath(opts.Path),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.ExpiresInDays > 0 {
		c.Expires = ExpiryTime(s.now(), opts.ExpiresInDays)
		c.MaxAge = int(expiryDuration(opts.ExpiresInDays) / time.Second)
	}
	s.write(c)
	return nil
}

func (s *CookieStore) Remove(_ context.Context, key string, opts RemoveOptions) error {
	s.write(&http.Cookie{
		Name:    key,
		Path:    normPath(opts.Path),
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
	return nil
}

func (s *CookieStore) write(c *http.Cookie) {
	s.mu.Lock()
	s.overlay[c.Name] = c
	s.mu.Unlock()
	http.SetCookie(s.w, c)
}
