package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/dmitrijs2005/console/internal/common"
)

// RequestOptions describes one call. Method defaults to GET.
type RequestOptions struct {
	Method  string
	Params  map[string]any
	Data    any
	Headers http.Header
	// SkipAuth suppresses the token header, e.g. for /login itself.
	SkipAuth bool
}

// Request is the descriptor passed through the request interceptor.
type Request struct {
	Method   string
	URL      string
	Params   map[string]any
	Data     any
	Header   http.Header
	SkipAuth bool
}

func (r *Request) clone() *Request {
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = http.Header{}
	}
	if r.Params != nil {
		c.Params = make(map[string]any, len(r.Params))
		for k, v := range r.Params {
			c.Params[k] = v
		}
	}
	return &c
}

// TokenSource yields the current session token.
type TokenSource interface {
	Token(ctx context.Context) (string, bool, error)
}

// RequestInterceptor rewrites every outgoing request. It never mutates its
// input, and running it again on its own output changes nothing.
type RequestInterceptor struct {
	Tokens TokenSource
}

func (i *RequestInterceptor) Intercept(ctx context.Context, req *Request) (*Request, error) {
	out := req.clone()

	if out.SkipAuth {
		out.Header.Del(common.TokenHeaderName)
	} else if i.Tokens != nil {
		tok, ok, err := i.Tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read session token: %w", err)
		}
		if ok && tok != "" {
			out.Header.Set(common.TokenHeaderName, tok)
		}
	}

	if len(out.Params) > 0 {
		if out.Method == "" || strings.EqualFold(out.Method, http.MethodGet) {
			out.URL = SerializeParams(out.URL, out.Params)
		} else {
			out.URL = plainQuery(out.URL, out.Params)
		}
	}
	out.Params = nil

	return out, nil
}

// SerializeParams appends params to rawURL. A map value expands to one
// key[subkey]=value pair per entry; nil, nil pointers and empty strings are
// dropped. Keys are emitted in sorted order. An existing query string is
// extended, never re-encoded.
func SerializeParams(rawURL string, params map[string]any) string {
	var pairs []string
	add := func(k, v string) {
		pairs = append(pairs, encodeComponent(k)+"="+encodeComponent(v))
	}

	for _, key := range sortedKeys(params) {
		rv, ok := deref(reflect.ValueOf(params[key]))
		if !ok {
			continue
		}

		if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
			subs := rv.MapKeys()
			sort.Slice(subs, func(a, b int) bool { return subs[a].String() < subs[b].String() })
			for _, sub := range subs {
				if s, ok := formatValue(rv.MapIndex(sub)); ok {
					add(key+"["+sub.String()+"]", s)
				}
			}
			continue
		}

		if s, ok := formatValue(rv); ok {
			add(key, s)
		}
	}

	if len(pairs) == 0 {
		return rawURL
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
		if strings.HasSuffix(rawURL, "?") || strings.HasSuffix(rawURL, "&") {
			sep = ""
		}
	}
	return rawURL + sep + strings.Join(pairs, "&")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deref(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

func formatValue(rv reflect.Value) (string, bool) {
	rv, ok := deref(rv)
	if !ok {
		return "", false
	}

	switch rv.Kind() {
	case reflect.String:
		s := rv.String()
		return s, s != ""
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := formatValue(rv.Index(i)); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), len(parts) > 0
	default:
		return fmt.Sprint(rv.Interface()), true
	}
}

// plainQuery appends params without nested record expansion, which only
// applies to GET. Record values are dropped.
func plainQuery(rawURL string, params map[string]any) string {
	q := url.Values{}
	for k, v := range params {
		rv, ok := deref(reflect.ValueOf(v))
		if !ok || rv.Kind() == reflect.Map {
			continue
		}
		if s, ok := formatValue(rv); ok {
			q.Set(k, s)
		}
	}
	if len(q) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + q.Encode()
}

// componentMarks turns url.QueryEscape output into encodeURIComponent output:
// spaces become %20 and the marks ! ' ( ) * stay literal.
var componentMarks = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes like a browser's encodeURIComponent.
func encodeComponent(s string) string {
	return componentMarks.Replace(url.QueryEscape(s))
}
