package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultContentType = "application/json;charset=utf-8"

	// MaxResponseSize bounds response body reads.
	MaxResponseSize int64 = 16 << 20
)

// Session is what the client needs from the session context: the token for
// outgoing requests and a way to wipe it on 401.
type Session interface {
	TokenSource
	SessionWiper
}

type Options struct {
	// BaseURL is the backend origin, e.g. http://localhost:3000.
	BaseURL string
	// Prefix is prepended to every path, e.g. /express-api.
	Prefix string
	// Timeout bounds each call; DefaultTimeout when zero.
	Timeout time.Duration
	// Jar, when set, is attached to the underlying http.Client.
	Jar http.CookieJar
	// HTTPClient replaces the default client. Timeout and Jar are then
	// taken from it as is.
	HTTPClient *http.Client

	Notifier    Notifier
	Scheduler   Scheduler
	ReloadDelay time.Duration
	Logger      logging.Logger
}

// Client sends requests to express-api through the interceptors.
type Client struct {
	base     string
	http     *http.Client
	headers  http.Header
	request  *RequestInterceptor
	response *ResponseInterceptor
	notifier Notifier
	logger   logging.Logger
	newID    func() string
}

func New(opts Options, sess Session) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout, Jar: opts.Jar}
	}

	delay := opts.ReloadDelay
	if delay <= 0 {
		delay = DefaultReloadDelay
	}

	headers := http.Header{}
	headers.Set("Content-Type", DefaultContentType)
	headers.Set("Accept", "application/json")

	base := strings.TrimRight(opts.BaseURL, "/")
	if p := strings.Trim(opts.Prefix, "/"); p != "" {
		base += "/" + p
	}

	return &Client{
		base:    base,
		http:    hc,
		headers: headers,
		request: &RequestInterceptor{Tokens: sess},
		response: &ResponseInterceptor{
			Session:   sess,
			Notifier:  notifier,
			Scheduler: opts.Scheduler,
			Delay:     delay,
			Logger:    logger,
		},
		notifier: notifier,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// OnReload sets the callback run after a 401, once the reload delay passed.
// Must be called before the client is shared between goroutines.
func (c *Client) OnReload(f func()) {
	c.response.Reload = f
}

// ReloadPending reports whether a 401 reload is scheduled.
func (c *Client) ReloadPending() bool {
	return c.response.ReloadPending()
}

func allowedMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// Send performs one call and returns the classified outcome.
//
// The error is a *NetworkError when the transport failed or the backend
// answered with a non-2xx HTTP status; both are also reported to the
// Notifier. A business failure returns the outcome together with a
// *BusinessError. A 401 envelope is not an error here: the outcome is
// returned after the session has been wiped.
func (c *Client) Send(ctx context.Context, path string, opts RequestOptions) (Outcome, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !allowedMethod(method) {
		return Outcome{}, fmt.Errorf("%w: %s", common.ErrUnsupportedMethod, opts.Method)
	}

	header := c.headers.Clone()
	for k, vs := range opts.Headers {
		header[k] = append([]string(nil), vs...)
	}

	req, err := c.request.Intercept(ctx, &Request{
		Method:   method,
		URL:      c.base + "/" + strings.TrimLeft(path, "/"),
		Params:   opts.Params,
		Data:     opts.Data,
		Header:   header,
		SkipAuth: opts.SkipAuth,
	})
	if err != nil {
		return Outcome{}, err
	}

	raw, err := c.roundTrip(ctx, req)
	if err != nil {
		var ne *NetworkError
		if errors.As(err, &ne) {
			c.logger.Error(ctx, "request failed", "method", req.Method, "url", req.URL, "kind", ne.Kind, "error", ne.Err)
			c.notifier.Error(ctx, ne.Message())
		}
		return Outcome{}, err
	}

	out := c.response.Intercept(ctx, raw)
	switch out.Kind {
	case OutcomeOK, OutcomeUnauthenticated:
		return out, nil
	case OutcomeBusiness:
		return out, &BusinessError{Status: out.Status, Msg: out.Msg}
	case OutcomeRaw:
		if !raw.ok() {
			ne := &NetworkError{Kind: KindHTTPStatus, StatusCode: raw.StatusCode}
			c.logger.Error(ctx, "backend returned error status", "method", req.Method, "url", req.URL, "status", raw.StatusCode)
			c.notifier.Error(ctx, ne.Message())
			return out, ne
		}
		return out, nil
	default:
		return out, fmt.Errorf("unknown outcome %d", out.Kind)
	}
}

// Do sends the call and decodes the envelope data into out (which may be
// nil). Failures map to *NetworkError, *BusinessError or
// *UnauthenticatedError.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions, out any) error {
	res, err := c.Send(ctx, path, opts)
	if err != nil {
		return err
	}

	switch res.Kind {
	case OutcomeOK:
		if out == nil || len(res.Data) == 0 || string(res.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(res.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", path, err)
		}
		return nil
	case OutcomeUnauthenticated:
		return &UnauthenticatedError{Msg: res.Msg}
	case OutcomeBusiness:
		return &BusinessError{Status: res.Status, Msg: res.Msg}
	case OutcomeRaw:
		return fmt.Errorf("%s: %w", path, ErrUnexpectedResponse)
	default:
		return fmt.Errorf("unknown outcome %d", res.Kind)
	}
}

func (c *Client) roundTrip(ctx context.Context, req *Request) (*RawResponse, error) {
	var body io.Reader
	if req.Data != nil {
		b, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	hreq.Header = req.Header
	id := c.newID()
	hreq.Header.Set(common.RequestIDHeaderName, id)

	start := time.Now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		return nil, networkError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, networkError(ctx, err)
	}

	c.logger.Debug(ctx, "request",
		"method", req.Method,
		"url", req.URL,
		"request_id", id,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	return &RawResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// networkError classifies a transport failure. Cancellation by the caller
// is returned as is.
func networkError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}

	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return &NetworkError{Kind: KindTimeout, Err: err}
	}
	return &NetworkError{Kind: KindConnection, Err: err}
}
