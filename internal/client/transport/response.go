package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/logging"
)

// StatusOK and StatusUnauthenticated are the envelope statuses with a
// meaning of their own. Every other non-zero status is a business failure.
const (
	StatusOK              = 0
	StatusUnauthenticated = 401
)

// DefaultReloadDelay leaves the 401 warning on screen before the reload.
const DefaultReloadDelay = 1023 * time.Millisecond

// RawResponse is the HTTP response as received, body fully read.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *RawResponse) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type OutcomeKind uint8

const (
	// OutcomeRaw: non-2xx HTTP status or a body that is not an envelope.
	OutcomeRaw OutcomeKind = iota
	OutcomeOK
	OutcomeUnauthenticated
	OutcomeBusiness
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeBusiness:
		return "business"
	default:
		return "raw"
	}
}

// Outcome is the classified response. Data is set for OutcomeOK, Msg for
// OutcomeUnauthenticated and OutcomeBusiness, Raw always.
type Outcome struct {
	Kind   OutcomeKind
	Status int
	Msg    string
	Data   json.RawMessage
	Raw    *RawResponse
}

type envelope struct {
	Status *int            `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// Classify maps a response onto an Outcome without side effects. A missing
// status counts as 0.
func Classify(raw *RawResponse) Outcome {
	out := Outcome{Kind: OutcomeRaw, Raw: raw}
	if !raw.ok() {
		return out
	}

	var env envelope
	if err := json.Unmarshal(raw.Body, &env); err != nil {
		return out
	}

	if env.Status != nil {
		out.Status = *env.Status
	}

	switch out.Status {
	case StatusOK:
		out.Kind = OutcomeOK
		out.Data = env.Data
		out.Msg = env.Msg
	case StatusUnauthenticated:
		out.Kind = OutcomeUnauthenticated
		out.Msg = messageOrDefault(env.Msg)
	default:
		out.Kind = OutcomeBusiness
		out.Msg = messageOrDefault(env.Msg)
	}
	return out
}

func messageOrDefault(msg string) string {
	if msg == "" {
		return common.DefaultErrorMessage
	}
	return msg
}

// SessionWiper clears the in-memory session and the credential store.
type SessionWiper interface {
	Wipe(ctx context.Context) error
}

// ResponseInterceptor classifies responses and recovers from 401: the
// session is wiped, the operator warned and Reload scheduled after Delay.
// While a reload is pending, further 401s only wipe.
type ResponseInterceptor struct {
	Session   SessionWiper
	Notifier  Notifier
	Scheduler Scheduler
	Reload    func()
	Delay     time.Duration
	Logger    logging.Logger

	mu      sync.Mutex
	pending bool
}

func (i *ResponseInterceptor) Intercept(ctx context.Context, raw *RawResponse) Outcome {
	out := Classify(raw)
	if out.Kind == OutcomeUnauthenticated {
		i.unauthenticated(ctx, out.Msg)
	}
	return out
}

func (i *ResponseInterceptor) unauthenticated(ctx context.Context, msg string) {
	if i.Logger != nil {
		i.Logger.Warn(ctx, "session rejected by backend", "msg", msg)
	}

	if i.Session != nil {
		if err := i.Session.Wipe(ctx); err != nil && i.Logger != nil {
			i.Logger.Error(ctx, "failed to wipe session", "error", err)
		}
	}

	i.mu.Lock()
	if i.pending {
		i.mu.Unlock()
		return
	}
	i.pending = true
	i.mu.Unlock()

	if i.Notifier != nil {
		i.Notifier.Warn(ctx, msg)
	}

	sched := i.Scheduler
	if sched == nil {
		sched = RealScheduler{}
	}
	sched.AfterFunc(i.Delay, func() {
		i.mu.Lock()
		i.pending = false
		i.mu.Unlock()
		if i.Reload != nil {
			i.Reload()
		}
	})
}

// ReloadPending reports whether a reload has been scheduled and not yet run.
func (i *ResponseInterceptor) ReloadPending() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending
}
