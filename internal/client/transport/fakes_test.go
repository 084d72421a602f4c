package transport

import (
	"context"
	"sync"
	"time"
)

type fakeSession struct {
	mu    sync.Mutex
	token string
	wiped int
	err   error
}

func (s *fakeSession) Token(context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	return s.token, s.token != "", nil
}

func (s *fakeSession) Wipe(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.wiped++
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	warns    []string
	errs     []string
	successs []string
}

func (n *recordingNotifier) Warn(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, msg)
}

func (n *recordingNotifier) Error(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, msg)
}

func (n *recordingNotifier) Success(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successs = append(n.successs, msg)
}

// manualScheduler records scheduled callbacks; Fire runs them.
type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	s.funcs = append(s.funcs, f)
}

func (s *manualScheduler) Fire() {
	s.mu.Lock()
	funcs := s.funcs
	s.funcs = nil
	s.mu.Unlock()
	for _, f := range funcs {
		f()
	}
}
