package appraisal

import (
	"context"
	"time"

	"appraisal/internal/domain/directory"
)

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
)

// Actor is the pre-authorized caller of an engine operation. EmployeeID is
// the caller's own directory profile id; HR callers may act without one.
type Actor struct {
	EmployeeID string
	Role       string
}

// Notifier dispatches fire-and-forget notifications. Failures are logged by
// the engine and never fail the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, toEmployeeID, ntype, title, body string) error
}

// DefaultDisputeWindow is how long after publication a record stays
// disputable.
const DefaultDisputeWindow = 7 * 24 * time.Hour

type Service struct {
	store         StoreAPI
	dir           directory.Service
	notifier      Notifier
	hooks         []TransitionHook
	disputeWindow time.Duration
	now           func() time.Time
}

type Option func(*Service)

func WithDisputeWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.disputeWindow = window
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithHook(hook TransitionHook) Option {
	return func(s *Service) {
		s.hooks = append(s.hooks, hook)
	}
}

func NewService(store StoreAPI, dir directory.Service, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		store:         store,
		dir:           dir,
		notifier:      notifier,
		disputeWindow: DefaultDisputeWindow,
		now:           time.Now,
	}
	if notifier != nil {
		s.hooks = append(s.hooks, notifyHook(notifier))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
