package billing

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/billingkit/pkg/broadcast"
)

// Option configures optional Service dependencies.
type Option func(*Service)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithEvents sets the broadcaster domain events are published to.
// Defaults to an in-memory broadcaster.
func WithEvents(events broadcast.Broadcaster[Event]) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

// WithClock overrides the time source. Useful for tests that pin trial and
// grace-period boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
