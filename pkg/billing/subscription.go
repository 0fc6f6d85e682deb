package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subscription mirrors one processor-side subscription's lifecycle. The
// stored fields are the single source of truth; every state below is derived
// from them on read, never persisted. A non-nil EndsAt in the future always
// means "cancellation scheduled, still usable until that instant".
type Subscription struct {
	ID             uuid.UUID
	Owner          OwnerRef
	Name           string // human-assigned, e.g. "default"; not unique historically
	ProviderID     int64  // processor's numeric subscription id
	ProviderCode   string // processor's subscription code (SUB_xxx)
	ProviderStatus Status
	Plan           string
	Quantity       int
	TrialEndsAt    *time.Time
	EndsAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OnTrial reports whether the subscription is within its trial period.
func (s *Subscription) OnTrial() bool {
	return s.OnTrialAt(time.Now().UTC())
}

// OnTrialAt is the fixed-time variant of OnTrial, useful in tests.
func (s *Subscription) OnTrialAt(now time.Time) bool {
	return s.TrialEndsAt != nil && now.Before(*s.TrialEndsAt)
}

// OnGracePeriod reports whether a cancellation is scheduled but has not yet
// taken effect.
func (s *Subscription) OnGracePeriod() bool {
	return s.OnGracePeriodAt(time.Now().UTC())
}

// OnGracePeriodAt is the fixed-time variant of OnGracePeriod.
func (s *Subscription) OnGracePeriodAt(now time.Time) bool {
	return s.EndsAt != nil && now.Before(*s.EndsAt)
}

// Cancelled reports whether a cancellation has ever been recorded, locally
// or by the processor.
func (s *Subscription) Cancelled() bool {
	return s.CancelledAt(time.Now().UTC())
}

// CancelledAt is the fixed-time variant of Cancelled.
func (s *Subscription) CancelledAt(now time.Time) bool {
	return s.EndsAt != nil || s.ProviderStatus == StatusCancelled
}

// Active reports whether the subscription is usable for service delivery.
func (s *Subscription) Active() bool {
	return s.ActiveAt(time.Now().UTC())
}

// ActiveAt is the fixed-time variant of Active.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return s.EndsAt == nil || s.OnGracePeriodAt(now) || s.ProviderStatus == StatusActive
}

// Ended reports whether the subscription is cancelled and its grace period
// has expired.
func (s *Subscription) Ended() bool {
	return s.EndedAt(time.Now().UTC())
}

// EndedAt is the fixed-time variant of Ended.
func (s *Subscription) EndedAt(now time.Time) bool {
	return s.CancelledAt(now) && !s.OnGracePeriodAt(now)
}

// Recurring reports whether the subscription will keep billing: past any
// trial and never cancelled.
func (s *Subscription) Recurring() bool {
	return s.RecurringAt(time.Now().UTC())
}

// RecurringAt is the fixed-time variant of Recurring.
func (s *Subscription) RecurringAt(now time.Time) bool {
	return !s.OnTrialAt(now) && !s.CancelledAt(now)
}

// Valid reports whether the subscription grants access: active, on trial,
// or within its grace period.
func (s *Subscription) Valid() bool {
	return s.ValidAt(time.Now().UTC())
}

// ValidAt is the fixed-time variant of Valid.
func (s *Subscription) ValidAt(now time.Time) bool {
	return s.ActiveAt(now) || s.OnTrialAt(now) || s.OnGracePeriodAt(now)
}

// HasPlan reports whether the subscription is on the given plan code.
func (s *Subscription) HasPlan(plan string) bool {
	return s.Plan == plan
}

// DaysLeft returns the number of whole days until the scheduled end, or 0
// when no cancellation is scheduled or the end has passed.
func (s *Subscription) DaysLeft() int {
	if s.EndsAt == nil {
		return 0
	}
	remaining := time.Until(*s.EndsAt)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}

// SkipTrial forces the trial to end immediately. Must be combined with a
// persisting operation such as swap or resume.
func (s *Subscription) SkipTrial() *Subscription {
	s.TrialEndsAt = nil
	return s
}

// MarkAsCancelled collapses any remaining grace period to the given instant.
func (s *Subscription) MarkAsCancelled(now time.Time) {
	s.EndsAt = &now
	s.UpdatedAt = now
}

// GuardAgainstUpdates rejects plan-mutating operations on records whose
// remote counterpart may be in an undefined or terminal state. It must run
// before any processor call.
func (s *Subscription) GuardAgainstUpdates(action string) error {
	return s.GuardAgainstUpdatesAt(action, time.Now().UTC())
}

// GuardAgainstUpdatesAt is the fixed-time variant of GuardAgainstUpdates.
func (s *Subscription) GuardAgainstUpdatesAt(action string, now time.Time) error {
	if s.OnTrialAt(now) {
		return fmt.Errorf("%w: cannot %s while on trial", ErrStateConflict, action)
	}
	if s.CancelledAt(now) && !s.OnGracePeriodAt(now) {
		return fmt.Errorf("%w: cannot %s for cancelled subscriptions", ErrStateConflict, action)
	}
	if s.EndedAt(now) {
		return fmt.Errorf("%w: cannot %s for past-due subscriptions", ErrStateConflict, action)
	}
	return nil
}
