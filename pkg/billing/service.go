package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/broadcast"
)

// Service provides all user-initiated billing operations. Every call runs
// to completion independently; there is no in-process background work.
type Service struct {
	cfg           Config
	processor     Processor
	customers     CustomerStore
	subscriptions SubscriptionStore
	events        broadcast.Broadcaster[Event]
	log           *slog.Logger
	now           func() time.Time
}

// NewService creates a Service with the given dependencies.
// Panics if processor or either store is nil to fail fast during
// initialization.
func NewService(cfg Config, processor Processor, customers CustomerStore, subscriptions SubscriptionStore, opts ...Option) *Service {
	if processor == nil {
		panic("billing: Processor is required")
	}
	if customers == nil {
		panic("billing: CustomerStore is required")
	}
	if subscriptions == nil {
		panic("billing: SubscriptionStore is required")
	}

	s := &Service{
		cfg:           cfg,
		processor:     processor,
		customers:     customers,
		subscriptions: subscriptions,
		events:        broadcast.NewBroadcaster[Event](0),
		log:           slog.Default(),
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events exposes the domain event stream for external subscribers.
func (s *Service) Events() broadcast.Broadcaster[Event] {
	return s.events
}

// CreateCustomer creates the local customer record for an owner without
// touching the processor. No-op if a record already exists.
func (s *Service) CreateCustomer(ctx context.Context, owner OwnerRef, email string) (*Customer, error) {
	if existing, err := s.customers.ByOwner(ctx, owner); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrCustomerNotFound) {
		return nil, err
	}

	now := s.now()
	customer := &Customer{
		ID:        uuid.New(),
		Owner:     owner,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer record: %w", err)
	}
	return customer, nil
}

// CreateProcessorCustomer provisions the owner's customer on the processor
// side and records the assigned id and code. Returns ErrCustomerBacked if
// the owner is already provisioned.
func (s *Service) CreateProcessorCustomer(ctx context.Context, owner OwnerRef, email string) (*Customer, error) {
	customer, err := s.CreateCustomer(ctx, owner, email)
	if err != nil {
		return nil, err
	}
	if customer.HasProviderID() {
		return nil, fmt.Errorf("%w: %s", ErrCustomerBacked, customer.ProviderCode)
	}
	if email == "" {
		email = customer.Email
	}

	remote, err := s.processor.CreateCustomer(ctx, email)
	if err != nil {
		return nil, err
	}

	customer.ProviderID = remote.ID
	customer.ProviderCode = remote.Code
	customer.UpdatedAt = s.now()
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer record: %w", err)
	}
	return customer, nil
}

// GetOrCreateProcessorCustomer resolves the owner's processor-backed
// customer, provisioning one when needed.
func (s *Service) GetOrCreateProcessorCustomer(ctx context.Context, owner OwnerRef, email string) (*Customer, error) {
	customer, err := s.customers.ByOwner(ctx, owner)
	if err == nil && customer.HasProviderID() {
		return customer, nil
	}
	if err != nil && !errors.Is(err, ErrCustomerNotFound) {
		return nil, err
	}
	return s.CreateProcessorCustomer(ctx, owner, email)
}

// Customer returns the owner's customer record.
func (s *Service) Customer(ctx context.Context, owner OwnerRef) (*Customer, error) {
	return s.customers.ByOwner(ctx, owner)
}

// NewSubscription begins building a subscription for the owner. The name
// distinguishes parallel subscriptions ("default", "metered", ...); plan is
// the processor's plan code.
func (s *Service) NewSubscription(owner OwnerRef, name, plan string) *SubscriptionBuilder {
	return &SubscriptionBuilder{svc: s, owner: owner, name: name, plan: plan}
}

// Subscription returns the owner's most recent subscription with the given
// name.
func (s *Service) Subscription(ctx context.Context, owner OwnerRef, name string) (*Subscription, error) {
	return s.subscriptions.ByName(ctx, owner, name)
}

// Subscriptions returns all of the owner's subscriptions, newest first.
func (s *Service) Subscriptions(ctx context.Context, owner OwnerRef) ([]*Subscription, error) {
	return s.subscriptions.ByOwner(ctx, owner)
}

// Subscribed reports whether the owner has a valid subscription under the
// given name, optionally constrained to one plan (empty plan matches any).
func (s *Service) Subscribed(ctx context.Context, owner OwnerRef, name, plan string) bool {
	sub, err := s.subscriptions.ByName(ctx, owner, name)
	if err != nil {
		return false
	}
	if plan == "" {
		return sub.Valid()
	}
	return sub.Valid() && sub.HasPlan(plan)
}

// SubscribedToPlan reports whether the owner's named subscription is valid
// and on any of the given plans.
func (s *Service) SubscribedToPlan(ctx context.Context, owner OwnerRef, plans []string, name string) bool {
	sub, err := s.subscriptions.ByName(ctx, owner, name)
	if err != nil || !sub.Valid() {
		return false
	}
	for _, plan := range plans {
		if sub.HasPlan(plan) {
			return true
		}
	}
	return false
}

// OnPlan reports whether the owner has any valid subscription on the plan,
// regardless of name.
func (s *Service) OnPlan(ctx context.Context, owner OwnerRef, plan string) bool {
	subs, err := s.subscriptions.ByOwner(ctx, owner)
	if err != nil {
		return false
	}
	for _, sub := range subs {
		if sub.HasPlan(plan) && sub.Valid() {
			return true
		}
	}
	return false
}

// OnTrial reports whether the owner's named subscription is on trial,
// optionally constrained to one plan. An account-level generic trial also
// counts when no plan is given.
func (s *Service) OnTrial(ctx context.Context, owner OwnerRef, name, plan string) bool {
	if plan == "" && s.OnGenericTrial(ctx, owner) {
		return true
	}
	sub, err := s.subscriptions.ByName(ctx, owner, name)
	if err != nil {
		return false
	}
	if plan == "" {
		return sub.OnTrial()
	}
	return sub.OnTrial() && sub.HasPlan(plan)
}

// OnGenericTrial reports whether the owner is on an account-level trial not
// tied to any subscription.
func (s *Service) OnGenericTrial(ctx context.Context, owner OwnerRef) bool {
	customer, err := s.customers.ByOwner(ctx, owner)
	if err != nil {
		return false
	}
	return customer.OnGenericTrialAt(s.now())
}

// Cancel schedules the subscription's cancellation at the end of the
// current period. The remote subscription is disabled immediately; locally
// the record stays valid until the grace period ends: the trial end when
// still on trial, otherwise the processor's next payment date.
func (s *Service) Cancel(ctx context.Context, sub *Subscription) error {
	remote, err := s.asRemoteSubscription(ctx, sub)
	if err != nil {
		return err
	}
	if err := s.processor.DisableSubscription(ctx, remote.Code, remote.EmailToken); err != nil {
		return err
	}

	now := s.now()
	switch {
	case sub.OnTrialAt(now):
		sub.EndsAt = cloneTime(sub.TrialEndsAt)
	case remote.NextPaymentDate != nil:
		sub.EndsAt = cloneTime(remote.NextPaymentDate)
	default:
		sub.EndsAt = &now
	}
	sub.UpdatedAt = now

	return s.subscriptions.Save(ctx, sub)
}

// CancelNow cancels the subscription and collapses the grace period, ending
// service immediately.
func (s *Service) CancelNow(ctx context.Context, sub *Subscription) error {
	if err := s.Cancel(ctx, sub); err != nil {
		return err
	}
	sub.MarkAsCancelled(s.now())
	return s.subscriptions.Save(ctx, sub)
}

// Resume reverses a scheduled cancellation while the grace period is still
// running. The remote subscription is re-enabled and the local ending
// timestamp cleared.
func (s *Service) Resume(ctx context.Context, sub *Subscription) error {
	now := s.now()
	if !sub.OnGracePeriodAt(now) {
		return fmt.Errorf("%w: cannot resume a subscription that is not within its grace period", ErrStateConflict)
	}

	remote, err := s.asRemoteSubscription(ctx, sub)
	if err != nil {
		return err
	}
	if err := s.processor.EnableSubscription(ctx, remote.Code, remote.EmailToken); err != nil {
		return err
	}

	sub.EndsAt = nil
	sub.UpdatedAt = now
	return s.subscriptions.Save(ctx, sub)
}

// SyncStatus overwrites the local status with the processor's ground truth.
// Used for out-of-band reconciliation outside the webhook path.
func (s *Service) SyncStatus(ctx context.Context, sub *Subscription) error {
	remote, err := s.asRemoteSubscription(ctx, sub)
	if err != nil {
		return err
	}

	sub.ProviderStatus = remote.Status
	if remote.NextPaymentDate != nil {
		sub.EndsAt = cloneTime(remote.NextPaymentDate)
	}
	sub.UpdatedAt = s.now()
	return s.subscriptions.Save(ctx, sub)
}

// Swap moves the subscription to a new plan. No proration is applied: a
// replacement subscription on the new plan starts at the current period's
// next payment date and the old one is disabled, so the plan change takes
// effect at the next billing cycle.
func (s *Service) Swap(ctx context.Context, sub *Subscription, newPlan string) error {
	if err := sub.GuardAgainstUpdatesAt("swap plans", s.now()); err != nil {
		return err
	}

	customer, err := s.customers.ByOwner(ctx, sub.Owner)
	if err != nil {
		return err
	}
	remote, err := s.asRemoteSubscription(ctx, sub)
	if err != nil {
		return err
	}

	start := s.now()
	if remote.NextPaymentDate != nil {
		start = *remote.NextPaymentDate
	}
	created, err := s.processor.CreateSubscription(ctx, SubscriptionPayload{
		CustomerCode: customer.ProviderCode,
		Plan:         newPlan,
		StartDate:    start,
	})
	if err != nil {
		return err
	}
	if err := s.processor.DisableSubscription(ctx, remote.Code, remote.EmailToken); err != nil {
		return err
	}

	sub.ProviderID = created.ID
	sub.ProviderCode = created.Code
	sub.ProviderStatus = created.Status
	sub.Plan = newPlan
	sub.UpdatedAt = s.now()
	return s.subscriptions.Save(ctx, sub)
}

// asRemoteSubscription fetches the subscription's processor-side
// counterpart from the customer's subscription list. The remote record
// carries the email token and next payment date local state never stores.
func (s *Service) asRemoteSubscription(ctx context.Context, sub *Subscription) (*RemoteSubscription, error) {
	customer, err := s.customers.ByOwner(ctx, sub.Owner)
	if err != nil {
		return nil, err
	}

	list, err := s.processor.ListSubscriptions(ctx, customer.ProviderID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: customer %s has no subscriptions", ErrRemoteSubscriptionNotFound, customer.ProviderCode)
	}
	for i := range list {
		if list[i].ID == sub.ProviderID || (sub.ProviderCode != "" && list[i].Code == sub.ProviderCode) {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRemoteSubscriptionNotFound, sub.ProviderCode)
}
