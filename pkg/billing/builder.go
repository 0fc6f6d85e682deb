package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubscriptionBuilder accumulates configuration for a new subscription and
// creates it either against the processor (Create) or from already-known
// remote data such as a webhook payload (Add).
type SubscriptionBuilder struct {
	svc           *Service
	owner         OwnerRef
	name          string
	plan          string
	trialDays     int
	skipTrial     bool
	authorization string
	email         string
}

// TrialDays sets the trial length. Zero means no trial.
func (b *SubscriptionBuilder) TrialDays(days int) *SubscriptionBuilder {
	b.trialDays = days
	return b
}

// SkipTrial forces billing to start immediately regardless of TrialDays.
func (b *SubscriptionBuilder) SkipTrial() *SubscriptionBuilder {
	b.skipTrial = true
	return b
}

// Authorization pins the payment authorization used for this subscription.
// When unset the customer's most recent authorization is used.
func (b *SubscriptionBuilder) Authorization(token string) *SubscriptionBuilder {
	b.authorization = token
	return b
}

// Email sets the billing email used if a processor customer must be
// provisioned first.
func (b *SubscriptionBuilder) Email(email string) *SubscriptionBuilder {
	b.email = email
	return b
}

// trialWindow derives both the remote start date and the local trial end
// from the same trial configuration. Keeping one derivation prevents the
// two from drifting apart.
func (b *SubscriptionBuilder) trialWindow(now time.Time) (start time.Time, trialEndsAt *time.Time) {
	if b.skipTrial || b.trialDays <= 0 {
		return now, nil
	}
	end := now.AddDate(0, 0, b.trialDays)
	return end, &end
}

// Create provisions the subscription on the processor and persists the
// local record. The owner's processor customer is resolved or created
// first; a processor-reported failure surfaces as ErrProcessor with the
// remote message.
func (b *SubscriptionBuilder) Create(ctx context.Context) (*Subscription, error) {
	customer, err := b.svc.GetOrCreateProcessorCustomer(ctx, b.owner, b.email)
	if err != nil {
		return nil, err
	}

	start, _ := b.trialWindow(b.svc.now())
	remote, err := b.svc.processor.CreateSubscription(ctx, SubscriptionPayload{
		CustomerCode:  customer.ProviderCode,
		Plan:          b.plan,
		StartDate:     start,
		Authorization: b.authorization,
	})
	if err != nil {
		return nil, err
	}

	return b.Add(ctx, *remote)
}

// Add persists a subscription record from normalized remote data without
// calling the processor. Quantity defaults to 1 and the record starts
// uncancelled; the trial end is computed from this builder's configuration.
func (b *SubscriptionBuilder) Add(ctx context.Context, remote RemoteSubscription) (*Subscription, error) {
	now := b.svc.now()
	_, trialEndsAt := b.trialWindow(now)

	sub := &Subscription{
		ID:             uuid.New(),
		Owner:          b.owner,
		Name:           b.name,
		ProviderID:     remote.ID,
		ProviderCode:   remote.Code,
		ProviderStatus: remote.Status,
		Plan:           b.plan,
		Quantity:       1,
		TrialEndsAt:    trialEndsAt,
		EndsAt:         nil,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := b.svc.subscriptions.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription record: %w", err)
	}
	return sub, nil
}
