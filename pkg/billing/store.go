package billing

import "context"

// CustomerStore persists customer records. One record exists per owner;
// Save upserts by owner reference.
type CustomerStore interface {
	// ByOwner returns the owner's customer record.
	// Returns ErrCustomerNotFound if none exists.
	ByOwner(ctx context.Context, owner OwnerRef) (*Customer, error)

	// ByProviderCode resolves a customer by the processor-assigned code.
	// Returns ErrCustomerNotFound if none exists. Must be a pure local
	// lookup; webhook handlers depend on it never calling out.
	ByProviderCode(ctx context.Context, code string) (*Customer, error)

	// Save creates or updates the record, keyed by owner.
	Save(ctx context.Context, customer *Customer) error
}

// SubscriptionStore persists subscription records. Names are not unique at
// the storage level: historical duplicates are expected, so name lookups
// return the most recent record.
type SubscriptionStore interface {
	// ByOwner returns all of the owner's subscriptions, newest first.
	ByOwner(ctx context.Context, owner OwnerRef) ([]*Subscription, error)

	// ByName returns the owner's most recent subscription with the given
	// name. Returns ErrSubscriptionNotFound if none exists.
	ByName(ctx context.Context, owner OwnerRef, name string) (*Subscription, error)

	// ByProviderCode resolves a subscription by the processor-assigned code.
	// Returns ErrSubscriptionNotFound if none exists.
	ByProviderCode(ctx context.Context, code string) (*Subscription, error)

	// Save creates or updates the record, keyed by ID. Last write wins;
	// callers recompute from the full current row rather than applying
	// relative deltas, so no extra locking is required.
	Save(ctx context.Context, subscription *Subscription) error
}
