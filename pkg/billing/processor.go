package billing

import "context"

// Processor is the narrow interface to the remote billing API consumed by
// this package. Implementations own transport concerns (timeouts, auth,
// serialization); this core never retries their calls.
//
// Every method returns a normalized result: a processor-reported failure
// (status=false in the wire envelope) surfaces as an error wrapping
// ErrProcessor with the remote message attached.
type Processor interface {
	// CreateCustomer provisions a customer resource for the given email.
	CreateCustomer(ctx context.Context, email string) (*RemoteCustomer, error)

	// FetchCustomer retrieves a customer resource by its numeric id.
	FetchCustomer(ctx context.Context, id int64) (*RemoteCustomer, error)

	// CreateSubscription creates a subscription from the given payload.
	CreateSubscription(ctx context.Context, payload SubscriptionPayload) (*RemoteSubscription, error)

	// EnableSubscription re-enables a disabled subscription.
	EnableSubscription(ctx context.Context, code, emailToken string) error

	// DisableSubscription stops further renewals of a subscription.
	DisableSubscription(ctx context.Context, code, emailToken string) error

	// ListSubscriptions returns all subscription resources belonging to the
	// given customer, including their email tokens and next payment dates.
	ListSubscriptions(ctx context.Context, customerID int64) ([]RemoteSubscription, error)

	// Charge executes a direct charge with raw card or bank details.
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)

	// ChargeAuthorization executes a charge against a stored authorization.
	ChargeAuthorization(ctx context.Context, req ChargeRequest) (*ChargeResult, error)

	// InitializeTransaction starts a redirect-based transaction, used when
	// no funding source is known yet.
	InitializeTransaction(ctx context.Context, req ChargeRequest) (*ChargeResult, error)

	// Refund refunds a settled transaction by reference.
	Refund(ctx context.Context, transaction string, amount int64) error
}
