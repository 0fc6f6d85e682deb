package billing

import "errors"

var (
	// ErrProcessor wraps any failure reported by the remote billing API.
	// The processor's own message is attached by the adapter.
	ErrProcessor = errors.New("payment processor request failed")

	// ErrStateConflict marks operations rejected by local state guards.
	// These indicate local/remote drift, not transient failures, and must
	// not be retried.
	ErrStateConflict = errors.New("subscription state conflict")

	// ErrRemoteSubscriptionNotFound is returned when the processor has no
	// subscription matching the local record for this customer.
	ErrRemoteSubscriptionNotFound = errors.New("subscription does not exist for this customer on the processor side")

	ErrCustomerNotFound      = errors.New("customer record not found")
	ErrCustomerBacked        = errors.New("owner already has a processor-backed customer")
	ErrSubscriptionNotFound  = errors.New("subscription record not found")
	ErrMissingAuthorization  = errors.New("missing required authorization code")
	ErrMissingSignature      = errors.New("webhook signature header is missing")
	ErrInvalidSignature      = errors.New("webhook signature does not match payload")
	ErrMissingWebhookSecret  = errors.New("webhook shared secret is required")
	ErrInvalidWebhookHandler = errors.New("webhook handler registry contains a nil handler")
)
