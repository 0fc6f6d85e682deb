package billing

import "time"

// OwnerRef identifies the billable entity owning a customer or subscription
// record. It replaces a framework-level polymorphic relation with an explicit
// {type, id} pair usable as a composite foreign key.
type OwnerRef struct {
	Type string
	ID   string
}

// IsZero reports whether the reference is empty.
func (o OwnerRef) IsZero() bool {
	return o.Type == "" && o.ID == ""
}

// Status is the processor-defined subscription status string.
type Status string

const (
	StatusActive      Status = "active"
	StatusNonRenewing Status = "non-renewing"
	StatusAttention   Status = "attention"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

// RemoteCustomer is the processor's view of a customer resource.
type RemoteCustomer struct {
	ID    int64
	Code  string
	Email string
}

// RemoteSubscription is the processor's view of a subscription resource,
// normalized from either a creation response or a customer subscription list.
type RemoteSubscription struct {
	ID              int64
	Code            string
	Status          Status
	Plan            string
	EmailToken      string
	NextPaymentDate *time.Time
	Amount          int64
}

// SubscriptionPayload is the creation request sent to the processor.
type SubscriptionPayload struct {
	CustomerCode  string
	Plan          string
	StartDate     time.Time
	Authorization string // optional; customer's most recent authorization is used when empty
}

// ChargeRequest describes a one-off charge against a billable entity.
// Exactly one funding source is honored: a stored authorization code, raw
// card/bank details, or none (which initializes a redirect transaction).
type ChargeRequest struct {
	Email         string
	Amount        int64 // smallest currency unit
	Currency      string
	Reference     string
	Authorization string
	Card          map[string]any
	Bank          map[string]any
	Metadata      map[string]any
}

// ChargeResult is the normalized outcome of a charge or transaction
// initialization.
type ChargeResult struct {
	Reference        string
	Status           string
	AuthorizationURL string // set for initialized transactions awaiting redirect
	AccessCode       string
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
