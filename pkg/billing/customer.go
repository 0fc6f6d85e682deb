package billing

import (
	"time"

	"github.com/google/uuid"
)

// Customer mirrors the processor-side customer identity for one billable
// entity. At most one record exists per owner; it is created lazily on the
// first provisioning call and never destroyed automatically.
type Customer struct {
	ID            uuid.UUID
	Owner         OwnerRef
	Email         string
	ProviderID    int64  // processor's numeric customer id, 0 until provisioned
	ProviderCode  string // processor's customer code (CUS_xxx)
	TrialEndsAt   *time.Time
	Authorization string // default payment authorization token, optional
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasProviderID reports whether the customer has been provisioned remotely.
func (c *Customer) HasProviderID() bool {
	return c.ProviderID != 0
}

// HasAuthorization reports whether a default payment authorization is stored.
func (c *Customer) HasAuthorization() bool {
	return c.Authorization != ""
}

// OnGenericTrial reports whether the owner is on an account-level trial that
// is not tied to any particular subscription.
func (c *Customer) OnGenericTrial() bool {
	return c.OnGenericTrialAt(time.Now().UTC())
}

// OnGenericTrialAt is the fixed-time variant of OnGenericTrial.
func (c *Customer) OnGenericTrialAt(now time.Time) bool {
	return c.TrialEndsAt != nil && now.Before(*c.TrialEndsAt)
}

// HasExpiredGenericTrial reports whether an account-level trial was granted
// and has already passed.
func (c *Customer) HasExpiredGenericTrial() bool {
	return c.TrialEndsAt != nil && !time.Now().UTC().Before(*c.TrialEndsAt)
}
