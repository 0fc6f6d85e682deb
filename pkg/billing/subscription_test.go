package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/billing"
)

func ptr[T any](v T) *T { return &v }

func TestSubscription_DerivedStates(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-72 * time.Hour)

	tests := []struct {
		name string
		sub  billing.Subscription

		onTrial, onGrace, cancelled, active, ended, recurring, valid bool
	}{
		{
			name:      "running subscription",
			sub:       billing.Subscription{ProviderStatus: billing.StatusActive},
			active:    true,
			recurring: true,
			valid:     true,
		},
		{
			name:      "on trial",
			sub:       billing.Subscription{ProviderStatus: billing.StatusActive, TrialEndsAt: &future},
			onTrial:   true,
			active:    true,
			valid:     true,
		},
		{
			name:      "trial expired",
			sub:       billing.Subscription{ProviderStatus: billing.StatusActive, TrialEndsAt: &past},
			active:    true,
			recurring: true,
			valid:     true,
		},
		{
			name:      "cancelled within grace period",
			sub:       billing.Subscription{ProviderStatus: billing.StatusNonRenewing, EndsAt: &future},
			onGrace:   true,
			cancelled: true,
			active:    true,
			valid:     true,
		},
		{
			name:      "cancelled after grace period",
			sub:       billing.Subscription{ProviderStatus: billing.StatusCancelled, EndsAt: &past},
			cancelled: true,
			ended:     true,
		},
		{
			name:      "remotely cancelled without local end date",
			sub:       billing.Subscription{ProviderStatus: billing.StatusCancelled},
			cancelled: true,
			ended:     true,
			// EndsAt is nil so the record still counts as active; only a
			// recorded end date revokes access.
			active: true,
			valid:  true,
		},
		{
			name:      "cancelled during trial keeps trial as grace",
			sub:       billing.Subscription{ProviderStatus: billing.StatusNonRenewing, TrialEndsAt: &future, EndsAt: &future},
			onTrial:   true,
			onGrace:   true,
			cancelled: true,
			active:    true,
			valid:     true,
		},
		{
			name:  "ended but remote status still active",
			sub:   billing.Subscription{ProviderStatus: billing.StatusActive, EndsAt: &past},
			cancelled: true,
			ended:     true,
			active:    true,
			valid:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.onTrial, tt.sub.OnTrialAt(now), "OnTrial")
			assert.Equal(t, tt.onGrace, tt.sub.OnGracePeriodAt(now), "OnGracePeriod")
			assert.Equal(t, tt.cancelled, tt.sub.CancelledAt(now), "Cancelled")
			assert.Equal(t, tt.active, tt.sub.ActiveAt(now), "Active")
			assert.Equal(t, tt.ended, tt.sub.EndedAt(now), "Ended")
			assert.Equal(t, tt.recurring, tt.sub.RecurringAt(now), "Recurring")
			assert.Equal(t, tt.valid, tt.sub.ValidAt(now), "Valid")

			// Valid is the union of active, trialing and grace access.
			wantValid := tt.active || tt.onTrial || tt.onGrace
			assert.Equal(t, wantValid, tt.sub.ValidAt(now))
		})
	}
}

func TestSubscription_TrialBoundaryIsExclusive(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sub := billing.Subscription{TrialEndsAt: &now}

	assert.False(t, sub.OnTrialAt(now), "trial ends exactly at the boundary")
	assert.True(t, sub.OnTrialAt(now.Add(-time.Second)))
}

func TestSubscription_GraceBoundaryIsExclusive(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sub := billing.Subscription{EndsAt: &now}

	assert.False(t, sub.OnGracePeriodAt(now))
	assert.True(t, sub.EndedAt(now))
	assert.True(t, sub.OnGracePeriodAt(now.Add(-time.Second)))
}

func TestSubscription_MarkAsCancelled(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * 24 * time.Hour)
	sub := billing.Subscription{ProviderStatus: billing.StatusNonRenewing, EndsAt: &future}

	require.True(t, sub.OnGracePeriodAt(now))
	sub.MarkAsCancelled(now)

	assert.False(t, sub.OnGracePeriodAt(now))
	assert.True(t, sub.EndedAt(now))
	assert.Equal(t, now, *sub.EndsAt)
	assert.Equal(t, now, sub.UpdatedAt)
}

func TestSubscription_SkipTrial(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	sub := billing.Subscription{TrialEndsAt: &future}

	require.True(t, sub.OnTrialAt(now))
	sub.SkipTrial()
	assert.False(t, sub.OnTrialAt(now))
	assert.Nil(t, sub.TrialEndsAt)
}

func TestSubscription_DaysLeft(t *testing.T) {
	t.Parallel()

	t.Run("no scheduled end", func(t *testing.T) {
		t.Parallel()
		sub := billing.Subscription{}
		assert.Equal(t, 0, sub.DaysLeft())
	})

	t.Run("future end", func(t *testing.T) {
		t.Parallel()
		end := time.Now().UTC().Add(5*24*time.Hour + time.Hour)
		sub := billing.Subscription{EndsAt: &end}
		assert.Equal(t, 5, sub.DaysLeft())
	})

	t.Run("past end", func(t *testing.T) {
		t.Parallel()
		end := time.Now().UTC().Add(-24 * time.Hour)
		sub := billing.Subscription{EndsAt: &end}
		assert.Equal(t, 0, sub.DaysLeft())
	})
}

func TestSubscription_HasPlan(t *testing.T) {
	t.Parallel()

	sub := billing.Subscription{Plan: "PLN_monthly"}
	assert.True(t, sub.HasPlan("PLN_monthly"))
	assert.False(t, sub.HasPlan("PLN_yearly"))
}

func TestSubscription_GuardAgainstUpdates(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-72 * time.Hour)

	t.Run("allows running subscription", func(t *testing.T) {
		t.Parallel()
		sub := billing.Subscription{ProviderStatus: billing.StatusActive}
		require.NoError(t, sub.GuardAgainstUpdatesAt("swap plans", now))
	})

	t.Run("rejects while on trial", func(t *testing.T) {
		t.Parallel()
		sub := billing.Subscription{TrialEndsAt: &future}
		err := sub.GuardAgainstUpdatesAt("swap plans", now)
		require.ErrorIs(t, err, billing.ErrStateConflict)
		assert.Contains(t, err.Error(), "while on trial")
	})

	t.Run("rejects fully cancelled", func(t *testing.T) {
		t.Parallel()
		sub := billing.Subscription{ProviderStatus: billing.StatusCancelled}
		err := sub.GuardAgainstUpdatesAt("swap plans", now)
		require.ErrorIs(t, err, billing.ErrStateConflict)
		assert.Contains(t, err.Error(), "cancelled subscriptions")
	})

	t.Run("rejects past end date", func(t *testing.T) {
		t.Parallel()
		sub := billing.Subscription{ProviderStatus: billing.StatusActive, EndsAt: &past}
		err := sub.GuardAgainstUpdatesAt("swap plans", now)
		require.ErrorIs(t, err, billing.ErrStateConflict)
	})

	t.Run("allows within grace period", func(t *testing.T) {
		t.Parallel()
		sub := billing.Subscription{ProviderStatus: billing.StatusNonRenewing, EndsAt: &future}
		require.NoError(t, sub.GuardAgainstUpdatesAt("swap plans", now))
	})
}

func TestCustomer_GenericTrial(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	c := billing.Customer{}
	assert.False(t, c.OnGenericTrialAt(now))

	c.TrialEndsAt = ptr(now.Add(24 * time.Hour))
	assert.True(t, c.OnGenericTrialAt(now))

	c.TrialEndsAt = ptr(now.Add(-24 * time.Hour))
	assert.False(t, c.OnGenericTrialAt(now))
}

func TestCustomer_Flags(t *testing.T) {
	t.Parallel()

	c := billing.Customer{}
	assert.False(t, c.HasProviderID())
	assert.False(t, c.HasAuthorization())

	c.ProviderID = 42
	c.Authorization = "AUTH_abc"
	assert.True(t, c.HasProviderID())
	assert.True(t, c.HasAuthorization())
}
