package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/billing"
)

type subscriptionStore struct {
	pool *pgxpool.Pool
}

// NewSubscriptionStore returns a billing.SubscriptionStore backed by
// PostgreSQL.
func NewSubscriptionStore(pool *pgxpool.Pool) billing.SubscriptionStore {
	if pool == nil {
		panic("pgstore: pool is required")
	}
	return &subscriptionStore{pool: pool}
}

const subscriptionColumns = `id, owner_type, owner_id, name, provider_id, provider_code,
	provider_status, plan, quantity, trial_ends_at, ends_at, created_at, updated_at`

func (s *subscriptionStore) ByOwner(ctx context.Context, owner billing.OwnerRef) ([]*billing.Subscription, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM billing_subscriptions
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY created_at DESC`,
		owner.Type, owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*billing.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *subscriptionStore) ByName(ctx context.Context, owner billing.OwnerRef, name string) (*billing.Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM billing_subscriptions
		WHERE owner_type = $1 AND owner_id = $2 AND name = $3
		ORDER BY created_at DESC LIMIT 1`,
		owner.Type, owner.ID, name)
	return scanSubscription(row)
}

func (s *subscriptionStore) ByProviderCode(ctx context.Context, code string) (*billing.Subscription, error) {
	if code == "" {
		return nil, billing.ErrSubscriptionNotFound
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM billing_subscriptions WHERE provider_code = $1`, code)
	return scanSubscription(row)
}

func (s *subscriptionStore) Save(ctx context.Context, subscription *billing.Subscription) error {
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO billing_subscriptions (id, owner_type, owner_id, name, provider_id,
			provider_code, provider_status, plan, quantity, trial_ends_at, ends_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			provider_id = EXCLUDED.provider_id,
			provider_code = EXCLUDED.provider_code,
			provider_status = EXCLUDED.provider_status,
			plan = EXCLUDED.plan,
			quantity = EXCLUDED.quantity,
			trial_ends_at = EXCLUDED.trial_ends_at,
			ends_at = EXCLUDED.ends_at,
			updated_at = now()`,
		subscription.ID, subscription.Owner.Type, subscription.Owner.ID,
		subscription.Name, subscription.ProviderID, subscription.ProviderCode,
		subscription.ProviderStatus, subscription.Plan, subscription.Quantity,
		subscription.TrialEndsAt, subscription.EndsAt)
	return err
}

func scanSubscription(row pgx.Row) (*billing.Subscription, error) {
	var sub billing.Subscription
	err := row.Scan(&sub.ID, &sub.Owner.Type, &sub.Owner.ID, &sub.Name,
		&sub.ProviderID, &sub.ProviderCode, &sub.ProviderStatus, &sub.Plan,
		&sub.Quantity, &sub.TrialEndsAt, &sub.EndsAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, billing.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}
