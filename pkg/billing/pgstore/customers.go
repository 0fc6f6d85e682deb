package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/billing"
)

type customerStore struct {
	pool *pgxpool.Pool
}

// NewCustomerStore returns a billing.CustomerStore backed by PostgreSQL.
func NewCustomerStore(pool *pgxpool.Pool) billing.CustomerStore {
	if pool == nil {
		panic("pgstore: pool is required")
	}
	return &customerStore{pool: pool}
}

const customerColumns = `id, owner_type, owner_id, email, provider_id, provider_code,
	authorization_code, trial_ends_at, created_at, updated_at`

func (s *customerStore) ByOwner(ctx context.Context, owner billing.OwnerRef) (*billing.Customer, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM billing_customers WHERE owner_type = $1 AND owner_id = $2`,
		owner.Type, owner.ID)
	return scanCustomer(row)
}

func (s *customerStore) ByProviderCode(ctx context.Context, code string) (*billing.Customer, error) {
	if code == "" {
		return nil, billing.ErrCustomerNotFound
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM billing_customers WHERE provider_code = $1`, code)
	return scanCustomer(row)
}

func (s *customerStore) Save(ctx context.Context, customer *billing.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO billing_customers (id, owner_type, owner_id, email, provider_id,
			provider_code, authorization_code, trial_ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (owner_type, owner_id) DO UPDATE SET
			email = EXCLUDED.email,
			provider_id = EXCLUDED.provider_id,
			provider_code = EXCLUDED.provider_code,
			authorization_code = EXCLUDED.authorization_code,
			trial_ends_at = EXCLUDED.trial_ends_at,
			updated_at = now()`,
		customer.ID, customer.Owner.Type, customer.Owner.ID, customer.Email,
		customer.ProviderID, customer.ProviderCode, customer.Authorization,
		customer.TrialEndsAt)
	return err
}

func scanCustomer(row pgx.Row) (*billing.Customer, error) {
	var c billing.Customer
	err := row.Scan(&c.ID, &c.Owner.Type, &c.Owner.ID, &c.Email, &c.ProviderID,
		&c.ProviderCode, &c.Authorization, &c.TrialEndsAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, billing.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}
