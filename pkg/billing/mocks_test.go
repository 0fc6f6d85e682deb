package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/billingkit/pkg/billing"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) CreateCustomer(ctx context.Context, email string) (*billing.RemoteCustomer, error) {
	args := m.Called(ctx, email)
	if c := args.Get(0); c != nil {
		return c.(*billing.RemoteCustomer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) FetchCustomer(ctx context.Context, id int64) (*billing.RemoteCustomer, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*billing.RemoteCustomer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) CreateSubscription(ctx context.Context, payload billing.SubscriptionPayload) (*billing.RemoteSubscription, error) {
	args := m.Called(ctx, payload)
	if s := args.Get(0); s != nil {
		return s.(*billing.RemoteSubscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) EnableSubscription(ctx context.Context, code, emailToken string) error {
	return m.Called(ctx, code, emailToken).Error(0)
}

func (m *mockProcessor) DisableSubscription(ctx context.Context, code, emailToken string) error {
	return m.Called(ctx, code, emailToken).Error(0)
}

func (m *mockProcessor) ListSubscriptions(ctx context.Context, customerID int64) ([]billing.RemoteSubscription, error) {
	args := m.Called(ctx, customerID)
	if l := args.Get(0); l != nil {
		return l.([]billing.RemoteSubscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) Charge(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*billing.ChargeResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) ChargeAuthorization(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*billing.ChargeResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) InitializeTransaction(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*billing.ChargeResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProcessor) Refund(ctx context.Context, transaction string, amount int64) error {
	return m.Called(ctx, transaction, amount).Error(0)
}

// testNow is the pinned clock shared by the service tests. It is anchored
// to wall time because query helpers such as Subscribed evaluate derived
// states against the real clock.
var testNow = time.Now().UTC().Truncate(time.Second)

type testEnv struct {
	svc           *billing.Service
	processor     *mockProcessor
	customers     billing.CustomerStore
	subscriptions billing.SubscriptionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	processor := &mockProcessor{}
	env := &testEnv{
		processor:     processor,
		customers:     billing.NewInMemCustomerStore(),
		subscriptions: billing.NewInMemSubscriptionStore(),
	}
	env.svc = billing.NewService(
		billing.Config{Currency: "NGN", WebhookSecret: "sk_test_secret"},
		processor,
		env.customers,
		env.subscriptions,
		billing.WithClock(func() time.Time { return testNow }),
	)
	return env
}

// seedCustomer stores a processor-backed customer for owner.
func (e *testEnv) seedCustomer(t *testing.T, owner billing.OwnerRef, providerID int64, code string) *billing.Customer {
	t.Helper()

	c := &billing.Customer{
		Owner:        owner,
		Email:        owner.ID + "@example.com",
		ProviderID:   providerID,
		ProviderCode: code,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	if err := e.customers.Save(context.Background(), c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func (e *testEnv) seedSubscription(t *testing.T, sub *billing.Subscription) *billing.Subscription {
	t.Helper()

	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = testNow
	}
	if err := e.subscriptions.Save(context.Background(), sub); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return sub
}
