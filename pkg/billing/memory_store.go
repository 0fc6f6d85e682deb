package billing

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type inMemCustomerStore struct {
	mu      sync.RWMutex
	byOwner map[OwnerRef]*Customer
}

// NewInMemCustomerStore returns a CustomerStore backed by process memory.
// Suitable for tests and single-process deployments.
func NewInMemCustomerStore() CustomerStore {
	return &inMemCustomerStore{byOwner: make(map[OwnerRef]*Customer)}
}

func (s *inMemCustomerStore) ByOwner(ctx context.Context, owner OwnerRef) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byOwner[owner]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *inMemCustomerStore) ByProviderCode(ctx context.Context, code string) (*Customer, error) {
	if code == "" {
		return nil, ErrCustomerNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.byOwner {
		if c.ProviderCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *inMemCustomerStore) Save(ctx context.Context, customer *Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *customer
	s.byOwner[customer.Owner] = &cp
	return nil
}

type inMemSubscriptionStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Subscription
}

// NewInMemSubscriptionStore returns a SubscriptionStore backed by process
// memory. Suitable for tests and single-process deployments.
func NewInMemSubscriptionStore() SubscriptionStore {
	return &inMemSubscriptionStore{byID: make(map[uuid.UUID]*Subscription)}
}

func (s *inMemSubscriptionStore) ByOwner(ctx context.Context, owner OwnerRef) ([]*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var subs []*Subscription
	for _, sub := range s.byID {
		if sub.Owner == owner {
			cp := *sub
			subs = append(subs, &cp)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
	return subs, nil
}

func (s *inMemSubscriptionStore) ByName(ctx context.Context, owner OwnerRef, name string) (*Subscription, error) {
	subs, err := s.ByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if sub.Name == name {
			return sub, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (s *inMemSubscriptionStore) ByProviderCode(ctx context.Context, code string) (*Subscription, error) {
	if code == "" {
		return nil, ErrSubscriptionNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.byID {
		if sub.ProviderCode == code {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (s *inMemSubscriptionStore) Save(ctx context.Context, subscription *Subscription) error {
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *subscription
	s.byID[subscription.ID] = &cp
	return nil
}
