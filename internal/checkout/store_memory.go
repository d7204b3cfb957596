package checkout

import (
	"context"
	"sync"

	id "botilleria/pkg/domain"
	"botilleria/pkg/platform/sentinel"
)

// InMemoryStore keeps checkout orders in process memory. Orders live for one
// checkout attempt, so losing them on restart only re-runs a checkout.
type InMemoryStore struct {
	mu     sync.RWMutex
	orders map[id.OrderID]*Order
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{orders: make(map[id.OrderID]*Order)}
}

func (s *InMemoryStore) Create(_ context.Context, order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return sentinel.ErrConflict
	}
	s.orders[order.ID] = order.clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, orderID id.OrderID) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return order.clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.orders[order.ID] = order.clone()
	return nil
}
