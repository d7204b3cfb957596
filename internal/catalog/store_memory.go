package catalog

import (
	"context"
	"sync"

	id "botilleria/pkg/domain"
	"botilleria/pkg/platform/sentinel"
)

// InMemoryStore backs the catalog when no database is configured, and is the
// store unit tests inject.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[id.ProductID]Product
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{products: make(map[id.ProductID]Product)}
}

// NewInMemoryStoreWithProducts pre-populates the store.
func NewInMemoryStoreWithProducts(products ...Product) *InMemoryStore {
	s := NewInMemoryStore()
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *InMemoryStore) FindByID(_ context.Context, productID id.ProductID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &product, nil
}

func (s *InMemoryStore) FindByIDs(_ context.Context, productIDs []id.ProductID) (map[id.ProductID]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[id.ProductID]Product, len(productIDs))
	for _, productID := range productIDs {
		if product, ok := s.products[productID]; ok {
			found[productID] = product
		}
	}
	return found, nil
}

// Put inserts or replaces a product.
func (s *InMemoryStore) Put(product Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
}

func floatPtr(v float64) *float64 { return &v }

// SeedProducts is the demo catalog used when running without a database.
func SeedProducts() []Product {
	return []Product{
		{
			ID:         id.ProductID("casillero-del-diablo-cabernet"),
			Name:       "Casillero del Diablo Cabernet Sauvignon",
			Category:   "Vinos",
			ABV:        floatPtr(13.5),
			MinimumAge: 18,
		},
		{
			ID:         id.ProductID("cristal-cerveza-lager"),
			Name:       "Cristal Cerveza Lager",
			Category:   "Cervezas",
			ABV:        floatPtr(4.6),
			MinimumAge: 18,
		},
		{
			ID:         id.ProductID("johnnie-walker-black-label"),
			Name:       "Johnnie Walker Black Label",
			Category:   "Destilados",
			ABV:        floatPtr(40),
			MinimumAge: 18,
		},
		{
			ID:         id.ProductID("pisco-capel-reservado"),
			Name:       "Pisco Capel Reservado",
			Category:   "Destilados",
			ABV:        floatPtr(40),
			MinimumAge: 18,
		},
	}
}
