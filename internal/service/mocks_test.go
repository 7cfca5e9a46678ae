package service

import (
	"context"
	"sync"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/cache"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/catalog"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockCartStore struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	// saveFailures makes the next N SaveAggregate calls lose the
	// version check, to exercise the conflict retry path.
	saveFailures int
	err          error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: make(map[string]*domain.Cart)}
}

func (m *mockCartStore) FindByUser(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	cp := *cart
	return &cp, nil
}

func (m *mockCartStore) Create(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.carts[cart.UserID]; ok {
		return repository.ErrVersionConflict
	}
	cart.ID = primitive.NewObjectID().Hex()
	cp := *cart
	m.carts[cart.UserID] = &cp
	return nil
}

func (m *mockCartStore) SaveAggregate(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.saveFailures > 0 {
		m.saveFailures--
		return repository.ErrVersionConflict
	}
	stored, ok := m.carts[cart.UserID]
	if !ok || stored.Version != cart.Version {
		return repository.ErrVersionConflict
	}
	stored.TotalItems = cart.TotalItems
	stored.TotalAmount = cart.TotalAmount
	stored.Version++
	cart.Version++
	return nil
}

type mockItemStore struct {
	m     sync.RWMutex
	items map[string]*domain.LineItem
	err   error
}

func newMockItemStore() *mockItemStore {
	return &mockItemStore{items: make(map[string]*domain.LineItem)}
}

func matchesIdentity(item *domain.LineItem, cartID string, key repository.ItemIdentity) bool {
	if item.CartID != cartID || item.ProductID != key.ProductID {
		return false
	}
	if key.Material != nil && item.SelectedMaterial != *key.Material {
		return false
	}
	if key.Height != nil && item.Height != *key.Height {
		return false
	}
	if key.Width != nil && item.Width != *key.Width {
		return false
	}
	if key.Length != nil && item.Length != *key.Length {
		return false
	}
	return true
}

func (m *mockItemStore) FindByIdentity(_ context.Context, cartID string, key repository.ItemIdentity) (*domain.LineItem, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, item := range m.items {
		if matchesIdentity(item, cartID, key) {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrItemNotFound
}

func (m *mockItemStore) FindByID(_ context.Context, itemID string) (*domain.LineItem, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[itemID]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockItemStore) FindByCart(_ context.Context, cartID string) ([]domain.LineItem, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.LineItem
	for _, item := range m.items {
		if item.CartID == cartID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockItemStore) Insert(_ context.Context, item *domain.LineItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	item.ID = primitive.NewObjectID().Hex()
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockItemStore) Update(_ context.Context, item *domain.LineItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[item.ID]; !ok {
		return repository.ErrItemNotFound
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockItemStore) DeleteByID(_ context.Context, cartID, itemID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	item, ok := m.items[itemID]
	if !ok || item.CartID != cartID {
		return repository.ErrItemNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockItemStore) DeleteAllByCart(_ context.Context, cartID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockItemStore) CountByCart(_ context.Context, cartID string) (int64, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, item := range m.items {
		if item.CartID == cartID {
			n++
		}
	}
	return n, nil
}

type mockCatalog struct {
	m        sync.RWMutex
	products map[string]domain.ProductSnapshot
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{products: make(map[string]domain.ProductSnapshot)}
}

func (m *mockCatalog) add(snap domain.ProductSnapshot) string {
	m.m.Lock()
	defer m.m.Unlock()
	if snap.ID == "" {
		snap.ID = primitive.NewObjectID().Hex()
	}
	if snap.ProductType == "" {
		snap.ProductType = domain.TypeStandard
	}
	m.products[snap.ID] = snap
	return snap.ID
}

func (m *mockCatalog) GetByID(_ context.Context, productID string) (*domain.ProductSnapshot, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	snap, ok := m.products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &snap, nil
}

type mockCache struct {
	m       sync.RWMutex
	view    *domain.CartView
	deletes int
	err     error
}

func (m *mockCache) Get(context.Context, string) (*domain.CartView, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.view == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.view, nil
}

func (m *mockCache) Set(_ context.Context, _ string, view *domain.CartView) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.view = view
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.view = nil
	m.deletes++
	return m.err
}
