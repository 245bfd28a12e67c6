package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/orderflow/internal/domain/errors"
	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/domain/repository"
)

// MerchantRepositoryStub stores merchants in-memory for tests.
type MerchantRepositoryStub struct {
	Merchants map[string]*model.Merchant
	ByID      map[int64]*model.Merchant
	Next      int64
	Err       error
}

// NewMerchantRepositoryStub constructs stub repository with initialized maps.
func NewMerchantRepositoryStub() *MerchantRepositoryStub {
	return &MerchantRepositoryStub{
		Merchants: make(map[string]*model.Merchant),
		ByID:      make(map[int64]*model.Merchant),
		Next:      1,
	}
}

// Create registers merchant unless already exists or stub has explicit error.
func (s *MerchantRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.Merchant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Merchants[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	merchant := &model.Merchant{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Merchants[login] = merchant
	s.ByID[merchant.ID] = merchant
	return merchant, nil
}

// GetByLogin fetches merchant by login or returns not found.
func (s *MerchantRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Merchant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if merchant, ok := s.Merchants[login]; ok {
		return merchant, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches merchant by identifier or returns not found.
func (s *MerchantRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Merchant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if merchant, ok := s.ByID[id]; ok {
		return merchant, nil
	}
	return nil, domainErrors.ErrNotFound
}

// MemoryStore is a goroutine-safe in-memory implementation of the shop,
// order and sequence repositories. Error fields inject failures.
type MemoryStore struct {
	mu sync.Mutex

	shops     map[int64]*model.Shop
	menus     map[int64][]model.MenuItem
	orders    map[string]*model.Order
	history   map[string][]model.StatusChange
	sequences map[string]int64
	nextShop  int64
	nextItem  int64

	AllocateErr error
	CreateErr   error
	GetErr      error
	UpdateErr   error

	// BeforeUpdate runs before the conditional status update, outside the lock.
	BeforeUpdate func(id string)
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shops:     make(map[int64]*model.Shop),
		menus:     make(map[int64][]model.MenuItem),
		orders:    make(map[string]*model.Order),
		history:   make(map[string][]model.StatusChange),
		sequences: make(map[string]int64),
	}
}

// Shops returns the shop repository view.
func (m *MemoryStore) Shops() repository.ShopRepository { return memoryShops{m} }

// Orders returns the order repository view.
func (m *MemoryStore) Orders() repository.OrderRepository { return memoryOrders{m} }

// Sequences returns the allocator view.
func (m *MemoryStore) Sequences() repository.SequenceAllocator { return memorySequences{m} }

// OrderCount reports stored orders.
func (m *MemoryStore) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// SequenceValue reports the current value of a counter.
func (m *MemoryStore) SequenceValue(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sequences[name]
}

type memoryShops struct{ m *MemoryStore }

func (s memoryShops) Create(_ context.Context, ownerID int64, name, phone string) (*model.Shop, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.nextShop++
	shop := &model.Shop{ID: s.m.nextShop, OwnerID: ownerID, Name: name, Phone: phone, CreatedAt: time.Now().UTC()}
	s.m.shops[shop.ID] = shop
	cp := *shop
	return &cp, nil
}

func (s memoryShops) GetByID(_ context.Context, id int64) (*model.Shop, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	shop, ok := s.m.shops[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *shop
	return &cp, nil
}

func (s memoryShops) Menu(_ context.Context, shopID int64) ([]model.MenuItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return append([]model.MenuItem(nil), s.m.menus[shopID]...), nil
}

func (s memoryShops) ReplaceMenu(_ context.Context, shopID int64, items []model.MenuItem) ([]model.MenuItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.shops[shopID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	stored := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		s.m.nextItem++
		item.ID = s.m.nextItem
		item.ShopID = shopID
		stored = append(stored, item)
	}
	s.m.menus[shopID] = stored
	return append([]model.MenuItem(nil), stored...), nil
}

type memoryOrders struct{ m *MemoryStore }

func (o memoryOrders) Create(_ context.Context, order *model.Order) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	if o.m.CreateErr != nil {
		return o.m.CreateErr
	}
	if _, exists := o.m.orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	o.m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (o memoryOrders) GetByID(_ context.Context, id string) (*model.Order, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	if o.m.GetErr != nil {
		return nil, o.m.GetErr
	}
	order, ok := o.m.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (o memoryOrders) ListByShop(_ context.Context, shopID int64) ([]model.Order, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	var out []model.Order
	for _, order := range o.m.orders {
		if order.ShopID == shopID {
			out = append(out, *cloneOrder(order))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber > out[j].SequenceNumber })
	return out, nil
}

func (o memoryOrders) UpdateStatus(_ context.Context, id string, from, to model.OrderStatus, changedBy int64) (*model.Order, error) {
	if o.m.BeforeUpdate != nil {
		o.m.BeforeUpdate(id)
	}

	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	if o.m.UpdateErr != nil {
		return nil, o.m.UpdateErr
	}
	order, ok := o.m.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.Status != from {
		return nil, domainErrors.ErrInvalidTransition
	}
	now := time.Now().UTC()
	order.Status = to
	order.UpdatedAt = now
	o.m.history[id] = append(o.m.history[id], model.StatusChange{OrderID: id, From: from, To: to, ChangedBy: changedBy, ChangedAt: now})
	return cloneOrder(order), nil
}

func (o memoryOrders) History(_ context.Context, id string) ([]model.StatusChange, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	return append([]model.StatusChange(nil), o.m.history[id]...), nil
}

type memorySequences struct{ m *MemoryStore }

func (s memorySequences) Allocate(_ context.Context, name string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.AllocateErr != nil {
		return 0, s.m.AllocateErr
	}
	s.m.sequences[name]++
	return s.m.sequences[name], nil
}

func cloneOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.LineItem(nil), o.Items...)
	return &cp
}
