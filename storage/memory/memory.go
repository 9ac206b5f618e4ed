// Package memory holds in-memory stores used by the handler tests and by
// ITEM_STORE=memory runs that need no database.
package memory

import (
	"context"
	"sort"
	"sync"

	"go-shop/models"
	"go-shop/storage"
)

// ItemStore keeps catalog items in insertion order behind a mutex.
type ItemStore struct {
	mu     sync.Mutex
	nextID int
	items  []models.Item
}

var _ storage.ItemStore = (*ItemStore)(nil)

func NewItemStore() *ItemStore {
	return &ItemStore{nextID: 1}
}

func (s *ItemStore) List(ctx context.Context) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *ItemStore) ListByPrice(ctx context.Context) ([]models.Item, error) {
	items, _ := s.List(ctx)
	// Stable sort keeps equal prices in insertion order.
	sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	return items, nil
}

func (s *ItemStore) Get(ctx context.Context, id int) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.Item{}, storage.ErrNotFound
}

func (s *ItemStore) Create(ctx context.Context, title string, price int, text string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := models.Item{
		ID:       s.nextID,
		Title:    title,
		Price:    price,
		IsActive: true,
		Text:     text,
	}
	s.nextID++
	s.items = append(s.items, item)
	return item, nil
}

func (s *ItemStore) Update(ctx context.Context, id int, title string, price int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Title = title
			s.items[i].Price = price
			s.items[i].Text = text
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *ItemStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// CartStore keeps cart sequences keyed by session id.
type CartStore struct {
	mu    sync.Mutex
	carts map[string][]models.CartEntry
}

var _ storage.CartStore = (*CartStore)(nil)

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string][]models.CartEntry)}
}

func (s *CartStore) Get(ctx context.Context, sessionID string) ([]models.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.carts[sessionID]
	out := make([]models.CartEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *CartStore) Put(ctx context.Context, sessionID string, entries []models.CartEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]models.CartEntry, len(entries))
	copy(stored, entries)
	s.carts[sessionID] = stored
	return nil
}

func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
