package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps one cart per user for the lifetime of the process. Carts are
// session state, not records: they are never persisted and are lost on
// restart. Each session mutates only its own cart; the lock exists because
// sessions share the process.
type Store struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID]*Cart)}
}

func (s *Store) cart(userID uuid.UUID) *Cart {
	if c, ok := s.carts[userID]; ok {
		return c
	}
	c := New()
	s.carts[userID] = c
	return c
}

func (s *Store) AddItem(userID uuid.UUID, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(userID).AddItem(item)
}

func (s *Store) RemoveItem(userID, itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(userID).RemoveItem(itemID)
}

func (s *Store) UpdateQuantity(userID, itemID uuid.UUID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(userID).UpdateQuantity(itemID, quantity)
}

func (s *Store) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

func (s *Store) Total(userID uuid.UUID) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.carts[userID]; ok {
		return c.Total()
	}
	return 0
}

func (s *Store) Lines(userID uuid.UUID) []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.carts[userID]; ok {
		return c.Lines()
	}
	return nil
}
