package repository

import (
	"VoiceCart/entity"
	"context"
	"github.com/google/uuid"
	"sync"
	"time"
)

// MemoryCartStore keeps carts in process. It follows the same version and expiry
// rules as the MongoDB store and is used when MongoDB is disabled.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]*entity.Cart
	now   func() time.Time
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[string]*entity.Cart),
		now:   time.Now,
	}
}

func (s *MemoryCartStore) GetCart(_ context.Context, sessionID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.carts[sessionID]
	if !ok {
		return entity.NewCart(sessionID), nil
	}
	if s.now().After(stored.ExpireAt) {
		delete(s.carts, sessionID)
		return entity.NewCart(sessionID), nil
	}
	return stored.Clone(), nil
}

func (s *MemoryCartStore) SaveCart(_ context.Context, cart *entity.Cart, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := ""
	if stored, ok := s.carts[cart.SessionID]; ok && !s.now().After(stored.ExpireAt) {
		current = stored.Version
	}
	if current != cart.Version {
		return entity.ErrVersionConflict
	}

	now := s.now()
	cart.Version = uuid.NewString()
	cart.UpdatedAt = now
	cart.ExpireAt = now.Add(ttl)
	s.carts[cart.SessionID] = cart.Clone()
	return nil
}

func (s *MemoryCartStore) DeleteCart(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}
