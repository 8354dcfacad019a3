package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// RedisCartStore keeps session carts as JSON documents under cart:{sessionId}.
// Every write refreshes the TTL so active carts never expire.
type RedisCartStore struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewRedisCartStore creates a RedisCartStore.
func NewRedisCartStore(redis *RedisClient, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{redis: redis, ttl: ttl}
}

func (s *RedisCartStore) key(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Get returns the cart for sessionID, or an empty cart when none is stored.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.redis.GetJSON(ctx, s.key(sessionID), &cart)
	if errors.Is(err, ErrCacheMiss) {
		return models.NewCart(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	cart.SessionID = sessionID
	return &cart, nil
}

// Set stores the cart and refreshes its TTL.
func (s *RedisCartStore) Set(ctx context.Context, cart *models.Cart) error {
	if err := s.redis.SetJSON(ctx, s.key(cart.SessionID), cart, s.ttl); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

// Clear drops the cart for sessionID.
func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	return s.redis.Delete(ctx, s.key(sessionID))
}

// MemoryCartStore is a process-local cart store used when Redis is not
// configured and in tests. Entries expire lazily on read.
type MemoryCartStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	carts map[string]memoryCart
}

type memoryCart struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCartStore creates a MemoryCartStore. A zero ttl keeps carts forever.
func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	return &MemoryCartStore{ttl: ttl, now: time.Now, carts: make(map[string]memoryCart)}
}

func (s *MemoryCartStore) Get(_ context.Context, sessionID string) (*models.Cart, error) {
	s.mu.Lock()
	entry, ok := s.carts[sessionID]
	if ok && s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.carts, sessionID)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return models.NewCart(sessionID), nil
	}
	var cart models.Cart
	if err := json.Unmarshal(entry.data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return &cart, nil
}

func (s *MemoryCartStore) Set(_ context.Context, cart *models.Cart) error {
	// Stored as JSON so callers never share slices with the store.
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	s.mu.Lock()
	s.carts[cart.SessionID] = memoryCart{data: data, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryCartStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
	return nil
}
