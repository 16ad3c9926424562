package cart

import (
	"context"
	"sync"
)

// LocalStore is the local-first cart store: every mutation lands here
// synchronously so the next read in the same process is always consistent,
// regardless of what the remote mirror is doing.
type LocalStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewLocalStore() *LocalStore {
	return &LocalStore{carts: make(map[string]*Cart)}
}

func storeKey(businessID string, owner Owner) string {
	return businessID + "/" + owner.Key()
}

// Get returns a copy of the cart for (business, owner), or nil if absent.
func (s *LocalStore) Get(businessID string, owner Owner) *Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.carts[storeKey(businessID, owner)]; ok {
		return c.Clone()
	}
	return nil
}

// Put stores a copy of the cart under its owner key.
func (s *LocalStore) Put(c *Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[storeKey(c.BusinessID, c.Owner())] = c.Clone()
}

// Delete removes the cart for (business, owner). Deleting an absent cart is
// a no-op.
func (s *LocalStore) Delete(businessID string, owner Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, storeKey(businessID, owner))
}

// FindByID returns a copy of the cart with the given id, or nil. Used by
// flows that only know the cart id, like order completion.
func (s *LocalStore) FindByID(cartID string) *Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.carts {
		if c.ID == cartID {
			return c.Clone()
		}
	}
	return nil
}

// Mirror is the remote side of the dual-write discipline. Implementations
// replace the full cart state on every save (header upsert plus
// delete-then-reinsert of lines), so out-of-order writes converge on the
// last full state to land. Mirror failures are best-effort by contract:
// the caller logs them and moves on. LoadCart is the read side, used to
// seed the local-first store on a cold start; absence is (nil, nil).
type Mirror interface {
	SaveCart(ctx context.Context, c *Cart) error
	DeleteCart(ctx context.Context, cartID string) error
	LoadCart(ctx context.Context, businessID string, owner Owner) (*Cart, error)
}

// NopMirror discards mirror writes. Used in tests and when the app runs
// without a remote store configured.
type NopMirror struct{}

func (NopMirror) SaveCart(ctx context.Context, c *Cart) error { return nil }

func (NopMirror) DeleteCart(ctx context.Context, cartID string) error { return nil }
func (NopMirror) LoadCart(ctx context.Context, businessID string, owner Owner) (*Cart, error) {
	return nil, nil
}
