package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

const (
	mirrorTimeout    = 10 * time.Second
	mirrorRetryDelay = 250 * time.Millisecond
	mirrorRetries    = 3
)

// Service owns all cart mutations. Writes go to the local store
// synchronously and are mirrored to the remote store in the background;
// a mirror failure never surfaces to the caller.
type Service struct {
	local  *LocalStore
	mirror Mirror

	merges singleflight.Group

	// wg tracks in-flight mirror writes so tests and shutdown can drain them.
	wg sync.WaitGroup
}

func NewService(local *LocalStore, mirror Mirror) *Service {
	if mirror == nil {
		mirror = NopMirror{}
	}
	return &Service{local: local, mirror: mirror}
}

// Get returns the owner's cart. On a local miss it consults the mirror
// first, so a cart built before a restart survives the cold start; only
// when the mirror has nothing either does it create an empty cart.
func (s *Service) Get(businessID string, owner Owner) *Cart {
	if c := s.local.Get(businessID, owner); c != nil {
		return c
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	mirrored, err := s.mirror.LoadCart(ctx, businessID, owner)
	if err != nil {
		slog.Warn("remote cart load failed", "business_id", businessID, "owner", owner.Key(), "error", err)
	}
	if mirrored != nil {
		s.local.Put(mirrored)
		return mirrored
	}
	c := NewCart(businessID, owner)
	s.local.Put(c)
	return c
}

// ClearPurchased drops a cart after its order is paid, on both sides of
// the dual write. The cart id comes from the order row; a cart unknown to
// the local store (the webhook can land on a fresh process) still gets its
// mirror copy deleted.
func (s *Service) ClearPurchased(cartID string) {
	if c := s.local.FindByID(cartID); c != nil {
		s.local.Delete(c.BusinessID, c.Owner())
	}
	s.background(func(ctx context.Context) error {
		return s.mirror.DeleteCart(ctx, cartID)
	}, "delete purchased cart mirror", cartID)
}

// ItemInput is what an add-to-cart action carries from the UI. Price and
// name are captured as snapshots on the line.
type ItemInput struct {
	ProductID  string
	OptionID   string
	Name       string
	PriceCents int64
}

func (s *Service) AddItem(businessID string, owner Owner, input ItemInput, qty int64) *Cart {
	c := s.Get(businessID, owner)
	c.AddItem(Item{
		ProductID:          input.ProductID,
		OptionID:           input.OptionID,
		PriceCentsSnapshot: input.PriceCents,
		NameSnapshot:       input.Name,
	}, qty)
	s.persist(c)
	return c
}

func (s *Service) UpdateItemQty(businessID string, owner Owner, productID, optionID string, qty int64) *Cart {
	c := s.Get(businessID, owner)
	c.UpdateItemQty(productID, optionID, qty)
	s.persist(c)
	return c
}

func (s *Service) RemoveItem(businessID string, owner Owner, productID, optionID string) *Cart {
	c := s.Get(businessID, owner)
	c.RemoveItem(productID, optionID)
	s.persist(c)
	return c
}

func (s *Service) Clear(businessID string, owner Owner) *Cart {
	c := s.Get(businessID, owner)
	c.Clear()
	s.persist(c)
	return c
}

// MergeGuestCart runs once at the guest-to-user authentication transition.
// Guest quantities are added onto any lines the user cart already has, new
// lines are carried over verbatim, and the guest copy is deleted afterwards.
// Calling it again once the guest cart is gone is a safe no-op, and a UI
// double-fire collapses into a single execution via singleflight.
func (s *Service) MergeGuestCart(ctx context.Context, businessID, anonID, userID string) (*Cart, error) {
	key := businessID + "/" + userID
	merged, err, _ := s.merges.Do(key, func() (any, error) {
		return s.mergeGuestCart(ctx, businessID, anonID, userID), nil
	})
	if err != nil {
		return nil, err
	}
	return merged.(*Cart), nil
}

func (s *Service) mergeGuestCart(ctx context.Context, businessID, anonID, userID string) *Cart {
	userCart := s.Get(businessID, UserOwner(userID))

	guest := s.local.Get(businessID, AnonOwner(anonID))
	if guest == nil || len(guest.Items) == 0 {
		// Nothing to fold in; drop any empty guest shell that remains.
		s.discardGuestCart(businessID, anonID, guest)
		return userCart
	}

	MergeGuestItems(userCart, guest)
	s.persist(userCart)
	s.discardGuestCart(businessID, anonID, guest)

	slog.Info("merged guest cart into user cart",
		"business_id", businessID,
		"user_id", userID,
		"merged_lines", len(userCart.Items),
	)
	return userCart
}

func (s *Service) discardGuestCart(businessID, anonID string, guest *Cart) {
	s.local.Delete(businessID, AnonOwner(anonID))
	if guest == nil {
		return
	}
	cartID := guest.ID
	s.background(func(ctx context.Context) error {
		return s.mirror.DeleteCart(ctx, cartID)
	}, "delete guest cart mirror", cartID)
}

// persist writes the cart to the local store synchronously, then mirrors
// the full cart state remotely without blocking the caller. Each mirror
// write re-sends the entire cart, so the last write to land wins even when
// a rapid mutation burst produces out-of-order remote writes.
func (s *Service) persist(c *Cart) {
	s.local.Put(c)
	snapshot := c.Clone()
	s.background(func(ctx context.Context) error {
		return s.mirror.SaveCart(ctx, snapshot)
	}, "mirror cart", snapshot.ID)
}

func (s *Service) background(op func(context.Context) error, what, cartID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()

		backoff := retry.WithMaxRetries(mirrorRetries, retry.NewConstant(mirrorRetryDelay))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := op(ctx); err != nil {
				return retry.RetryableError(fmt.Errorf("%s: %w", what, err))
			}
			return nil
		})
		if err != nil {
			// Local-first state stays authoritative; losing the mirror only
			// risks cross-device continuity, not this session.
			slog.Warn("remote cart mirror failed", "op", what, "cart_id", cartID, "error", err)
		}
	}()
}

// Flush waits for all in-flight mirror writes. Intended for shutdown paths
// and tests; regular request handling never blocks on it.
func (s *Service) Flush() {
	s.wg.Wait()
}
