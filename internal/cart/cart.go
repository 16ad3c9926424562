// Package cart implements the shopfront cart and the guest-to-user merge
// that runs when an anonymous shopper signs in. Carts are keyed by
// (business, owner) where the owner is either a signed-in user or an
// anonymous browser id, never both.
package cart

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ProductID          string `json:"product_id"`
	OptionID           string `json:"option_id,omitempty"`
	Qty                int64  `json:"qty"`
	PriceCentsSnapshot int64  `json:"price_cents_snapshot"`
	NameSnapshot       string `json:"name_snapshot"`
}

type Cart struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	UserID     string    `json:"user_id,omitempty"`
	AnonID     string    `json:"anon_id,omitempty"`
	Items      []Item    `json:"items"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Owner identifies who a cart belongs to. Exactly one field is set.
type Owner struct {
	UserID string
	AnonID string
}

func UserOwner(userID string) Owner { return Owner{UserID: userID} }
func AnonOwner(anonID string) Owner { return Owner{AnonID: anonID} }

// Key returns the local-store key for this owner within a business.
func (o Owner) Key() string {
	if o.UserID != "" {
		return "user:" + o.UserID
	}
	return "anon:" + o.AnonID
}

// NewCart creates an empty cart for an owner.
func NewCart(businessID string, owner Owner) *Cart {
	return &Cart{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		UserID:     owner.UserID,
		AnonID:     owner.AnonID,
		Items:      []Item{},
		UpdatedAt:  time.Now().UTC(),
	}
}

func (c *Cart) Owner() Owner {
	if c.UserID != "" {
		return UserOwner(c.UserID)
	}
	return AnonOwner(c.AnonID)
}

func (c *Cart) findItem(productID, optionID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.OptionID == optionID {
			return i
		}
	}
	return -1
}

// AddItem adds qty of an item, coalescing into an existing line when the
// (product, option) pair already exists. A qty of zero or less is treated
// as 1; a line never holds a non-positive quantity.
func (c *Cart) AddItem(item Item, qty int64) {
	if qty <= 0 {
		qty = 1
	}
	if i := c.findItem(item.ProductID, item.OptionID); i >= 0 {
		c.Items[i].Qty += qty
	} else {
		item.Qty = qty
		c.Items = append(c.Items, item)
	}
	c.UpdatedAt = time.Now().UTC()
}

// UpdateItemQty sets the quantity of the matching line, clamped at zero.
// Zero removes the line entirely: absence is how zero is stored. A missing
// line is a no-op, not an error.
func (c *Cart) UpdateItemQty(productID, optionID string, qty int64) {
	i := c.findItem(productID, optionID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Qty = qty
	}
	c.UpdatedAt = time.Now().UTC()
}

// RemoveItem deletes the matching line if present.
func (c *Cart) RemoveItem(productID, optionID string) {
	if i := c.findItem(productID, optionID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.UpdatedAt = time.Now().UTC()
	}
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.UpdatedAt = time.Now().UTC()
}

// SubtotalCents sums line totals from the captured price snapshots.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.PriceCentsSnapshot * item.Qty
	}
	return total
}

// Clone returns a deep copy so callers can hand carts across goroutines.
func (c *Cart) Clone() *Cart {
	dup := *c
	dup.Items = make([]Item, len(c.Items))
	copy(dup.Items, c.Items)
	return &dup
}

// MergeGuestItems folds the guest cart's lines into the user cart. Shared
// (product, option) pairs sum their quantities; everything else is appended
// verbatim, price and name snapshots included. Merge never re-fetches
// current prices.
func MergeGuestItems(user, guest *Cart) {
	for _, guestItem := range guest.Items {
		if i := user.findItem(guestItem.ProductID, guestItem.OptionID); i >= 0 {
			user.Items[i].Qty += guestItem.Qty
		} else {
			user.Items = append(user.Items, guestItem)
		}
	}
	user.UpdatedAt = time.Now().UTC()
}
