package db

import (
	"context"
	"database/sql"
)

type UpsertCartParams struct {
	ID         string
	BusinessID string
	UserID     sql.NullString
	AnonID     sql.NullString
}

func (q *Queries) UpsertCart(ctx context.Context, arg UpsertCartParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO carts (id, business_id, user_id, anon_id, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			anon_id = excluded.anon_id,
			updated_at = CURRENT_TIMESTAMP`,
		arg.ID, arg.BusinessID, arg.UserID, arg.AnonID,
	)
	return err
}

func (q *Queries) DeleteCart(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, id)
	return err
}

func (q *Queries) DeleteCartItems(ctx context.Context, cartID string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

type InsertCartItemParams struct {
	ID                 string
	CartID             string
	ProductID          string
	OptionID           sql.NullString
	Qty                int64
	PriceCentsSnapshot int64
	NameSnapshot       string
}

func (q *Queries) InsertCartItem(ctx context.Context, arg InsertCartItemParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, option_id, qty, price_cents_snapshot, name_snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.CartID, arg.ProductID, arg.OptionID, arg.Qty, arg.PriceCentsSnapshot, arg.NameSnapshot,
	)
	return err
}

type GetCartByOwnerParams struct {
	BusinessID string
	UserID     sql.NullString
	AnonID     sql.NullString
}

// GetCartByOwner loads the remote cart header for an owner key. Used when a
// fresh process wants to seed its local-first store from the mirror.
func (q *Queries) GetCartByOwner(ctx context.Context, arg GetCartByOwnerParams) (Cart, error) {
	var c Cart
	err := q.db.QueryRowContext(ctx, `
		SELECT id, business_id, user_id, anon_id, updated_at
		FROM carts
		WHERE business_id = ?
		  AND (user_id = ? OR (user_id IS NULL AND ? IS NULL))
		  AND (anon_id = ? OR (anon_id IS NULL AND ? IS NULL))`,
		arg.BusinessID, arg.UserID, arg.UserID, arg.AnonID, arg.AnonID,
	).Scan(&c.ID, &c.BusinessID, &c.UserID, &c.AnonID, &c.UpdatedAt)
	return c, err
}

func (q *Queries) GetCartItems(ctx context.Context, cartID string) ([]CartItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, cart_id, product_id, option_id, qty, price_cents_snapshot, name_snapshot
		FROM cart_items WHERE cart_id = ?`, cartID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.OptionID, &item.Qty, &item.PriceCentsSnapshot, &item.NameSnapshot); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
