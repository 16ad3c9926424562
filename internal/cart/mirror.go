package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/minutelaunch/minutelaunch/storage/db"
)

// DBMirror mirrors cart state into the SQLite store. Each save replaces the
// cart wholesale: upsert the header, delete the lines, reinsert them, all
// inside one transaction so a reader never observes a half-replaced cart.
// Not incrementally efficient, but with one shopper per cart the last full
// write to land is always the right one.
type DBMirror struct {
	database *sql.DB
	queries  *db.Queries
}

func NewDBMirror(database *sql.DB, queries *db.Queries) *DBMirror {
	return &DBMirror{database: database, queries: queries}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (m *DBMirror) SaveCart(ctx context.Context, c *Cart) error {
	tx, err := m.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cart save: %w", err)
	}
	defer tx.Rollback()

	qtx := m.queries.WithTx(tx)

	err = qtx.UpsertCart(ctx, db.UpsertCartParams{
		ID:         c.ID,
		BusinessID: c.BusinessID,
		UserID:     nullable(c.UserID),
		AnonID:     nullable(c.AnonID),
	})
	if err != nil {
		return fmt.Errorf("upsert cart header: %w", err)
	}

	if err := qtx.DeleteCartItems(ctx, c.ID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}

	for _, item := range c.Items {
		err := qtx.InsertCartItem(ctx, db.InsertCartItemParams{
			ID:                 uuid.New().String(),
			CartID:             c.ID,
			ProductID:          item.ProductID,
			OptionID:           nullable(item.OptionID),
			Qty:                item.Qty,
			PriceCentsSnapshot: item.PriceCentsSnapshot,
			NameSnapshot:       item.NameSnapshot,
		})
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}
	return tx.Commit()
}

func (m *DBMirror) DeleteCart(ctx context.Context, cartID string) error {
	if err := m.queries.DeleteCartItems(ctx, cartID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	if err := m.queries.DeleteCart(ctx, cartID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// LoadCart reads an owner's cart back out of the mirror. A cart that was
// never mirrored is (nil, nil), not an error.
func (m *DBMirror) LoadCart(ctx context.Context, businessID string, owner Owner) (*Cart, error) {
	header, err := m.queries.GetCartByOwner(ctx, db.GetCartByOwnerParams{
		BusinessID: businessID,
		UserID:     nullable(owner.UserID),
		AnonID:     nullable(owner.AnonID),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart header: %w", err)
	}

	rows, err := m.queries.GetCartItems(ctx, header.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	c := &Cart{
		ID:         header.ID,
		BusinessID: header.BusinessID,
		UserID:     header.UserID.String,
		AnonID:     header.AnonID.String,
		Items:      make([]Item, 0, len(rows)),
		UpdatedAt:  header.UpdatedAt,
	}
	for _, row := range rows {
		c.Items = append(c.Items, Item{
			ProductID:          row.ProductID,
			OptionID:           row.OptionID.String,
			Qty:                row.Qty,
			PriceCentsSnapshot: row.PriceCentsSnapshot,
			NameSnapshot:       row.NameSnapshot,
		})
	}
	return c, nil
}
