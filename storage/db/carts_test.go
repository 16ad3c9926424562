package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/minutelaunch/minutelaunch/storage"
	"github.com/minutelaunch/minutelaunch/storage/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func TestUpsertCartReplacesOwnerOnConflict(t *testing.T) {
	database, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()

	err = storage.WithTransaction(database, func(tx *sql.Tx) error {
		qtx := queries.WithTx(tx)

		require.NoError(t, qtx.UpsertCart(ctx, db.UpsertCartParams{
			ID:         "cart-1",
			BusinessID: "biz-1",
			AnonID:     nullString("anon-1"),
		}))

		// The guest-to-user transition rewrites the owner columns in place.
		require.NoError(t, qtx.UpsertCart(ctx, db.UpsertCartParams{
			ID:         "cart-1",
			BusinessID: "biz-1",
			UserID:     nullString("user-1"),
		}))

		cart, err := qtx.GetCartByOwner(ctx, db.GetCartByOwnerParams{
			BusinessID: "biz-1",
			UserID:     nullString("user-1"),
		})
		require.NoError(t, err)
		assert.Equal(t, "cart-1", cart.ID)
		assert.False(t, cart.AnonID.Valid)
		return nil
	})
	require.NoError(t, err)

	// The transaction rolled back; the base database is untouched.
	_, err = queries.GetCartByOwner(ctx, db.GetCartByOwnerParams{
		BusinessID: "biz-1",
		UserID:     nullString("user-1"),
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteCartCascadesToItems(t *testing.T) {
	database, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()

	err = storage.WithTransaction(database, func(tx *sql.Tx) error {
		qtx := queries.WithTx(tx)

		require.NoError(t, qtx.UpsertCart(ctx, db.UpsertCartParams{
			ID:         "cart-1",
			BusinessID: "biz-1",
			AnonID:     nullString("anon-1"),
		}))
		require.NoError(t, qtx.InsertCartItem(ctx, db.InsertCartItemParams{
			ID:                 "line-1",
			CartID:             "cart-1",
			ProductID:          "prod-1",
			Qty:                2,
			PriceCentsSnapshot: 1800,
			NameSnapshot:       "Cedar Candle",
		}))

		require.NoError(t, qtx.DeleteCart(ctx, "cart-1"))

		items, err := qtx.GetCartItems(ctx, "cart-1")
		require.NoError(t, err)
		assert.Empty(t, items)
		return nil
	})
	require.NoError(t, err)
}
