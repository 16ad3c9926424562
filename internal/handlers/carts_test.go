package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/cart"
	"github.com/minutelaunch/minutelaunch/internal/middleware"
	"github.com/minutelaunch/minutelaunch/internal/session"
	"github.com/minutelaunch/minutelaunch/storage/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedShop(t *testing.T, queries *db.Queries) (businessID, productID string) {
	t.Helper()
	ctx := context.Background()

	businessID = "biz-1"
	err := queries.CreateBusiness(ctx, db.CreateBusinessParams{
		ID:   businessID,
		Name: "Maple Candles",
		Slug: "maple-candles",
	})
	require.NoError(t, err)

	productID = "prod-1"
	err = queries.CreateProduct(ctx, db.CreateProductParams{
		ID:         productID,
		BusinessID: businessID,
		Name:       "Cedar Candle",
		PriceCents: 1800,
	})
	require.NoError(t, err)
	return businessID, productID
}

func newCartHandler(queries *db.Queries) *CartHandler {
	carts := cart.NewService(cart.NewLocalStore(), nil)
	return NewCartHandler(carts, queries, session.NewManager("test-secret"))
}

func TestHandleAddItem(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	_, productID := seedShop(t, queries)
	h := newCartHandler(queries)

	c, rec := NewTestContext(http.MethodPost, "/api/shops/:slug/cart/items", AddItemRequest{
		ProductID: productID,
		Qty:       2,
	})
	c.SetParamNames("slug")
	c.SetParamValues("maple-candles")

	require.NoError(t, h.HandleAddItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body, err := DecodeJSONResponse(rec)
	require.NoError(t, err)
	assert.EqualValues(t, 1, body["line_count"])
	assert.EqualValues(t, 2, body["total_qty"])
	assert.EqualValues(t, 3600, body["subtotal_cents"])
}

func TestHandleAddItemUnknownProduct(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	seedShop(t, queries)
	h := newCartHandler(queries)

	c, _ := NewTestContext(http.MethodPost, "/api/shops/:slug/cart/items", AddItemRequest{
		ProductID: "nope",
		Qty:       1,
	})
	c.SetParamNames("slug")
	c.SetParamValues("maple-candles")

	err := h.HandleAddItem(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestHandleUpdateQtyToZeroRemovesLine(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	businessID, productID := seedShop(t, queries)
	carts := cart.NewService(cart.NewLocalStore(), nil)
	h := NewCartHandler(carts, queries, session.NewManager("test-secret"))

	// Seed the cart directly; the handler path is covered above.
	owner := cart.UserOwner("user-1")
	carts.AddItem(businessID, owner, cart.ItemInput{
		ProductID: productID, Name: "Cedar Candle", PriceCents: 1800,
	}, 2)

	c, rec := NewTestContext(http.MethodPut, "/api/shops/:slug/cart/items", UpdateQtyRequest{
		ProductID: productID,
		Qty:       0,
	})
	c.SetParamNames("slug")
	c.SetParamValues("maple-candles")
	c.Set(middleware.UserIDKey, "user-1")

	require.NoError(t, h.HandleUpdateQty(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body, err := DecodeJSONResponse(rec)
	require.NoError(t, err)
	assert.EqualValues(t, 0, body["line_count"])
	assert.EqualValues(t, 0, body["total_qty"])
}

func TestHandleMergeCartRequiresAuth(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	seedShop(t, queries)
	h := newCartHandler(queries)

	c, _ := NewTestContext(http.MethodPost, "/api/shops/:slug/cart/merge", nil)
	c.SetParamNames("slug")
	c.SetParamValues("maple-candles")

	err := h.HandleMergeCart(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
