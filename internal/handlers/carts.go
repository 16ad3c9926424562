package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/cart"
	"github.com/minutelaunch/minutelaunch/internal/middleware"
	"github.com/minutelaunch/minutelaunch/internal/session"
	"github.com/minutelaunch/minutelaunch/storage/db"
)

type CartHandler struct {
	carts    *cart.Service
	queries  *db.Queries
	sessions *session.Manager
}

func NewCartHandler(carts *cart.Service, queries *db.Queries, sessions *session.Manager) *CartHandler {
	return &CartHandler{carts: carts, queries: queries, sessions: sessions}
}

// resolveOwner decides whose cart a request touches. Signed-in users get a
// user-keyed cart; everyone else gets one keyed by the session's anon id.
func resolveOwner(c echo.Context, sessions *session.Manager) (cart.Owner, error) {
	if userID := middleware.AuthenticatedUserID(c); userID != "" {
		return cart.UserOwner(userID), nil
	}
	anonID, err := sessions.AnonID(c)
	if err != nil {
		return cart.Owner{}, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return cart.AnonOwner(anonID), nil
}

func (h *CartHandler) owner(c echo.Context) (cart.Owner, error) {
	return resolveOwner(c, h.sessions)
}

func (h *CartHandler) business(c echo.Context) (db.Business, error) {
	business, err := h.queries.GetBusinessBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return db.Business{}, echo.NewHTTPError(http.StatusNotFound, "shop not found")
	}
	return business, nil
}

func cartView(c *cart.Cart) map[string]any {
	items := make([]map[string]any, 0, len(c.Items))
	var totalQty int64
	for _, item := range c.Items {
		totalQty += item.Qty
		items = append(items, map[string]any{
			"product_id":  item.ProductID,
			"option_id":   item.OptionID,
			"name":        item.NameSnapshot,
			"price_cents": item.PriceCentsSnapshot,
			"qty":         item.Qty,
			"line_cents":  item.PriceCentsSnapshot * item.Qty,
		})
	}
	return map[string]any{
		"id":             c.ID,
		"items":          items,
		"line_count":     len(items),
		"total_qty":      totalQty,
		"subtotal_cents": c.SubtotalCents(),
	}
}

func (h *CartHandler) HandleGetCart(c echo.Context) error {
	business, err := h.business(c)
	if err != nil {
		return err
	}
	owner, err := h.owner(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartView(h.carts.Get(business.ID, owner)))
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	OptionID  string `json:"option_id,omitempty"`
	Qty       int64  `json:"qty"`
}

// HandleAddItem adds a product to the cart, snapshotting its current name
// and price onto the line. Adding a product already in the cart bumps the
// existing line instead of creating a duplicate.
func (h *CartHandler) HandleAddItem(c echo.Context) error {
	business, err := h.business(c)
	if err != nil {
		return err
	}
	owner, err := h.owner(c)
	if err != nil {
		return err
	}

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	product, err := h.queries.GetProduct(c.Request().Context(), req.ProductID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if product.BusinessID != business.ID || product.Active == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not available in this shop")
	}

	updated := h.carts.AddItem(business.ID, owner, cart.ItemInput{
		ProductID:  product.ID,
		OptionID:   req.OptionID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
	}, req.Qty)

	return c.JSON(http.StatusOK, cartView(updated))
}

type UpdateQtyRequest struct {
	ProductID string `json:"product_id"`
	OptionID  string `json:"option_id,omitempty"`
	Qty       int64  `json:"qty"`
}

// HandleUpdateQty sets a line's quantity. Zero or negative removes the line.
func (h *CartHandler) HandleUpdateQty(c echo.Context) error {
	business, err := h.business(c)
	if err != nil {
		return err
	}
	owner, err := h.owner(c)
	if err != nil {
		return err
	}

	var req UpdateQtyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	updated := h.carts.UpdateItemQty(business.ID, owner, req.ProductID, req.OptionID, req.Qty)
	return c.JSON(http.StatusOK, cartView(updated))
}

func (h *CartHandler) HandleRemoveItem(c echo.Context) error {
	business, err := h.business(c)
	if err != nil {
		return err
	}
	owner, err := h.owner(c)
	if err != nil {
		return err
	}

	productID := c.Param("productId")
	optionID := c.QueryParam("option_id")

	updated := h.carts.RemoveItem(business.ID, owner, productID, optionID)
	return c.JSON(http.StatusOK, cartView(updated))
}

func (h *CartHandler) HandleClearCart(c echo.Context) error {
	business, err := h.business(c)
	if err != nil {
		return err
	}
	owner, err := h.owner(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartView(h.carts.Clear(business.ID, owner)))
}

// HandleMergeCart folds the visitor's guest cart into their user cart.
// The frontend calls it right after sign-in; repeat calls are no-ops.
func (h *CartHandler) HandleMergeCart(c echo.Context) error {
	business, err := h.business(c)
	if err != nil {
		return err
	}

	userID := middleware.AuthenticatedUserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	anonID, err := h.sessions.AnonID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	merged, err := h.carts.MergeGuestCart(c.Request().Context(), business.ID, anonID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cart merge failed")
	}
	return c.JSON(http.StatusOK, cartView(merged))
}
