package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/middleware"
	"github.com/minutelaunch/minutelaunch/storage/db"
	qrcode "github.com/skip2/go-qrcode"
)

type ShopfrontHandler struct {
	queries *db.Queries
	baseURL string
}

func NewShopfrontHandler(queries *db.Queries, baseURL string) *ShopfrontHandler {
	return &ShopfrontHandler{queries: queries, baseURL: baseURL}
}

// HandleGetShop returns the public shopfront: branding plus active products.
func (h *ShopfrontHandler) HandleGetShop(c echo.Context) error {
	ctx := c.Request().Context()

	business, err := h.queries.GetBusinessBySlug(ctx, c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "shop not found")
	}

	products, err := h.queries.ListActiveProducts(ctx, business.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load products")
	}

	productViews := make([]map[string]any, 0, len(products))
	for _, p := range products {
		productViews = append(productViews, map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
			"price_cents": p.PriceCents,
			"image_url":   p.ImageURL,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":       business.ID,
		"name":     business.Name,
		"slug":     business.Slug,
		"tagline":  business.Tagline,
		"bio":      business.Bio,
		"logo_url": business.LogoURL,
		"products": productViews,
	})
}

type UpdateBrandingRequest struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Bio     string `json:"bio"`
	LogoURL string `json:"logo_url"`
}

// HandleUpdateBranding lets the shop owner edit the branding that
// onboarding generated. Only the owner may touch it.
func (h *ShopfrontHandler) HandleUpdateBranding(c echo.Context) error {
	ctx := c.Request().Context()

	business, err := h.queries.GetBusinessBySlug(ctx, c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "shop not found")
	}

	userID := middleware.AuthenticatedUserID(c)
	if !business.OwnerUserID.Valid || business.OwnerUserID.String != userID {
		return echo.NewHTTPError(http.StatusForbidden, "not your shop")
	}

	var req UpdateBrandingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	err = h.queries.UpdateBusinessBranding(ctx, db.UpdateBusinessBrandingParams{
		ID:      business.ID,
		Name:    req.Name,
		Tagline: req.Tagline,
		Bio:     req.Bio,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update branding")
	}

	updated, err := h.queries.GetBusiness(ctx, business.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load business")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":       updated.ID,
		"name":     updated.Name,
		"slug":     updated.Slug,
		"tagline":  updated.Tagline,
		"bio":      updated.Bio,
		"logo_url": updated.LogoURL,
	})
}

// HandleShopQR renders a QR code pointing at the shopfront, for printing on
// flyers and counter cards.
func (h *ShopfrontHandler) HandleShopQR(c echo.Context) error {
	business, err := h.queries.GetBusinessBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "shop not found")
	}

	shopURL := fmt.Sprintf("%s/shop/%s", h.baseURL, business.Slug)
	png, err := qrcode.Encode(shopURL, qrcode.Medium, 512)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render QR code")
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
