package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/cart"
	"github.com/minutelaunch/minutelaunch/internal/receipt"
	"github.com/minutelaunch/minutelaunch/internal/session"
	"github.com/minutelaunch/minutelaunch/storage/db"
	"github.com/stripe/stripe-go/v80"
	checkoutsession "github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// Platform cut on each sale, in basis points.
const applicationFeeBps = 500

type PaymentHandler struct {
	carts         *cart.Service
	queries       *db.Queries
	sessions      *session.Manager
	baseURL       string
	webhookSecret string
	receiptDir    string
}

func NewPaymentHandler(carts *cart.Service, queries *db.Queries, sessions *session.Manager, baseURL, webhookSecret, receiptDir string) *PaymentHandler {
	return &PaymentHandler{
		carts:         carts,
		queries:       queries,
		sessions:      sessions,
		baseURL:       baseURL,
		webhookSecret: webhookSecret,
		receiptDir:    receiptDir,
	}
}

type CheckoutRequest struct {
	CustomerEmail string `json:"customer_email,omitempty"`
}

// HandleCreateCheckout turns the current cart into a Stripe Checkout
// session. Sellers with a connected account get a destination charge with
// the platform fee withheld; everyone else charges the platform account.
func (h *PaymentHandler) HandleCreateCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	business, err := h.queries.GetBusinessBySlug(ctx, c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "shop not found")
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	owner, err := resolveOwner(c, h.sessions)
	if err != nil {
		return err
	}

	current := h.carts.Get(business.ID, owner)
	if len(current.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(current.Items))
	for _, item := range current.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(item.PriceCentsSnapshot),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.NameSnapshot),
				},
			},
			Quantity: stripe.Int64(item.Qty),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(fmt.Sprintf("%s/shop/%s/thanks?session_id={CHECKOUT_SESSION_ID}", h.baseURL, business.Slug)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/shop/%s/cart", h.baseURL, business.Slug)),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if business.StripeAccountID != "" {
		subtotal := current.SubtotalCents()
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(subtotal * applicationFeeBps / 10000),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(business.StripeAccountID),
			},
		}
	}

	checkout, err := checkoutsession.New(params)
	if err != nil {
		slog.Error("failed to create checkout session", "error", err, "business_id", business.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start checkout")
	}

	err = h.queries.CreateOrder(ctx, db.CreateOrderParams{
		ID:              uuid.New().String(),
		BusinessID:      business.ID,
		CartID:          current.ID,
		StripeSessionID: checkout.ID,
		AmountCents:     current.SubtotalCents(),
		CustomerEmail:   req.CustomerEmail,
	})
	if err != nil {
		slog.Error("failed to record order", "error", err, "stripe_session_id", checkout.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record order")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"checkout_url": checkout.URL,
		"session_id":   checkout.ID,
	})
}

// HandleWebhook processes Stripe events. Payment completion marks the order
// paid, writes a receipt PDF, and clears the buyer's cart.
func (h *PaymentHandler) HandleWebhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<16))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read webhook body")
	}

	event, err := webhook.ConstructEvent(payload, c.Request().Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		slog.Warn("webhook signature verification failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	switch event.Type {
	case "checkout.session.completed":
		var checkout stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &checkout); err != nil {
			slog.Error("failed to parse checkout session", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "malformed event")
		}
		if err := h.completeOrder(c, checkout); err != nil {
			slog.Error("failed to complete order", "error", err, "stripe_session_id", checkout.ID)
			return echo.NewHTTPError(http.StatusInternalServerError, "order completion failed")
		}
	default:
		slog.Debug("ignoring stripe event", "type", event.Type)
	}

	return c.NoContent(http.StatusOK)
}

func (h *PaymentHandler) completeOrder(c echo.Context, checkout stripe.CheckoutSession) error {
	ctx := c.Request().Context()

	order, err := h.queries.GetOrderByStripeSession(ctx, checkout.ID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order.Status == "paid" {
		return nil
	}

	business, err := h.queries.GetBusiness(ctx, order.BusinessID)
	if err != nil {
		return fmt.Errorf("load business: %w", err)
	}

	items, err := h.queries.GetCartItems(ctx, order.CartID)
	if err != nil {
		return fmt.Errorf("load cart items: %w", err)
	}
	lines := make([]receipt.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, receipt.Line{
			Name:       item.NameSnapshot,
			Qty:        item.Qty,
			PriceCents: item.PriceCentsSnapshot,
		})
	}

	email := order.CustomerEmail
	if email == "" && checkout.CustomerDetails != nil {
		email = checkout.CustomerDetails.Email
	}

	receiptPath, err := receipt.Generate(receipt.Order{
		ID:            order.ID,
		BusinessName:  business.Name,
		CustomerEmail: email,
		Lines:         lines,
		TotalCents:    order.AmountCents,
		PaidAt:        time.Now(),
	}, h.receiptDir)
	if err != nil {
		// The order is still paid; the receipt can be regenerated later.
		slog.Warn("receipt generation failed", "error", err, "order_id", order.ID)
	}

	if err := h.queries.MarkOrderPaid(ctx, db.MarkOrderPaidParams{
		ID:          order.ID,
		ReceiptPath: receiptPath,
	}); err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	// The cart is spent once the receipt lines are captured above.
	h.carts.ClearPurchased(order.CartID)

	slog.Info("order paid", "order_id", order.ID, "business_id", order.BusinessID, "amount_cents", order.AmountCents)
	return nil
}
