package service

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/ai"
	"github.com/minutelaunch/minutelaunch/internal/branding"
	"github.com/minutelaunch/minutelaunch/internal/cart"
	"github.com/minutelaunch/minutelaunch/internal/handlers"
	"github.com/minutelaunch/minutelaunch/internal/jobs"
	"github.com/minutelaunch/minutelaunch/internal/middleware"
	"github.com/minutelaunch/minutelaunch/internal/onboarding"
	"github.com/minutelaunch/minutelaunch/internal/session"
	"github.com/minutelaunch/minutelaunch/storage"
	"github.com/stripe/stripe-go/v80"
)

type Service struct {
	storage       *storage.Storage
	config        *Config
	carts         *cart.Service
	sessions      *session.Manager
	staleDetector *jobs.StaleOnboardingDetector

	authHandler       *handlers.AuthHandler
	onboardingHandler *handlers.OnboardingHandler
	conceptsHandler   *handlers.ConceptsHandler
	cartHandler       *handlers.CartHandler
	shopfrontHandler  *handlers.ShopfrontHandler
	paymentHandler    *handlers.PaymentHandler
}

func New(store *storage.Storage, config *Config) *Service {
	stripe.Key = config.Stripe.SecretKey

	sessions := session.NewManager(config.Session.Secret)

	aiClient := ai.NewClient(config.AI.BaseURL, config.AI.APIKey, config.AI.Model)
	if !aiClient.IsAvailable(context.Background()) {
		slog.Warn("ai gateway unreachable, generation endpoints will fail until it returns", "url", config.AI.BaseURL)
	}
	brandingGen := branding.NewGenerator(aiClient)

	carts := cart.NewService(cart.NewLocalStore(), cart.NewDBMirror(store.DB(), store.Queries))
	onboardingSvc := onboarding.NewService(store.Queries)

	staleDetector := jobs.NewStaleOnboardingDetector(store)
	staleDetector.Start(context.Background())

	return &Service{
		storage:       store,
		config:        config,
		carts:         carts,
		sessions:      sessions,
		staleDetector: staleDetector,

		authHandler:       handlers.NewAuthHandler(sessions),
		onboardingHandler: handlers.NewOnboardingHandler(onboardingSvc, brandingGen, store.Queries, sessions, config.Upload.Dir),
		conceptsHandler:   handlers.NewConceptsHandler(store.Queries, aiClient),
		cartHandler:       handlers.NewCartHandler(carts, store.Queries, sessions),
		shopfrontHandler:  handlers.NewShopfrontHandler(store.Queries, config.BaseURL),
		paymentHandler: handlers.NewPaymentHandler(
			carts, store.Queries, sessions,
			config.BaseURL, config.Stripe.WebhookSecret,
			filepath.Join(config.Upload.Dir, "receipts"),
		),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	clerk.SetKey(s.config.Clerk.SecretKey)

	e.Static("/uploads", s.config.Upload.Dir)

	// Stripe calls the webhook directly; no session or auth middleware.
	e.POST("/api/stripe/webhook", s.paymentHandler.HandleWebhook)

	withAuth := e.Group("")
	withAuth.Use(middleware.ClerkAuth(s.sessions))

	// Session introspection and sign-out.
	withAuth.GET("/api/session", s.authHandler.HandleGetSession)
	withAuth.POST("/api/session/signout", s.authHandler.HandleSignOut)

	// Onboarding wizard; anonymous until launch.
	onboardingAPI := withAuth.Group("/api/onboarding")
	onboardingAPI.POST("/begin", s.onboardingHandler.HandleBegin)
	onboardingAPI.POST("/step", s.onboardingHandler.HandleSaveStep)
	onboardingAPI.GET("/restore", s.onboardingHandler.HandleRestore)
	onboardingAPI.POST("/branding", s.onboardingHandler.HandleGenerateBranding)
	onboardingAPI.POST("/complete", s.onboardingHandler.HandleComplete, middleware.RequireAuth())

	// Content concepts; owner-facing.
	conceptsAPI := withAuth.Group("/api/concepts", middleware.RequireAuth())
	conceptsAPI.POST("/generate", s.conceptsHandler.HandleGenerateConcepts)
	conceptsAPI.GET("/business/:businessId", s.conceptsHandler.HandleListConcepts)

	// Public shopfront.
	shops := withAuth.Group("/api/shops/:slug")
	shops.GET("", s.shopfrontHandler.HandleGetShop)
	shops.GET("/qr", s.shopfrontHandler.HandleShopQR)
	shops.PUT("/branding", s.shopfrontHandler.HandleUpdateBranding, middleware.RequireAuth())

	// Cart; works for guests and signed-in shoppers alike.
	shops.GET("/cart", s.cartHandler.HandleGetCart)
	shops.POST("/cart/items", s.cartHandler.HandleAddItem)
	shops.PUT("/cart/items", s.cartHandler.HandleUpdateQty)
	shops.DELETE("/cart/items/:productId", s.cartHandler.HandleRemoveItem)
	shops.POST("/cart/clear", s.cartHandler.HandleClearCart)
	shops.POST("/cart/merge", s.cartHandler.HandleMergeCart, middleware.RequireAuth())

	shops.POST("/checkout", s.paymentHandler.HandleCreateCheckout)

	e.GET("/health", s.handleHealth)
}

func (s *Service) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Shutdown stops background workers and drains in-flight cart mirror writes.
func (s *Service) Shutdown() {
	s.staleDetector.Stop()
	s.carts.Flush()
}
