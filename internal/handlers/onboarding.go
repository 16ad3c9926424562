package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/branding"
	"github.com/minutelaunch/minutelaunch/internal/middleware"
	"github.com/minutelaunch/minutelaunch/internal/onboarding"
	"github.com/minutelaunch/minutelaunch/internal/session"
	"github.com/minutelaunch/minutelaunch/storage/db"
)

type OnboardingHandler struct {
	onboarding *onboarding.Service
	branding   *branding.Generator
	queries    *db.Queries
	sessions   *session.Manager
	uploadDir  string
}

func NewOnboardingHandler(svc *onboarding.Service, gen *branding.Generator, queries *db.Queries, sessions *session.Manager, uploadDir string) *OnboardingHandler {
	return &OnboardingHandler{
		onboarding: svc,
		branding:   gen,
		queries:    queries,
		sessions:   sessions,
		uploadDir:  uploadDir,
	}
}

// HandleBegin starts a fresh wizard session for this browser.
func (h *OnboardingHandler) HandleBegin(c echo.Context) error {
	anonID, err := h.sessions.AnonID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	sess, err := h.onboarding.Begin(c.Request().Context(), anonID)
	if err != nil {
		slog.Error("failed to begin onboarding", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start onboarding")
	}
	return c.JSON(http.StatusOK, sess)
}

type SaveStepRequest struct {
	SessionID string         `json:"session_id"`
	Step      string         `json:"step"`
	Payload   map[string]any `json:"payload"`
}

// HandleSaveStep persists wizard progress after each step so an abandoned
// session can be resumed later.
func (h *OnboardingHandler) HandleSaveStep(c echo.Context) error {
	ctx := c.Request().Context()

	var req SaveStepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SessionID == "" || req.Step == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id and step are required")
	}

	anonID, err := h.sessions.AnonID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	sess, tier, err := h.onboarding.Restore(ctx, req.SessionID, "", "")
	if err != nil || tier == onboarding.TierNone {
		return echo.NewHTTPError(http.StatusNotFound, "onboarding session not found")
	}
	userID := middleware.AuthenticatedUserID(c)
	ownedByUser := userID != "" && sess.UserID == userID
	if sess.AnonID != anonID && !ownedByUser {
		return echo.NewHTTPError(http.StatusForbidden, "not your onboarding session")
	}

	sess.Step = req.Step
	if req.Payload != nil {
		for k, v := range req.Payload {
			sess.Payload[k] = v
		}
	}

	if err := h.onboarding.Save(ctx, sess); err != nil {
		slog.Error("failed to save onboarding step", "error", err, "session_id", sess.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save progress")
	}
	return c.JSON(http.StatusOK, sess)
}

// HandleRestore finds the best session to resume for this visitor. The
// client may send the session id it still has; otherwise the anon id and,
// when signed in, the user id are tried in turn.
func (h *OnboardingHandler) HandleRestore(c echo.Context) error {
	anonID, err := h.sessions.AnonID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	sessionID := c.QueryParam("session_id")
	userID := middleware.AuthenticatedUserID(c)

	sess, tier, err := h.onboarding.Restore(c.Request().Context(), sessionID, anonID, userID)
	if err != nil {
		slog.Error("onboarding restore failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "restore failed")
	}
	if tier == onboarding.TierNone {
		return c.JSON(http.StatusOK, map[string]any{"session": nil, "tier": tier})
	}

	// A signed-in user resuming an anonymous session claims it so other
	// devices can find it too.
	if userID != "" && sess.UserID == "" {
		if err := h.onboarding.Claim(c.Request().Context(), sess.ID, userID); err != nil {
			slog.Warn("failed to claim onboarding session", "error", err, "session_id", sess.ID)
		} else {
			sess.UserID = userID
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"session": sess, "tier": tier})
}

type GenerateBrandingRequest struct {
	SessionID string `json:"session_id"`
	Idea      string `json:"idea"`
}

// HandleGenerateBranding produces a starter brand kit from the idea the
// wizard collected, renders a placeholder logo, and stores both on the
// session payload.
func (h *OnboardingHandler) HandleGenerateBranding(c echo.Context) error {
	ctx := c.Request().Context()

	var req GenerateBrandingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Idea == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "idea is required")
	}

	kit, err := h.branding.GenerateKit(ctx, req.Idea)
	if err != nil {
		slog.Error("branding generation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "branding generation failed")
	}

	logoPath := filepath.Join(h.uploadDir, "logos", slugify(kit.Name)+".png")
	if err := branding.RenderLogo(kit.Name, logoPath); err != nil {
		// A missing logo is cosmetic; the kit still ships.
		slog.Warn("logo render failed", "error", err, "name", kit.Name)
	} else {
		kit.LogoURL = "/uploads/logos/" + filepath.Base(logoPath)
	}

	if req.SessionID != "" {
		if sess, tier, err := h.onboarding.Restore(ctx, req.SessionID, "", ""); err == nil && tier == onboarding.TierExact {
			sess.Payload["branding"] = kit
			if err := h.onboarding.Save(ctx, sess); err != nil {
				slog.Warn("failed to save branding to session", "error", err, "session_id", sess.ID)
			}
		}
	}

	return c.JSON(http.StatusOK, kit)
}

type CompleteRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Tagline   string `json:"tagline"`
	Bio       string `json:"bio"`
	LogoURL   string `json:"logo_url"`
}

// HandleComplete turns a finished wizard session into a live business and
// marks the session done. Requires sign-in: anonymous visitors finish the
// wizard but authenticate before launch.
func (h *OnboardingHandler) HandleComplete(c echo.Context) error {
	ctx := c.Request().Context()

	userID := middleware.AuthenticatedUserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "sign in to launch your shop")
	}

	var req CompleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SessionID == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id and name are required")
	}

	sess, tier, err := h.onboarding.Restore(ctx, req.SessionID, "", "")
	if err != nil || tier == onboarding.TierNone {
		return echo.NewHTTPError(http.StatusNotFound, "onboarding session not found")
	}

	businessID := uuid.New().String()
	err = h.queries.CreateBusiness(ctx, db.CreateBusinessParams{
		ID:          businessID,
		OwnerUserID: userID,
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Tagline:     req.Tagline,
		Bio:         req.Bio,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		slog.Error("failed to create business", "error", err, "name", req.Name)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create business")
	}

	sess.UserID = userID
	sess.BusinessID = businessID
	sess.Completed = true
	sess.Step = "done"
	if err := h.onboarding.Save(ctx, sess); err != nil {
		slog.Warn("failed to mark onboarding complete", "error", err, "session_id", sess.ID)
	}

	slog.Info("business launched", "business_id", businessID, "user_id", userID)
	return c.JSON(http.StatusCreated, map[string]any{
		"business_id": businessID,
		"slug":        slugify(req.Name),
	})
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
