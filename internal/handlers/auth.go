package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/session"
)

type AuthHandler struct {
	sessions *session.Manager
}

func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// HandleGetSession reports who the current visitor is. Anonymous visitors
// get signed_in false rather than a 401 so the frontend can render either
// state from one call.
func (h *AuthHandler) HandleGetSession(c echo.Context) error {
	user, err := h.sessions.GetUser(c)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]any{"signed_in": false})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"signed_in": true,
		"user": map[string]any{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"image_url": user.ImageURL,
			"username":  user.Username,
		},
	})
}

// HandleSignOut drops the whole cookie session, cached profile and anon id
// alike. Clerk's own token lives in its own cookie; the frontend revokes
// that separately.
func (h *AuthHandler) HandleSignOut(c echo.Context) error {
	if err := h.sessions.Destroy(c); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear session")
	}
	return c.JSON(http.StatusOK, map[string]any{"signed_in": false})
}
