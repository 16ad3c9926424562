package session

import (
	"encoding/gob"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	sessionName = "minutelaunch_session"
	userKey     = "user"
	anonKey     = "anon_id"
)

// Manager keeps two things in the cookie session: the signed-in user (if
// any) and a stable anonymous id. The anon id survives sign-in so the
// guest-cart merge and onboarding recovery can find the visitor's
// pre-authentication state.
type Manager struct {
	store sessions.Store
}

func NewManager(secret string) *Manager {
	gob.Register(&UserData{})

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days, long enough for a slow launch
		HttpOnly: true,
		Secure:   false, // true in production behind HTTPS
		SameSite: 2,     // Lax
	}

	return &Manager{store: store}
}

// AnonID returns the visitor's anonymous id, minting and saving one on
// first use.
func (m *Manager) AnonID(c echo.Context) (string, error) {
	session, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}

	if id, ok := session.Values[anonKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()
	session.Values[anonKey] = id
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}

// SetUser stores the signed-in user's data without touching the anon id.
func (m *Manager) SetUser(c echo.Context, user *UserData) error {
	session, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Values[userKey] = user
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetUser retrieves the signed-in user, or an error when anonymous.
func (m *Manager) GetUser(c echo.Context) (*UserData, error) {
	session, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	userData, ok := session.Values[userKey].(*UserData)
	if !ok || userData == nil {
		return nil, fmt.Errorf("no user data in session")
	}
	return userData, nil
}

// Destroy clears the whole session, anon id included.
func (m *Manager) Destroy(c echo.Context) error {
	session, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Options.MaxAge = -1
	delete(session.Values, userKey)
	delete(session.Values, anonKey)

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
