package handlers

import (
	"net/http"
	"testing"

	"github.com/minutelaunch/minutelaunch/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGetSessionAnonymous(t *testing.T) {
	h := NewAuthHandler(session.NewManager("test-secret"))

	c, rec := NewTestContext(http.MethodGet, "/api/session", nil)
	require.NoError(t, h.HandleGetSession(c))

	body, err := DecodeJSONResponse(rec)
	require.NoError(t, err)
	assert.Equal(t, false, body["signed_in"])
}

func TestHandleGetSessionSignedIn(t *testing.T) {
	sessions := session.NewManager("test-secret")
	h := NewAuthHandler(sessions)

	c, rec := NewTestContext(http.MethodGet, "/api/session", nil)
	require.NoError(t, sessions.SetUser(c, &session.UserData{
		ID:       "user_abc",
		Email:    "maker@example.com",
		FullName: "Maker One",
	}))

	require.NoError(t, h.HandleGetSession(c))
	body, err := DecodeJSONResponse(rec)
	require.NoError(t, err)
	assert.Equal(t, true, body["signed_in"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user_abc", user["id"])
	assert.Equal(t, "maker@example.com", user["email"])
}

func TestHandleSignOut(t *testing.T) {
	sessions := session.NewManager("test-secret")
	h := NewAuthHandler(sessions)

	c, rec := NewTestContext(http.MethodPost, "/api/session/signout", nil)
	require.NoError(t, sessions.SetUser(c, &session.UserData{ID: "user_abc"}))

	require.NoError(t, h.HandleSignOut(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := sessions.GetUser(c)
	assert.Error(t, err)
}
