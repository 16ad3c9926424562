package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/session"
)

// Context keys for auth data.
const (
	UserIDKey          = "auth_user_id"
	UserEmailKey       = "auth_user_email"
	IsAuthenticatedKey = "is_authenticated"
)

// ClerkAuth validates the Clerk session cookie and, when valid, puts the
// user's id and email on the Echo context. The verified profile is cached
// in the cookie session so repeat requests skip the Clerk API round trip.
// Requests without a valid session continue as unauthenticated; handlers
// that need auth use RequireAuth.
func ClerkAuth(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			token := extractSessionToken(c.Request())
			if token == "" {
				c.Set(IsAuthenticatedKey, false)
				return next(c)
			}

			c.Request().Header.Set("Authorization", "Bearer "+token)

			// Clerk's verification is written as net/http middleware; run the
			// request through it and collect the result over a channel.
			done := make(chan error, 1)
			verify := clerkhttp.WithHeaderAuthorization()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := clerk.SessionClaimsFromContext(r.Context())
				if !ok || claims == nil {
					done <- fmt.Errorf("invalid session")
					return
				}

				profile, err := sessions.GetUser(c)
				if err != nil || profile.ID != claims.Subject {
					clerkUser, err := user.Get(r.Context(), claims.Subject)
					if err != nil {
						done <- fmt.Errorf("fetch clerk user: %w", err)
						return
					}
					profile = userData(clerkUser)
					if err := sessions.SetUser(c, profile); err != nil {
						// Cache miss next time, nothing else lost.
						slog.Warn("failed to cache user in session", "error", err, "user_id", profile.ID)
					}
				}

				c.Set(UserIDKey, profile.ID)
				c.Set(UserEmailKey, profile.Email)
				c.Set(IsAuthenticatedKey, true)
				done <- nil
			})

			verify(handler).ServeHTTP(c.Response(), c.Request())

			if err := <-done; err != nil {
				slog.Warn("authentication failed", "error", err, "path", path)
				c.Set(IsAuthenticatedKey, false)
			}
			return next(c)
		}
	}
}

// RequireAuth rejects unauthenticated requests with 401. API-shaped: no
// login redirect, the frontend owns that.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isAuth, _ := c.Get(IsAuthenticatedKey).(bool); !isAuth {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// AuthenticatedUserID returns the signed-in user's id, or "".
func AuthenticatedUserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

func extractSessionToken(r *http.Request) string {
	if cookie, err := r.Cookie("__session"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func userData(u *clerk.User) *session.UserData {
	data := &session.UserData{
		ID:        u.ID,
		Email:     primaryEmail(u),
		FirstName: deref(u.FirstName),
		LastName:  deref(u.LastName),
		ImageURL:  deref(u.ImageURL),
		Username:  deref(u.Username),
		HasImage:  u.HasImage,
	}
	data.FullName = strings.TrimSpace(data.FirstName + " " + data.LastName)
	return data
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func primaryEmail(u *clerk.User) string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	if u.PrimaryEmailAddressID != nil {
		for _, email := range u.EmailAddresses {
			if email.ID == *u.PrimaryEmailAddressID {
				return email.EmailAddress
			}
		}
	}
	return u.EmailAddresses[0].EmailAddress
}
