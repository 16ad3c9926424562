// Package onboarding persists wizard progress and restores abandoned
// sessions. A visitor can close the tab mid-wizard and pick up where they
// left off, from the same browser or after signing in elsewhere.
package onboarding

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minutelaunch/minutelaunch/storage/db"
)

// RecoveryTier records which lookup found the restored session. The tiers
// are tried in order from most to least specific.
type RecoveryTier string

const (
	TierExact RecoveryTier = "exact"   // session id from the client
	TierAnon  RecoveryTier = "anon"    // latest incomplete for this browser
	TierUser  RecoveryTier = "user"    // latest incomplete for this account
	TierNone  RecoveryTier = "none"
)

type Session struct {
	ID         string         `json:"id"`
	AnonID     string         `json:"anon_id"`
	UserID     string         `json:"user_id,omitempty"`
	BusinessID string         `json:"business_id,omitempty"`
	Step       string         `json:"step"`
	Payload    map[string]any `json:"payload"`
	Completed  bool           `json:"completed"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type Service struct {
	queries *db.Queries
}

func NewService(queries *db.Queries) *Service {
	return &Service{queries: queries}
}

// Begin creates a new wizard session for an anonymous visitor.
func (s *Service) Begin(ctx context.Context, anonID string) (*Session, error) {
	session := &Session{
		ID:      uuid.New().String(),
		AnonID:  anonID,
		Step:    "idea",
		Payload: map[string]any{},
	}
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Save upserts the full session state. Called after every wizard step.
func (s *Service) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	completed := int64(0)
	if session.Completed {
		completed = 1
	}

	err = s.queries.UpsertOnboardingSession(ctx, db.UpsertOnboardingSessionParams{
		ID:         session.ID,
		AnonID:     session.AnonID,
		UserID:     sql.NullString{String: session.UserID, Valid: session.UserID != ""},
		BusinessID: sql.NullString{String: session.BusinessID, Valid: session.BusinessID != ""},
		Step:       session.Step,
		Payload:    string(payload),
		Completed:  completed,
	})
	if err != nil {
		return fmt.Errorf("upsert onboarding session: %w", err)
	}
	return nil
}

// Restore finds the best session to resume, trying each tier in order:
// the exact session id the client still has, then the latest incomplete
// session for this anonymous browser id, then the latest incomplete
// session for the signed-in user. Returns (nil, TierNone, nil) when there
// is nothing to restore; that's a fresh start, not an error.
func (s *Service) Restore(ctx context.Context, sessionID, anonID, userID string) (*Session, RecoveryTier, error) {
	if sessionID != "" {
		row, err := s.queries.GetOnboardingSession(ctx, sessionID)
		switch {
		case err == nil && row.Completed == 0:
			return fromRow(row), TierExact, nil
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return nil, TierNone, fmt.Errorf("load session by id: %w", err)
		}
	}

	if anonID != "" {
		row, err := s.queries.GetLatestOnboardingByAnon(ctx, anonID)
		switch {
		case err == nil:
			return fromRow(row), TierAnon, nil
		case !errors.Is(err, sql.ErrNoRows):
			return nil, TierNone, fmt.Errorf("load session by anon id: %w", err)
		}
	}

	if userID != "" {
		row, err := s.queries.GetLatestIncompleteByUser(ctx, userID)
		switch {
		case err == nil:
			return fromRow(row), TierUser, nil
		case !errors.Is(err, sql.ErrNoRows):
			return nil, TierNone, fmt.Errorf("load session by user id: %w", err)
		}
	}

	return nil, TierNone, nil
}

// Claim attaches a signed-in user to a session started anonymously, so the
// user-tier lookup can find it from other devices.
func (s *Service) Claim(ctx context.Context, sessionID, userID string) error {
	if err := s.queries.ClaimOnboardingForUser(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("claim onboarding session: %w", err)
	}
	return nil
}

func fromRow(row db.OnboardingSession) *Session {
	session := &Session{
		ID:         row.ID,
		AnonID:     row.AnonID,
		UserID:     row.UserID.String,
		BusinessID: row.BusinessID.String,
		Step:       row.Step,
		Payload:    map[string]any{},
		Completed:  row.Completed != 0,
		UpdatedAt:  row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Payload), &session.Payload); err != nil {
		// A corrupt payload loses the step data but not the session.
		session.Payload = map[string]any{}
	}
	return session
}
