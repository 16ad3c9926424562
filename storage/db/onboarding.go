package db

import (
	"context"
	"database/sql"
	"time"
)

const onboardingColumns = `id, anon_id, user_id, business_id, step, payload, completed, recovery_flagged_at, created_at, updated_at`

func scanOnboarding(scan func(...any) error) (OnboardingSession, error) {
	var s OnboardingSession
	err := scan(&s.ID, &s.AnonID, &s.UserID, &s.BusinessID, &s.Step, &s.Payload,
		&s.Completed, &s.RecoveryFlaggedAt, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

type UpsertOnboardingSessionParams struct {
	ID         string
	AnonID     string
	UserID     sql.NullString
	BusinessID sql.NullString
	Step       string
	Payload    string
	Completed  int64
}

func (q *Queries) UpsertOnboardingSession(ctx context.Context, arg UpsertOnboardingSessionParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO onboarding_sessions (id, anon_id, user_id, business_id, step, payload, completed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			business_id = excluded.business_id,
			step = excluded.step,
			payload = excluded.payload,
			completed = excluded.completed,
			updated_at = CURRENT_TIMESTAMP`,
		arg.ID, arg.AnonID, arg.UserID, arg.BusinessID, arg.Step, arg.Payload, arg.Completed,
	)
	return err
}

func (q *Queries) GetOnboardingSession(ctx context.Context, id string) (OnboardingSession, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+onboardingColumns+` FROM onboarding_sessions WHERE id = ?`, id)
	return scanOnboarding(row.Scan)
}

func (q *Queries) GetLatestOnboardingByAnon(ctx context.Context, anonID string) (OnboardingSession, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+onboardingColumns+` FROM onboarding_sessions
		WHERE anon_id = ? AND completed = 0
		ORDER BY updated_at DESC LIMIT 1`, anonID)
	return scanOnboarding(row.Scan)
}

func (q *Queries) GetLatestIncompleteByUser(ctx context.Context, userID string) (OnboardingSession, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+onboardingColumns+` FROM onboarding_sessions
		WHERE user_id = ? AND completed = 0
		ORDER BY updated_at DESC LIMIT 1`, userID)
	return scanOnboarding(row.Scan)
}

func (q *Queries) ListStaleOnboardingSessions(ctx context.Context, updatedBefore time.Time) ([]OnboardingSession, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+onboardingColumns+` FROM onboarding_sessions
		WHERE completed = 0 AND recovery_flagged_at IS NULL AND updated_at < ?`, updatedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []OnboardingSession
	for rows.Next() {
		s, err := scanOnboarding(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (q *Queries) FlagOnboardingForRecovery(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE onboarding_sessions SET recovery_flagged_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// ClaimOnboardingForUser attaches a signed-in user to a session that was
// started anonymously.
func (q *Queries) ClaimOnboardingForUser(ctx context.Context, id, userID string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE onboarding_sessions SET user_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, userID, id)
	return err
}
