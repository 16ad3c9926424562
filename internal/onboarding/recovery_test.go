package onboarding

import (
	"context"
	"testing"

	"github.com/minutelaunch/minutelaunch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return NewService(queries)
}

func TestRestoreExactTier(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Begin(ctx, "anon-1")
	require.NoError(t, err)

	session.Step = "branding"
	session.Payload["idea"] = "hand-poured candles"
	require.NoError(t, svc.Save(ctx, session))

	restored, tier, err := svc.Restore(ctx, session.ID, "anon-1", "")
	require.NoError(t, err)
	assert.Equal(t, TierExact, tier)
	assert.Equal(t, "branding", restored.Step)
	assert.Equal(t, "hand-poured candles", restored.Payload["idea"])
}

func TestRestoreFallsBackToAnonTier(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Begin(ctx, "anon-1")
	require.NoError(t, err)

	// Client lost its session id (cleared storage) but kept its anon cookie.
	restored, tier, err := svc.Restore(ctx, "gone-session-id", "anon-1", "")
	require.NoError(t, err)
	assert.Equal(t, TierAnon, tier)
	assert.Equal(t, session.ID, restored.ID)
}

func TestRestoreFallsBackToUserTier(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Begin(ctx, "anon-on-laptop")
	require.NoError(t, err)
	require.NoError(t, svc.Claim(ctx, session.ID, "user-1"))

	// New device: no session id, different anon id, but signed in.
	restored, tier, err := svc.Restore(ctx, "", "anon-on-phone", "user-1")
	require.NoError(t, err)
	assert.Equal(t, TierUser, tier)
	assert.Equal(t, session.ID, restored.ID)
}

func TestRestoreNothingToRestore(t *testing.T) {
	svc := newTestService(t)

	restored, tier, err := svc.Restore(context.Background(), "", "anon-unknown", "user-unknown")
	require.NoError(t, err)
	assert.Nil(t, restored)
	assert.Equal(t, TierNone, tier)
}

func TestCompletedSessionsAreNotRestored(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Begin(ctx, "anon-1")
	require.NoError(t, err)
	session.Completed = true
	require.NoError(t, svc.Save(ctx, session))

	restored, tier, err := svc.Restore(ctx, session.ID, "anon-1", "")
	require.NoError(t, err)
	assert.Nil(t, restored)
	assert.Equal(t, TierNone, tier)
}
