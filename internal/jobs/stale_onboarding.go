package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/minutelaunch/minutelaunch/storage"
)

const (
	// StaleThreshold is how long an incomplete wizard session can sit idle
	// before we flag it for a recovery prompt.
	StaleThreshold = 30 * time.Minute

	// DetectionInterval is how often the detector scans.
	DetectionInterval = 5 * time.Minute
)

// StaleOnboardingDetector flags abandoned wizard sessions so the recovery
// flow can nudge the visitor to finish. Flagging is observability plus a
// marker column; it never mutates the session payload itself.
type StaleOnboardingDetector struct {
	storage *storage.Storage
	ticker  *time.Ticker
	done    chan bool
}

func NewStaleOnboardingDetector(storage *storage.Storage) *StaleOnboardingDetector {
	return &StaleOnboardingDetector{
		storage: storage,
		done:    make(chan bool),
	}
}

// Start begins the background scan loop.
func (d *StaleOnboardingDetector) Start(ctx context.Context) {
	slog.Info("starting stale onboarding detector", "interval", DetectionInterval, "threshold", StaleThreshold)

	// Run immediately on start.
	d.detect(ctx)

	d.ticker = time.NewTicker(DetectionInterval)
	go func() {
		for {
			select {
			case <-d.ticker.C:
				d.detect(ctx)
			case <-d.done:
				slog.Info("stale onboarding detector stopped")
				return
			}
		}
	}()
}

// Stop stops the background job.
func (d *StaleOnboardingDetector) Stop() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
	close(d.done)
}

func (d *StaleOnboardingDetector) detect(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-StaleThreshold)

	sessions, err := d.storage.Queries.ListStaleOnboardingSessions(ctx, cutoff)
	if err != nil {
		slog.Error("failed to list stale onboarding sessions", "error", err)
		return
	}

	flagged := 0
	for _, session := range sessions {
		if err := d.storage.Queries.FlagOnboardingForRecovery(ctx, session.ID); err != nil {
			slog.Error("failed to flag onboarding session", "error", err, "session_id", session.ID)
			continue
		}
		flagged++
		slog.Info("flagged stale onboarding session",
			"session_id", session.ID,
			"step", session.Step,
			"idle_since", session.UpdatedAt,
		)
	}

	if flagged > 0 {
		slog.Info("stale onboarding scan complete", "scanned", len(sessions), "flagged", flagged)
	} else {
		slog.Debug("stale onboarding scan complete", "scanned", len(sessions))
	}
}
