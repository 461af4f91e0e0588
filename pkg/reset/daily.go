// Package reset drives the once-per-day rollover of collection statuses. The
// day of the last run lives in a persisted marker, so restarts within the
// same day never reset twice and a missed day is caught up at the next start.
// The check runs at process startup only; a long-lived process spanning
// midnight does not self-trigger.
package reset

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/benbjohnson/clock"
)

// Marker persists the day of the last automatic reset.
type Marker interface {
	LastResetDay(ctx context.Context) (string, error)
	SetLastResetDay(ctx context.Context, day string) error
}

// Resetter flips every collected household back to pending.
type Resetter interface {
	ResetAll(ctx context.Context) (int, error)
}

// Runner compares the current day against the marker and triggers the bulk
// reset at most once per calendar day.
type Runner struct {
	marker   Marker
	resetter Resetter
	clock    clock.Clock
	logger   ectologger.Logger
}

func NewRunner(marker Marker, resetter Resetter, clk clock.Clock, logger ectologger.Logger) *Runner {
	return &Runner{
		marker:   marker,
		resetter: resetter,
		clock:    clk,
		logger:   logger,
	}
}

// RunIfNewDay resets all households when the current local day differs from
// the marker. The marker only advances after the reset fully succeeds, so a
// failed reset is retried at the next start. It reports whether a reset ran.
func (r *Runner) RunIfNewDay(ctx context.Context) (bool, error) {
	today := r.clock.Now().Format(models.DayFormat)

	last, err := r.marker.LastResetDay(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read last reset day: %w", err)
	}
	if last == today {
		return false, nil
	}

	count, err := r.resetter.ResetAll(ctx)
	if err != nil {
		return false, fmt.Errorf("daily reset failed: %w", err)
	}

	if err := r.marker.SetLastResetDay(ctx, today); err != nil {
		return true, fmt.Errorf("reset ran but marker update failed: %w", err)
	}

	metrics.DailyResetsRun.Inc()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"day":   today,
		"reset": count,
	}).Info("daily reset completed")

	return true, nil
}
