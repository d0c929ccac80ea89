/*
sweeper.go - Automated no-show sweeper

PURPOSE:
  Periodically scans for scheduled shifts whose window has fully elapsed
  without a check-in and marks them no_show, so absence penalties can
  accrue without manual review.

DESIGN:
  - Runs a background goroutine with configurable sweep interval
  - Only touches shifts still in 'scheduled' past their end plus a grace
  - A shift in any other state (in_progress, completed, cancelled) is
    never swept

CONFIGURATION:
  - SweepInterval: How often to sweep (default: 30 minutes)
  - Grace: Time past scheduled end before a shift counts as missed
    (default: 1 hour)
  - Lookback: How many days back the scan reaches (default: 7)

USAGE:
  sweeper := NewNoShowSweeper(shifts, log)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - roster/shift.go: The shift state machine and MarkNoShow
  - roster/attendance.go: no_show flowing into the reconciled view
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/roster-engine/roster"
)

// NoShowSweeper marks elapsed, never-started shifts as no_show.
type NoShowSweeper struct {
	Shifts        roster.ShiftStore
	SweepInterval time.Duration
	Grace         time.Duration
	LookbackDays  int
	Log           zerolog.Logger

	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewNoShowSweeper creates a sweeper with default timings.
func NewNoShowSweeper(shifts roster.ShiftStore, log zerolog.Logger) *NoShowSweeper {
	return &NoShowSweeper{
		Shifts:        shifts,
		SweepInterval: 30 * time.Minute,
		Grace:         1 * time.Hour,
		LookbackDays:  7,
		Log:           log,
		stop:          make(chan bool),
	}
}

func (ns *NoShowSweeper) now() time.Time {
	if ns.Now != nil {
		return ns.Now()
	}
	return time.Now()
}

// Start begins the background sweep loop.
func (ns *NoShowSweeper) Start() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.ticker = time.NewTicker(ns.SweepInterval)
	ns.wg.Add(1)

	go ns.run()

	ns.Log.Info().Dur("interval", ns.SweepInterval).Msg("no-show sweeper started")
}

// Stop stops the sweeper and waits for an in-flight sweep to finish.
func (ns *NoShowSweeper) Stop() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if ns.ticker != nil {
		ns.ticker.Stop()
		close(ns.stop)
		ns.wg.Wait()
		ns.Log.Info().Msg("no-show sweeper stopped")
	}
}

func (ns *NoShowSweeper) run() {
	defer ns.wg.Done()

	// Sweep immediately on start
	ns.sweep()

	for {
		select {
		case <-ns.ticker.C:
			ns.sweep()
		case <-ns.stop:
			return
		}
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (ns *NoShowSweeper) RunNow() {
	ns.sweep()
}

func (ns *NoShowSweeper) sweep() {
	ctx := context.Background()
	now := ns.now().UTC()
	today := roster.DateOf(now)

	shifts, err := ns.Shifts.ListShifts(ctx, roster.ShiftFilter{
		From:     today.AddDays(-ns.LookbackDays),
		To:       today,
		Statuses: []roster.ShiftStatus{roster.ShiftScheduled},
	})
	if err != nil {
		ns.Log.Error().Err(err).Msg("no-show sweep: list shifts")
		return
	}

	swept := 0
	for i := range shifts {
		shift := &shifts[i]
		deadline := shift.Date.At(shift.ScheduledEnd).Add(ns.Grace)
		if now.Before(deadline) {
			continue
		}

		if err := shift.MarkNoShow(now); err != nil {
			// State changed between list and mark; leave it alone.
			continue
		}
		if err := ns.Shifts.UpdateShift(ctx, shift); err != nil {
			ns.Log.Warn().
				Err(err).
				Str("shift_id", string(shift.ID)).
				Msg("no-show sweep: update failed")
			continue
		}
		swept++
	}

	if swept > 0 {
		ns.Log.Info().Int("swept", swept).Msg("no-show sweep completed")
	}
}
