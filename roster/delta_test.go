package roster_test

import (
	"testing"
	"time"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func clock(hour, minute int) roster.ClockTime {
	return roster.NewClock(hour, minute)
}

func clockP(hour, minute int) *roster.ClockTime {
	c := roster.NewClock(hour, minute)
	return &c
}

func day(year int, month time.Month, d int) roster.Date {
	return roster.NewDate(year, month, d)
}

func intP(n int) *int { return &n }

// =============================================================================
// DELTA CALCULATOR TESTS
// =============================================================================

func TestComputeDelta_LateArrival(t *testing.T) {
	// GIVEN: Shift 08:00-17:00, arrival at 08:20
	// WHEN: Computing the delta
	// THEN: 20 late minutes, no early leave

	d := roster.ComputeDelta(roster.DeltaInput{
		ScheduledStart: clock(8, 0),
		ScheduledEnd:   clock(17, 0),
		HasSchedule:    true,
		ActualStart:    clockP(8, 20),
		ActualEnd:      clockP(17, 0),
	})

	if d.LateMinutes != 20 {
		t.Errorf("expected 20 late minutes, got %d", d.LateMinutes)
	}
	if d.EarlyLeaveMinutes != 0 {
		t.Errorf("expected 0 early leave minutes, got %d", d.EarlyLeaveMinutes)
	}
}

func TestComputeDelta_EarlyArrivalClampsToZero(t *testing.T) {
	// GIVEN: Arrival 30 minutes before the scheduled start
	// WHEN: Computing the delta
	// THEN: Lateness is clamped to zero, never negative

	d := roster.ComputeDelta(roster.DeltaInput{
		ScheduledStart: clock(8, 0),
		ScheduledEnd:   clock(17, 0),
		HasSchedule:    true,
		ActualStart:    clockP(7, 30),
		ActualEnd:      clockP(17, 0),
	})

	if d.LateMinutes != 0 {
		t.Errorf("expected 0 late minutes for early arrival, got %d", d.LateMinutes)
	}
}

func TestComputeDelta_EarlyLeaveAndOvertimeAreExclusive(t *testing.T) {
	// GIVEN: Departure 45 minutes past the scheduled end
	// WHEN: Computing the delta
	// THEN: Overtime counts, early leave stays zero

	d := roster.ComputeDelta(roster.DeltaInput{
		ScheduledStart: clock(8, 0),
		ScheduledEnd:   clock(17, 0),
		HasSchedule:    true,
		ActualStart:    clockP(8, 0),
		ActualEnd:      clockP(17, 45),
	})

	if d.OvertimeMinutes != 45 {
		t.Errorf("expected 45 overtime minutes, got %d", d.OvertimeMinutes)
	}
	if d.EarlyLeaveMinutes != 0 {
		t.Errorf("expected 0 early leave minutes, got %d", d.EarlyLeaveMinutes)
	}
}

func TestComputeDelta_BreakSubtractedFromWorked(t *testing.T) {
	// GIVEN: 08:00-17:00 actuals with a 60-minute break
	// WHEN: Computing the delta
	// THEN: Worked minutes are 540 - 60 = 480

	d := roster.ComputeDelta(roster.DeltaInput{
		ScheduledStart: clock(8, 0),
		ScheduledEnd:   clock(17, 0),
		HasSchedule:    true,
		ActualStart:    clockP(8, 0),
		ActualEnd:      clockP(17, 0),
		BreakMinutes:   60,
	})

	if d.WorkedMinutes != 480 {
		t.Errorf("expected 480 worked minutes, got %d", d.WorkedMinutes)
	}
}

func TestComputeDelta_StoredValuesUsedWithoutActuals(t *testing.T) {
	// GIVEN: No actual timestamps, but upstream-precomputed minutes
	// WHEN: Computing the delta
	// THEN: Stored values are taken as-is

	d := roster.ComputeDelta(roster.DeltaInput{
		HasSchedule:      false,
		StoredLate:       intP(15),
		StoredEarlyLeave: intP(5),
		StoredOvertime:   intP(30),
		StoredWorked:     intP(420),
	})

	if d.LateMinutes != 15 || d.EarlyLeaveMinutes != 5 || d.OvertimeMinutes != 30 || d.WorkedMinutes != 420 {
		t.Errorf("stored values not carried through: %+v", d)
	}
}

func TestComputeDelta_NoScheduleNoLateness(t *testing.T) {
	// GIVEN: A tracking-only record (no shift) with actual timestamps
	// WHEN: Computing the delta
	// THEN: No lateness or early leave against a schedule that does not exist

	d := roster.ComputeDelta(roster.DeltaInput{
		HasSchedule: false,
		ActualStart: clockP(10, 0),
		ActualEnd:   clockP(15, 0),
	})

	if d.LateMinutes != 0 || d.EarlyLeaveMinutes != 0 {
		t.Errorf("expected no schedule deltas, got %+v", d)
	}
	if d.WorkedMinutes != 300 {
		t.Errorf("expected 300 worked minutes, got %d", d.WorkedMinutes)
	}
}
