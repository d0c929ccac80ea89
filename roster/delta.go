package roster

// =============================================================================
// TIME DELTA CALCULATOR - Scheduled vs. actual wall-clock comparison
// =============================================================================

// TimeDelta holds the derived minute counts for one attendance record.
// Every field is a non-negative integer; there is no midnight rollover.
type TimeDelta struct {
	LateMinutes       int
	EarlyLeaveMinutes int
	OvertimeMinutes   int
	WorkedMinutes     int
}

// DeltaInput is the snapshot a delta is computed from. Stored values are
// upstream-precomputed fallbacks used when the corresponding actual
// timestamp is absent.
type DeltaInput struct {
	ScheduledStart ClockTime
	ScheduledEnd   ClockTime
	HasSchedule    bool // false for tracking-only records (no shift)

	ActualStart *ClockTime
	ActualEnd   *ClockTime

	BreakMinutes int

	StoredLate       *int
	StoredEarlyLeave *int
	StoredOvertime   *int
	StoredWorked     *int
}

// ComputeDelta derives lateness, early leave, overtime, and worked
// minutes. Pure: no suspension, no store access.
func ComputeDelta(in DeltaInput) TimeDelta {
	var d TimeDelta

	if in.ActualStart != nil && in.HasSchedule {
		d.LateMinutes = clampMinutes(in.ActualStart.Minutes() - in.ScheduledStart.Minutes())
	} else if in.StoredLate != nil {
		d.LateMinutes = clampMinutes(*in.StoredLate)
	}

	if in.ActualEnd != nil && in.HasSchedule {
		d.EarlyLeaveMinutes = clampMinutes(in.ScheduledEnd.Minutes() - in.ActualEnd.Minutes())
		d.OvertimeMinutes = clampMinutes(in.ActualEnd.Minutes() - in.ScheduledEnd.Minutes())
	} else {
		if in.StoredEarlyLeave != nil {
			d.EarlyLeaveMinutes = clampMinutes(*in.StoredEarlyLeave)
		}
		if in.StoredOvertime != nil {
			d.OvertimeMinutes = clampMinutes(*in.StoredOvertime)
		}
	}

	if in.ActualStart != nil && in.ActualEnd != nil {
		d.WorkedMinutes = clampMinutes(in.ActualEnd.Minutes() - in.ActualStart.Minutes() - in.BreakMinutes)
	} else if in.StoredWorked != nil {
		d.WorkedMinutes = clampMinutes(*in.StoredWorked)
	}

	return d
}

func clampMinutes(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
