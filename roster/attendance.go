/*
attendance.go - Reconciliation of planned shifts with tracked events

PURPOSE:
  Merges two independently-recorded event streams — Shifts (planned) and
  TimeTrackingRecords (actual check-ins/outs) — into a single unified
  attendance timeline, joined by the composite key (staff, calendar day).
  The result is an explicit tagged join: each output record states which
  stream(s) produced it.

GUARANTEES:
  - Every input shift yields exactly one AttendanceRecord.
  - Every tracking record with no matching shift yields exactly one
    AttendanceRecord (no recorded check-in is silently dropped).
  - Output ordering: all shift-derived records first, in input order,
    then orphan tracking records in input order. Nothing else.

STATUS MAPPING:
  The tracking store's internal vocabulary maps onto the unified one via
  a StatusMapping. The default mapping collapses both "late" and
  "pending_approval" into "absent". That collapse is inherited behavior
  with known ambiguity; it is preserved as the default rather than
  silently corrected, and callers needing different semantics supply
  their own mapping.

PURITY:
  Reconciliation is a read-only transform over an already-fetched
  snapshot. It never mutates its inputs and may run per staff/period in
  parallel with no locking.

SEE ALSO:
  - delta.go: Annotates reconciled records with minute deltas
  - penalty.go: Prices annotated records under the staff policy
*/
package roster

import (
	"fmt"
	"time"
)

// =============================================================================
// ATTENDANCE RECORD - Derived, never independently stored
// =============================================================================

// AttendanceRecord is the reconciled view of one (staff, date). Identity
// is inherited from whichever source produced it. Recomputed on every
// reconciliation read.
type AttendanceRecord struct {
	ID        string
	Source    RecordSource
	StaffID   StaffID
	StaffName string
	Date      Date

	// Scheduled boundaries; valid only when HasSchedule is true.
	ScheduledStart ClockTime
	ScheduledEnd   ClockTime
	HasSchedule    bool

	ActualStart *ClockTime
	ActualEnd   *ClockTime

	Status AttendanceStatus
	Notes  string

	// Annotations filled by the delta calculator and penalty engine.
	Delta TimeDelta
	Pay   PayLines
}

// =============================================================================
// STATUS MAPPING - Internal tracking vocabulary → unified vocabulary
// =============================================================================

type StatusMapping map[TrackingStatus]AttendanceStatus

// DefaultStatusMapping is the inherited mapping. Note the collapse of
// late and pending_approval into absent: a known ambiguity, kept as-is.
var DefaultStatusMapping = StatusMapping{
	TrackingScheduled:       AttendanceScheduled,
	TrackingCompleted:       AttendanceCheckedOut,
	TrackingInProgress:      AttendanceCheckedIn,
	TrackingLate:            AttendanceAbsent,
	TrackingPendingApproval: AttendanceAbsent,
}

func (m StatusMapping) unified(s TrackingStatus) AttendanceStatus {
	if u, ok := m[s]; ok {
		return u
	}
	return AttendanceScheduled
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler joins shift and tracking snapshots filtered to the same
// staff/date window.
type Reconciler struct {
	// Mapping overrides DefaultStatusMapping when non-nil.
	Mapping StatusMapping
}

func (r *Reconciler) mapping() StatusMapping {
	if r.Mapping != nil {
		return r.Mapping
	}
	return DefaultStatusMapping
}

type attendanceKey struct {
	StaffID StaffID
	Date    Date
}

// Reconcile produces the unified attendance view. Shift-derived records
// come first in input order, then tracking records with no matching
// shift. Delta and Pay annotations are left zero; see AttendanceService.
func (r *Reconciler) Reconcile(shifts []Shift, records []TimeTrackingRecord) []AttendanceRecord {
	byKey := make(map[attendanceKey]int, len(records))
	for i := range records {
		k := attendanceKey{StaffID: records[i].StaffID, Date: records[i].Date}
		if _, exists := byKey[k]; !exists {
			byKey[k] = i
		}
	}

	out := make([]AttendanceRecord, 0, len(shifts)+len(records))

	// A shift consumes at most one tracking record; merged marks the
	// consumed index so every remaining record still surfaces below.
	merged := make(map[int]bool, len(records))
	for i := range shifts {
		shift := &shifts[i]
		k := attendanceKey{StaffID: shift.StaffID, Date: shift.Date}

		if idx, ok := byKey[k]; ok && !merged[idx] {
			merged[idx] = true
			out = append(out, r.merge(shift, &records[idx]))
			continue
		}
		out = append(out, r.fromShift(shift))
	}

	// Unconsumed tracking records: an employee worked without a
	// pre-created shift, or a duplicate key slipped past the stores.
	// Appended so no recorded check-in is dropped.
	for i := range records {
		if merged[i] {
			continue
		}
		out = append(out, r.fromTracking(&records[i]))
	}

	return out
}

// merge unifies a shift with its tracking record: actuals come from the
// tracking side, the unified status from the mapping.
func (r *Reconciler) merge(shift *Shift, tr *TimeTrackingRecord) AttendanceRecord {
	return AttendanceRecord{
		ID:             string(tr.ID),
		Source:         SourceMerged,
		StaffID:        shift.StaffID,
		Date:           shift.Date,
		ScheduledStart: shift.ScheduledStart,
		ScheduledEnd:   shift.ScheduledEnd,
		HasSchedule:    true,
		ActualStart:    clockPtr(tr.ActualStart, shift.Date),
		ActualEnd:      clockPtr(tr.ActualEnd, shift.Date),
		Status:         r.mapping().unified(tr.Status),
		Notes:          tr.Notes,
	}
}

func (r *Reconciler) fromShift(shift *Shift) AttendanceRecord {
	status := AttendanceScheduled
	if shift.Status == ShiftNoShow {
		status = AttendanceNoShow
	}
	return AttendanceRecord{
		ID:             string(shift.ID),
		Source:         SourceShiftOnly,
		StaffID:        shift.StaffID,
		Date:           shift.Date,
		ScheduledStart: shift.ScheduledStart,
		ScheduledEnd:   shift.ScheduledEnd,
		HasSchedule:    true,
		Status:         status,
		Notes:          fmt.Sprintf("Shift: %s–%s", shift.ScheduledStart, shift.ScheduledEnd),
	}
}

func (r *Reconciler) fromTracking(tr *TimeTrackingRecord) AttendanceRecord {
	return AttendanceRecord{
		ID:          string(tr.ID),
		Source:      SourceTrackingOnly,
		StaffID:     tr.StaffID,
		Date:        tr.Date,
		ActualStart: clockPtr(tr.ActualStart, tr.Date),
		ActualEnd:   clockPtr(tr.ActualEnd, tr.Date),
		Status:      r.mapping().unified(tr.Status),
		Notes:       tr.Notes,
	}
}

// clockPtr projects a same-day timestamp onto the record's date as a
// minute-of-day. Timestamps from another day are still compared
// same-day: midnight crossing is unsupported by design.
func clockPtr(t *time.Time, _ Date) *ClockTime {
	if t == nil {
		return nil
	}
	c := ClockOf(*t)
	return &c
}
