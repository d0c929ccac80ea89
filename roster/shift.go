/*
shift.go - The planned work shift and its state machine

PURPOSE:
  A Shift is a planned work interval for one staff member on one calendar
  day, bounded by same-day wall-clock times. At most one non-cancelled
  shift may exist per (staff, date); the backing store enforces that with
  a uniqueness constraint and the scheduler treats its rejection as an
  expected, catchable error.

STATE MACHINE:
  scheduled --check-in--> in_progress --check-out--> completed
  scheduled/in_progress --cancel--> cancelled   (any time before completion)
  scheduled --day elapses, no check-in--> no_show

  No transition is defined out of completed, cancelled, or no_show.

SEE ALSO:
  - scheduler.go: Creates shifts (single and bulk)
  - attendance.go: Joins shifts with tracking records
*/
package roster

import "time"

// =============================================================================
// SHIFT ENTITY
// =============================================================================

type Shift struct {
	ID             ShiftID
	StaffID        StaffID
	Date           Date
	ScheduledStart ClockTime
	ScheduledEnd   ClockTime
	Status         ShiftStatus

	// AlternativeStaffID is an optional substitute covering this shift.
	AlternativeStaffID StaffID

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the creation invariants: staff, date, and a same-day
// start strictly before end. Overnight shifts are rejected here.
func (s *Shift) Validate() error {
	if s.StaffID == "" {
		return &ValidationError{Field: "staffId", Reason: "required"}
	}
	if s.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if s.ScheduledStart == s.ScheduledEnd {
		return &ValidationError{Field: "scheduledEnd", Reason: "must differ from scheduledStart"}
	}
	if s.ScheduledEnd.Before(s.ScheduledStart) {
		return &ValidationError{Field: "scheduledEnd", Reason: "must be after scheduledStart (overnight shifts unsupported)"}
	}
	return nil
}

// =============================================================================
// STATE MACHINE
// =============================================================================

// shiftTransitions lists every defined transition. Terminal states
// (completed, cancelled, no_show) have no outgoing edges.
var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftScheduled:  {ShiftInProgress, ShiftCancelled, ShiftNoShow},
	ShiftInProgress: {ShiftCompleted, ShiftCancelled},
}

// CanTransition reports whether the state machine defines from → to.
func CanTransition(from, to ShiftStatus) bool {
	for _, next := range shiftTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Shift) transition(to ShiftStatus, at time.Time) error {
	if !CanTransition(s.Status, to) {
		return ErrInvalidTransition
	}
	s.Status = to
	s.UpdatedAt = at
	return nil
}

// CheckIn moves a scheduled shift to in_progress.
func (s *Shift) CheckIn(at time.Time) error {
	return s.transition(ShiftInProgress, at)
}

// CheckOut moves an in-progress shift to completed.
func (s *Shift) CheckOut(at time.Time) error {
	return s.transition(ShiftCompleted, at)
}

// Cancel is allowed any time before completion.
func (s *Shift) Cancel(at time.Time) error {
	return s.transition(ShiftCancelled, at)
}

// MarkNoShow records that the day elapsed with no check-in.
func (s *Shift) MarkNoShow(at time.Time) error {
	return s.transition(ShiftNoShow, at)
}

// IsActive reports whether the shift still counts against the
// one-per-(staff, date) uniqueness invariant.
func (s *Shift) IsActive() bool {
	return s.Status != ShiftCancelled
}

// =============================================================================
// SHIFT TEMPLATE - Recurring-schedule input for bulk generation
// =============================================================================

// ShiftTemplate carries the wall-clock boundaries applied to every
// generated workday during bulk generation.
type ShiftTemplate struct {
	Start ClockTime
	End   ClockTime
	Notes string
}
