/*
scheduler.go - Shift creation and idempotent bulk generation

PURPOSE:
  Creates individual shifts and bulk-generates a recurring
  5-day-on/2-day-off schedule over a date range without duplication.

IDEMPOTENCE MODEL:
  BulkGenerate takes ONE snapshot of existing shifts for the range before
  starting and also tracks the (staff, date) pairs it created during the
  run. Both checks are optimizations: the store's uniqueness constraint
  on (staffID, date) is the actual safety mechanism, and its rejection
  (*DuplicateShiftError) is treated as expected — the day is counted as
  already scheduled and the batch continues. Re-running the same range
  for the same staff therefore produces no additional shifts.

FAILURE MODEL:
  A duplicate is swallowed and counted. Any other per-item failure is
  logged and counted; the batch never aborts early. The caller receives
  counts, not exceptions.

SEE ALSO:
  - store.go: The store-level uniqueness contract
  - shift.go: Validation and the shift state machine
*/
package roster

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// SHIFT SCHEDULER
// =============================================================================

type ShiftScheduler struct {
	Shifts ShiftStore
	Log    zerolog.Logger

	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time
}

func NewShiftScheduler(shifts ShiftStore, log zerolog.Logger) *ShiftScheduler {
	return &ShiftScheduler{Shifts: shifts, Log: log, Now: time.Now}
}

func (s *ShiftScheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// =============================================================================
// SINGLE CREATE
// =============================================================================

// CreateShiftInput carries the fields for one explicit shift creation.
type CreateShiftInput struct {
	StaffID            StaffID
	Date               Date
	Start              ClockTime
	End                ClockTime
	AlternativeStaffID StaffID
	Notes              string
}

// CreateShift validates and persists a single shift. Validation failures
// and duplicate (staff, date) collisions are surfaced to the caller.
func (s *ShiftScheduler) CreateShift(ctx context.Context, in CreateShiftInput) (*Shift, error) {
	now := s.now()
	shift := &Shift{
		ID:                 ShiftID(uuid.NewString()),
		StaffID:            in.StaffID,
		Date:               in.Date,
		ScheduledStart:     in.Start,
		ScheduledEnd:       in.End,
		Status:             ShiftScheduled,
		AlternativeStaffID: in.AlternativeStaffID,
		Notes:              in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := shift.Validate(); err != nil {
		return nil, err
	}

	// Best-effort duplicate check before the write; the store constraint
	// is what actually guarantees uniqueness.
	existing, err := s.Shifts.ListShifts(ctx, ShiftFilter{StaffID: in.StaffID, From: in.Date, To: in.Date})
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].IsActive() {
			return nil, &DuplicateShiftError{StaffID: in.StaffID, Date: in.Date, ExistingID: existing[i].ID}
		}
	}

	if err := s.Shifts.CreateShift(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// =============================================================================
// BULK GENERATION
// =============================================================================

// BulkResult reports per-unit outcomes of a bulk generation run.
type BulkResult struct {
	Created int // shifts created in this run
	Skipped int // already scheduled (snapshot hit or duplicate rejection)
	Failed  int // other per-item failures, logged and skipped
}

// BulkGenerate attempts one shift per staff member per Monday–Friday day
// in [max(from, today), to], using the template's boundaries. Sequential
// loop, one create per unit of work; never aborts early.
func (s *ShiftScheduler) BulkGenerate(ctx context.Context, staffIDs []StaffID, from, to Date, tpl ShiftTemplate) (BulkResult, error) {
	var result BulkResult

	start := MaxDate(from, DateOf(s.now()))
	if to.Before(start) {
		return result, nil
	}

	// One snapshot per invocation. Concurrent bulk runs over overlapping
	// ranges can both miss here; the store constraint resolves the race.
	snapshot := make(map[attendanceKey]bool)
	for _, staffID := range staffIDs {
		existing, err := s.Shifts.ListShifts(ctx, ShiftFilter{StaffID: staffID, From: start, To: to})
		if err != nil {
			return result, err
		}
		for i := range existing {
			if existing[i].IsActive() {
				snapshot[attendanceKey{StaffID: staffID, Date: existing[i].Date}] = true
			}
		}
	}

	createdThisRun := make(map[attendanceKey]bool)

	for _, staffID := range staffIDs {
		for day := start; day.BeforeOrEqual(to); day = day.AddDays(1) {
			if !day.IsWorkday() {
				continue
			}
			k := attendanceKey{StaffID: staffID, Date: day}
			if snapshot[k] || createdThisRun[k] {
				result.Skipped++
				continue
			}

			_, err := s.CreateShift(ctx, CreateShiftInput{
				StaffID: staffID,
				Date:    day,
				Start:   tpl.Start,
				End:     tpl.End,
				Notes:   tpl.Notes,
			})
			switch {
			case err == nil:
				createdThisRun[k] = true
				result.Created++
			case IsConflict(err):
				// Already scheduled: expected, not exceptional.
				createdThisRun[k] = true
				result.Skipped++
			default:
				result.Failed++
				s.Log.Warn().
					Err(err).
					Str("staff_id", string(staffID)).
					Str("date", day.String()).
					Msg("bulk generation: shift skipped")
			}
		}
	}

	s.Log.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Str("from", start.String()).
		Str("to", to.String()).
		Msg("bulk generation finished")

	return result, nil
}
