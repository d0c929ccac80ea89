/*
service.go - Orchestration over stores and pure calculators

PURPOSE:
  AttendanceService and PayrollService are the engine's entry points for
  callers with a store: they fetch a snapshot, run the pure transforms
  (reconcile → delta → penalty → aggregate), and hand back derived
  records. A failed fetch fails the whole read — no partial results, no
  internal retry; retrying, if desired, is the caller's responsibility
  applied to the whole read.

CHECK-IN / CHECK-OUT:
  Check-in finds the staff member's shift for the day (if any),
  transitions it to in_progress, and creates or reopens the day's
  tracking record. Check-out closes the record, derives the stored delta
  minutes, and completes the shift. A supplied coordinate is validated
  against the institution geofence and the result ANNOTATES the record —
  it never blocks the operation.

SEE ALSO:
  - attendance.go: The reconciliation join
  - payroll.go: The period fold and virtual projection
*/
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// ATTENDANCE SERVICE
// =============================================================================

// GeofenceConfig locates the institution. Radius zero disables checks.
type GeofenceConfig struct {
	Reference    Coordinate
	RadiusMeters float64
}

func (g GeofenceConfig) enabled() bool { return g.RadiusMeters > 0 }

type AttendanceService struct {
	Shifts     ShiftStore
	Tracking   TrackingStore
	Staff      StaffDirectory
	Reconciler Reconciler
	Engine     PenaltyBonusEngine
	Geofence   GeofenceConfig
	Log        zerolog.Logger

	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *AttendanceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// AttendanceQuery bounds an attendance view read.
type AttendanceQuery struct {
	StaffID StaffID // empty = all staff
	From    Date
	To      Date
}

// AttendanceView fetches both event streams for the window, reconciles
// them, and annotates every record with minute deltas and money under
// the owning staff member's resolved policy.
func (s *AttendanceService) AttendanceView(ctx context.Context, q AttendanceQuery) ([]AttendanceRecord, error) {
	shifts, err := s.Shifts.ListShifts(ctx, ShiftFilter{
		StaffID: q.StaffID,
		From:    q.From,
		To:      q.To,
		Statuses: []ShiftStatus{
			ShiftScheduled, ShiftInProgress, ShiftCompleted, ShiftNoShow,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("attendance view: list shifts: %w", err)
	}

	records, err := s.Tracking.ListTracking(ctx, TrackingFilter{StaffID: q.StaffID, From: q.From, To: q.To})
	if err != nil {
		return nil, fmt.Errorf("attendance view: list tracking: %w", err)
	}

	staff, err := s.Staff.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("attendance view: list staff: %w", err)
	}
	byID := make(map[StaffID]*Staff, len(staff))
	for i := range staff {
		byID[staff[i].ID] = &staff[i]
	}

	out := s.Reconciler.Reconcile(shifts, records)
	for i := range out {
		s.annotate(&out[i], byID[out[i].StaffID], records)
	}
	return out, nil
}

// annotate fills StaffName, Delta, and Pay on one reconciled record.
func (s *AttendanceService) annotate(rec *AttendanceRecord, member *Staff, records []TimeTrackingRecord) {
	in := DeltaInput{
		ScheduledStart: rec.ScheduledStart,
		ScheduledEnd:   rec.ScheduledEnd,
		HasSchedule:    rec.HasSchedule,
		ActualStart:    rec.ActualStart,
		ActualEnd:      rec.ActualEnd,
	}

	// Upstream-precomputed minutes from the tracking side, if any.
	for i := range records {
		if string(records[i].ID) == rec.ID || (records[i].StaffID == rec.StaffID && records[i].Date.Equal(rec.Date)) {
			in.StoredLate = records[i].LateMinutes
			in.StoredEarlyLeave = records[i].EarlyLeaveMinutes
			in.StoredOvertime = records[i].OvertimeMinutes
			in.StoredWorked = records[i].WorkDuration
			break
		}
	}

	var policy PayrollPolicy
	if member != nil {
		rec.StaffName = member.FullName
		resolved, err := ResolvePolicy(member.ID, member.Policy)
		if err != nil {
			s.Log.Debug().Err(err).Str("staff_id", string(member.ID)).Msg("policy defaults applied")
		}
		policy = resolved
		in.BreakMinutes = policy.BreakMinutes
	}

	rec.Delta = ComputeDelta(in)
	rec.Pay = s.Engine.Assess(policy, rec.Delta, rec.Status, policy.ProratedDailyBase(PeriodOf(rec.Date)))
}

// =============================================================================
// CHECK-IN / CHECK-OUT
// =============================================================================

// CheckResult reports the outcome of a check-in or check-out.
type CheckResult struct {
	Shift    *Shift // nil when the staff member worked without a shift
	Record   *TimeTrackingRecord
	Geofence *GeofenceCheck // nil when no coordinate was supplied
}

// CheckIn records an arrival. Creates the day's tracking record (or sets
// the start on an existing one) and moves a scheduled shift to
// in_progress. Working without a pre-created shift is allowed.
func (s *AttendanceService) CheckIn(ctx context.Context, staffID StaffID, coord *Coordinate) (*CheckResult, error) {
	member, err := s.Staff.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, &NotFoundError{Kind: "staff", ID: string(staffID)}
	}

	now := s.now().UTC()
	day := DateOf(now)
	result := &CheckResult{Geofence: s.checkGeofence(coord)}

	shift, err := s.activeShift(ctx, staffID, day)
	if err != nil {
		return nil, err
	}
	if shift != nil && shift.Status == ShiftScheduled {
		if err := shift.CheckIn(now); err != nil {
			return nil, err
		}
		if err := s.Shifts.UpdateShift(ctx, shift); err != nil {
			return nil, err
		}
	}
	result.Shift = shift

	record, err := s.dayTracking(ctx, staffID, day)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &TimeTrackingRecord{
			ID:        TrackingID(uuid.NewString()),
			StaffID:   staffID,
			Date:      day,
			CreatedAt: now,
		}
		s.fillCheckIn(record, shift, now, result.Geofence)
		if err := s.Tracking.CreateTracking(ctx, record); err != nil {
			return nil, err
		}
	} else if record.ActualStart == nil {
		s.fillCheckIn(record, shift, now, result.Geofence)
		if err := s.Tracking.UpdateTracking(ctx, record); err != nil {
			return nil, err
		}
	}
	result.Record = record

	return result, nil
}

func (s *AttendanceService) fillCheckIn(record *TimeTrackingRecord, shift *Shift, now time.Time, geo *GeofenceCheck) {
	record.ActualStart = &now
	record.Status = TrackingInProgress
	record.UpdatedAt = now
	if shift != nil {
		late := clampMinutes(ClockOf(now).Minutes() - shift.ScheduledStart.Minutes())
		record.LateMinutes = &late
	}
	record.Notes = appendGeofenceNote(record.Notes, "check-in", geo)
}

// CheckOut records a departure: closes the day's tracking record,
// derives the stored delta minutes, and completes the shift.
func (s *AttendanceService) CheckOut(ctx context.Context, staffID StaffID, coord *Coordinate) (*CheckResult, error) {
	member, err := s.Staff.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, &NotFoundError{Kind: "staff", ID: string(staffID)}
	}

	now := s.now().UTC()
	day := DateOf(now)
	result := &CheckResult{Geofence: s.checkGeofence(coord)}

	record, err := s.dayTracking(ctx, staffID, day)
	if err != nil {
		return nil, err
	}
	if record == nil || record.ActualStart == nil {
		return nil, &NotFoundError{Kind: "tracking", ID: fmt.Sprintf("%s@%s", staffID, day)}
	}

	shift, err := s.activeShift(ctx, staffID, day)
	if err != nil {
		return nil, err
	}
	if shift != nil && shift.Status == ShiftInProgress {
		if err := shift.CheckOut(now); err != nil {
			return nil, err
		}
		if err := s.Shifts.UpdateShift(ctx, shift); err != nil {
			return nil, err
		}
	}
	result.Shift = shift

	record.ActualEnd = &now
	record.Status = TrackingCompleted
	record.UpdatedAt = now
	s.storeDeltas(record, shift, member)
	record.Notes = appendGeofenceNote(record.Notes, "check-out", result.Geofence)
	if err := s.Tracking.UpdateTracking(ctx, record); err != nil {
		return nil, err
	}
	result.Record = record

	return result, nil
}

// storeDeltas precomputes the minute fields on the record at check-out
// so downstream readers need not re-derive them.
func (s *AttendanceService) storeDeltas(record *TimeTrackingRecord, shift *Shift, member *Staff) {
	policy, _ := ResolvePolicy(member.ID, member.Policy)

	in := DeltaInput{
		HasSchedule:  shift != nil,
		BreakMinutes: policy.BreakMinutes,
		StoredLate:   record.LateMinutes,
	}
	if shift != nil {
		in.ScheduledStart = shift.ScheduledStart
		in.ScheduledEnd = shift.ScheduledEnd
	}
	if record.ActualStart != nil {
		c := ClockOf(*record.ActualStart)
		in.ActualStart = &c
	}
	if record.ActualEnd != nil {
		c := ClockOf(*record.ActualEnd)
		in.ActualEnd = &c
	}

	delta := ComputeDelta(in)
	record.LateMinutes = &delta.LateMinutes
	record.EarlyLeaveMinutes = &delta.EarlyLeaveMinutes
	record.OvertimeMinutes = &delta.OvertimeMinutes
	record.WorkDuration = &delta.WorkedMinutes
}

func (s *AttendanceService) checkGeofence(coord *Coordinate) *GeofenceCheck {
	if coord == nil || !s.Geofence.enabled() {
		return nil
	}
	check := ValidateGeofence(s.Geofence.Reference, *coord, s.Geofence.RadiusMeters)
	return &check
}

func appendGeofenceNote(notes, action string, geo *GeofenceCheck) string {
	if geo == nil {
		return notes
	}
	zone := "in zone"
	if !geo.InZone {
		zone = "out of zone"
	}
	note := fmt.Sprintf("%s geofence: %.0fm of %.0fm radius (%s)", action, geo.DistanceMeters, geo.RadiusMeters, zone)
	if notes == "" {
		return note
	}
	return notes + "; " + note
}

func (s *AttendanceService) activeShift(ctx context.Context, staffID StaffID, day Date) (*Shift, error) {
	shifts, err := s.Shifts.ListShifts(ctx, ShiftFilter{StaffID: staffID, From: day, To: day})
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		if shifts[i].IsActive() {
			return &shifts[i], nil
		}
	}
	return nil, nil
}

func (s *AttendanceService) dayTracking(ctx context.Context, staffID StaffID, day Date) (*TimeTrackingRecord, error) {
	records, err := s.Tracking.ListTracking(ctx, TrackingFilter{StaffID: staffID, From: day, To: day})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// =============================================================================
// PAYROLL SERVICE
// =============================================================================

type PayrollService struct {
	Attendance *AttendanceService
	Payrolls   PayrollStore
	Fines      FineStore
	Staff      StaffDirectory
	Aggregator PayrollAggregator
	Log        zerolog.Logger

	Now func() time.Time
}

func (s *PayrollService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PayrollFor returns the persisted payroll for (staffID, period) when
// one exists, otherwise a virtual projection computed from reconciled
// attendance. Reading never persists anything.
func (s *PayrollService) PayrollFor(ctx context.Context, staffID StaffID, period Period) (*Payroll, error) {
	persisted, err := s.Payrolls.GetPayroll(ctx, staffID, period)
	if err != nil {
		return nil, err
	}
	if persisted != nil {
		return persisted, nil
	}
	return s.computeVirtual(ctx, staffID, period)
}

// PayrollForAll returns one payroll (persisted or virtual) per staff
// member for the period.
func (s *PayrollService) PayrollForAll(ctx context.Context, period Period) ([]Payroll, error) {
	staff, err := s.Staff.ListStaff(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Payroll, 0, len(staff))
	for _, member := range staff {
		p, err := s.PayrollFor(ctx, member.ID, period)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *PayrollService) computeVirtual(ctx context.Context, staffID StaffID, period Period) (*Payroll, error) {
	member, err := s.Staff.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, &NotFoundError{Kind: "staff", ID: string(staffID)}
	}

	records, err := s.Attendance.AttendanceView(ctx, AttendanceQuery{
		StaffID: staffID,
		From:    period.Start(),
		To:      period.End(),
	})
	if err != nil {
		return nil, err
	}

	fines, err := s.Fines.ListApprovedFines(ctx, staffID, period)
	if err != nil {
		return nil, err
	}

	policy, rerr := ResolvePolicy(member.ID, member.Policy)
	if rerr != nil {
		// Recovered locally: the view must render regardless.
		s.Log.Warn().Err(rerr).Str("staff_id", string(staffID)).Msg("payroll computed with policy defaults")
	}

	p := s.Aggregator.Aggregate(staffID, period, policy, records, fines)
	return &p, nil
}

// CommitPayroll turns the virtual projection for (staffID, period) into
// a persisted draft row. Explicit action — never triggered by a read.
// Idempotent: an already-persisted row is returned unchanged.
func (s *PayrollService) CommitPayroll(ctx context.Context, staffID StaffID, period Period) (*Payroll, error) {
	persisted, err := s.Payrolls.GetPayroll(ctx, staffID, period)
	if err != nil {
		return nil, err
	}
	if persisted != nil {
		return persisted, nil
	}

	virtual, err := s.computeVirtual(ctx, staffID, period)
	if err != nil {
		return nil, err
	}

	now := s.now()
	virtual.ID = PayrollID(uuid.NewString())
	virtual.CreatedAt = now
	virtual.UpdatedAt = now
	if err := s.Payrolls.SavePayroll(ctx, virtual); err != nil {
		return nil, err
	}
	return virtual, nil
}

// AdvanceStatus moves a persisted payroll forward (draft → approved →
// paid). Backward moves are rejected.
func (s *PayrollService) AdvanceStatus(ctx context.Context, staffID StaffID, period Period, to PayrollStatus) (*Payroll, error) {
	p, err := s.Payrolls.GetPayroll(ctx, staffID, period)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &NotFoundError{Kind: "payroll", ID: fmt.Sprintf("%s@%s", staffID, period)}
	}
	if err := p.AdvanceStatus(to, s.now()); err != nil {
		return nil, err
	}
	if err := s.Payrolls.UpdatePayroll(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
