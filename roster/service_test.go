package roster_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/roster/store"
)

// =============================================================================
// TEST FIXTURE
// =============================================================================

type fixture struct {
	mem        *store.Memory
	attendance *roster.AttendanceService
	payroll    *roster.PayrollService
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	f := &fixture{
		mem: mem,
		now: time.Date(2026, time.March, 2, 8, 20, 0, 0, time.UTC),
	}
	f.attendance = &roster.AttendanceService{
		Shifts:   mem,
		Tracking: mem,
		Staff:    mem,
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return f.now },
	}
	f.payroll = &roster.PayrollService{
		Attendance: f.attendance,
		Payrolls:   mem,
		Fines:      mem,
		Staff:      mem,
		Log:        zerolog.Nop(),
		Now:        func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) saveStaff(t *testing.T, id string, policy roster.PayrollPolicy) {
	t.Helper()
	if err := f.mem.SaveStaff(context.Background(), roster.Staff{
		ID: roster.StaffID(id), FullName: id, Policy: policy,
	}); err != nil {
		t.Fatalf("save staff: %v", err)
	}
}

func (f *fixture) scheduleShift(t *testing.T, id string, d roster.Date) *roster.Shift {
	t.Helper()
	shift := shiftFor(id, d, roster.ShiftScheduled)
	if err := f.mem.CreateShift(context.Background(), &shift); err != nil {
		t.Fatalf("create shift: %v", err)
	}
	return &shift
}

// =============================================================================
// CHECK-IN / CHECK-OUT TESTS
// =============================================================================

func TestCheckIn_TransitionsShiftAndRecordsLateness(t *testing.T) {
	// GIVEN: A scheduled 08:00-17:00 shift and a check-in at 08:20
	// WHEN: Checking in
	// THEN: Shift goes in_progress; the record carries 20 late minutes

	f := newFixture(t)
	f.saveStaff(t, "anna", roster.PayrollPolicy{})
	f.scheduleShift(t, "anna", day(2026, time.March, 2))

	result, err := f.attendance.CheckIn(context.Background(), "anna", nil)
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	if result.Shift == nil || result.Shift.Status != roster.ShiftInProgress {
		t.Errorf("expected in_progress shift, got %+v", result.Shift)
	}
	if result.Record == nil || result.Record.ActualStart == nil {
		t.Fatalf("expected tracking record with start, got %+v", result.Record)
	}
	if result.Record.LateMinutes == nil || *result.Record.LateMinutes != 20 {
		t.Errorf("expected 20 late minutes, got %v", result.Record.LateMinutes)
	}
}

func TestCheckIn_WithoutShiftStillRecords(t *testing.T) {
	// GIVEN: No shift for the day
	// WHEN: Checking in
	// THEN: A tracking record is created anyway; no shift in the result

	f := newFixture(t)
	f.saveStaff(t, "anna", roster.PayrollPolicy{})

	result, err := f.attendance.CheckIn(context.Background(), "anna", nil)
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if result.Shift != nil {
		t.Errorf("expected no shift, got %+v", result.Shift)
	}
	if result.Record == nil || result.Record.Status != roster.TrackingInProgress {
		t.Errorf("expected open tracking record, got %+v", result.Record)
	}
}

func TestCheckIn_UnknownStaffRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.attendance.CheckIn(context.Background(), "ghost", nil)
	if !roster.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestCheckOut_CompletesShiftAndStoresDeltas(t *testing.T) {
	// GIVEN: A checked-in shift; check-out at 17:30
	// WHEN: Checking out
	// THEN: Shift completes; stored minutes include 30 overtime

	f := newFixture(t)
	f.saveStaff(t, "anna", roster.PayrollPolicy{})
	f.scheduleShift(t, "anna", day(2026, time.March, 2))
	ctx := context.Background()

	if _, err := f.attendance.CheckIn(ctx, "anna", nil); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	f.now = time.Date(2026, time.March, 2, 17, 30, 0, 0, time.UTC)
	result, err := f.attendance.CheckOut(ctx, "anna", nil)
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}

	if result.Shift == nil || result.Shift.Status != roster.ShiftCompleted {
		t.Errorf("expected completed shift, got %+v", result.Shift)
	}
	rec := result.Record
	if rec.Status != roster.TrackingCompleted || rec.ActualEnd == nil {
		t.Fatalf("expected closed record, got %+v", rec)
	}
	if rec.OvertimeMinutes == nil || *rec.OvertimeMinutes != 30 {
		t.Errorf("expected 30 overtime minutes, got %v", rec.OvertimeMinutes)
	}
	if rec.LateMinutes == nil || *rec.LateMinutes != 20 {
		t.Errorf("expected 20 late minutes, got %v", rec.LateMinutes)
	}
}

func TestCheckOut_WithoutOpenRecordRejected(t *testing.T) {
	f := newFixture(t)
	f.saveStaff(t, "anna", roster.PayrollPolicy{})

	_, err := f.attendance.CheckOut(context.Background(), "anna", nil)
	if !roster.IsNotFound(err) {
		t.Errorf("expected not-found for missing open record, got %v", err)
	}
}

func TestCheckIn_GeofenceAnnotatesButNeverBlocks(t *testing.T) {
	// GIVEN: A geofence with a 100m radius and a coordinate ~450m away
	// WHEN: Checking in with that coordinate
	// THEN: Check-in succeeds; the result and notes carry the out-of-zone info

	f := newFixture(t)
	f.attendance.Geofence = roster.GeofenceConfig{
		Reference:    roster.Coordinate{Lat: 55.0, Lng: 37.0},
		RadiusMeters: 100,
	}
	f.saveStaff(t, "anna", roster.PayrollPolicy{})

	result, err := f.attendance.CheckIn(context.Background(), "anna", &roster.Coordinate{Lat: 55.00405, Lng: 37.0})
	if err != nil {
		t.Fatalf("out-of-zone check-in must not fail: %v", err)
	}
	if result.Geofence == nil || result.Geofence.InZone {
		t.Errorf("expected out-of-zone annotation, got %+v", result.Geofence)
	}
	if !strings.Contains(result.Record.Notes, "out of zone") {
		t.Errorf("expected geofence note, got %q", result.Record.Notes)
	}
}

// =============================================================================
// ATTENDANCE VIEW TESTS
// =============================================================================

func TestAttendanceView_AnnotatesWithPolicyMoney(t *testing.T) {
	// GIVEN: A per-minute penalty policy and a full late worked day
	// WHEN: Reading the attendance view
	// THEN: The record carries delta minutes and the priced late amount

	f := newFixture(t)
	f.saveStaff(t, "anna", roster.PayrollPolicy{
		SalaryType:    roster.SalaryPerShift,
		ShiftRate:     money(5000),
		PenaltyType:   roster.PenaltyPerMinute,
		PenaltyAmount: money(500),
	})
	f.scheduleShift(t, "anna", day(2026, time.March, 2))
	ctx := context.Background()

	if _, err := f.attendance.CheckIn(ctx, "anna", nil); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	f.now = time.Date(2026, time.March, 2, 17, 0, 0, 0, time.UTC)
	if _, err := f.attendance.CheckOut(ctx, "anna", nil); err != nil {
		t.Fatalf("check-out failed: %v", err)
	}

	records, err := f.attendance.AttendanceView(ctx, roster.AttendanceQuery{
		From: day(2026, time.March, 1),
		To:   day(2026, time.March, 31),
	})
	if err != nil {
		t.Fatalf("attendance view failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Source != roster.SourceMerged {
		t.Errorf("expected merged record, got %s", rec.Source)
	}
	if rec.Delta.LateMinutes != 20 {
		t.Errorf("expected 20 late minutes, got %d", rec.Delta.LateMinutes)
	}
	assertMoney(t, rec.Pay.LateAmount, 10000, "late amount")
	if rec.StaffName != "anna" {
		t.Errorf("expected staff name filled, got %q", rec.StaffName)
	}
}

// =============================================================================
// PAYROLL SERVICE TESTS
// =============================================================================

func workOneDay(t *testing.T, f *fixture, id roster.StaffID, d roster.Date) {
	t.Helper()
	ctx := context.Background()
	f.scheduleShift(t, string(id), d)
	f.now = d.At(clock(8, 0))
	if _, err := f.attendance.CheckIn(ctx, id, nil); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	f.now = d.At(clock(17, 0))
	if _, err := f.attendance.CheckOut(ctx, id, nil); err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
}

func TestPayrollFor_VirtualProjectionFromAttendance(t *testing.T) {
	// GIVEN: Two punctual worked shifts under a 5000 per-shift policy
	// WHEN: Reading the period payroll with no committed row
	// THEN: A virtual draft with base 10000 and no identity

	f := newFixture(t)
	f.saveStaff(t, "boris", roster.PayrollPolicy{
		SalaryType: roster.SalaryPerShift,
		ShiftRate:  money(5000),
	})
	workOneDay(t, f, "boris", day(2026, time.March, 2))
	workOneDay(t, f, "boris", day(2026, time.March, 3))

	p, err := f.payroll.PayrollFor(context.Background(), "boris", march2026())
	if err != nil {
		t.Fatalf("payroll read failed: %v", err)
	}
	if !p.IsVirtual() {
		t.Error("expected virtual payroll before commit")
	}
	assertMoney(t, p.BaseSalary, 10000, "base salary")
	if p.WorkedShifts != 2 {
		t.Errorf("expected 2 worked shifts, got %d", p.WorkedShifts)
	}
}

func TestCommitPayroll_PersistsOnceAndIsIdempotent(t *testing.T) {
	// GIVEN: A virtual payroll
	// WHEN: Committing twice
	// THEN: One persisted row; the second commit returns it unchanged

	f := newFixture(t)
	f.saveStaff(t, "boris", roster.PayrollPolicy{
		SalaryType: roster.SalaryPerShift,
		ShiftRate:  money(5000),
	})
	workOneDay(t, f, "boris", day(2026, time.March, 2))
	ctx := context.Background()

	first, err := f.payroll.CommitPayroll(ctx, "boris", march2026())
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if first.IsVirtual() {
		t.Fatal("committed payroll must have an ID")
	}

	second, err := f.payroll.CommitPayroll(ctx, "boris", march2026())
	if err != nil {
		t.Fatalf("second commit failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected idempotent commit, got %s vs %s", second.ID, first.ID)
	}

	// Subsequent reads return the persisted row, not a recomputation.
	read, err := f.payroll.PayrollFor(ctx, "boris", march2026())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if read.ID != first.ID {
		t.Errorf("expected persisted row on read, got %+v", read)
	}
}

func TestAdvanceStatus_RequiresPersistedRow(t *testing.T) {
	f := newFixture(t)
	f.saveStaff(t, "boris", roster.PayrollPolicy{})

	_, err := f.payroll.AdvanceStatus(context.Background(), "boris", march2026(), roster.PayrollApproved)
	if !roster.IsNotFound(err) {
		t.Errorf("expected not-found for virtual payroll, got %v", err)
	}
}
