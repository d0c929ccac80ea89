package roster_test

import (
	"testing"
	"time"

	"github.com/warp/roster-engine/roster"
)

func shiftFor(staff string, d roster.Date, status roster.ShiftStatus) roster.Shift {
	return roster.Shift{
		ID:             roster.ShiftID("shift-" + staff + "-" + d.String()),
		StaffID:        roster.StaffID(staff),
		Date:           d,
		ScheduledStart: clock(8, 0),
		ScheduledEnd:   clock(17, 0),
		Status:         status,
	}
}

func trackingFor(staff string, d roster.Date, status roster.TrackingStatus) roster.TimeTrackingRecord {
	start := d.At(clock(8, 10))
	end := d.At(clock(17, 0))
	return roster.TimeTrackingRecord{
		ID:          roster.TrackingID("tr-" + staff + "-" + d.String()),
		StaffID:     roster.StaffID(staff),
		Date:        d,
		ActualStart: &start,
		ActualEnd:   &end,
		Status:      status,
		CreatedAt:   start,
	}
}

// =============================================================================
// RECONCILIATION TESTS
// =============================================================================

func TestReconcile_MergedRecordCombinesBothStreams(t *testing.T) {
	// GIVEN: A shift and a tracking record for the same (staff, date)
	// WHEN: Reconciling
	// THEN: One merged record with schedule from the shift, actuals from tracking

	d := day(2026, time.March, 2)
	r := roster.Reconciler{}

	out := r.Reconcile(
		[]roster.Shift{shiftFor("anna", d, roster.ShiftCompleted)},
		[]roster.TimeTrackingRecord{trackingFor("anna", d, roster.TrackingCompleted)},
	)

	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	rec := out[0]
	if rec.Source != roster.SourceMerged {
		t.Errorf("expected merged source, got %s", rec.Source)
	}
	if !rec.HasSchedule || rec.ScheduledStart != clock(8, 0) {
		t.Errorf("schedule not carried from shift: %+v", rec)
	}
	if rec.ActualStart == nil || *rec.ActualStart != clock(8, 10) {
		t.Errorf("actuals not carried from tracking: %+v", rec.ActualStart)
	}
	if rec.Status != roster.AttendanceCheckedOut {
		t.Errorf("expected checked_out, got %s", rec.Status)
	}
}

func TestReconcile_NoRecordedCheckInIsDropped(t *testing.T) {
	// GIVEN: A tracking record with no matching shift
	// WHEN: Reconciling
	// THEN: It survives as a tracking_only record appended after shift records

	d := day(2026, time.March, 2)
	other := day(2026, time.March, 3)
	r := roster.Reconciler{}

	out := r.Reconcile(
		[]roster.Shift{shiftFor("anna", d, roster.ShiftScheduled)},
		[]roster.TimeTrackingRecord{trackingFor("boris", other, roster.TrackingCompleted)},
	)

	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].Source != roster.SourceShiftOnly {
		t.Errorf("expected shift-derived record first, got %s", out[0].Source)
	}
	if out[1].Source != roster.SourceTrackingOnly {
		t.Errorf("expected orphan tracking record last, got %s", out[1].Source)
	}
	if out[1].HasSchedule {
		t.Error("tracking-only record must not claim a schedule")
	}
}

func TestReconcile_DuplicateKeyTrackingRecordsAllSurvive(t *testing.T) {
	// GIVEN: Two tracking records sharing one (staff, date) key — the
	//        stores do not enforce key uniqueness for tracking, so a
	//        manual edit or import can produce this
	// WHEN: Reconciling with no matching shift, then with one
	// THEN: Every record surfaces; a shift consumes only one of them

	d := day(2026, time.March, 2)
	r := roster.Reconciler{}

	first := trackingFor("anna", d, roster.TrackingCompleted)
	second := trackingFor("anna", d, roster.TrackingCompleted)
	second.ID = "tr-anna-duplicate"

	orphans := r.Reconcile(nil, []roster.TimeTrackingRecord{first, second})
	if len(orphans) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(orphans), orphans)
	}
	for i, rec := range orphans {
		if rec.Source != roster.SourceTrackingOnly {
			t.Errorf("record %d: expected tracking_only, got %s", i, rec.Source)
		}
	}
	if orphans[0].ID == orphans[1].ID {
		t.Error("expected distinct record identities to be preserved")
	}

	withShift := r.Reconcile(
		[]roster.Shift{shiftFor("anna", d, roster.ShiftCompleted)},
		[]roster.TimeTrackingRecord{first, second},
	)
	if len(withShift) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(withShift), withShift)
	}
	if withShift[0].Source != roster.SourceMerged || withShift[0].ID != string(first.ID) {
		t.Errorf("expected the first record merged into the shift, got %+v", withShift[0])
	}
	if withShift[1].Source != roster.SourceTrackingOnly || withShift[1].ID != string(second.ID) {
		t.Errorf("expected the duplicate appended as tracking_only, got %+v", withShift[1])
	}
}

func TestReconcile_EveryShiftYieldsExactlyOneRecord(t *testing.T) {
	// GIVEN: Three shifts across staff and days, one with tracking
	// WHEN: Reconciling
	// THEN: Three records out, in shift input order

	d1 := day(2026, time.March, 2)
	d2 := day(2026, time.March, 3)
	r := roster.Reconciler{}

	shifts := []roster.Shift{
		shiftFor("anna", d1, roster.ShiftCompleted),
		shiftFor("anna", d2, roster.ShiftScheduled),
		shiftFor("boris", d1, roster.ShiftScheduled),
	}
	out := r.Reconcile(shifts, []roster.TimeTrackingRecord{trackingFor("anna", d1, roster.TrackingCompleted)})

	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	for i, rec := range out {
		if rec.StaffID != shifts[i].StaffID || !rec.Date.Equal(shifts[i].Date) {
			t.Errorf("record %d out of order: %+v", i, rec)
		}
	}
}

func TestReconcile_NoShowShiftKeepsNoShowStatus(t *testing.T) {
	// GIVEN: A no_show shift with no tracking record
	// WHEN: Reconciling
	// THEN: The unified status is no_show so the absence penalty can apply

	d := day(2026, time.March, 2)
	r := roster.Reconciler{}

	out := r.Reconcile([]roster.Shift{shiftFor("anna", d, roster.ShiftNoShow)}, nil)

	if len(out) != 1 || out[0].Status != roster.AttendanceNoShow {
		t.Fatalf("expected no_show status, got %+v", out)
	}
}

func TestReconcile_DefaultMappingCollapsesLateToAbsent(t *testing.T) {
	// GIVEN: A tracking record in the internal 'late' status
	// WHEN: Reconciling with the default mapping
	// THEN: The unified status is absent (inherited collapse, kept as-is)

	d := day(2026, time.March, 2)
	r := roster.Reconciler{}

	out := r.Reconcile(
		[]roster.Shift{shiftFor("anna", d, roster.ShiftCompleted)},
		[]roster.TimeTrackingRecord{trackingFor("anna", d, roster.TrackingLate)},
	)

	if out[0].Status != roster.AttendanceAbsent {
		t.Errorf("expected absent under default mapping, got %s", out[0].Status)
	}
}

func TestReconcile_CustomMappingOverridesDefault(t *testing.T) {
	// GIVEN: A caller-supplied mapping that keeps late as checked_in
	// WHEN: Reconciling
	// THEN: The custom mapping wins

	d := day(2026, time.March, 2)
	mapping := roster.StatusMapping{}
	for k, v := range roster.DefaultStatusMapping {
		mapping[k] = v
	}
	mapping[roster.TrackingLate] = roster.AttendanceCheckedIn
	r := roster.Reconciler{Mapping: mapping}

	out := r.Reconcile(
		[]roster.Shift{shiftFor("anna", d, roster.ShiftCompleted)},
		[]roster.TimeTrackingRecord{trackingFor("anna", d, roster.TrackingLate)},
	)

	if out[0].Status != roster.AttendanceCheckedIn {
		t.Errorf("expected checked_in under custom mapping, got %s", out[0].Status)
	}
}
