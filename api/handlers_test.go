/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Staff creation and retrieval
- Shift creation, duplicates, bulk generation
- Check-in/check-out flow over HTTP
- Attendance view and payroll endpoints
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/roster/store"
)

func newTestRouter(t *testing.T) (http.Handler, *Handler) {
	t.Helper()
	mem := store.NewMemory()
	h := NewHandler(Stores{
		Shifts:      mem,
		Tracking:    mem,
		Staff:       mem,
		StaffWriter: mem,
		Payrolls:    mem,
		Fines:       mem,
	}, roster.GeofenceConfig{}, zerolog.Nop())
	return NewRouter(h, []string{"*"}), h
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return out
}

func createTestStaff(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/staff", CreateStaffRequest{
		ID:       id,
		FullName: "Test " + id,
		Policy: PolicyDTO{
			SalaryType:    "shift",
			ShiftRate:     5000,
			PenaltyType:   "per_minute",
			PenaltyAmount: 500,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create staff: got %d: %s", rec.Code, rec.Body.String())
	}
}

// nextMonday returns a future Monday so bulk generation is not trimmed
// by the today cutoff.
func nextMonday() roster.Date {
	d := roster.Today().AddDays(1)
	for d.Time.Weekday() != time.Monday {
		d = d.AddDays(1)
	}
	return d
}

// =============================================================================
// STAFF ENDPOINT TESTS
// =============================================================================

func TestStaffEndpoints_Roundtrip(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestStaff(t, router, "anna")

	rec := doJSON(t, router, http.MethodGet, "/api/staff/anna", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get staff: got %d", rec.Code)
	}
	dto := decode[StaffDTO](t, rec)
	if dto.FullName != "Test anna" || dto.Policy.ShiftRate != 5000 {
		t.Errorf("unexpected staff payload: %+v", dto)
	}

	list := decode[[]StaffDTO](t, doJSON(t, router, http.MethodGet, "/api/staff", nil))
	if len(list) != 1 {
		t.Errorf("expected 1 staff member, got %d", len(list))
	}
}

func TestGetStaff_UnknownReturns404(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/staff/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCreateStaff_MissingFieldsRejected(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/staff", CreateStaffRequest{ID: "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// =============================================================================
// SHIFT ENDPOINT TESTS
// =============================================================================

func TestCreateShift_AndDuplicateConflict(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestStaff(t, router, "anna")
	date := nextMonday().String()

	req := CreateShiftRequest{StaffID: "anna", Date: date, ScheduledStart: "08:00", ScheduledEnd: "17:00"}

	rec := doJSON(t, router, http.MethodPost, "/api/shifts", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create shift: got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[ShiftDTO](t, rec)
	if created.Status != "scheduled" || created.ID == "" {
		t.Errorf("unexpected shift payload: %+v", created)
	}

	dup := doJSON(t, router, http.MethodPost, "/api/shifts", req)
	if dup.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %d: %s", dup.Code, dup.Body.String())
	}
}

func TestCreateShift_BadDateRejected(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/shifts", CreateShiftRequest{
		StaffID: "anna", Date: "03/02/2026", ScheduledStart: "08:00", ScheduledEnd: "17:00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBulkGenerate_ReportsCountsAndIsIdempotent(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestStaff(t, router, "anna")

	monday := nextMonday()
	req := BulkGenerateRequest{
		StaffIDs:       []string{"anna"},
		From:           monday.String(),
		To:             monday.AddDays(4).String(),
		ScheduledStart: "08:00",
		ScheduledEnd:   "17:00",
	}

	first := decode[BulkResultDTO](t, doJSON(t, router, http.MethodPost, "/api/shifts/bulk", req))
	if first.Created != 5 {
		t.Fatalf("expected 5 created, got %+v", first)
	}

	second := decode[BulkResultDTO](t, doJSON(t, router, http.MethodPost, "/api/shifts/bulk", req))
	if second.Created != 0 || second.Skipped != 5 {
		t.Errorf("expected idempotent rerun, got %+v", second)
	}
}

func TestCancelShift_FreesSlot(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestStaff(t, router, "anna")
	date := nextMonday().String()
	req := CreateShiftRequest{StaffID: "anna", Date: date, ScheduledStart: "08:00", ScheduledEnd: "17:00"}

	created := decode[ShiftDTO](t, doJSON(t, router, http.MethodPost, "/api/shifts", req))

	cancel := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/shifts/%s/cancel", created.ID), nil)
	if cancel.Code != http.StatusOK {
		t.Fatalf("cancel: got %d: %s", cancel.Code, cancel.Body.String())
	}
	if decode[ShiftDTO](t, cancel).Status != "cancelled" {
		t.Error("expected cancelled status")
	}

	recreate := doJSON(t, router, http.MethodPost, "/api/shifts", req)
	if recreate.Code != http.StatusCreated {
		t.Errorf("expected recreate after cancel to succeed, got %d", recreate.Code)
	}
}

// =============================================================================
// CHECK-IN / ATTENDANCE / PAYROLL FLOW TESTS
// =============================================================================

func TestCheckInCheckOutFlow(t *testing.T) {
	router, h := newTestRouter(t)
	createTestStaff(t, router, "anna")

	// Pin the clock so check-in lands on a known day.
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	h.attendance.Now = func() time.Time { return now }

	in := doJSON(t, router, http.MethodPost, "/api/staff/anna/check-in", nil)
	if in.Code != http.StatusOK {
		t.Fatalf("check-in: got %d: %s", in.Code, in.Body.String())
	}
	inResult := decode[CheckResultDTO](t, in)
	if inResult.Record == nil || inResult.Record.ActualStart == nil {
		t.Fatalf("expected open tracking record, got %+v", inResult)
	}

	now = time.Date(2026, time.March, 2, 17, 0, 0, 0, time.UTC)
	out := doJSON(t, router, http.MethodPost, "/api/staff/anna/check-out", nil)
	if out.Code != http.StatusOK {
		t.Fatalf("check-out: got %d: %s", out.Code, out.Body.String())
	}
	outResult := decode[CheckResultDTO](t, out)
	if outResult.Record == nil || outResult.Record.Status != "completed" {
		t.Fatalf("expected completed record, got %+v", outResult.Record)
	}

	// The worked day is visible in the attendance view...
	att := doJSON(t, router, http.MethodGet, "/api/attendance?staff_id=anna&from=2026-03-01&to=2026-03-31", nil)
	records := decode[[]AttendanceDTO](t, att)
	if len(records) != 1 || records[0].Status != "checked_out" {
		t.Fatalf("expected one checked_out record, got %+v", records)
	}

	// ...and in the virtual payroll.
	pay := doJSON(t, router, http.MethodGet, "/api/staff/anna/payroll/2026-03", nil)
	payroll := decode[PayrollDTO](t, pay)
	if !payroll.Virtual || payroll.WorkedShifts != 1 || payroll.BaseSalary != 5000 {
		t.Errorf("unexpected virtual payroll: %+v", payroll)
	}
}

func TestCheckIn_UnknownStaffReturns404(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/staff/ghost/check-in", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCommitPayroll_ThenAdvanceStatus(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestStaff(t, router, "anna")

	commit := doJSON(t, router, http.MethodPost, "/api/staff/anna/payroll/2026-03/commit", nil)
	if commit.Code != http.StatusCreated {
		t.Fatalf("commit: got %d: %s", commit.Code, commit.Body.String())
	}
	committed := decode[PayrollDTO](t, commit)
	if committed.Virtual || committed.ID == "" {
		t.Fatalf("expected persisted payroll, got %+v", committed)
	}

	advance := doJSON(t, router, http.MethodPost, "/api/staff/anna/payroll/2026-03/status",
		AdvanceStatusRequest{Status: "approved"})
	if advance.Code != http.StatusOK {
		t.Fatalf("advance: got %d: %s", advance.Code, advance.Body.String())
	}
	if decode[PayrollDTO](t, advance).Status != "approved" {
		t.Error("expected approved status")
	}

	// Backward move is a client error.
	back := doJSON(t, router, http.MethodPost, "/api/staff/anna/payroll/2026-03/status",
		AdvanceStatusRequest{Status: "draft"})
	if back.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for backward move, got %d", back.Code)
	}
}

func TestGetPayrollForAll_OneRowPerStaff(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestStaff(t, router, "anna")
	createTestStaff(t, router, "boris")

	rec := doJSON(t, router, http.MethodGet, "/api/payroll/2026-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("payroll for all: got %d: %s", rec.Code, rec.Body.String())
	}
	rows := decode[[]PayrollDTO](t, rec)
	if len(rows) != 2 {
		t.Errorf("expected 2 payroll rows, got %d", len(rows))
	}
	for _, row := range rows {
		if !row.Virtual {
			t.Errorf("expected virtual rows, got %+v", row)
		}
	}
}

func TestGetPayrollForAll_BadPeriodRejected(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/payroll/march-2026", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
