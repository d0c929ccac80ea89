/*
handlers.go - HTTP API handlers for the roster engine

PURPOSE:
  Exposes scheduling, attendance reconciliation, and payroll accrual via
  REST API. Handles HTTP request/response, JSON serialization, and
  delegates to domain logic.

ENDPOINTS:
  Staff:
    GET    /api/staff                         List staff with policies
    POST   /api/staff                         Create/update staff member
    GET    /api/staff/{id}                    Get staff member
    POST   /api/staff/{id}/check-in           Record arrival (optional lat/lng)
    POST   /api/staff/{id}/check-out          Record departure (optional lat/lng)
    GET    /api/staff/{id}/payroll/{period}   Payroll (persisted or virtual)
    POST   /api/staff/{id}/payroll/{period}/commit  Persist the virtual payroll
    POST   /api/staff/{id}/payroll/{period}/status  Advance payroll status

  Shifts:
    GET    /api/shifts                        List shifts (staff_id, from, to)
    POST   /api/shifts                        Create one shift
    POST   /api/shifts/bulk                   Bulk-generate Mon-Fri shifts
    POST   /api/shifts/{id}/cancel            Cancel a shift

  Attendance:
    GET    /api/attendance                    Reconciled view (staff_id, from, to)

  Payroll:
    GET    /api/payroll/{period}              All staff for a period

  Admin:
    POST   /api/seed                          Load demo data (dev only)

ARCHITECTURE:
  Handler struct holds the wired services. List reads flow through the
  short-TTL cache decorators; writes through the same decorators so
  invalidation is observed.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, invalid transitions
  - 404: Resource not found
  - 409: Duplicate shift for (staff, date)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - seed.go: Demo data loader
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// StaffWriter is the write side of the staff directory. Kept separate
// because the engine itself only reads staff.
type StaffWriter interface {
	SaveStaff(ctx context.Context, s roster.Staff) error
}

// Stores bundles the persistence dependencies the API needs. Any
// implementation works; production wires store/sqlite, tests wire the
// in-memory store.
type Stores struct {
	Shifts      roster.ShiftStore
	Tracking    roster.TrackingStore
	Staff       roster.StaffDirectory
	StaffWriter StaffWriter
	Payrolls    roster.PayrollStore
	Fines       roster.FineStore
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	stores     Stores
	scheduler  *roster.ShiftScheduler
	attendance *roster.AttendanceService
	payroll    *roster.PayrollService
	log        zerolog.Logger
}

// NewHandler wires the services over the given stores. Shift and
// tracking access is wrapped in the TTL cache decorators so repeated
// view reads within a request burst hit memory.
func NewHandler(st Stores, geofence roster.GeofenceConfig, log zerolog.Logger) *Handler {
	shifts := roster.NewCachedShiftStore(st.Shifts, roster.DefaultCacheTTL)
	tracking := roster.NewCachedTrackingStore(st.Tracking, roster.DefaultCacheTTL)
	st.Shifts = shifts
	st.Tracking = tracking

	attendance := &roster.AttendanceService{
		Shifts:     shifts,
		Tracking:   tracking,
		Staff:      st.Staff,
		Reconciler: roster.Reconciler{Mapping: roster.DefaultStatusMapping},
		Geofence:   geofence,
		Log:        log,
	}

	return &Handler{
		stores:     st,
		scheduler:  roster.NewShiftScheduler(shifts, log),
		attendance: attendance,
		payroll: &roster.PayrollService{
			Attendance: attendance,
			Payrolls:   st.Payrolls,
			Fines:      st.Fines,
			Staff:      st.Staff,
			Log:        log,
		},
		log: log,
	}
}

// ShiftStore exposes the handler's cached shift store so background
// writers (the no-show sweeper) share the same decorator instance and
// their updates invalidate the handlers' cache.
func (h *Handler) ShiftStore() roster.ShiftStore {
	return h.stores.Shifts
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns all staff members with their policy attributes.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.stores.Staff.ListStaff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}

	dtos := make([]StaffDTO, len(staff))
	for i, s := range staff {
		dtos[i] = StaffDTO{ID: string(s.ID), FullName: s.FullName, Policy: toPolicyDTO(s.Policy)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStaff creates or replaces a staff member.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if req.ID == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "id and full_name are required", nil)
		return
	}

	member := roster.Staff{
		ID:       roster.StaffID(req.ID),
		FullName: req.FullName,
		Policy:   fromPolicyDTO(req.Policy),
	}
	if err := h.stores.StaffWriter.SaveStaff(r.Context(), member); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save staff", err)
		return
	}
	writeJSON(w, http.StatusCreated, StaffDTO{ID: req.ID, FullName: req.FullName, Policy: toPolicyDTO(member.Policy)})
}

// GetStaff returns one staff member.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id := roster.StaffID(chi.URLParam(r, "id"))
	member, err := h.stores.Staff.GetStaff(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get staff", err)
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "Staff member not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, StaffDTO{ID: string(member.ID), FullName: member.FullName, Policy: toPolicyDTO(member.Policy)})
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns shifts filtered by staff_id, from, to query params.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := roster.ShiftFilter{StaffID: roster.StaffID(r.URL.Query().Get("staff_id"))}

	if v := r.URL.Query().Get("from"); v != "" {
		d, err := roster.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'from' date, want YYYY-MM-DD", err)
			return
		}
		filter.From = d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := roster.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'to' date, want YYYY-MM-DD", err)
			return
		}
		filter.To = d
	}

	shifts, err := h.stores.Shifts.ListShifts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i := range shifts {
		dtos[i] = *toShiftDTO(&shifts[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShift creates a single shift.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	date, err := roster.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD", err)
		return
	}
	start, err := roster.ParseClock(req.ScheduledStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scheduled_start, want HH:MM", err)
		return
	}
	end, err := roster.ParseClock(req.ScheduledEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scheduled_end, want HH:MM", err)
		return
	}

	shift, err := h.scheduler.CreateShift(r.Context(), roster.CreateShiftInput{
		StaffID:            roster.StaffID(req.StaffID),
		Date:               date,
		Start:              start,
		End:                end,
		AlternativeStaffID: roster.StaffID(req.AlternativeStaffID),
		Notes:              req.Notes,
	})
	if err != nil {
		writeDomainError(w, "Failed to create shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift))
}

// BulkGenerateShifts generates a recurring weekday schedule.
func (h *Handler) BulkGenerateShifts(w http.ResponseWriter, r *http.Request) {
	var req BulkGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if len(req.StaffIDs) == 0 {
		writeError(w, http.StatusBadRequest, "staff_ids is required", nil)
		return
	}

	from, err := roster.ParseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'from' date, want YYYY-MM-DD", err)
		return
	}
	to, err := roster.ParseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'to' date, want YYYY-MM-DD", err)
		return
	}
	start, err := roster.ParseClock(req.ScheduledStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scheduled_start, want HH:MM", err)
		return
	}
	end, err := roster.ParseClock(req.ScheduledEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scheduled_end, want HH:MM", err)
		return
	}

	staffIDs := make([]roster.StaffID, len(req.StaffIDs))
	for i, id := range req.StaffIDs {
		staffIDs[i] = roster.StaffID(id)
	}

	result, err := h.scheduler.BulkGenerate(r.Context(), staffIDs, from, to, roster.ShiftTemplate{
		Start: start,
		End:   end,
		Notes: req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Bulk generation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, BulkResultDTO{Created: result.Created, Skipped: result.Skipped, Failed: result.Failed})
}

// CancelShift cancels a shift, freeing its (staff, date) slot.
func (h *Handler) CancelShift(w http.ResponseWriter, r *http.Request) {
	id := roster.ShiftID(chi.URLParam(r, "id"))

	shift, err := h.stores.Shifts.GetShift(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get shift", err)
		return
	}
	if err := shift.Cancel(time.Now().UTC()); err != nil {
		writeDomainError(w, "Failed to cancel shift", err)
		return
	}
	if err := h.stores.Shifts.UpdateShift(r.Context(), shift); err != nil {
		writeDomainError(w, "Failed to update shift", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(shift))
}

// =============================================================================
// CHECK-IN / CHECK-OUT HANDLERS
// =============================================================================

// CheckIn records a staff member's arrival.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, h.attendance.CheckIn)
}

// CheckOut records a staff member's departure.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, h.attendance.CheckOut)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request,
	op func(context.Context, roster.StaffID, *roster.Coordinate) (*roster.CheckResult, error)) {

	id := roster.StaffID(chi.URLParam(r, "id"))

	// Body is optional; absence just means no coordinate.
	var req CheckRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	var coord *roster.Coordinate
	if req.Lat != nil && req.Lng != nil {
		coord = &roster.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	}

	result, err := op(r.Context(), id, coord)
	if err != nil {
		writeDomainError(w, "Check operation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, CheckResultDTO{
		Shift:    toShiftDTO(result.Shift),
		Record:   toTrackingDTO(result.Record),
		Geofence: toGeofenceDTO(result.Geofence),
	})
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetAttendance returns the reconciled attendance view for a window.
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	q := roster.AttendanceQuery{StaffID: roster.StaffID(r.URL.Query().Get("staff_id"))}

	if v := r.URL.Query().Get("from"); v != "" {
		d, err := roster.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'from' date, want YYYY-MM-DD", err)
			return
		}
		q.From = d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := roster.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'to' date, want YYYY-MM-DD", err)
			return
		}
		q.To = d
	}

	records, err := h.attendance.AttendanceView(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build attendance view", err)
		return
	}

	dtos := make([]AttendanceDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAttendanceDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// GetPayrollForAll returns one payroll per staff member for the period.
// Unpersisted entries are virtual projections.
func (h *Handler) GetPayrollForAll(w http.ResponseWriter, r *http.Request) {
	period, err := roster.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period, want YYYY-MM", err)
		return
	}

	payrolls, err := h.payroll.PayrollForAll(r.Context(), period)
	if err != nil {
		writeDomainError(w, "Failed to compute payroll", err)
		return
	}

	dtos := make([]PayrollDTO, len(payrolls))
	for i := range payrolls {
		dtos[i] = toPayrollDTO(&payrolls[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayroll returns the payroll for one staff member and period,
// persisted if committed, virtual otherwise.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	id := roster.StaffID(chi.URLParam(r, "id"))
	period, err := roster.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period, want YYYY-MM", err)
		return
	}

	p, err := h.payroll.PayrollFor(r.Context(), id, period)
	if err != nil {
		writeDomainError(w, "Failed to compute payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(p))
}

// CommitPayroll persists the virtual payroll as a draft row.
func (h *Handler) CommitPayroll(w http.ResponseWriter, r *http.Request) {
	id := roster.StaffID(chi.URLParam(r, "id"))
	period, err := roster.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period, want YYYY-MM", err)
		return
	}

	p, err := h.payroll.CommitPayroll(r.Context(), id, period)
	if err != nil {
		writeDomainError(w, "Failed to commit payroll", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayrollDTO(p))
}

// AdvancePayrollStatus moves a persisted payroll forward
// (draft -> approved -> paid).
func (h *Handler) AdvancePayrollStatus(w http.ResponseWriter, r *http.Request) {
	id := roster.StaffID(chi.URLParam(r, "id"))
	period, err := roster.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period, want YYYY-MM", err)
		return
	}

	var req AdvanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	p, err := h.payroll.AdvanceStatus(r.Context(), id, period, roster.PayrollStatus(req.Status))
	if err != nil {
		writeDomainError(w, "Failed to advance payroll status", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(p))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Error = message + ": " + err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain error classes to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case roster.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case roster.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case roster.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
