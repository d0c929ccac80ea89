/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the domain layer, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// STAFF
// =============================================================================

// PolicyDTO mirrors the per-staff payroll policy attribute set.
type PolicyDTO struct {
	SalaryType       string  `json:"salary_type,omitempty"`
	Salary           float64 `json:"salary,omitempty"`
	DailyRate        float64 `json:"daily_rate,omitempty"`
	ShiftRate        float64 `json:"shift_rate,omitempty"`
	PenaltyType      string  `json:"penalty_type,omitempty"`
	PenaltyAmount    float64 `json:"penalty_amount,omitempty"`
	AbsencePenalty   float64 `json:"absence_penalty,omitempty"`
	OvertimeRate     float64 `json:"overtime_rate,omitempty"`
	PunctualityBonus float64 `json:"punctuality_bonus,omitempty"`
	BreakMinutes     int     `json:"break_minutes,omitempty"`
}

type StaffDTO struct {
	ID       string    `json:"id"`
	FullName string    `json:"full_name"`
	Policy   PolicyDTO `json:"policy"`
}

type CreateStaffRequest struct {
	ID       string    `json:"id"`
	FullName string    `json:"full_name"`
	Policy   PolicyDTO `json:"policy"`
}

// =============================================================================
// SHIFTS
// =============================================================================

type ShiftDTO struct {
	ID                 string `json:"id"`
	StaffID            string `json:"staff_id"`
	Date               string `json:"date"`
	ScheduledStart     string `json:"scheduled_start"`
	ScheduledEnd       string `json:"scheduled_end"`
	Status             string `json:"status"`
	AlternativeStaffID string `json:"alternative_staff_id,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

type CreateShiftRequest struct {
	StaffID            string `json:"staff_id"`
	Date               string `json:"date"`
	ScheduledStart     string `json:"scheduled_start"` // HH:MM
	ScheduledEnd       string `json:"scheduled_end"`   // HH:MM
	AlternativeStaffID string `json:"alternative_staff_id,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

type BulkGenerateRequest struct {
	StaffIDs       []string `json:"staff_ids"`
	From           string   `json:"from"`
	To             string   `json:"to"`
	ScheduledStart string   `json:"scheduled_start"`
	ScheduledEnd   string   `json:"scheduled_end"`
	Notes          string   `json:"notes,omitempty"`
}

type BulkResultDTO struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// =============================================================================
// CHECK-IN / CHECK-OUT
// =============================================================================

// CheckRequest optionally carries the device-sourced coordinate. The
// engine never acquires location itself.
type CheckRequest struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

type GeofenceDTO struct {
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMeters   float64 `json:"radius_meters"`
	InZone         bool    `json:"in_zone"`
}

type TrackingDTO struct {
	ID                string  `json:"id"`
	StaffID           string  `json:"staff_id"`
	Date              string  `json:"date"`
	ActualStart       *string `json:"actual_start,omitempty"`
	ActualEnd         *string `json:"actual_end,omitempty"`
	Status            string  `json:"status"`
	LateMinutes       *int    `json:"late_minutes,omitempty"`
	EarlyLeaveMinutes *int    `json:"early_leave_minutes,omitempty"`
	OvertimeMinutes   *int    `json:"overtime_minutes,omitempty"`
	WorkDuration      *int    `json:"work_duration,omitempty"`
	Notes             string  `json:"notes,omitempty"`
}

type CheckResultDTO struct {
	Shift    *ShiftDTO    `json:"shift,omitempty"`
	Record   *TrackingDTO `json:"record,omitempty"`
	Geofence *GeofenceDTO `json:"geofence,omitempty"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceDTO struct {
	ID             string  `json:"id"`
	Source         string  `json:"source"`
	StaffID        string  `json:"staff_id"`
	StaffName      string  `json:"staff_name,omitempty"`
	Date           string  `json:"date"`
	ScheduledStart string  `json:"scheduled_start,omitempty"`
	ScheduledEnd   string  `json:"scheduled_end,omitempty"`
	ActualStart    *string `json:"actual_start,omitempty"`
	ActualEnd      *string `json:"actual_end,omitempty"`
	Status         string  `json:"status"`
	Notes          string  `json:"notes,omitempty"`

	LateMinutes       int `json:"late_minutes"`
	EarlyLeaveMinutes int `json:"early_leave_minutes"`
	OvertimeMinutes   int `json:"overtime_minutes"`
	WorkedMinutes     int `json:"worked_minutes"`

	LateAmount       float64 `json:"late_amount"`
	EarlyLeaveAmount float64 `json:"early_leave_amount"`
	AbsenceAmount    float64 `json:"absence_amount"`
	OvertimeBonus    float64 `json:"overtime_bonus"`
	PunctualityBonus float64 `json:"punctuality_bonus"`
}

// =============================================================================
// PAYROLL
// =============================================================================

type PayrollDTO struct {
	ID           string  `json:"id,omitempty"` // empty for virtual
	Virtual      bool    `json:"virtual"`
	StaffID      string  `json:"staff_id"`
	Period       string  `json:"period"`
	BaseSalary   float64 `json:"base_salary"`
	Bonuses      float64 `json:"bonuses"`
	Deductions   float64 `json:"deductions"`
	Penalties    float64 `json:"penalties"`
	Total        float64 `json:"total"`
	WorkedDays   int     `json:"worked_days"`
	WorkedShifts int     `json:"worked_shifts"`
	Status       string  `json:"status"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPolicyDTO(p roster.PayrollPolicy) PolicyDTO {
	return PolicyDTO{
		SalaryType:       string(p.SalaryType),
		Salary:           p.Salary.Float64(),
		DailyRate:        p.DailyRate.Float64(),
		ShiftRate:        p.ShiftRate.Float64(),
		PenaltyType:      string(p.PenaltyType),
		PenaltyAmount:    p.PenaltyAmount.Float64(),
		AbsencePenalty:   p.AbsencePenalty.Float64(),
		OvertimeRate:     p.OvertimeRate.Float64(),
		PunctualityBonus: p.PunctualityBonus.Float64(),
		BreakMinutes:     p.BreakMinutes,
	}
}

func fromPolicyDTO(p PolicyDTO) roster.PayrollPolicy {
	return roster.PayrollPolicy{
		SalaryType:       roster.SalaryType(p.SalaryType),
		Salary:           roster.NewMoney(p.Salary),
		DailyRate:        roster.NewMoney(p.DailyRate),
		ShiftRate:        roster.NewMoney(p.ShiftRate),
		PenaltyType:      roster.PenaltyType(p.PenaltyType),
		PenaltyAmount:    roster.NewMoney(p.PenaltyAmount),
		AbsencePenalty:   roster.NewMoney(p.AbsencePenalty),
		OvertimeRate:     roster.NewMoney(p.OvertimeRate),
		PunctualityBonus: roster.NewMoney(p.PunctualityBonus),
		BreakMinutes:     p.BreakMinutes,
	}
}

func toShiftDTO(s *roster.Shift) *ShiftDTO {
	if s == nil {
		return nil
	}
	return &ShiftDTO{
		ID:                 string(s.ID),
		StaffID:            string(s.StaffID),
		Date:               s.Date.String(),
		ScheduledStart:     s.ScheduledStart.String(),
		ScheduledEnd:       s.ScheduledEnd.String(),
		Status:             string(s.Status),
		AlternativeStaffID: string(s.AlternativeStaffID),
		Notes:              s.Notes,
	}
}

func toTrackingDTO(r *roster.TimeTrackingRecord) *TrackingDTO {
	if r == nil {
		return nil
	}
	return &TrackingDTO{
		ID:                string(r.ID),
		StaffID:           string(r.StaffID),
		Date:              r.Date.String(),
		ActualStart:       formatTimePtr(r.ActualStart),
		ActualEnd:         formatTimePtr(r.ActualEnd),
		Status:            string(r.Status),
		LateMinutes:       r.LateMinutes,
		EarlyLeaveMinutes: r.EarlyLeaveMinutes,
		OvertimeMinutes:   r.OvertimeMinutes,
		WorkDuration:      r.WorkDuration,
		Notes:             r.Notes,
	}
}

func toAttendanceDTO(rec roster.AttendanceRecord) AttendanceDTO {
	dto := AttendanceDTO{
		ID:                rec.ID,
		Source:            string(rec.Source),
		StaffID:           string(rec.StaffID),
		StaffName:         rec.StaffName,
		Date:              rec.Date.String(),
		ActualStart:       formatClockPtr(rec.ActualStart),
		ActualEnd:         formatClockPtr(rec.ActualEnd),
		Status:            string(rec.Status),
		Notes:             rec.Notes,
		LateMinutes:       rec.Delta.LateMinutes,
		EarlyLeaveMinutes: rec.Delta.EarlyLeaveMinutes,
		OvertimeMinutes:   rec.Delta.OvertimeMinutes,
		WorkedMinutes:     rec.Delta.WorkedMinutes,
		LateAmount:        rec.Pay.LateAmount.Float64(),
		EarlyLeaveAmount:  rec.Pay.EarlyLeaveAmount.Float64(),
		AbsenceAmount:     rec.Pay.AbsenceAmount.Float64(),
		OvertimeBonus:     rec.Pay.OvertimeBonus.Float64(),
		PunctualityBonus:  rec.Pay.PunctualityBonus.Float64(),
	}
	if rec.HasSchedule {
		dto.ScheduledStart = rec.ScheduledStart.String()
		dto.ScheduledEnd = rec.ScheduledEnd.String()
	}
	return dto
}

func toPayrollDTO(p *roster.Payroll) PayrollDTO {
	return PayrollDTO{
		ID:           string(p.ID),
		Virtual:      p.IsVirtual(),
		StaffID:      string(p.StaffID),
		Period:       p.Period.String(),
		BaseSalary:   p.BaseSalary.Float64(),
		Bonuses:      p.Bonuses.Float64(),
		Deductions:   p.Deductions.Float64(),
		Penalties:    p.Penalties.Float64(),
		Total:        p.Total.Float64(),
		WorkedDays:   p.WorkedDays,
		WorkedShifts: p.WorkedShifts,
		Status:       string(p.Status),
	}
}

func toGeofenceDTO(g *roster.GeofenceCheck) *GeofenceDTO {
	if g == nil {
		return nil
	}
	return &GeofenceDTO{
		DistanceMeters: g.DistanceMeters,
		RadiusMeters:   g.RadiusMeters,
		InZone:         g.InZone,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func formatClockPtr(c *roster.ClockTime) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}
