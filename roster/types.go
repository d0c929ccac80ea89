/*
Package roster provides the core shift scheduling, attendance reconciliation,
and payroll accrual engine.

PURPOSE:
  This package contains the domain types and algorithms for running a staff
  roster: generating work shifts without duplication, merging planned shifts
  with actual check-in/check-out events into a unified attendance view,
  deriving lateness/overtime deltas, pricing those deltas under a per-staff
  payroll policy, and folding everything into period payroll totals.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary amount backed by decimal.Decimal
  - Staff/Shift/Tracking/Payroll IDs: Type-safe identifiers
  - Status vocabularies for shifts, tracking records, attendance, payroll

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point money errors
  2. Type Safety: Strong typing for IDs prevents mixing staff/shift IDs
  3. Purity: Calculators are pure transforms over already-fetched snapshots

SEE ALSO:
  - shift.go: Shift entity and its state machine
  - attendance.go: Reconciliation of shifts and tracking records
  - payroll.go: Period aggregation and the virtual payroll projection
*/
package roster

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount (currency-agnostic, decimal-backed)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func ZeroMoney() Money {
	return Money{Value: decimal.Zero}
}

func (m Money) Add(b Money) Money          { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money          { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s)} }
func (m Money) MulInt(n int) Money         { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (m Money) Div(s decimal.Decimal) Money { return Money{Value: m.Value.Div(s)} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) Equal(b Money) bool         { return m.Value.Equal(b.Value) }
func (m Money) GreaterThan(b Money) bool   { return m.Value.GreaterThan(b.Value) }
func (m Money) Float64() float64           { f, _ := m.Value.Float64(); return f }

// ClampZero floors the amount at zero. Penalty and payroll outputs are
// never negative.
func (m Money) ClampZero() Money {
	if m.Value.IsNegative() {
		return ZeroMoney()
	}
	return m
}

// Percent returns m × (pct / 100).
func (m Money) Percent(pct decimal.Decimal) Money {
	return Money{Value: m.Value.Mul(pct).Div(decimal.NewFromInt(100))}
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StaffID string
type ShiftID string
type TrackingID string
type PayrollID string

// =============================================================================
// STATUS VOCABULARIES
// =============================================================================

// ShiftStatus is the lifecycle state of a planned shift.
type ShiftStatus string

const (
	ShiftScheduled  ShiftStatus = "scheduled"
	ShiftInProgress ShiftStatus = "in_progress"
	ShiftCompleted  ShiftStatus = "completed"
	ShiftCancelled  ShiftStatus = "cancelled"
	ShiftNoShow     ShiftStatus = "no_show"
)

// TrackingStatus is the internal state of a check-in/check-out record.
// It is recorded by the tracking collaborator and mapped to the unified
// attendance vocabulary during reconciliation (see attendance.go).
type TrackingStatus string

const (
	TrackingScheduled       TrackingStatus = "scheduled"
	TrackingInProgress      TrackingStatus = "in_progress"
	TrackingCompleted       TrackingStatus = "completed"
	TrackingLate            TrackingStatus = "late"
	TrackingPendingApproval TrackingStatus = "pending_approval"
)

// AttendanceStatus is the unified vocabulary produced by reconciliation.
type AttendanceStatus string

const (
	AttendanceScheduled  AttendanceStatus = "scheduled"
	AttendanceCheckedIn  AttendanceStatus = "checked_in"
	AttendanceCheckedOut AttendanceStatus = "checked_out"
	AttendanceAbsent     AttendanceStatus = "absent"
	AttendanceNoShow     AttendanceStatus = "no_show"
)

// RecordSource tags which event stream(s) produced an attendance record.
type RecordSource string

const (
	SourceMerged       RecordSource = "merged"
	SourceShiftOnly    RecordSource = "shift_only"
	SourceTrackingOnly RecordSource = "tracking_only"
)

// PayrollStatus is the lifecycle state of a persisted payroll.
// Intended transitions are forward-only: draft → approved → paid.
// Nothing in this core guards field edits on a paid row; that behavior
// is deliberately left undefined pending a product decision.
type PayrollStatus string

const (
	PayrollDraft    PayrollStatus = "draft"
	PayrollApproved PayrollStatus = "approved"
	PayrollPaid     PayrollStatus = "paid"
)

// statusRank orders payroll statuses for the forward-only check.
func statusRank(s PayrollStatus) int {
	switch s {
	case PayrollDraft:
		return 0
	case PayrollApproved:
		return 1
	case PayrollPaid:
		return 2
	default:
		return -1
	}
}
