/*
store.go - Persistence interfaces for the roster engine

PURPOSE:
  Defines the contracts between the engine and its entity stores. Every
  operation is a short-lived call; no cancellation token beyond the
  request context is threaded through, and a call that times out simply
  fails.

KEY CONTRACT:
  ShiftStore.CreateShift MUST enforce a uniqueness constraint on
  (staffID, date) over non-cancelled shifts and signal violations as a
  *DuplicateShiftError. The scheduler's client-side duplicate check is a
  best-effort optimization, not the safety mechanism — two concurrent
  bulk generations can race, and only the store-level constraint keeps
  the invariant.

IMPLEMENTATIONS:
  - store/memory.go: In-memory, for tests and development
  - store/sqlite (top level): Production SQLite with a partial unique index
*/
package roster

import "context"

// =============================================================================
// FILTERS
// =============================================================================

// ShiftFilter narrows shift listings. Zero fields match everything.
type ShiftFilter struct {
	StaffID  StaffID
	From     Date
	To       Date
	Statuses []ShiftStatus
}

// Matches reports whether a shift satisfies the filter. Shared by store
// implementations.
func (f ShiftFilter) Matches(s *Shift) bool {
	if f.StaffID != "" && s.StaffID != f.StaffID {
		return false
	}
	if !f.From.IsZero() && s.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.Date.After(f.To) {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, st := range f.Statuses {
			if s.Status == st {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// TrackingFilter narrows tracking-record listings.
type TrackingFilter struct {
	StaffID StaffID
	From    Date
	To      Date
}

func (f TrackingFilter) Matches(r *TimeTrackingRecord) bool {
	if f.StaffID != "" && r.StaffID != f.StaffID {
		return false
	}
	if !f.From.IsZero() && r.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Date.After(f.To) {
		return false
	}
	return true
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// ShiftStore persists planned shifts.
type ShiftStore interface {
	// CreateShift persists a new shift. Returns *DuplicateShiftError when
	// a non-cancelled shift already exists for (StaffID, Date).
	CreateShift(ctx context.Context, s *Shift) error

	GetShift(ctx context.Context, id ShiftID) (*Shift, error)
	UpdateShift(ctx context.Context, s *Shift) error
	ListShifts(ctx context.Context, f ShiftFilter) ([]Shift, error)
}

// TrackingStore persists check-in/check-out records.
type TrackingStore interface {
	CreateTracking(ctx context.Context, r *TimeTrackingRecord) error
	GetTracking(ctx context.Context, id TrackingID) (*TimeTrackingRecord, error)
	UpdateTracking(ctx context.Context, r *TimeTrackingRecord) error
	ListTracking(ctx context.Context, f TrackingFilter) ([]TimeTrackingRecord, error)
}

// Staff is a staff directory entry: identity, display name, and the
// payroll policy attribute set.
type Staff struct {
	ID       StaffID
	FullName string
	Policy   PayrollPolicy
}

// StaffDirectory is read-only to this engine; staff records are managed
// by the surrounding application.
type StaffDirectory interface {
	GetStaff(ctx context.Context, id StaffID) (*Staff, error)
	ListStaff(ctx context.Context) ([]Staff, error)
}

// PayrollStore persists committed payroll rows keyed by (staff, period).
type PayrollStore interface {
	// GetPayroll returns nil (no error) when no row exists for the pair.
	GetPayroll(ctx context.Context, staffID StaffID, period Period) (*Payroll, error)
	SavePayroll(ctx context.Context, p *Payroll) error
	UpdatePayroll(ctx context.Context, p *Payroll) error
	ListPayrolls(ctx context.Context, period Period) ([]Payroll, error)
}

// FineStore exposes approved deductions recorded externally.
type FineStore interface {
	ListApprovedFines(ctx context.Context, staffID StaffID, period Period) ([]Fine, error)
}
