package roster

import "time"

// =============================================================================
// TIME TRACKING RECORD - Actual check-in/check-out events
// =============================================================================

// TimeTrackingRecord is the actually-recorded side of attendance: one
// record per (staff, date), created on check-in and updated on check-out
// or manual edit. It is an independent event stream from shifts; the two
// are only joined at reconciliation time.
type TimeTrackingRecord struct {
	ID          TrackingID
	StaffID     StaffID
	Date        Date
	ActualStart *time.Time
	ActualEnd   *time.Time
	Status      TrackingStatus

	// Delta minutes may be precomputed upstream; nil means "derive here".
	LateMinutes       *int
	EarlyLeaveMinutes *int
	OvertimeMinutes   *int
	WorkDuration      *int

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the creation invariants.
func (r *TimeTrackingRecord) Validate() error {
	if r.StaffID == "" {
		return &ValidationError{Field: "staffId", Reason: "required"}
	}
	if r.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	return nil
}

// IsOpen reports whether the record has a check-in but no check-out yet.
func (r *TimeTrackingRecord) IsOpen() bool {
	return r.ActualStart != nil && r.ActualEnd == nil
}
