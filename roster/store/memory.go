// Package store provides in-memory implementations of the roster
// persistence interfaces, for testing and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// MEMORY STORE - Implements every roster store interface
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	shifts   map[roster.ShiftID]roster.Shift
	tracking map[roster.TrackingID]roster.TimeTrackingRecord
	staff    map[roster.StaffID]roster.Staff
	payrolls map[payrollKey]roster.Payroll
	fines    []roster.Fine
}

type payrollKey struct {
	StaffID roster.StaffID
	Period  roster.Period
}

func NewMemory() *Memory {
	return &Memory{
		shifts:   make(map[roster.ShiftID]roster.Shift),
		tracking: make(map[roster.TrackingID]roster.TimeTrackingRecord),
		staff:    make(map[roster.StaffID]roster.Staff),
		payrolls: make(map[payrollKey]roster.Payroll),
	}
}

// =============================================================================
// SHIFT STORE
// =============================================================================

// CreateShift enforces the (staff, date) uniqueness invariant over
// non-cancelled shifts, mirroring the SQLite partial unique index.
func (m *Memory) CreateShift(_ context.Context, s *roster.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.shifts {
		if existing.StaffID == s.StaffID && existing.Date.Equal(s.Date) && existing.IsActive() {
			return &roster.DuplicateShiftError{StaffID: s.StaffID, Date: s.Date, ExistingID: id}
		}
	}
	m.shifts[s.ID] = *s
	return nil
}

func (m *Memory) GetShift(_ context.Context, id roster.ShiftID) (*roster.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shifts[id]
	if !ok {
		return nil, &roster.NotFoundError{Kind: "shift", ID: string(id)}
	}
	return &s, nil
}

func (m *Memory) UpdateShift(_ context.Context, s *roster.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shifts[s.ID]; !ok {
		return &roster.NotFoundError{Kind: "shift", ID: string(s.ID)}
	}
	m.shifts[s.ID] = *s
	return nil
}

func (m *Memory) ListShifts(_ context.Context, f roster.ShiftFilter) ([]roster.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []roster.Shift
	for _, s := range m.shifts {
		if f.Matches(&s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out, nil
}

// =============================================================================
// TRACKING STORE
// =============================================================================

func (m *Memory) CreateTracking(_ context.Context, r *roster.TimeTrackingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracking[r.ID] = *r
	return nil
}

func (m *Memory) GetTracking(_ context.Context, id roster.TrackingID) (*roster.TimeTrackingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.tracking[id]
	if !ok {
		return nil, &roster.NotFoundError{Kind: "tracking", ID: string(id)}
	}
	return &r, nil
}

func (m *Memory) UpdateTracking(_ context.Context, r *roster.TimeTrackingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tracking[r.ID]; !ok {
		return &roster.NotFoundError{Kind: "tracking", ID: string(r.ID)}
	}
	m.tracking[r.ID] = *r
	return nil
}

func (m *Memory) ListTracking(_ context.Context, f roster.TrackingFilter) ([]roster.TimeTrackingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []roster.TimeTrackingRecord
	for _, r := range m.tracking {
		if f.Matches(&r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out, nil
}

// =============================================================================
// STAFF DIRECTORY
// =============================================================================

func (m *Memory) SaveStaff(_ context.Context, s roster.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff[s.ID] = s
	return nil
}

func (m *Memory) GetStaff(_ context.Context, id roster.StaffID) (*roster.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.staff[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) ListStaff(_ context.Context) ([]roster.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]roster.Staff, 0, len(m.staff))
	for _, s := range m.staff {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// PAYROLL STORE
// =============================================================================

func (m *Memory) GetPayroll(_ context.Context, staffID roster.StaffID, period roster.Period) (*roster.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.payrolls[payrollKey{StaffID: staffID, Period: period}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) SavePayroll(_ context.Context, p *roster.Payroll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payrolls[payrollKey{StaffID: p.StaffID, Period: p.Period}] = *p
	return nil
}

func (m *Memory) UpdatePayroll(ctx context.Context, p *roster.Payroll) error {
	return m.SavePayroll(ctx, p)
}

func (m *Memory) ListPayrolls(_ context.Context, period roster.Period) ([]roster.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []roster.Payroll
	for k, p := range m.payrolls {
		if k.Period == period {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out, nil
}

// =============================================================================
// FINE STORE
// =============================================================================

func (m *Memory) AddFine(f roster.Fine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fines = append(m.fines, f)
}

func (m *Memory) ListApprovedFines(_ context.Context, staffID roster.StaffID, period roster.Period) ([]roster.Fine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []roster.Fine
	for _, f := range m.fines {
		if f.StaffID == staffID && period.Contains(f.Date) {
			out = append(out, f)
		}
	}
	return out, nil
}
