/*
payroll.go - Period aggregation into payroll totals

PURPOSE:
  Folds annotated attendance records for one (staff, period) into a
  payroll summary. When no persisted payroll row exists for the pair, the
  aggregator synthesizes a VIRTUAL payroll: same computed fields, draft
  status, and no identity. A virtual payroll signals "computed but not
  committed" — turning it into a real row is a distinct, explicit save
  action, never a side effect of reading.

TOTALS:
  workedShifts = count of records with status checked_out or completed
  baseSalary   = salary | dailyRate×workedDays | shiftRate×workedShifts
  bonuses      = Σ (overtime + punctuality)
  penalties    = Σ (late + earlyLeave + absence)
  deductions   = Σ approved fines (external collaborator)
  total        = max(0, base + bonuses − deductions − penalties)

STATUS LIFECYCLE:
  draft → approved → paid, forward-only (AdvanceStatus). Field edits on a
  paid row are NOT guarded here; see the PayrollStatus doc.

SEE ALSO:
  - policy.go: ResolvePolicy supplies the defaults this fold relies on
  - service.go: Fetches the snapshot and chooses persisted vs. virtual
*/
package roster

import "time"

// =============================================================================
// PAYROLL - Persisted or virtual period summary
// =============================================================================

// Payroll is a monetary summary for one staff member over one calendar
// month. A persisted payroll has an ID; a virtual one has none and
// exists only as a read-time projection.
type Payroll struct {
	ID      PayrollID // empty ⇒ virtual
	StaffID StaffID
	Period  Period

	BaseSalary Money
	Bonuses    Money
	Deductions Money
	Penalties  Money
	Total      Money

	WorkedDays   int
	WorkedShifts int

	Status    PayrollStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVirtual reports whether this payroll is an uncommitted projection.
func (p *Payroll) IsVirtual() bool { return p.ID == "" }

// AdvanceStatus moves the lifecycle strictly forward. Backward moves and
// unknown statuses are rejected.
func (p *Payroll) AdvanceStatus(to PayrollStatus, at time.Time) error {
	if statusRank(to) < 0 || statusRank(to) <= statusRank(p.Status) {
		return ErrInvalidTransition
	}
	p.Status = to
	p.UpdatedAt = at
	return nil
}

// =============================================================================
// FINE - Externally-sourced approved deduction
// =============================================================================

// Fine is an approved deduction recorded by the surrounding application.
// Only approved fines reach the aggregator.
type Fine struct {
	ID      string
	StaffID StaffID
	Date    Date
	Amount  Money
	Reason  string
}

// =============================================================================
// AGGREGATOR
// =============================================================================

type PayrollAggregator struct{}

// Aggregate folds annotated attendance records and approved fines into a
// virtual payroll for (staffID, period). records must already carry
// their Pay annotations and be filtered to the period; policy must be
// resolved. Pure transform — parallelizable per staff/period.
func (a *PayrollAggregator) Aggregate(staffID StaffID, period Period, policy PayrollPolicy, records []AttendanceRecord, fines []Fine) Payroll {
	p := Payroll{
		StaffID:    staffID,
		Period:     period,
		Status:     PayrollDraft,
		BaseSalary: ZeroMoney(),
		Bonuses:    ZeroMoney(),
		Deductions: ZeroMoney(),
		Penalties:  ZeroMoney(),
	}

	for _, rec := range records {
		if !period.Contains(rec.Date) || rec.StaffID != staffID {
			continue
		}
		if rec.Status == AttendanceCheckedOut {
			p.WorkedShifts++
		}
		p.Bonuses = p.Bonuses.Add(rec.Pay.Bonuses())
		p.Penalties = p.Penalties.Add(rec.Pay.Penalties())
	}
	// One shift per staff per day, so days worked equals shifts worked.
	p.WorkedDays = p.WorkedShifts

	switch policy.SalaryType {
	case SalaryDaily:
		p.BaseSalary = policy.DailyRate.MulInt(p.WorkedDays)
	case SalaryPerShift:
		p.BaseSalary = policy.ShiftRate.MulInt(p.WorkedShifts)
	default: // SalaryMonthly (resolution default)
		p.BaseSalary = policy.Salary
	}

	for _, f := range fines {
		if f.StaffID != staffID || !period.Contains(f.Date) {
			continue
		}
		p.Deductions = p.Deductions.Add(f.Amount)
	}

	p.Total = p.BaseSalary.Add(p.Bonuses).Sub(p.Deductions).Sub(p.Penalties).ClampZero()
	return p
}
