package roster_test

import (
	"testing"
	"time"

	"github.com/warp/roster-engine/roster"
)

func march2026() roster.Period {
	return roster.Period{Year: 2026, Month: time.March}
}

func checkedOut(staff string, d roster.Date, pay roster.PayLines) roster.AttendanceRecord {
	return roster.AttendanceRecord{
		ID:      "rec-" + staff + "-" + d.String(),
		StaffID: roster.StaffID(staff),
		Date:    d,
		Status:  roster.AttendanceCheckedOut,
		Pay:     pay,
	}
}

// =============================================================================
// AGGREGATION TESTS
// =============================================================================

func TestAggregate_PerShiftBase(t *testing.T) {
	// GIVEN: Per-shift salary of 5000 and two checked-out days
	// WHEN: Aggregating the period
	// THEN: Base = 5000 × 2 = 10000, two worked shifts

	agg := &roster.PayrollAggregator{}
	policy := roster.PayrollPolicy{SalaryType: roster.SalaryPerShift, ShiftRate: money(5000)}

	records := []roster.AttendanceRecord{
		checkedOut("boris", day(2026, time.March, 2), roster.PayLines{}),
		checkedOut("boris", day(2026, time.March, 3), roster.PayLines{}),
	}
	p := agg.Aggregate("boris", march2026(), policy, records, nil)

	assertMoney(t, p.BaseSalary, 10000, "base salary")
	if p.WorkedShifts != 2 || p.WorkedDays != 2 {
		t.Errorf("expected 2 worked shifts/days, got %d/%d", p.WorkedShifts, p.WorkedDays)
	}
}

func TestAggregate_MonthlyBaseIgnoresWorkedCount(t *testing.T) {
	// GIVEN: Monthly salary of 90000 and a single worked day
	// WHEN: Aggregating
	// THEN: Base is the flat monthly amount

	agg := &roster.PayrollAggregator{}
	policy := roster.PayrollPolicy{SalaryType: roster.SalaryMonthly, Salary: money(90000)}

	p := agg.Aggregate("anna", march2026(), policy,
		[]roster.AttendanceRecord{checkedOut("anna", day(2026, time.March, 2), roster.PayLines{})}, nil)

	assertMoney(t, p.BaseSalary, 90000, "base salary")
}

func TestAggregate_VirtualPayrollHasNoIdentity(t *testing.T) {
	// GIVEN: Any aggregation input
	// WHEN: Aggregating
	// THEN: The result is a draft virtual payroll with no ID

	agg := &roster.PayrollAggregator{}
	p := agg.Aggregate("anna", march2026(), roster.PayrollPolicy{}, nil, nil)

	if !p.IsVirtual() {
		t.Error("expected virtual payroll")
	}
	if p.Status != roster.PayrollDraft {
		t.Errorf("expected draft status, got %s", p.Status)
	}
}

func TestAggregate_PenaltiesBonusesAndFines(t *testing.T) {
	// GIVEN: A record with pay lines and an approved fine in the period
	// WHEN: Aggregating
	// THEN: total = base + bonuses - deductions - penalties

	agg := &roster.PayrollAggregator{}
	policy := roster.PayrollPolicy{SalaryType: roster.SalaryMonthly, Salary: money(50000)}

	records := []roster.AttendanceRecord{
		checkedOut("anna", day(2026, time.March, 2), roster.PayLines{
			LateAmount:    money(1000),
			OvertimeBonus: money(500),
		}),
	}
	fines := []roster.Fine{{ID: "f1", StaffID: "anna", Date: day(2026, time.March, 5), Amount: money(2000)}}

	p := agg.Aggregate("anna", march2026(), policy, records, fines)

	assertMoney(t, p.Penalties, 1000, "penalties")
	assertMoney(t, p.Bonuses, 500, "bonuses")
	assertMoney(t, p.Deductions, 2000, "deductions")
	assertMoney(t, p.Total, 47500, "total")
}

func TestAggregate_TotalFlooredAtZero(t *testing.T) {
	// GIVEN: Penalties exceeding the base salary
	// WHEN: Aggregating
	// THEN: Total never goes negative

	agg := &roster.PayrollAggregator{}
	policy := roster.PayrollPolicy{SalaryType: roster.SalaryMonthly, Salary: money(1000)}

	records := []roster.AttendanceRecord{
		checkedOut("anna", day(2026, time.March, 2), roster.PayLines{LateAmount: money(5000)}),
	}
	p := agg.Aggregate("anna", march2026(), policy, records, nil)

	assertMoney(t, p.Total, 0, "total")
}

func TestAggregate_IgnoresRecordsOutsidePeriodOrStaff(t *testing.T) {
	// GIVEN: Records belonging to another month and another staff member
	// WHEN: Aggregating
	// THEN: They contribute nothing

	agg := &roster.PayrollAggregator{}
	policy := roster.PayrollPolicy{SalaryType: roster.SalaryPerShift, ShiftRate: money(5000)}

	records := []roster.AttendanceRecord{
		checkedOut("anna", day(2026, time.April, 1), roster.PayLines{}),
		checkedOut("boris", day(2026, time.March, 2), roster.PayLines{}),
	}
	p := agg.Aggregate("anna", march2026(), policy, records, nil)

	if p.WorkedShifts != 0 {
		t.Errorf("expected 0 worked shifts, got %d", p.WorkedShifts)
	}
	assertMoney(t, p.BaseSalary, 0, "base salary")
}

// =============================================================================
// STATUS LIFECYCLE TESTS
// =============================================================================

func TestAdvanceStatus_ForwardOnly(t *testing.T) {
	// GIVEN: A draft payroll
	// WHEN: Advancing draft -> approved -> paid, then trying to move back
	// THEN: Forward moves succeed, backward moves fail

	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	p := roster.Payroll{ID: "p1", Status: roster.PayrollDraft}

	if err := p.AdvanceStatus(roster.PayrollApproved, now); err != nil {
		t.Fatalf("draft -> approved should succeed: %v", err)
	}
	if err := p.AdvanceStatus(roster.PayrollPaid, now); err != nil {
		t.Fatalf("approved -> paid should succeed: %v", err)
	}
	if err := p.AdvanceStatus(roster.PayrollDraft, now); err == nil {
		t.Error("paid -> draft should be rejected")
	}
	if err := p.AdvanceStatus(roster.PayrollPaid, now); err == nil {
		t.Error("paid -> paid should be rejected")
	}
}

func TestAdvanceStatus_SkippingApprovedIsAllowed(t *testing.T) {
	// GIVEN: A draft payroll
	// WHEN: Advancing straight to paid
	// THEN: The move is forward and therefore allowed

	p := roster.Payroll{ID: "p1", Status: roster.PayrollDraft}
	if err := p.AdvanceStatus(roster.PayrollPaid, time.Now()); err != nil {
		t.Fatalf("draft -> paid should succeed: %v", err)
	}
}
