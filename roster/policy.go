/*
policy.go - Per-staff payroll policy and centralized resolution

PURPOSE:
  A PayrollPolicy is the per-staff configuration governing how base pay
  and penalties are computed: the salary model (monthly, daily, per-shift),
  the penalty pricing rule, and the bonus rates. Policies live on the staff
  record and are read-only to this engine.

CENTRALIZED RESOLUTION:
  All defaulting happens in ResolvePolicy, in one place. Computation sites
  receive a fully-populated policy and never fall back ad hoc. A policy
  with missing salaryType or penaltyType still resolves (with a
  PolicyResolutionError describing what was defaulted) so that a payroll
  view always renders rather than failing outright.

DEFAULTS:
  - salaryType  → "month", with base salary contribution of zero when the
                  monthly salary itself is unset
  - penaltyType → "fixed"
  - overtimeRate (per minute) → shiftRate / 480 (a shift's rate spread
                  over an eight-hour day)

SEE ALSO:
  - penalty.go: Prices time deltas under a resolved policy
  - payroll.go: Computes base salary from the resolved salary model
*/
package roster

import "github.com/shopspring/decimal"

// =============================================================================
// SALARY AND PENALTY MODELS
// =============================================================================

// SalaryType selects how base salary is computed for a period.
type SalaryType string

const (
	SalaryMonthly  SalaryType = "month" // flat monthly base
	SalaryDaily    SalaryType = "day"   // dailyRate × workedDays
	SalaryPerShift SalaryType = "shift" // shiftRate × workedShifts
)

// PenaltyType selects how lateness/early-leave minutes convert to money.
type PenaltyType string

const (
	PenaltyFixed        PenaltyType = "fixed"          // flat amount once
	PenaltyPercent      PenaltyType = "percent"        // % of prorated base
	PenaltyPerMinute    PenaltyType = "per_minute"     // amount × minutes
	PenaltyPer5Minutes  PenaltyType = "per_5_minutes"  // amount × ceil(min/5)
	PenaltyPer10Minutes PenaltyType = "per_10_minutes" // amount × ceil(min/10)
)

// =============================================================================
// PAYROLL POLICY
// =============================================================================

// PayrollPolicy is the per-staff pay configuration. Zero values mean
// "unset"; ResolvePolicy fills documented defaults.
type PayrollPolicy struct {
	SalaryType SalaryType
	Salary     Money // monthly base (SalaryMonthly)
	DailyRate  Money // per worked day (SalaryDaily)
	ShiftRate  Money // per worked shift (SalaryPerShift)

	PenaltyType   PenaltyType
	PenaltyAmount Money // meaning depends on PenaltyType

	// AbsencePenalty is the flat penalty for an unauthorized absence
	// (unified status absent or no_show).
	AbsencePenalty Money

	// OvertimeRate is money per overtime minute. Zero → derived from
	// ShiftRate during resolution.
	OvertimeRate Money

	// PunctualityBonus is a flat bonus per fully punctual checked-out
	// day. May be zero.
	PunctualityBonus Money

	// BreakMinutes is subtracted from the worked duration. May be zero.
	BreakMinutes int
}

// overtimeDivisor spreads a shift rate over an 8-hour day of minutes.
var overtimeDivisor = decimal.NewFromInt(480)

// ResolvePolicy returns a fully-populated policy. When required fields
// are missing it substitutes defaults and ALSO returns a
// *PolicyResolutionError naming what was defaulted; the returned policy
// is valid either way, so callers may log the error and continue.
func ResolvePolicy(staffID StaffID, p PayrollPolicy) (PayrollPolicy, error) {
	var defaulted []string

	switch p.SalaryType {
	case SalaryMonthly, SalaryDaily, SalaryPerShift:
	case "":
		p.SalaryType = SalaryMonthly
		defaulted = append(defaulted, "salaryType")
	default:
		// Unknown value: treat as missing rather than failing the view.
		p.SalaryType = SalaryMonthly
		p.Salary = ZeroMoney()
		defaulted = append(defaulted, "salaryType")
	}

	switch p.PenaltyType {
	case PenaltyFixed, PenaltyPercent, PenaltyPerMinute, PenaltyPer5Minutes, PenaltyPer10Minutes:
	default:
		p.PenaltyType = PenaltyFixed
		defaulted = append(defaulted, "penaltyType")
	}

	if p.OvertimeRate.IsZero() && !p.ShiftRate.IsZero() {
		p.OvertimeRate = p.ShiftRate.Div(overtimeDivisor)
	}

	if len(defaulted) > 0 {
		return p, &PolicyResolutionError{StaffID: staffID, Defaulted: defaulted}
	}
	return p, nil
}

// ProratedDailyBase returns the policy's base pay for a single day of the
// period, used by percent-type penalties.
func (p PayrollPolicy) ProratedDailyBase(period Period) Money {
	switch p.SalaryType {
	case SalaryDaily:
		return p.DailyRate
	case SalaryPerShift:
		return p.ShiftRate
	default:
		workdays := period.Workdays()
		if workdays == 0 {
			return ZeroMoney()
		}
		return p.Salary.Div(decimal.NewFromInt(int64(workdays)))
	}
}
