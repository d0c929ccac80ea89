/*
penalty.go - Monetary pricing of time deltas under a payroll policy

PURPOSE:
  Converts the minute deltas computed by the delta calculator into
  penalties and bonuses under the staff member's resolved PayrollPolicy.
  Pure function of (policy, delta, unified status, prorated base); no
  store access, no suspension.

PRICING RULES (same rule set for lateness and early leave):
  fixed          → flat PenaltyAmount, once, when minutes > 0
  per_minute     → PenaltyAmount × minutes
  per_5_minutes  → PenaltyAmount × ceil(minutes / 5)
  per_10_minutes → PenaltyAmount × ceil(minutes / 10)
  percent        → PenaltyAmount% × prorated daily base

  Unauthorized absence: flat AbsencePenalty when the unified status is
  absent or no_show.
  Overtime bonus: OvertimeMinutes × OvertimeRate.
  Punctuality bonus: flat, only for a fully punctual checked-out day.

  Every output is clamped at zero: the engine never emits a negative
  penalty or bonus.
*/
package roster

// =============================================================================
// PAY LINES - Per-record monetary annotations
// =============================================================================

// PayLines holds the money derived for one attendance record.
type PayLines struct {
	LateAmount       Money
	EarlyLeaveAmount Money
	AbsenceAmount    Money
	OvertimeBonus    Money
	PunctualityBonus Money
}

// Penalties is the record's total deduction-side amount.
func (p PayLines) Penalties() Money {
	return p.LateAmount.Add(p.EarlyLeaveAmount).Add(p.AbsenceAmount)
}

// Bonuses is the record's total bonus-side amount.
func (p PayLines) Bonuses() Money {
	return p.OvertimeBonus.Add(p.PunctualityBonus)
}

// =============================================================================
// PENALTY/BONUS ENGINE
// =============================================================================

type PenaltyBonusEngine struct{}

// Assess prices one attendance record. policy must be resolved (see
// ResolvePolicy); proratedBase feeds percent-type penalties.
func (e *PenaltyBonusEngine) Assess(policy PayrollPolicy, delta TimeDelta, status AttendanceStatus, proratedBase Money) PayLines {
	lines := PayLines{
		LateAmount:       penaltyFor(policy, delta.LateMinutes, proratedBase),
		EarlyLeaveAmount: penaltyFor(policy, delta.EarlyLeaveMinutes, proratedBase),
	}

	if status == AttendanceAbsent || status == AttendanceNoShow {
		lines.AbsenceAmount = policy.AbsencePenalty.ClampZero()
	}

	if delta.OvertimeMinutes > 0 {
		lines.OvertimeBonus = policy.OvertimeRate.MulInt(delta.OvertimeMinutes).ClampZero()
	}

	if delta.LateMinutes == 0 && delta.EarlyLeaveMinutes == 0 && status == AttendanceCheckedOut {
		lines.PunctualityBonus = policy.PunctualityBonus.ClampZero()
	}

	return lines
}

func penaltyFor(policy PayrollPolicy, minutes int, proratedBase Money) Money {
	if minutes <= 0 {
		return ZeroMoney()
	}

	switch policy.PenaltyType {
	case PenaltyPerMinute:
		return policy.PenaltyAmount.MulInt(minutes).ClampZero()
	case PenaltyPer5Minutes:
		return policy.PenaltyAmount.MulInt(ceilDiv(minutes, 5)).ClampZero()
	case PenaltyPer10Minutes:
		return policy.PenaltyAmount.MulInt(ceilDiv(minutes, 10)).ClampZero()
	case PenaltyPercent:
		return proratedBase.Percent(policy.PenaltyAmount.Value).ClampZero()
	default: // PenaltyFixed
		return policy.PenaltyAmount.ClampZero()
	}
}

func ceilDiv(n, step int) int {
	return (n + step - 1) / step
}
