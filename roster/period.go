package roster

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Calendar-month payroll boundary
// =============================================================================

// Period is one calendar month. Payroll is ALWAYS aggregated per period,
// never at an arbitrary point in time.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing the given day.
func PeriodOf(d Date) Period {
	return Period{Year: d.Year(), Month: d.Month()}
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q (use YYYY-MM)", ErrInvalidPeriod, s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// Start returns the first day of the period.
func (p Period) Start() Date {
	return NewDate(p.Year, p.Month, 1)
}

// End returns the last day of the period.
func (p Period) End() Date {
	return DateOf(time.Date(p.Year, p.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

// Contains returns true if the day is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

// Workdays returns the count of Monday–Friday days in the period.
// Used for prorating a monthly base salary to a daily figure.
func (p Period) Workdays() int {
	count := 0
	for d := p.Start(); d.BeforeOrEqual(p.End()); d = d.AddDays(1) {
		if d.IsWorkday() {
			count++
		}
	}
	return count
}

func (p Period) Next() Period {
	return PeriodOf(p.End().AddDays(1))
}

func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDays(-1))
}

func (p Period) IsZero() bool { return p.Year == 0 }

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
