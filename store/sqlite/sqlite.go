/*
Package sqlite provides a SQLite-backed implementation of the roster
storage interfaces.

PURPOSE:
  Implements ShiftStore, TrackingStore, StaffDirectory, PayrollStore,
  and FineStore using SQLite. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  staff:         Directory entries with payroll policy columns
  shifts:        Planned shifts with status lifecycle
  time_tracking: Actual check-in/check-out records
  payrolls:      Committed period summaries
  fines:         Externally-recorded approved deductions

THE UNIQUENESS CONSTRAINT:
  idx_unique_active_shift is a partial UNIQUE index on (staff_id, date)
  over non-cancelled shifts. This is the REAL duplicate-shift guard; the
  scheduler's client-side check is only an optimization. Constraint
  violations are mapped to *roster.DuplicateShiftError so the scheduler
  can treat them as expected.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time.

USAGE:
  st, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - roster/store.go: Interface definitions and the store-level contract
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/roster"
)

// Store implements all roster storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Staff directory with payroll policy columns
	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		salary_type TEXT NOT NULL DEFAULT '',
		salary TEXT NOT NULL DEFAULT '0',
		daily_rate TEXT NOT NULL DEFAULT '0',
		shift_rate TEXT NOT NULL DEFAULT '0',
		penalty_type TEXT NOT NULL DEFAULT '',
		penalty_amount TEXT NOT NULL DEFAULT '0',
		absence_penalty TEXT NOT NULL DEFAULT '0',
		overtime_rate TEXT NOT NULL DEFAULT '0',
		punctuality_bonus TEXT NOT NULL DEFAULT '0',
		break_minutes INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Planned shifts
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		date TEXT NOT NULL,
		scheduled_start TEXT NOT NULL,
		scheduled_end TEXT NOT NULL,
		status TEXT NOT NULL,
		alternative_staff_id TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: at most one non-cancelled shift per (staff, date).
	-- The scheduler's snapshot check is only an optimization; this index
	-- is what makes concurrent bulk generations safe.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_active_shift
		ON shifts(staff_id, date)
		WHERE status != 'cancelled';

	CREATE INDEX IF NOT EXISTS idx_shifts_staff_date
		ON shifts(staff_id, date);
	CREATE INDEX IF NOT EXISTS idx_shifts_status
		ON shifts(status);

	-- Actual check-in/check-out records
	CREATE TABLE IF NOT EXISTS time_tracking (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		date TEXT NOT NULL,
		actual_start TEXT,
		actual_end TEXT,
		status TEXT NOT NULL,
		late_minutes INTEGER,
		early_leave_minutes INTEGER,
		overtime_minutes INTEGER,
		work_duration INTEGER,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tracking_staff_date
		ON time_tracking(staff_id, date);

	-- Committed payrolls, one row per (staff, period)
	CREATE TABLE IF NOT EXISTS payrolls (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		period TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		bonuses TEXT NOT NULL,
		deductions TEXT NOT NULL,
		penalties TEXT NOT NULL,
		total TEXT NOT NULL,
		worked_days INTEGER NOT NULL,
		worked_shifts INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(staff_id, period)
	);

	-- Approved deductions recorded by the surrounding application
	CREATE TABLE IF NOT EXISTS fines (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		date TEXT NOT NULL,
		amount TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		approved INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_fines_staff
		ON fines(staff_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// isUniqueViolation detects a UNIQUE index rejection.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// =============================================================================
// SHIFT STORE
// =============================================================================

func (s *Store) CreateShift(ctx context.Context, shift *roster.Shift) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, staff_id, date, scheduled_start, scheduled_end,
			status, alternative_staff_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(shift.ID), string(shift.StaffID), shift.Date.String(),
		shift.ScheduledStart.String(), shift.ScheduledEnd.String(),
		string(shift.Status), string(shift.AlternativeStaffID), shift.Notes,
		shift.CreatedAt.Format(time.RFC3339), shift.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return &roster.DuplicateShiftError{StaffID: shift.StaffID, Date: shift.Date}
		}
		return err
	}
	return nil
}

func (s *Store) GetShift(ctx context.Context, id roster.ShiftID) (*roster.Shift, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, staff_id, date, scheduled_start, scheduled_end,
			status, alternative_staff_id, notes, created_at, updated_at
		FROM shifts WHERE id = ?`, string(id))

	shift, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &roster.NotFoundError{Kind: "shift", ID: string(id)}
	}
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *Store) UpdateShift(ctx context.Context, shift *roster.Shift) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts SET staff_id = ?, date = ?, scheduled_start = ?,
			scheduled_end = ?, status = ?, alternative_staff_id = ?,
			notes = ?, updated_at = ?
		WHERE id = ?`,
		string(shift.StaffID), shift.Date.String(),
		shift.ScheduledStart.String(), shift.ScheduledEnd.String(),
		string(shift.Status), string(shift.AlternativeStaffID), shift.Notes,
		shift.UpdatedAt.Format(time.RFC3339), string(shift.ID))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &roster.NotFoundError{Kind: "shift", ID: string(shift.ID)}
	}
	return nil
}

func (s *Store) ListShifts(ctx context.Context, f roster.ShiftFilter) ([]roster.Shift, error) {
	query := `
		SELECT id, staff_id, date, scheduled_start, scheduled_end,
			status, alternative_staff_id, notes, created_at, updated_at
		FROM shifts WHERE 1=1`
	var args []any

	if f.StaffID != "" {
		query += " AND staff_id = ?"
		args = append(args, string(f.StaffID))
	}
	if !f.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.To.String())
	}
	if len(f.Statuses) > 0 {
		query += " AND status IN (?" // at least one placeholder
		args = append(args, string(f.Statuses[0]))
		for _, st := range f.Statuses[1:] {
			query += ", ?"
			args = append(args, string(st))
		}
		query += ")"
	}
	query += " ORDER BY date, staff_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *shift)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*roster.Shift, error) {
	var (
		shift                roster.Shift
		id, staffID, date    string
		start, end, status   string
		altStaffID           string
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &staffID, &date, &start, &end, &status, &altStaffID,
		&shift.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	shift.ID = roster.ShiftID(id)
	shift.StaffID = roster.StaffID(staffID)
	shift.Status = roster.ShiftStatus(status)
	shift.AlternativeStaffID = roster.StaffID(altStaffID)
	if shift.Date, err = roster.ParseDate(date); err != nil {
		return nil, err
	}
	if shift.ScheduledStart, err = roster.ParseClock(start); err != nil {
		return nil, err
	}
	if shift.ScheduledEnd, err = roster.ParseClock(end); err != nil {
		return nil, err
	}
	shift.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	shift.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &shift, nil
}

// =============================================================================
// TRACKING STORE
// =============================================================================

func (s *Store) CreateTracking(ctx context.Context, r *roster.TimeTrackingRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_tracking (id, staff_id, date, actual_start, actual_end,
			status, late_minutes, early_leave_minutes, overtime_minutes,
			work_duration, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), string(r.StaffID), r.Date.String(),
		nullableTime(r.ActualStart), nullableTime(r.ActualEnd),
		string(r.Status), nullableInt(r.LateMinutes), nullableInt(r.EarlyLeaveMinutes),
		nullableInt(r.OvertimeMinutes), nullableInt(r.WorkDuration), r.Notes,
		r.CreatedAt.Format(time.RFC3339), r.UpdatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetTracking(ctx context.Context, id roster.TrackingID) (*roster.TimeTrackingRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, staff_id, date, actual_start, actual_end, status,
			late_minutes, early_leave_minutes, overtime_minutes,
			work_duration, notes, created_at, updated_at
		FROM time_tracking WHERE id = ?`, string(id))

	r, err := scanTracking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &roster.NotFoundError{Kind: "tracking", ID: string(id)}
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) UpdateTracking(ctx context.Context, r *roster.TimeTrackingRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE time_tracking SET staff_id = ?, date = ?, actual_start = ?,
			actual_end = ?, status = ?, late_minutes = ?,
			early_leave_minutes = ?, overtime_minutes = ?, work_duration = ?,
			notes = ?, updated_at = ?
		WHERE id = ?`,
		string(r.StaffID), r.Date.String(),
		nullableTime(r.ActualStart), nullableTime(r.ActualEnd),
		string(r.Status), nullableInt(r.LateMinutes), nullableInt(r.EarlyLeaveMinutes),
		nullableInt(r.OvertimeMinutes), nullableInt(r.WorkDuration), r.Notes,
		r.UpdatedAt.Format(time.RFC3339), string(r.ID))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &roster.NotFoundError{Kind: "tracking", ID: string(r.ID)}
	}
	return nil
}

func (s *Store) ListTracking(ctx context.Context, f roster.TrackingFilter) ([]roster.TimeTrackingRecord, error) {
	query := `
		SELECT id, staff_id, date, actual_start, actual_end, status,
			late_minutes, early_leave_minutes, overtime_minutes,
			work_duration, notes, created_at, updated_at
		FROM time_tracking WHERE 1=1`
	var args []any

	if f.StaffID != "" {
		query += " AND staff_id = ?"
		args = append(args, string(f.StaffID))
	}
	if !f.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.To.String())
	}
	query += " ORDER BY date, staff_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.TimeTrackingRecord
	for rows.Next() {
		r, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanTracking(row rowScanner) (*roster.TimeTrackingRecord, error) {
	var (
		r                     roster.TimeTrackingRecord
		id, staffID, date     string
		actualStart, actualEnd sql.NullString
		status                string
		late, early, over, worked sql.NullInt64
		createdAt, updatedAt  string
	)
	err := row.Scan(&id, &staffID, &date, &actualStart, &actualEnd, &status,
		&late, &early, &over, &worked, &r.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	r.ID = roster.TrackingID(id)
	r.StaffID = roster.StaffID(staffID)
	r.Status = roster.TrackingStatus(status)
	if r.Date, err = roster.ParseDate(date); err != nil {
		return nil, err
	}
	r.ActualStart = parseNullableTime(actualStart)
	r.ActualEnd = parseNullableTime(actualEnd)
	r.LateMinutes = parseNullableInt(late)
	r.EarlyLeaveMinutes = parseNullableInt(early)
	r.OvertimeMinutes = parseNullableInt(over)
	r.WorkDuration = parseNullableInt(worked)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &r, nil
}

// =============================================================================
// STAFF DIRECTORY
// =============================================================================

// SaveStaff upserts a directory entry. Staff records are managed by the
// surrounding application; the engine itself only reads them.
func (s *Store) SaveStaff(ctx context.Context, st roster.Staff) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (id, full_name, salary_type, salary, daily_rate,
			shift_rate, penalty_type, penalty_amount, absence_penalty,
			overtime_rate, punctuality_bonus, break_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			salary_type = excluded.salary_type,
			salary = excluded.salary,
			daily_rate = excluded.daily_rate,
			shift_rate = excluded.shift_rate,
			penalty_type = excluded.penalty_type,
			penalty_amount = excluded.penalty_amount,
			absence_penalty = excluded.absence_penalty,
			overtime_rate = excluded.overtime_rate,
			punctuality_bonus = excluded.punctuality_bonus,
			break_minutes = excluded.break_minutes`,
		string(st.ID), st.FullName, string(st.Policy.SalaryType),
		st.Policy.Salary.Value.String(), st.Policy.DailyRate.Value.String(),
		st.Policy.ShiftRate.Value.String(), string(st.Policy.PenaltyType),
		st.Policy.PenaltyAmount.Value.String(), st.Policy.AbsencePenalty.Value.String(),
		st.Policy.OvertimeRate.Value.String(), st.Policy.PunctualityBonus.Value.String(),
		st.Policy.BreakMinutes, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetStaff(ctx context.Context, id roster.StaffID) (*roster.Staff, error) {
	row := s.db.QueryRowContext(ctx, staffSelect+" WHERE id = ?", string(id))
	st, err := scanStaff(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) ListStaff(ctx context.Context) ([]roster.Staff, error) {
	rows, err := s.db.QueryContext(ctx, staffSelect+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

const staffSelect = `
	SELECT id, full_name, salary_type, salary, daily_rate, shift_rate,
		penalty_type, penalty_amount, absence_penalty, overtime_rate,
		punctuality_bonus, break_minutes
	FROM staff`

func scanStaff(row rowScanner) (*roster.Staff, error) {
	var (
		st                  roster.Staff
		id, salaryType      string
		salary, dailyRate   string
		shiftRate           string
		penaltyType         string
		penaltyAmount       string
		absencePenalty      string
		overtimeRate        string
		punctualityBonus    string
	)
	err := row.Scan(&id, &st.FullName, &salaryType, &salary, &dailyRate,
		&shiftRate, &penaltyType, &penaltyAmount, &absencePenalty,
		&overtimeRate, &punctualityBonus, &st.Policy.BreakMinutes)
	if err != nil {
		return nil, err
	}

	st.ID = roster.StaffID(id)
	st.Policy.SalaryType = roster.SalaryType(salaryType)
	st.Policy.PenaltyType = roster.PenaltyType(penaltyType)
	if st.Policy.Salary, err = parseMoney(salary); err != nil {
		return nil, err
	}
	if st.Policy.DailyRate, err = parseMoney(dailyRate); err != nil {
		return nil, err
	}
	if st.Policy.ShiftRate, err = parseMoney(shiftRate); err != nil {
		return nil, err
	}
	if st.Policy.PenaltyAmount, err = parseMoney(penaltyAmount); err != nil {
		return nil, err
	}
	if st.Policy.AbsencePenalty, err = parseMoney(absencePenalty); err != nil {
		return nil, err
	}
	if st.Policy.OvertimeRate, err = parseMoney(overtimeRate); err != nil {
		return nil, err
	}
	if st.Policy.PunctualityBonus, err = parseMoney(punctualityBonus); err != nil {
		return nil, err
	}
	return &st, nil
}

// =============================================================================
// PAYROLL STORE
// =============================================================================

func (s *Store) GetPayroll(ctx context.Context, staffID roster.StaffID, period roster.Period) (*roster.Payroll, error) {
	row := s.db.QueryRowContext(ctx, payrollSelect+" WHERE staff_id = ? AND period = ?",
		string(staffID), period.String())
	p, err := scanPayroll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) SavePayroll(ctx context.Context, p *roster.Payroll) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payrolls (id, staff_id, period, base_salary, bonuses,
			deductions, penalties, total, worked_days, worked_shifts,
			status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.StaffID), p.Period.String(),
		p.BaseSalary.Value.String(), p.Bonuses.Value.String(),
		p.Deductions.Value.String(), p.Penalties.Value.String(),
		p.Total.Value.String(), p.WorkedDays, p.WorkedShifts,
		string(p.Status), p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) UpdatePayroll(ctx context.Context, p *roster.Payroll) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE payrolls SET base_salary = ?, bonuses = ?, deductions = ?,
			penalties = ?, total = ?, worked_days = ?, worked_shifts = ?,
			status = ?, updated_at = ?
		WHERE id = ?`,
		p.BaseSalary.Value.String(), p.Bonuses.Value.String(),
		p.Deductions.Value.String(), p.Penalties.Value.String(),
		p.Total.Value.String(), p.WorkedDays, p.WorkedShifts,
		string(p.Status), p.UpdatedAt.Format(time.RFC3339), string(p.ID))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &roster.NotFoundError{Kind: "payroll", ID: string(p.ID)}
	}
	return nil
}

func (s *Store) ListPayrolls(ctx context.Context, period roster.Period) ([]roster.Payroll, error) {
	rows, err := s.db.QueryContext(ctx, payrollSelect+" WHERE period = ? ORDER BY staff_id", period.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

const payrollSelect = `
	SELECT id, staff_id, period, base_salary, bonuses, deductions,
		penalties, total, worked_days, worked_shifts, status,
		created_at, updated_at
	FROM payrolls`

func scanPayroll(row rowScanner) (*roster.Payroll, error) {
	var (
		p                    roster.Payroll
		id, staffID, period  string
		base, bonuses        string
		deductions, penalties string
		total, status        string
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &staffID, &period, &base, &bonuses, &deductions,
		&penalties, &total, &p.WorkedDays, &p.WorkedShifts, &status,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.ID = roster.PayrollID(id)
	p.StaffID = roster.StaffID(staffID)
	p.Status = roster.PayrollStatus(status)
	if p.Period, err = roster.ParsePeriod(period); err != nil {
		return nil, err
	}
	if p.BaseSalary, err = parseMoney(base); err != nil {
		return nil, err
	}
	if p.Bonuses, err = parseMoney(bonuses); err != nil {
		return nil, err
	}
	if p.Deductions, err = parseMoney(deductions); err != nil {
		return nil, err
	}
	if p.Penalties, err = parseMoney(penalties); err != nil {
		return nil, err
	}
	if p.Total, err = parseMoney(total); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// =============================================================================
// FINE STORE
// =============================================================================

// SaveFine records a deduction. Approved fines reach the aggregator;
// pending ones do not.
func (s *Store) SaveFine(ctx context.Context, f roster.Fine, approved bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fines (id, staff_id, date, amount, reason, approved)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			reason = excluded.reason,
			approved = excluded.approved`,
		f.ID, string(f.StaffID), f.Date.String(), f.Amount.Value.String(),
		f.Reason, boolToInt(approved))
	return err
}

func (s *Store) ListApprovedFines(ctx context.Context, staffID roster.StaffID, period roster.Period) ([]roster.Fine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff_id, date, amount, reason
		FROM fines
		WHERE staff_id = ? AND approved = 1 AND date >= ? AND date <= ?
		ORDER BY date`,
		string(staffID), period.Start().String(), period.End().String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Fine
	for rows.Next() {
		var (
			f            roster.Fine
			staff, date  string
			amount       string
		)
		if err := rows.Scan(&f.ID, &staff, &date, &amount, &f.Reason); err != nil {
			return nil, err
		}
		f.StaffID = roster.StaffID(staff)
		if f.Date, err = roster.ParseDate(date); err != nil {
			return nil, err
		}
		if f.Amount, err = parseMoney(amount); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func parseMoney(s string) (roster.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return roster.Money{}, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	return roster.Money{Value: d}, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func parseNullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
