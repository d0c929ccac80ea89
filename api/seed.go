/*
seed.go - Demo data loader

PURPOSE:
  Populates the store with a small staff roster and a month of weekday
  shifts so the API is explorable immediately after first start. Dev
  convenience only; re-running is harmless because bulk generation is
  idempotent.

SEE ALSO:
  - handlers.go: The /api/seed endpoint
  - roster/scheduler.go: BulkGenerate idempotence
*/
package api

import (
	"context"
	"net/http"

	"github.com/warp/roster-engine/roster"
)

type seedStaff struct {
	id     string
	name   string
	policy roster.PayrollPolicy
}

func demoStaff() []seedStaff {
	return []seedStaff{
		{
			id:   "teacher-anna",
			name: "Anna Petrova",
			policy: roster.PayrollPolicy{
				SalaryType:    roster.SalaryMonthly,
				Salary:        roster.NewMoney(90000),
				PenaltyType:   roster.PenaltyPerMinute,
				PenaltyAmount: roster.NewMoney(50),
				BreakMinutes:  60,
			},
		},
		{
			id:   "teacher-boris",
			name: "Boris Ivanov",
			policy: roster.PayrollPolicy{
				SalaryType:     roster.SalaryPerShift,
				ShiftRate:      roster.NewMoney(5000),
				PenaltyType:    roster.PenaltyFixed,
				PenaltyAmount:  roster.NewMoney(1000),
				AbsencePenalty: roster.NewMoney(5000),
			},
		},
		{
			id:   "assistant-clara",
			name: "Clara Weber",
			policy: roster.PayrollPolicy{
				SalaryType:       roster.SalaryDaily,
				DailyRate:        roster.NewMoney(4000),
				PenaltyType:      roster.PenaltyPer5Minutes,
				PenaltyAmount:    roster.NewMoney(200),
				PunctualityBonus: roster.NewMoney(300),
			},
		},
		// No policy on purpose: exercises the defaulting path.
		{
			id:   "assistant-dmitri",
			name: "Dmitri Orlov",
		},
	}
}

// SeedDemoData loads demo staff and a month of weekday shifts.
func (h *Handler) SeedDemoData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staffIDs, err := h.seedStaff(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed staff", err)
		return
	}

	period := roster.PeriodOf(roster.Today())
	result, err := h.scheduler.BulkGenerate(ctx, staffIDs, period.Start(), period.End(), roster.ShiftTemplate{
		Start: roster.NewClock(8, 0),
		End:   roster.NewClock(17, 0),
		Notes: "demo schedule",
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed shifts", err)
		return
	}

	h.log.Info().
		Int("staff", len(staffIDs)).
		Int("shifts_created", result.Created).
		Msg("demo data seeded")
	writeJSON(w, http.StatusOK, map[string]any{
		"staff":  len(staffIDs),
		"shifts": BulkResultDTO{Created: result.Created, Skipped: result.Skipped, Failed: result.Failed},
	})
}

func (h *Handler) seedStaff(ctx context.Context) ([]roster.StaffID, error) {
	ids := make([]roster.StaffID, 0, len(demoStaff()))
	for _, s := range demoStaff() {
		member := roster.Staff{ID: roster.StaffID(s.id), FullName: s.name, Policy: s.policy}
		if err := h.stores.StaffWriter.SaveStaff(ctx, member); err != nil {
			return nil, err
		}
		ids = append(ids, member.ID)
	}
	return ids, nil
}
