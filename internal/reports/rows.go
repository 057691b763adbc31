package reports

import (
	"time"

	"github.com/steiner385/capacinator/internal/models"
)

// Row builders turn fetched entities into the flat inputs the transformers
// operate on. They are pure so the whole pipeline from query result to
// report payload can be tested without a database.

// BuildPersonRows aggregates each person's assignments overlapping the
// window into a PersonRow. Assignments must have Project preloaded for the
// distinct project count.
func BuildPersonRows(people []models.Person, assignments []models.Assignment, start, end time.Time) []PersonRow {
	byPerson := make(map[uint][]models.Assignment, len(people))
	for _, a := range assignments {
		if a.Overlaps(start, end) {
			byPerson[a.PersonID] = append(byPerson[a.PersonID], a)
		}
	}

	rows := make([]PersonRow, 0, len(people))
	for _, p := range people {
		available := p.MonthlyCapacityHours()
		var allocated float64
		projects := map[uint]struct{}{}
		for _, a := range byPerson[p.ID] {
			allocated += a.AllocationPercentage / 100 * available
			projects[a.ProjectID] = struct{}{}
		}
		rows = append(rows, PersonRow{
			PersonID:               p.ID,
			Name:                   p.Name,
			Role:                   p.Role.Name,
			Location:               p.Location.Name,
			DefaultHoursPerDay:     p.DefaultHoursPerDay,
			AvailabilityPercentage: p.AvailabilityPercentage,
			AvailableHours:         available,
			AllocatedHours:         allocated,
			ProjectCount:           len(projects),
		})
	}
	return rows
}

// BuildDemandRows explodes assignments into per-month demand contributions.
// Completed projects no longer demand capacity and are skipped. Assignments
// must have Project (with ProjectType) and Role preloaded.
func BuildDemandRows(assignments []models.Assignment, start, end time.Time) []DemandRow {
	months := MonthsIn(start, end)
	rows := make([]DemandRow, 0, len(assignments))
	for _, a := range assignments {
		if a.Project.Status == models.StatusCompleted {
			continue
		}
		for _, m := range months {
			monthEnd := m.AddDate(0, 1, -1)
			if !a.Overlaps(m, monthEnd) {
				continue
			}
			rows = append(rows, DemandRow{
				ProjectID:   a.ProjectID,
				ProjectName: a.Project.Name,
				ProjectType: a.Project.ProjectType.Name,
				Role:        a.Role.Name,
				Month:       m,
				Hours:       a.AllocationPercentage / 100 * HoursPerFTE,
			})
		}
	}
	return rows
}

// BuildGapRows pairs per-role demand with per-role capacity, both in FTE.
// Demand is averaged over the window's months so a long window does not
// inflate the monthly shortfall.
func BuildGapRows(personRows []PersonRow, demandRows []DemandRow, start, end time.Time) []GapRow {
	months := len(MonthsIn(start, end))
	if months == 0 {
		months = 1
	}

	capacityByRole := map[string]float64{}
	for _, r := range personRows {
		capacityByRole[r.Role] += r.AvailableHours / HoursPerFTE
	}
	demandByRole := map[string]float64{}
	for _, d := range demandRows {
		demandByRole[d.Role] += d.Hours / HoursPerFTE / float64(months)
	}

	seen := map[string]struct{}{}
	var rows []GapRow
	add := func(role string) {
		if _, ok := seen[role]; ok {
			return
		}
		seen[role] = struct{}{}
		rows = append(rows, GapRow{
			Role:        role,
			DemandFTE:   demandByRole[role],
			CapacityFTE: capacityByRole[role],
		})
	}
	for role := range capacityByRole {
		add(role)
	}
	for role := range demandByRole {
		add(role)
	}
	return rows
}

// MonthsIn lists the first-of-month instants whose month intersects
// [start, end].
func MonthsIn(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	var months []time.Time
	m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !m.After(last) {
		months = append(months, m)
		m = m.AddDate(0, 1, 0)
	}
	return months
}
