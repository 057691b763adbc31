package reports

import (
	"sort"
	"time"
)

type DemandGroup struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
	FTE   float64 `json:"fte"`
}

type MonthDemand struct {
	Month time.Time `json:"month"`
	Hours float64   `json:"hours"`
}

type DemandReport struct {
	TotalHours    float64       `json:"total_hours"`
	ByProjectType []DemandGroup `json:"by_project_type"`
	ByRole        []DemandGroup `json:"by_role"`
	Timeline      []MonthDemand `json:"timeline"`
	PeakMonth     *MonthDemand  `json:"peak_month"`
}

// TransformDemand groups demand rows by project type and role, builds the
// monthly timeline and picks the peak month. With no rows everything is
// empty and PeakMonth is nil.
func TransformDemand(rows []DemandRow) DemandReport {
	report := DemandReport{}

	byType := map[string]float64{}
	byRole := map[string]float64{}
	byMonth := map[time.Time]float64{}
	for _, r := range rows {
		report.TotalHours += r.Hours
		byType[r.ProjectType] += r.Hours
		byRole[r.Role] += r.Hours
		byMonth[r.Month] += r.Hours
	}

	report.ByProjectType = sortedGroups(byType)
	report.ByRole = sortedGroups(byRole)

	for m, hours := range byMonth {
		report.Timeline = append(report.Timeline, MonthDemand{Month: m, Hours: hours})
	}
	sort.Slice(report.Timeline, func(i, j int) bool {
		return report.Timeline[i].Month.Before(report.Timeline[j].Month)
	})

	for i := range report.Timeline {
		if report.PeakMonth == nil || report.Timeline[i].Hours > report.PeakMonth.Hours {
			report.PeakMonth = &report.Timeline[i]
		}
	}
	return report
}

func sortedGroups(totals map[string]float64) []DemandGroup {
	groups := make([]DemandGroup, 0, len(totals))
	for name, hours := range totals {
		groups = append(groups, DemandGroup{Name: name, Hours: hours, FTE: hours / HoursPerFTE})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Hours != groups[j].Hours {
			return groups[i].Hours > groups[j].Hours
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}
