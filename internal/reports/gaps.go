package reports

import "sort"

type GapStatus string

const (
	GapStatusGap   GapStatus = "GAP"
	GapStatusTight GapStatus = "TIGHT"
	GapStatusOK    GapStatus = "OK"
)

type RoleGap struct {
	Role        string    `json:"role"`
	DemandFTE   float64   `json:"demand_fte"`
	CapacityFTE float64   `json:"capacity_fte"`
	GapFTE      float64   `json:"gap_fte"` // negative = shortage
	GapHours    float64   `json:"gap_hours"`
	Status      GapStatus `json:"status"`
}

type GapsReport struct {
	Roles            []RoleGap            `json:"roles"`
	TotalDemandFTE   float64              `json:"total_demand_fte"`
	TotalCapacityFTE float64              `json:"total_capacity_fte"`
	TotalShortageFTE float64              `json:"total_shortage_fte"`
	GapPercentage    float64              `json:"gap_percentage"`
	StatusCounts     CapacityStatusCounts `json:"status_counts"`
}

// ClassifyGap labels a role's capacity position: GAP when demand exceeds
// capacity, TIGHT when the surplus is under 10% of demand, OK otherwise.
// A role with no demand is never tight.
func ClassifyGap(demandFTE, capacityFTE float64) GapStatus {
	if capacityFTE < demandFTE {
		return GapStatusGap
	}
	if demandFTE > 0 && capacityFTE-demandFTE < 0.1*demandFTE {
		return GapStatusTight
	}
	return GapStatusOK
}

// TransformGaps derives per-role gaps and the overall shortage percentage.
// Zero capacity with outstanding demand is a 100% gap; zero on both sides
// is 0.
func TransformGaps(rows []GapRow) GapsReport {
	report := GapsReport{Roles: make([]RoleGap, 0, len(rows))}

	for _, r := range rows {
		gap := r.CapacityFTE - r.DemandFTE
		status := ClassifyGap(r.DemandFTE, r.CapacityFTE)
		report.Roles = append(report.Roles, RoleGap{
			Role:        r.Role,
			DemandFTE:   r.DemandFTE,
			CapacityFTE: r.CapacityFTE,
			GapFTE:      gap,
			GapHours:    gap * HoursPerFTE,
			Status:      status,
		})

		report.TotalDemandFTE += r.DemandFTE
		report.TotalCapacityFTE += r.CapacityFTE
		if gap < 0 {
			report.TotalShortageFTE += -gap
		}

		switch status {
		case GapStatusGap:
			report.StatusCounts.Gap++
		case GapStatusTight:
			report.StatusCounts.Tight++
		default:
			report.StatusCounts.OK++
		}
	}

	sort.Slice(report.Roles, func(i, j int) bool { return report.Roles[i].Role < report.Roles[j].Role })

	switch {
	case report.TotalCapacityFTE > 0:
		report.GapPercentage = clamp(report.TotalShortageFTE/report.TotalCapacityFTE*100, 0, 100)
	case report.TotalDemandFTE > 0:
		report.GapPercentage = 100
	default:
		report.GapPercentage = 0
	}
	return report
}
