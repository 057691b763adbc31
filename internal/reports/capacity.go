package reports

import "sort"

type RoleCapacity struct {
	Role          string  `json:"role"`
	People        int     `json:"people"`
	CapacityFTE   float64 `json:"capacity_fte"`
	CapacityHours float64 `json:"capacity_hours"`
}

type LocationCapacity struct {
	Location      string  `json:"location"`
	People        int     `json:"people"`
	CapacityHours float64 `json:"capacity_hours"`
}

type CapacityReport struct {
	TotalPeople        int                `json:"total_people"`
	TotalCapacityHours float64            `json:"total_capacity_hours"`
	TotalCapacityFTE   float64            `json:"total_capacity_fte"`
	ByRole             []RoleCapacity     `json:"by_role"`
	ByLocation         []LocationCapacity `json:"by_location"`
}

// TransformCapacity groups per-person monthly capacity by role and by
// location. Role capacity hours are FTE x 160; location capacity sums the
// per-person monthly capacity directly.
func TransformCapacity(rows []PersonRow) CapacityReport {
	report := CapacityReport{TotalPeople: len(rows)}

	byRole := map[string]*RoleCapacity{}
	byLocation := map[string]*LocationCapacity{}
	for _, r := range rows {
		fte := r.AvailableHours / HoursPerFTE
		report.TotalCapacityHours += r.AvailableHours
		report.TotalCapacityFTE += fte

		rc, ok := byRole[r.Role]
		if !ok {
			rc = &RoleCapacity{Role: r.Role}
			byRole[r.Role] = rc
		}
		rc.People++
		rc.CapacityFTE += fte
		rc.CapacityHours = rc.CapacityFTE * HoursPerFTE

		lc, ok := byLocation[r.Location]
		if !ok {
			lc = &LocationCapacity{Location: r.Location}
			byLocation[r.Location] = lc
		}
		lc.People++
		lc.CapacityHours += r.AvailableHours
	}

	for _, rc := range byRole {
		report.ByRole = append(report.ByRole, *rc)
	}
	for _, lc := range byLocation {
		report.ByLocation = append(report.ByLocation, *lc)
	}
	sort.Slice(report.ByRole, func(i, j int) bool { return report.ByRole[i].Role < report.ByRole[j].Role })
	sort.Slice(report.ByLocation, func(i, j int) bool { return report.ByLocation[i].Location < report.ByLocation[j].Location })

	return report
}
