package reports

import "math"

// Distribution bucket labels, in order. Buckets are half-open [lo, hi)
// except 75-100 which includes 100, so a fully allocated person is not
// counted as over-allocated.
var DistributionBuckets = []string{"0-25", "25-50", "50-75", "75-100", ">100"}

type UtilizationEntry struct {
	PersonID       uint              `json:"person_id"`
	Name           string            `json:"name"`
	Role           string            `json:"role"`
	Utilization    float64           `json:"utilization"`
	DisplayPercent float64           `json:"display_percent"` // clamped 0-100 for progress bars
	AvailableHours float64           `json:"available_hours"`
	AllocatedHours float64           `json:"allocated_hours"`
	ProjectCount   int               `json:"project_count"`
	Status         UtilizationStatus `json:"status"`
	StatusLabel    string            `json:"status_label"`
}

type UtilizationReport struct {
	People             []UtilizationEntry `json:"people"`
	Distribution       map[string]int     `json:"distribution"`
	AverageUtilization float64            `json:"average_utilization"`
	OverAllocated      int                `json:"over_allocated"`
	UnderAllocated     int                `json:"under_allocated"`
	Optimal            int                `json:"optimal"`
}

// ClassifyUtilization applies the status thresholds: over 100 is
// over-allocated, under 70 is under-allocated, the rest is optimal.
func ClassifyUtilization(utilization float64) UtilizationStatus {
	switch {
	case utilization > 100:
		return StatusOverAllocated
	case utilization < 70:
		return StatusUnderAllocated
	default:
		return StatusOptimal
	}
}

// TransformUtilization maps person rows to display entries and buckets them
// into the distribution ranges. Bucket counts always sum to len(rows).
func TransformUtilization(rows []PersonRow) UtilizationReport {
	report := UtilizationReport{
		People:       make([]UtilizationEntry, 0, len(rows)),
		Distribution: map[string]int{},
	}
	for _, b := range DistributionBuckets {
		report.Distribution[b] = 0
	}

	var sum float64
	for _, r := range rows {
		u := r.Utilization()
		status := ClassifyUtilization(u)
		report.People = append(report.People, UtilizationEntry{
			PersonID:       r.PersonID,
			Name:           r.Name,
			Role:           r.Role,
			Utilization:    u,
			DisplayPercent: clamp(u, 0, 100),
			AvailableHours: r.AvailableHours,
			AllocatedHours: r.AllocatedHours,
			ProjectCount:   r.ProjectCount,
			Status:         status,
			StatusLabel:    status.Label(),
		})
		report.Distribution[bucketFor(u)]++
		sum += u

		switch status {
		case StatusOverAllocated:
			report.OverAllocated++
		case StatusUnderAllocated:
			report.UnderAllocated++
		default:
			report.Optimal++
		}
	}

	if len(rows) > 0 {
		report.AverageUtilization = math.Round(sum/float64(len(rows))*10) / 10
	}
	return report
}

func bucketFor(utilization float64) string {
	switch {
	case utilization > 100:
		return ">100"
	case utilization >= 75:
		return "75-100"
	case utilization >= 50:
		return "50-75"
	case utilization >= 25:
		return "25-50"
	default:
		return "0-25"
	}
}
