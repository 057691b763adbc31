package reports

import "time"

// HoursPerFTE is the monthly hour value of one full-time equivalent.
const HoursPerFTE = 160.0

type UtilizationStatus string

const (
	StatusOverAllocated  UtilizationStatus = "OVER_ALLOCATED"
	StatusUnderAllocated UtilizationStatus = "UNDER_ALLOCATED"
	StatusOptimal        UtilizationStatus = "OPTIMAL"
)

// Label is the human-readable form shown in tables and exports.
func (s UtilizationStatus) Label() string {
	switch s {
	case StatusOverAllocated:
		return "Over-utilized"
	case StatusUnderAllocated:
		return "Under-utilized"
	default:
		return "Optimal"
	}
}

// PersonRow is one person's aggregated allocation picture for the report
// window. Rows are built from assignments by BuildPersonRows and feed both
// the capacity and utilization transformers.
type PersonRow struct {
	PersonID               uint    `json:"person_id"`
	Name                   string  `json:"name"`
	Role                   string  `json:"role"`
	Location               string  `json:"location"`
	DefaultHoursPerDay     float64 `json:"default_hours_per_day"`
	AvailabilityPercentage float64 `json:"availability_percentage"`
	AvailableHours         float64 `json:"available_hours"`
	AllocatedHours         float64 `json:"allocated_hours"`
	ProjectCount           int     `json:"project_count"`
}

// Utilization is allocated over available, as a percentage. Values over
// 100 are preserved; clamping is for display only.
func (r PersonRow) Utilization() float64 {
	if r.AvailableHours <= 0 {
		return 0
	}
	return r.AllocatedHours / r.AvailableHours * 100
}

// DemandRow is one assignment's monthly demand contribution.
type DemandRow struct {
	ProjectID   uint      `json:"project_id"`
	ProjectName string    `json:"project_name"`
	ProjectType string    `json:"project_type"`
	Role        string    `json:"role"`
	Month       time.Time `json:"month"` // first of month, UTC
	Hours       float64   `json:"hours"`
}

// GapRow is a per-role demand/capacity pair in FTE.
type GapRow struct {
	Role        string  `json:"role"`
	DemandFTE   float64 `json:"demand_fte"`
	CapacityFTE float64 `json:"capacity_fte"`
}
