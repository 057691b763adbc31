package reports

import "math"

// Dashboard metric calculators. Pure functions of summary counts; absent
// inputs are zero values and every zero denominator short-circuits to a
// defined default instead of producing NaN.

type PeopleSummary struct {
	TotalPeople    int `json:"total_people"`
	FullyAllocated int `json:"fully_allocated"`
	OverAllocated  int `json:"over_allocated"`
}

type ProjectSummary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Planning int `json:"planning"`
	Overdue  int `json:"overdue"`
}

type CapacityStatusCounts struct {
	Gap   int `json:"gap"`
	Tight int `json:"tight"`
	OK    int `json:"ok"`
}

// ResourceEfficiency scores how much of the workforce is productively
// allocated: fully allocated people count for one, over-allocated people
// cost half. Zero people scores 0, not 100.
func ResourceEfficiency(s PeopleSummary) int {
	if s.TotalPeople == 0 {
		return 0
	}
	score := (float64(s.FullyAllocated) - float64(s.OverAllocated)*0.5) / float64(s.TotalPeople) * 100
	return int(math.Round(clamp(score, 0, 100)))
}

// ProjectHealthScore weighs active and planning projects positively and
// overdue projects negatively. An empty portfolio is healthy by definition.
func ProjectHealthScore(s ProjectSummary) int {
	if s.Total == 0 {
		return 100
	}
	score := (float64(s.Active) + float64(s.Planning)*0.7 - float64(s.Overdue)*0.5) / float64(s.Total) * 100
	return int(math.Round(clamp(score, 0, 100)))
}

// CapacityBurnRate is the share of roles whose capacity is consumed or
// nearly consumed; tight roles count at 0.8.
func CapacityBurnRate(c CapacityStatusCounts) int {
	total := c.Gap + c.Tight + c.OK
	if total == 0 {
		return 0
	}
	score := (float64(c.Gap) + float64(c.Tight)*0.8) / float64(total) * 100
	return int(math.Round(score))
}

// AllocationAccuracy is the share of people who are not over-allocated.
func AllocationAccuracy(s PeopleSummary) int {
	if s.TotalPeople == 0 {
		return 0
	}
	score := float64(s.TotalPeople-s.OverAllocated) / float64(s.TotalPeople) * 100
	return int(math.Round(clamp(score, 0, 100)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
