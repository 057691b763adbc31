package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment links a person to a project in a role for a date range.
// AllocationPercentage is the share of the person's working time committed
// to the project; a person's allocations may sum past 100.
type Assignment struct {
	gorm.Model
	PersonID uint   `gorm:"index" json:"person_id"`
	Person   Person `json:"person"`

	ProjectID uint    `gorm:"index" json:"project_id"`
	Project   Project `json:"project"`

	RoleID uint `json:"role_id"`
	Role   Role `json:"role"`

	AllocationPercentage float64   `gorm:"not null" json:"allocation_percentage"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	Billable             bool      `gorm:"default:true" json:"billable"`
	Notes                string    `gorm:"type:text" json:"notes"`
}

// Overlaps reports whether the assignment's date range intersects [start, end].
func (a Assignment) Overlaps(start, end time.Time) bool {
	return !a.StartDate.After(end) && !a.EndDate.Before(start)
}
