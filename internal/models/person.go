package models

import "gorm.io/gorm"

type WorkerType string

const (
	WorkerEmployee   WorkerType = "employee"
	WorkerContractor WorkerType = "contractor"
	WorkerConsultant WorkerType = "consultant"
)

type Person struct {
	gorm.Model
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`

	RoleID uint `json:"role_id"`
	Role   Role `json:"role"`

	LocationID uint     `json:"location_id"`
	Location   Location `json:"location"`

	DefaultHoursPerDay     float64    `gorm:"default:8" json:"default_hours_per_day"`
	AvailabilityPercentage float64    `gorm:"default:100" json:"availability_percentage"`
	WorkerType             WorkerType `gorm:"type:varchar(20);default:'employee'" json:"worker_type"`

	Assignments []Assignment `json:"assignments,omitempty"`
}

// MonthlyCapacityHours is the person's capacity for a 20-workday month,
// discounted by availability.
func (p Person) MonthlyCapacityHours() float64 {
	return p.AvailabilityPercentage / 100 * p.DefaultHoursPerDay * 20
}
