package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectPriority string
type ProjectStatus string

const (
	PriorityHigh   ProjectPriority = "high"
	PriorityMedium ProjectPriority = "medium"
	PriorityLow    ProjectPriority = "low"

	StatusPlanning  ProjectStatus = "planning"
	StatusActive    ProjectStatus = "active"
	StatusOverdue   ProjectStatus = "overdue"
	StatusCompleted ProjectStatus = "completed"
)

type Project struct {
	gorm.Model
	Name string `gorm:"size:255;not null" json:"name"`

	ProjectTypeID uint        `json:"project_type_id"`
	ProjectType   ProjectType `json:"project_type"`

	LocationID uint     `json:"location_id"`
	Location   Location `json:"location"`

	Priority    ProjectPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status      ProjectStatus   `gorm:"type:varchar(20);not null;default:'planning'" json:"status"`
	Description string          `gorm:"type:text" json:"description"`

	// Aspiration dates are targets, not commitments. Either may be unset.
	AspirationStart  *time.Time `json:"aspiration_start"`
	AspirationFinish *time.Time `json:"aspiration_finish"`

	IncludeInDemand bool `gorm:"default:false" json:"include_in_demand"`

	Assignments []Assignment `json:"assignments,omitempty"`
}
