package models

import "gorm.io/gorm"

// Reference catalogs: roles, locations and project types are managed by
// admins and referenced by people, projects and assignments.

type Role struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

type Location struct {
	gorm.Model
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

type ProjectType struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}
