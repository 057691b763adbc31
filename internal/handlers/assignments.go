package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/middleware"
	"github.com/steiner385/capacinator/internal/models"

	"github.com/gin-gonic/gin"
)

func ListAssignments(c *gin.Context) {
	dbq := database.DB.
		Preload("Person").
		Preload("Project").
		Preload("Role").
		Order("start_date asc")

	if personIDStr := c.Query("person_id"); personIDStr != "" {
		if pid, err := strconv.Atoi(personIDStr); err == nil && pid > 0 {
			dbq = dbq.Where("person_id = ?", pid)
		}
	}
	if projectIDStr := c.Query("project_id"); projectIDStr != "" {
		if pid, err := strconv.Atoi(projectIDStr); err == nil && pid > 0 {
			dbq = dbq.Where("project_id = ?", pid)
		}
	}

	var assignments []models.Assignment
	if err := dbq.Find(&assignments).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load assignments")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

type assignmentRequest struct {
	ProjectID            uint    `json:"project_id"`
	PersonID             uint    `json:"person_id"`
	RoleID               uint    `json:"role_id"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	AllocationPercentage float64 `json:"allocation_percentage"`
	Billable             *bool   `json:"billable"`
	Notes                string  `json:"notes"`
}

func (r assignmentRequest) build() (models.Assignment, string) {
	if r.ProjectID == 0 || r.PersonID == 0 || r.RoleID == 0 {
		return models.Assignment{}, "project_id, person_id and role_id are required"
	}
	if r.AllocationPercentage <= 0 || r.AllocationPercentage > 100 {
		return models.Assignment{}, "allocation_percentage must be between 0 and 100"
	}

	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return models.Assignment{}, "invalid start_date"
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return models.Assignment{}, "invalid end_date"
	}
	if end.Before(start) {
		return models.Assignment{}, "end_date before start_date"
	}

	a := models.Assignment{
		ProjectID:            r.ProjectID,
		PersonID:             r.PersonID,
		RoleID:               r.RoleID,
		StartDate:            start,
		EndDate:              end,
		AllocationPercentage: r.AllocationPercentage,
		Billable:             true,
		Notes:                r.Notes,
	}
	if r.Billable != nil {
		a.Billable = *r.Billable
	}
	return a, ""
}

// createAssignment persists an assignment after checking its references.
// Shared by the direct endpoint and committed recommendations.
func createAssignment(a *models.Assignment, userID uint) (int, string) {
	var person models.Person
	if err := database.DB.First(&person, a.PersonID).Error; err != nil {
		return http.StatusBadRequest, "person not found"
	}
	var project models.Project
	if err := database.DB.First(&project, a.ProjectID).Error; err != nil {
		return http.StatusBadRequest, "project not found"
	}
	var role models.Role
	if err := database.DB.First(&role, a.RoleID).Error; err != nil {
		return http.StatusBadRequest, "role not found"
	}

	if err := database.DB.Create(a).Error; err != nil {
		return http.StatusInternalServerError, "failed to save assignment"
	}

	reportCache.InvalidateAll()
	database.CreateAuditLog(userID, "assignment", a.ID, "create",
		fmt.Sprintf("Assigned %s to %s at %.0f%%", person.Name, project.Name, a.AllocationPercentage))
	return 0, ""
}

// deleteAssignment removes an assignment. Shared by the direct endpoint
// and committed recommendations.
func deleteAssignment(id uint, userID uint) (int, string) {
	var assignment models.Assignment
	if err := database.DB.Preload("Person").Preload("Project").First(&assignment, id).Error; err != nil {
		return http.StatusNotFound, "assignment not found"
	}

	if err := database.DB.Delete(&assignment).Error; err != nil {
		return http.StatusInternalServerError, "failed to delete assignment"
	}

	reportCache.InvalidateAll()
	database.CreateAuditLog(userID, "assignment", assignment.ID, "delete",
		fmt.Sprintf("Removed %s from %s", assignment.Person.Name, assignment.Project.Name))
	return 0, ""
}

func CreateAssignment(c *gin.Context) {
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, msg := req.build()
	if msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	if status, msg := createAssignment(&assignment, middleware.CurrentUserID(c)); msg != "" {
		jsonError(c, status, msg)
		return
	}

	database.DB.Preload("Person").Preload("Project").Preload("Role").First(&assignment, assignment.ID)
	c.JSON(http.StatusCreated, assignment)
}

func DeleteAssignment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "invalid assignment id")
		return
	}

	if status, msg := deleteAssignment(uint(id), middleware.CurrentUserID(c)); msg != "" {
		jsonError(c, status, msg)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
