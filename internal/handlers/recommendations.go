package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/steiner385/capacinator/internal/confirm"
	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/middleware"
	"github.com/steiner385/capacinator/internal/models"
	"github.com/steiner385/capacinator/internal/recommend"
	"github.com/steiner385/capacinator/internal/reports"

	"github.com/gin-gonic/gin"
)

func personFromQuery(c *gin.Context) (models.Person, bool) {
	id, err := strconv.Atoi(c.Query("person_id"))
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "person_id is required")
		return models.Person{}, false
	}

	var person models.Person
	if err := database.DB.Preload("Role").Preload("Location").First(&person, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "person not found")
		return models.Person{}, false
	}
	return person, true
}

// personContext derives the scoring context from the person's current
// month of assignments.
func personContext(person models.Person, assignments []models.Assignment) recommend.PersonContext {
	available := person.MonthlyCapacityHours()
	var allocated float64
	assigned := map[uint]struct{}{}
	for _, a := range assignments {
		allocated += a.AllocationPercentage / 100 * available
		assigned[a.ProjectID] = struct{}{}
	}

	var utilization float64
	if available > 0 {
		utilization = allocated / available * 100
	}
	return recommend.PersonContext{
		PersonID:           person.ID,
		LocationID:         person.LocationID,
		Utilization:        utilization,
		AvailableHours:     available,
		AllocatedHours:     allocated,
		AssignedProjectIDs: assigned,
	}
}

func currentAssignments(personID uint) ([]models.Assignment, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var assignments []models.Assignment
	err := database.DB.
		Preload("Project").
		Preload("Role").
		Where("person_id = ?", personID).
		Where("start_date <= ? AND end_date >= ?", monthEnd, monthStart).
		Find(&assignments).Error
	return assignments, err
}

// RemovalRecommendations ranks an over-loaded person's assignments by how
// cheaply they can be dropped.
func RemovalRecommendations(c *gin.Context) {
	person, ok := personFromQuery(c)
	if !ok {
		return
	}

	assignments, err := currentAssignments(person.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load assignments")
		return
	}

	ctx := personContext(person, assignments)
	c.JSON(http.StatusOK, gin.H{
		"person_id":   person.ID,
		"utilization": ctx.Utilization,
		"status":      reports.ClassifyUtilization(ctx.Utilization),
		"candidates":  recommend.RankRemovals(assignments, time.Now().UTC()),
	})
}

// MatchRecommendations suggests projects for a person with spare capacity.
func MatchRecommendations(c *gin.Context) {
	person, ok := personFromQuery(c)
	if !ok {
		return
	}

	assignments, err := currentAssignments(person.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load assignments")
		return
	}

	var projects []models.Project
	if err := database.DB.
		Preload("ProjectType").
		Preload("Location").
		Where("status <> ?", models.StatusCompleted).
		Find(&projects).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load projects")
		return
	}

	ctx := personContext(person, assignments)
	c.JSON(http.StatusOK, gin.H{
		"person_id":   person.ID,
		"utilization": ctx.Utilization,
		"status":      reports.ClassifyUtilization(ctx.Utilization),
		"matches":     scorer.MatchProjects(ctx, projects),
	})
}

type planRequest struct {
	Action       string            `json:"action"` // "add" or "remove"
	AssignmentID uint              `json:"assignment_id"`
	Assignment   assignmentRequest `json:"assignment"`
}

// PlanRecommendation validates an accepted recommendation and returns a
// single-use confirmation token. Nothing is written until commit.
func PlanRecommendation(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var action confirm.PendingAction
	switch req.Action {
	case "add":
		assignment, msg := req.Assignment.build()
		if msg != "" {
			jsonError(c, http.StatusBadRequest, msg)
			return
		}
		var person models.Person
		if err := database.DB.First(&person, assignment.PersonID).Error; err != nil {
			jsonError(c, http.StatusBadRequest, "person not found")
			return
		}
		var project models.Project
		if err := database.DB.First(&project, assignment.ProjectID).Error; err != nil {
			jsonError(c, http.StatusBadRequest, "project not found")
			return
		}
		action = confirm.PendingAction{
			Kind:                 confirm.ActionAddAssignment,
			Summary:              fmt.Sprintf("Assign %s to %s at %.0f%%", person.Name, project.Name, assignment.AllocationPercentage),
			PersonID:             assignment.PersonID,
			ProjectID:            assignment.ProjectID,
			RoleID:               assignment.RoleID,
			AllocationPercentage: assignment.AllocationPercentage,
			StartDate:            assignment.StartDate,
			EndDate:              assignment.EndDate,
			Billable:             assignment.Billable,
			Notes:                assignment.Notes,
		}
	case "remove":
		var assignment models.Assignment
		if err := database.DB.Preload("Person").Preload("Project").First(&assignment, req.AssignmentID).Error; err != nil {
			jsonError(c, http.StatusNotFound, "assignment not found")
			return
		}
		action = confirm.PendingAction{
			Kind:         confirm.ActionRemoveAssignment,
			Summary:      fmt.Sprintf("Remove %s from %s", assignment.Person.Name, assignment.Project.Name),
			AssignmentID: assignment.ID,
		}
	default:
		jsonError(c, http.StatusBadRequest, "action must be \"add\" or \"remove\"")
		return
	}

	token, expiresAt := confirmations.Plan(action)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"summary":    action.Summary,
	})
}

type commitRequest struct {
	Token string `json:"token"`
}

// CommitRecommendation spends a confirmation token and executes its
// mutation. Unknown tokens 404, expired or replayed tokens 409.
func CommitRecommendation(c *gin.Context) {
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		jsonError(c, http.StatusBadRequest, "token is required")
		return
	}

	action, err := confirmations.Take(req.Token)
	if err != nil {
		if errors.Is(err, confirm.ErrExpired) {
			jsonError(c, http.StatusConflict, "confirmation token expired")
			return
		}
		jsonError(c, http.StatusNotFound, "confirmation token not found")
		return
	}

	userID := middleware.CurrentUserID(c)
	switch action.Kind {
	case confirm.ActionAddAssignment:
		assignment := models.Assignment{
			PersonID:             action.PersonID,
			ProjectID:            action.ProjectID,
			RoleID:               action.RoleID,
			AllocationPercentage: action.AllocationPercentage,
			StartDate:            action.StartDate,
			EndDate:              action.EndDate,
			Billable:             action.Billable,
			Notes:                action.Notes,
		}
		if status, msg := createAssignment(&assignment, userID); msg != "" {
			jsonError(c, status, msg)
			return
		}
		database.DB.Preload("Person").Preload("Project").Preload("Role").First(&assignment, assignment.ID)
		c.JSON(http.StatusCreated, gin.H{"summary": action.Summary, "assignment": assignment})
	case confirm.ActionRemoveAssignment:
		if status, msg := deleteAssignment(action.AssignmentID, userID); msg != "" {
			jsonError(c, status, msg)
			return
		}
		c.JSON(http.StatusOK, gin.H{"summary": action.Summary, "status": "removed"})
	default:
		jsonError(c, http.StatusInternalServerError, "unknown pending action")
	}
}
