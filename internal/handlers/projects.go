package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/middleware"
	"github.com/steiner385/capacinator/internal/models"

	"github.com/gin-gonic/gin"
)

func ListProjects(c *gin.Context) {
	dbq := database.DB.Preload("ProjectType").Preload("Location").Order("created_at desc")

	if typeIDStr := c.Query("project_type_id"); typeIDStr != "" {
		if tid, err := strconv.Atoi(typeIDStr); err == nil && tid > 0 {
			dbq = dbq.Where("project_type_id = ?", tid)
		}
	}
	if locIDStr := c.Query("location_id"); locIDStr != "" {
		if lid, err := strconv.Atoi(locIDStr); err == nil && lid > 0 {
			dbq = dbq.Where("location_id = ?", lid)
		}
	}
	if priority := c.Query("priority"); priority != "" {
		dbq = dbq.Where("priority = ?", priority)
	}
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func GetProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.
		Preload("ProjectType").
		Preload("Location").
		Preload("Assignments.Person").
		Preload("Assignments.Role").
		First(&project, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "project not found")
		return
	}
	c.JSON(http.StatusOK, project)
}

type projectRequest struct {
	Name             string `json:"name"`
	ProjectTypeID    uint   `json:"project_type_id"`
	LocationID       uint   `json:"location_id"`
	Priority         string `json:"priority"`
	Status           string `json:"status"`
	Description      string `json:"description"`
	AspirationStart  string `json:"aspiration_start"`
	AspirationFinish string `json:"aspiration_finish"`
	IncludeInDemand  *bool  `json:"include_in_demand"`
}

func applyProjectRequest(project *models.Project, req *projectRequest) string {
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 3 {
		return "project name must be at least 3 characters"
	}
	project.Name = req.Name
	project.Description = strings.TrimSpace(req.Description)

	if req.ProjectTypeID == 0 {
		return "project_type_id is required"
	}
	project.ProjectTypeID = req.ProjectTypeID
	project.LocationID = req.LocationID

	if req.Priority != "" {
		priority := models.ProjectPriority(req.Priority)
		switch priority {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
			project.Priority = priority
		default:
			return "invalid priority"
		}
	}

	if req.Status != "" {
		status := models.ProjectStatus(req.Status)
		switch status {
		case models.StatusPlanning, models.StatusActive, models.StatusOverdue, models.StatusCompleted:
			project.Status = status
		default:
			return "invalid status"
		}
	}

	if req.AspirationStart != "" {
		t, err := time.Parse("2006-01-02", req.AspirationStart)
		if err != nil {
			return "invalid aspiration_start"
		}
		project.AspirationStart = &t
	}
	if req.AspirationFinish != "" {
		t, err := time.Parse("2006-01-02", req.AspirationFinish)
		if err != nil {
			return "invalid aspiration_finish"
		}
		project.AspirationFinish = &t
	}

	if req.IncludeInDemand != nil {
		project.IncludeInDemand = *req.IncludeInDemand
	}
	return ""
}

func CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	project := models.Project{
		Priority: models.PriorityMedium,
		Status:   models.StatusPlanning,
	}
	if msg := applyProjectRequest(&project, &req); msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	var ptype models.ProjectType
	if err := database.DB.First(&ptype, project.ProjectTypeID).Error; err != nil {
		jsonError(c, http.StatusBadRequest, "project type not found")
		return
	}

	if err := database.DB.Create(&project).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save project")
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "project", project.ID, "create", "Created project "+project.Name)
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "project not found")
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := applyProjectRequest(&project, &req); msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	if err := database.DB.Save(&project).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save project")
		return
	}

	// status and priority feed the demand and gap reports
	reportCache.InvalidateAll()
	database.CreateAuditLog(middleware.CurrentUserID(c), "project", project.ID, "update", "Updated project "+project.Name)
	c.JSON(http.StatusOK, project)
}

func DeleteProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "project not found")
		return
	}

	var assigned int64
	database.DB.Model(&models.Assignment{}).Where("project_id = ?", project.ID).Count(&assigned)
	if assigned > 0 {
		jsonError(c, http.StatusConflict, "project still has assignments")
		return
	}

	if err := database.DB.Delete(&project).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to delete project")
		return
	}

	reportCache.InvalidateAll()
	database.CreateAuditLog(middleware.CurrentUserID(c), "project", project.ID, "delete", "Deleted project "+project.Name)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
