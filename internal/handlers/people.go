package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/middleware"
	"github.com/steiner385/capacinator/internal/models"

	"github.com/gin-gonic/gin"
)

func ListPeople(c *gin.Context) {
	dbq := database.DB.Preload("Role").Preload("Location").Order("name asc")

	if roleIDStr := c.Query("role_id"); roleIDStr != "" {
		if rid, err := strconv.Atoi(roleIDStr); err == nil && rid > 0 {
			dbq = dbq.Where("role_id = ?", rid)
		}
	}
	if locIDStr := c.Query("location_id"); locIDStr != "" {
		if lid, err := strconv.Atoi(locIDStr); err == nil && lid > 0 {
			dbq = dbq.Where("location_id = ?", lid)
		}
	}

	var people []models.Person
	if err := dbq.Find(&people).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load people")
		return
	}
	c.JSON(http.StatusOK, people)
}

func GetPerson(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "invalid person id")
		return
	}

	var person models.Person
	if err := database.DB.
		Preload("Role").
		Preload("Location").
		Preload("Assignments.Project").
		Preload("Assignments.Role").
		First(&person, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "person not found")
		return
	}
	c.JSON(http.StatusOK, person)
}

type personRequest struct {
	Name                   string   `json:"name"`
	Email                  string   `json:"email"`
	RoleID                 uint     `json:"role_id"`
	LocationID             uint     `json:"location_id"`
	DefaultHoursPerDay     *float64 `json:"default_hours_per_day"`
	AvailabilityPercentage *float64 `json:"availability_percentage"`
	WorkerType             string   `json:"worker_type"`
}

func (r *personRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if len(r.Name) < 2 {
		return "name must be at least 2 characters"
	}
	if !strings.Contains(r.Email, "@") {
		return "invalid email"
	}
	if r.RoleID == 0 {
		return "role_id is required"
	}
	if r.AvailabilityPercentage != nil && (*r.AvailabilityPercentage < 0 || *r.AvailabilityPercentage > 100) {
		return "availability_percentage must be between 0 and 100"
	}
	if r.DefaultHoursPerDay != nil && (*r.DefaultHoursPerDay <= 0 || *r.DefaultHoursPerDay > 24) {
		return "default_hours_per_day must be between 0 and 24"
	}
	return ""
}

func CreatePerson(c *gin.Context) {
	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	var role models.Role
	if err := database.DB.First(&role, req.RoleID).Error; err != nil {
		jsonError(c, http.StatusBadRequest, "role not found")
		return
	}

	person := models.Person{
		Name:                   req.Name,
		Email:                  req.Email,
		RoleID:                 req.RoleID,
		LocationID:             req.LocationID,
		DefaultHoursPerDay:     8,
		AvailabilityPercentage: 100,
		WorkerType:             models.WorkerEmployee,
	}
	if req.DefaultHoursPerDay != nil {
		person.DefaultHoursPerDay = *req.DefaultHoursPerDay
	}
	if req.AvailabilityPercentage != nil {
		person.AvailabilityPercentage = *req.AvailabilityPercentage
	}
	if req.WorkerType != "" {
		person.WorkerType = models.WorkerType(req.WorkerType)
	}

	if err := database.DB.Create(&person).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save person")
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "person", person.ID, "create", "Created person "+person.Name)
	c.JSON(http.StatusCreated, person)
}

func UpdatePerson(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "invalid person id")
		return
	}

	var person models.Person
	if err := database.DB.First(&person, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "person not found")
		return
	}

	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	person.Name = req.Name
	person.Email = req.Email
	person.RoleID = req.RoleID
	person.LocationID = req.LocationID
	if req.DefaultHoursPerDay != nil {
		person.DefaultHoursPerDay = *req.DefaultHoursPerDay
	}
	if req.AvailabilityPercentage != nil {
		person.AvailabilityPercentage = *req.AvailabilityPercentage
	}
	if req.WorkerType != "" {
		person.WorkerType = models.WorkerType(req.WorkerType)
	}

	if err := database.DB.Save(&person).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save person")
		return
	}

	// availability changes shift every capacity number
	reportCache.InvalidateAll()
	database.CreateAuditLog(middleware.CurrentUserID(c), "person", person.ID, "update", "Updated person "+person.Name)
	c.JSON(http.StatusOK, person)
}

func DeletePerson(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		jsonError(c, http.StatusBadRequest, "invalid person id")
		return
	}

	var person models.Person
	if err := database.DB.First(&person, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "person not found")
		return
	}

	var assigned int64
	database.DB.Model(&models.Assignment{}).Where("person_id = ?", person.ID).Count(&assigned)
	if assigned > 0 {
		jsonError(c, http.StatusConflict, "person still has assignments")
		return
	}

	if err := database.DB.Delete(&person).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to delete person")
		return
	}

	reportCache.InvalidateAll()
	database.CreateAuditLog(middleware.CurrentUserID(c), "person", person.ID, "delete", "Deleted person "+person.Name)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
