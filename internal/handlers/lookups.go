package handlers

import (
	"net/http"

	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/models"

	"github.com/gin-gonic/gin"
)

// Reference catalog endpoints backing the filter dropdowns.

func ListRoles(c *gin.Context) {
	var roles []models.Role
	if err := database.DB.Order("name asc").Find(&roles).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load roles")
		return
	}
	c.JSON(http.StatusOK, roles)
}

func ListLocations(c *gin.Context) {
	var locations []models.Location
	if err := database.DB.Order("name asc").Find(&locations).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load locations")
		return
	}
	c.JSON(http.StatusOK, locations)
}

func ListProjectTypes(c *gin.Context) {
	var types []models.ProjectType
	if err := database.DB.Order("name asc").Find(&types).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load project types")
		return
	}
	c.JSON(http.StatusOK, types)
}
