package handlers

import (
	"net/http"

	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/models"

	"github.com/gin-gonic/gin"
)

func ListAuditLogs(c *gin.Context) {
	var logs []models.AuditLog
	database.DB.
		Preload("User").
		Order("created_at desc").
		Limit(200).
		Find(&logs)

	c.JSON(http.StatusOK, logs)
}
