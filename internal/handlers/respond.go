package handlers

import "github.com/gin-gonic/gin"

// jsonError sends the uniform error envelope.
func jsonError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
