package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtinth/auden/services"
)

// respondError splits user-input failures from infrastructure failures, so a
// bad import or an over-limit vote reads differently from an unreachable
// database.
func respondError(c *gin.Context, err error) {
	if services.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
