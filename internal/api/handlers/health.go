package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seriesgen/internal/api/models"
)

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
