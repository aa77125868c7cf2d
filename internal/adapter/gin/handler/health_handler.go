package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"user-directory-api/internal/domain/health"
)

// HealthCheckResponse is the body of the liveness endpoints.
type HealthCheckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthHandler serves liveness checks. It never touches storage.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, toHealthResponse(health.Healthy()))
}

// Test handles GET /test
func (h *HealthHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, toHealthResponse(health.Test()))
}

func toHealthResponse(s health.Status) HealthCheckResponse {
	return HealthCheckResponse{Status: s.Status, Message: s.Message}
}
