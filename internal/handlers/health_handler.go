package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse is the body of the health endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// Root reports that the service is running.
// @Summary Service banner
// @Tags    health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router  / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "AI Finance backend is running"})
}

// Health is the liveness probe. It does not touch the database.
// @Summary Health check
// @Tags    health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router  /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "healthy"})
}
