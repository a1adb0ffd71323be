package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

// Health is the liveness probe: status, current time and process
// uptime in seconds since start.
func Health(start time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, healthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Uptime:    time.Since(start).Seconds(),
		})
	}
}
