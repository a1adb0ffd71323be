package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"go-user-api/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests to protect the database
// downstream.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.ErrorBody{Error: "Server busy"})
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
