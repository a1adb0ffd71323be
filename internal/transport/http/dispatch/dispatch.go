package dispatch

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-api/internal/apperr"
	"go-user-api/internal/transport/http/middleware"
	"go-user-api/internal/transport/http/response"
)

// HandlerFunc is the shape every route handler takes: produce a result
// or fail with a tagged error. The dispatcher owns status mapping and
// error rendering, so handlers never touch c.JSON for failures.
type HandlerFunc func(c *gin.Context) (any, error)

type Dispatcher struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Dispatcher { return &Dispatcher{log: log} }

// JSON wraps a handler, emitting its result with the given success
// status or the mapped error status and body on failure. Every failure
// is logged before the response is written.
func (d *Dispatcher) JSON(status int, h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := h(c)
		if err != nil {
			e := apperr.From(err)
			d.log.Error("request failed",
				zap.String("rid", middleware.RequestIDFrom(c)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", e.Status()),
				zap.Error(e),
			)
			c.JSON(e.Status(), response.ErrorBody{Error: e.Message, Details: e.Details})
			return
		}
		c.JSON(status, out)
	}
}
