package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KeyRequestID is both the request/response header and the gin context
// key under which the id travels.
const KeyRequestID = "X-Request-ID"

// maxRequestIDLen caps inbound ids so a hostile client cannot inflate
// log lines.
const maxRequestIDLen = 64

// RequestID attaches a correlation id to the request: an acceptable
// inbound X-Request-ID is echoed, anything else is replaced with a
// fresh uuid. Downstream code reads it back via RequestIDFrom.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := sanitizeRequestID(c.Request.Header.Get(KeyRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

// RequestIDFrom returns the id attached by RequestID, or "" when the
// middleware is not mounted.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(KeyRequestID)
}

func sanitizeRequestID(rid string) string {
	if len(rid) > maxRequestIDLen {
		return ""
	}
	if strings.ContainsAny(rid, " \t\r\n\"") {
		return ""
	}
	return rid
}
