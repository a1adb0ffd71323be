package dispatch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-user-api/internal/apperr"
	"go-user-api/internal/transport/http/middleware"
)

func TestJSONSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	d := New(zap.NewNop())
	r.GET("/ok", d.JSON(http.StatusOK, func(c *gin.Context) (any, error) {
		return gin.H{"hello": "world"}, nil
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hello":"world"}`, w.Body.String())
}

func TestJSONFailureLogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	d := New(zap.New(core))
	r.GET("/boom", d.JSON(http.StatusOK, func(c *gin.Context) (any, error) {
		return nil, apperr.NotFound("User not found")
	}))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(middleware.KeyRequestID, "rid-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "rid-123", fields["rid"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
}
