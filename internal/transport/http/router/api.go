package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-user-api/internal/core/config"
	"go-user-api/internal/domain"
	"go-user-api/internal/service"
	"go-user-api/internal/transport/http/dispatch"
	"go-user-api/internal/transport/http/handler"
	mdw "go-user-api/internal/transport/http/middleware"
	"go-user-api/internal/transport/http/response"
	"go-user-api/pkg/validation"
)

// Deps carries the store handle and optional infrastructure into the
// route layer, injected once at startup.
type Deps struct {
	Repo domain.UserRepository
	RDB  *redis.Client
	// Now is the clock for in-process rate-limit windows; nil means
	// time.Now. Tests inject a fake clock here.
	Now func() time.Time
}

func NewAPIEngine(l *zap.Logger, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Init()

	r := gin.New()

	reg := prometheus.NewRegistry()
	counter := mdw.NewCounter(deps.RDB, deps.Now)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(cfg.Limits.GlobalRPS), cfg.Limits.GlobalBurst),
		mdw.RateLimitPerIP(counter, cfg.Limits.PerIPRequests, time.Duration(cfg.Limits.WindowMin)*time.Minute),
		mdw.ConcurrencyLimit(cfg.Limits.MaxConcurrent),
		mdw.MaxBodyBytes(cfg.Limits.MaxBodyMB<<20),
		mdw.SecureHeaders(),
		cors.New(cors.Config{
			AllowOrigins: []string{cfg.CORS.AllowedOrigin},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{"Origin", "Content-Type", mdw.KeyRequestID},
			MaxAge:       12 * time.Hour,
		}),
		mdw.Timeout(time.Duration(cfg.Limits.RequestTimeoutSec)*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(reg),
		mdw.AccessLog(l),
	)

	r.GET("/health", handler.Health(time.Now()))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	d := dispatch.New(l)
	h := handler.NewUserHandler(service.NewUserService(deps.Repo))

	users := r.Group("/api/users")
	{
		users.GET("", d.JSON(http.StatusOK, h.List))
		users.POST("", d.JSON(http.StatusCreated, h.Create))
		users.GET("/search/:query", d.JSON(http.StatusOK, h.Search))
		users.GET("/:id", d.JSON(http.StatusOK, h.Get))
		users.PUT("/:id", d.JSON(http.StatusOK, h.Update))
		users.DELETE("/:id", d.JSON(http.StatusOK, h.Delete))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorBody{Error: "Route not found"})
	})

	return r
}
