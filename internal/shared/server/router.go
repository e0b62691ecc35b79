package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"docverify-backend/internal/services/health"
	"docverify-backend/internal/shared/config"
	"docverify-backend/internal/shared/metrics"
	"docverify-backend/internal/shared/server/middleware"
	"docverify-backend/internal/shared/server/respond"
)

const rateLimitGroupSubmit = "SUBMIT"

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// SubmitRouteRegistrar is implemented by features that take the submit rate limit.
type SubmitRouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup, submitMiddleware ...gin.HandlerFunc)
}

// RouterDeps are the wired feature handlers.
type RouterDeps struct {
	DB           *sql.DB
	Clients      RouteRegistrar
	Transactions SubmitRouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		metrics.Middleware(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler(health.NewService(deps.DB)))

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.AuthRequired))

	if deps.Clients != nil {
		deps.Clients.RegisterRoutes(protected)
	}
	if deps.Transactions != nil {
		submitLimit := middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateLimitGroupSubmit,
			Rules: map[string]middleware.RateLimitRule{
				rateLimitGroupSubmit: {Rate: cfg.SubmitRateLimit, Burst: cfg.SubmitRateBurst},
			},
		})
		deps.Transactions.RegisterRoutes(protected, submitLimit)
	}

	return r
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := svc.Status(c.Request.Context())
		if !report.OK {
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "database unreachable", report)
			return
		}
		respond.OK(c, report)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
