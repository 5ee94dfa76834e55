package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/handler/appointment"
	authhandler "github.com/clinicore/clinic-api/internal/handler/auth"
	"github.com/clinicore/clinic-api/internal/handler/catalog"
	"github.com/clinicore/clinic-api/internal/handler/clinic"
	"github.com/clinicore/clinic-api/internal/handler/metrics"
	"github.com/clinicore/clinic-api/internal/handler/patient"
	"github.com/clinicore/clinic-api/internal/handler/portal"
	"github.com/clinicore/clinic-api/internal/handler/prescription"
	"github.com/clinicore/clinic-api/internal/handler/staff"
	"github.com/clinicore/clinic-api/internal/middleware"
)

type Config struct {
	RateLimit rate.Limit
	RateBurst int
	CORS      middleware.CORSConfig
}

type Handlers struct {
	Health       *handler.HealthHandler
	Metrics      *metrics.Handler
	Auth         *authhandler.Handler
	Clinic       *clinic.Handler
	Staff        *staff.Handler
	Patient      *patient.Handler
	Catalog      *catalog.Handler
	Appointment  *appointment.Handler
	Prescription *prescription.Handler
	Portal       *portal.Handler
}

type Router struct {
	engine   *gin.Engine
	guard    *middleware.Guard
	handlers Handlers
}

func New(guard *middleware.Guard, handlers Handlers, cfg Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		handlers.Metrics.Middleware(),
		middleware.CORS(cfg.CORS),
	)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  cfg.RateLimit,
		Burst: cfg.RateBurst,
	})
	engine.Use(limiter.RateLimit())

	return &Router{
		engine:   engine,
		guard:    guard,
		handlers: handlers,
	}
}

// Setup wires every route. Three surfaces: public (no token), protected
// (token required, clinic resolved per route by the guard) and portal
// (token required, no clinic membership).
func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	health := api.Group("/health")
	{
		health.GET("/live", r.handlers.Health.LivenessCheck)
		health.GET("/ready", r.handlers.Health.ReadinessCheck)
	}
	api.GET("/metrics", r.handlers.Metrics.Handler())

	protected := api.Group("", r.guard.Authenticate())

	r.handlers.Auth.RegisterRoutes(api, protected)
	r.handlers.Clinic.RegisterRoutes(protected)
	r.handlers.Staff.RegisterRoutes(protected)
	r.handlers.Patient.RegisterRoutes(protected)
	r.handlers.Catalog.RegisterRoutes(protected)
	r.handlers.Appointment.RegisterRoutes(protected)
	r.handlers.Prescription.RegisterRoutes(protected)
	r.handlers.Portal.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
