package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/medibook/booking-api/internal/handler"
	adminh "github.com/medibook/booking-api/internal/handler/admin"
	authh "github.com/medibook/booking-api/internal/handler/auth"
	doctorh "github.com/medibook/booking-api/internal/handler/doctor"
	userh "github.com/medibook/booking-api/internal/handler/user"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/pkg/auth"
)

type RouterConfig struct {
	RateLimitRPS   int
	RateLimitBurst int
	Timeout        time.Duration
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	authH   *authh.Handler
	userH   *userh.Handler
	doctorH *doctorh.Handler
	adminH  *adminh.Handler
	healthH *handler.HealthHandler
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	authMW *middleware.AuthMiddleware,
	authH *authh.Handler,
	userH *userh.Handler,
	doctorH *doctorh.Handler,
	adminH *adminh.Handler,
	healthH *handler.HealthHandler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("slotdate", model.SlotDate)
		v.RegisterValidation("slottime", model.SlotTime)
	}

	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    authMW,
		authH:   authH,
		userH:   userH,
		doctorH: doctorH,
		adminH:  adminH,
		healthH: healthH,
		metrics: initRouterMetrics(config.MetricsPrefix),
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: timeout}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	userRoutes := protected.Group("")
	userRoutes.Use(r.auth.RequireRole(auth.RoleUser))
	r.userH.RegisterRoutes(userRoutes)

	doctorRoutes := protected.Group("")
	doctorRoutes.Use(r.auth.RequireRole(auth.RoleDoctor))
	r.doctorH.RegisterRoutes(doctorRoutes)

	adminRoutes := protected.Group("")
	adminRoutes.Use(r.auth.RequireRole(auth.RoleAdmin))
	r.adminH.RegisterRoutes(adminRoutes)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.healthH.LivenessCheck)
		health.GET("/ready", r.healthH.ReadinessCheck)
		health.GET("/metrics", r.healthH.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterRoutes(rg)
	r.doctorH.RegisterPublicRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
