package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler serves liveness, readiness and metrics endpoints.
type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"status": "healthy"},
	})
}

func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"data":   gin.H{"status": "database unreachable"},
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"status": "ready"},
	})
}

func (h *HealthHandler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}
