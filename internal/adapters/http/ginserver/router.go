package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter assembles the exporter's routes. The health and readiness
// aliases exist because probes and dashboards disagree on spelling.
func NewRouter(h *Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.RedirectTrailingSlash = false
	r.RemoveExtraSlash = true

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/", h.Index)
	r.GET("/metrics", h.Metrics)
	r.GET("/health", h.Health)
	r.GET("/healthz", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/readyz", h.Ready)
	r.GET("/live", h.Live)

	return r
}
