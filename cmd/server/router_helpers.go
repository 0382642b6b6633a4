package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"promatch.backend/internal/interfaces/http/handlers"
)

// applyCORSMiddleware allows the frontend origin with credentials so the auth cookie is sent
func applyCORSMiddleware(r *gin.Engine, allowedOrigin string) {
	allowedOrigin = strings.TrimRight(allowedOrigin, "/")
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && origin == allowedOrigin {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

// registerOpsRoutes exposes /health and /metrics
func registerOpsRoutes(r *gin.Engine, reg *prometheus.Registry, health *handlers.HealthHandler) {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}
