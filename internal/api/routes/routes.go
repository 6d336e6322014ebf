// Package routes wires the versioned API surface onto the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/kestrelsec/warden/internal/api/handlers"
	"github.com/kestrelsec/warden/internal/api/middleware"
	"github.com/kestrelsec/warden/internal/config"
	"github.com/kestrelsec/warden/internal/gate"
	"github.com/kestrelsec/warden/internal/metrics"
	"github.com/kestrelsec/warden/internal/services"
)

// Register mounts all routes: public health/login, admission-gated
// validation endpoints, and token-protected security administration.
func Register(router *gin.Engine, g *gate.Gate, db *gorm.DB, cfg config.Config) error {
	audit := services.NewAuditService(db)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	validateHandler := handlers.NewValidateHandler(g, audit)
	securityHandler := handlers.NewSecurityHandler(g, audit)
	authHandler := handlers.NewAuthHandler(g, cfg.JWTSecret)

	router.GET("/healthz", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", authHandler.Login)

	validate := v1.Group("/validate")
	validate.Use(middleware.Admission(g, audit))
	{
		validate.POST("/input", validateHandler.Input)
		validate.POST("/plan", validateHandler.Plan)
		validate.POST("/solution", validateHandler.Solution)
	}

	security := v1.Group("/security")
	security.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		security.GET("/metrics", securityHandler.GetSecurityMetrics)
		security.GET("/gate", securityHandler.GetGateMetrics)
		security.GET("/threats", securityHandler.ListThreats)
		security.GET("/decisions", securityHandler.ListDecisions)
		security.POST("/block", securityHandler.Block)
		security.DELETE("/block/:identifier", securityHandler.Unblock)
		security.GET("/blocked/:identifier", securityHandler.BlockStatus)
	}

	return nil
}
