// Package router assembles the gin engine from the application modules.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "laundry_backend/internal/http"
	"laundry_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// New builds the HTTP engine: shared middleware, health and metrics
// endpoints, and every module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	engine.GET("/api/health", func(c *gin.Context) {
		if app.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := app.Health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(10), 30, app.Logger)
	v1 := engine.Group("/api/v1")
	v1.Use(limiter.RateLimit())

	protected := v1.Group("")
	protected.Use(httpkit.AuthRequired(app.Config))

	routerCtx := &apphttp.RouterContext{
		Engine:    engine,
		V1:        v1,
		Protected: protected,
		Config:    app.Config,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("module registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}
