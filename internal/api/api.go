// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bevora/distops/internal/api/handlers"
	"github.com/bevora/distops/internal/api/middleware"
	"github.com/bevora/distops/internal/service"
)

type Services struct {
	InsightService *service.InsightService
	MarginService  *service.MarginService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.InsightService != nil {
			insightHandler := handlers.NewInsightHandler(services.InsightService)
			insightGroup := apiGroup.Group("/insights")
			{
				insightGroup.GET("/summary", insightHandler.GetSummary)
				insightGroup.GET("/forecast/:product_id", insightHandler.GetForecast)
				insightGroup.GET("/product/:product_id", insightHandler.GetProduct)
				insightGroup.GET("/reorders", insightHandler.GetReorders)
				insightGroup.GET("/anomalies", insightHandler.GetAnomalies)
				insightGroup.GET("/pricing", insightHandler.GetPricing)
			}
		}

		if services.MarginService != nil {
			marginHandler := handlers.NewMarginHandler(services.MarginService)
			apiGroup.POST("/margin/evaluate", marginHandler.Evaluate)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
