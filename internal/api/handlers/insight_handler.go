// internal/api/handlers/insight_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bevora/distops/internal/service"
)

type InsightHandler struct {
	insightService *service.InsightService
}

func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
	}
}

// GetSummary returns the aggregated catalog insight summary.
func (h *InsightHandler) GetSummary(c *gin.Context) {
	summary, err := h.insightService.Summary(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build insight summary")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build insight summary",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetForecast returns the demand forecast for a single product.
func (h *InsightHandler) GetForecast(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product id",
		})
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid days parameter",
			})
			return
		}
	}

	forecast, err := h.insightService.ProductForecast(c.Request.Context(), productID, days)
	if err != nil {
		log.Error().Err(err).Int64("product_id", productID).Msg("Failed to build forecast")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build forecast",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// GetProduct returns the full insight bundle for a single product.
func (h *InsightHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product id",
		})
		return
	}

	insight, err := h.insightService.Product(c.Request.Context(), productID)
	if err != nil {
		log.Error().Err(err).Int64("product_id", productID).Msg("Failed to build product insight")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build product insight",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, insight)
}

// GetReorders returns reorder recommendations sorted by urgency.
func (h *InsightHandler) GetReorders(c *gin.Context) {
	recommendations, err := h.insightService.Reorders(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build reorder recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build reorder recommendations",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// GetAnomalies returns inventory anomaly alerts across the catalog.
func (h *InsightHandler) GetAnomalies(c *gin.Context) {
	anomalies, err := h.insightService.Anomalies(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to detect anomalies")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to detect anomalies",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"anomalies": anomalies,
		"count":     len(anomalies),
	})
}

// GetPricing returns pricing adjustment suggestions across the catalog.
func (h *InsightHandler) GetPricing(c *gin.Context) {
	suggestions, err := h.insightService.Pricing(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build pricing suggestions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build pricing suggestions",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}
