// internal/api/handlers/margin_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bevora/distops/internal/domain"
	"github.com/bevora/distops/internal/service"
)

type MarginHandler struct {
	marginService *service.MarginService
}

func NewMarginHandler(marginService *service.MarginService) *MarginHandler {
	return &MarginHandler{
		marginService: marginService,
	}
}

// Evaluate runs the margin guard over a proposed discount.
func (h *MarginHandler) Evaluate(c *gin.Context) {
	var input domain.DiscountEvaluationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.marginService.Evaluate(c.Request.Context(), input)
	if err != nil {
		var invalid *domain.ValidationError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid evaluation input",
				"details": err.Error(),
			})
			return
		}
		log.Error().Err(err).Msg("Failed to evaluate discount")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to evaluate discount",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
