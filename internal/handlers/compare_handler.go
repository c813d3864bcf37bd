package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"preseason-api/internal/models"
	"preseason-api/internal/services"
)

type CompareHandler struct {
	service *services.CompareService
}

func NewCompareHandler(service *services.CompareService) *CompareHandler {
	return &CompareHandler{service: service}
}

// ComparePrices diffs two seasons' price snapshots
// GET /api/v1/comparisons/prices?season1=&season2=&brandId=
func (h *CompareHandler) ComparePrices(c *gin.Context) {
	season1, err := uuid.Parse(c.Query("season1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_SEASON", Message: "season1 must be a UUID"},
		})
		return
	}
	season2, err := uuid.Parse(c.Query("season2"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_SEASON", Message: "season2 must be a UUID"},
		})
		return
	}

	var brandID *uuid.UUID
	if raw := c.Query("brandId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "INVALID_BRAND", Message: "brandId must be a UUID"},
			})
			return
		}
		brandID = &id
	}

	comparison, err := h.service.Compare(c.Request.Context(), season1, season2, brandID)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "COMPARE_FAILED", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comparison": comparison})
}
