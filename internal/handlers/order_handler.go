package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"preseason-api/internal/models"
	"preseason-api/internal/repository"
	"preseason-api/internal/services"
)

type OrderHandler struct {
	orders   *repository.OrderRepository
	service  *services.OrderService
	variants *services.VariantService
	export   *services.ExportService
	log      *logrus.Entry
}

func NewOrderHandler(orders *repository.OrderRepository, service *services.OrderService, variants *services.VariantService, export *services.ExportService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		service:  service,
		variants: variants,
		export:   export,
		log:      logger.WithField("component", "orders_api"),
	}
}

// Create creates a preseason order with line items
// POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	req.CreatedBy = c.GetString("user_id")

	order, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "CREATE_FAILED", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

// List returns orders filtered by season/brand/location/status
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	var filters repository.OrderListFilters
	if id, ok := parseUUIDQuery(c, "seasonId"); ok {
		filters.SeasonID = id
	} else {
		return
	}
	if id, ok := parseUUIDQuery(c, "brandId"); ok {
		filters.BrandID = id
	} else {
		return
	}
	if id, ok := parseUUIDQuery(c, "locationId"); ok {
		filters.LocationID = id
	} else {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		filters.Status = &status
	}

	orders, err := h.orders.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "LIST_FAILED", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// Get returns one order with its items
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetWithItems(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "ORDER_NOT_FOUND", Message: "Order not found"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// Families returns the order's items grouped into variant families, the input
// the copy dialog needs for color choices.
// GET /api/v1/orders/:id/families
func (h *OrderHandler) Families(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	families, err := h.orders.ListFamiliesForOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "ORDER_NOT_FOUND", Message: "Order not found"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "families": families})
}

// Copy duplicates an order to another location, remapping variant colors
// POST /api/v1/orders/:id/copy
func (h *OrderHandler) Copy(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req models.CopyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	result, err := h.variants.CopyOrder(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "COPY_FAILED", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// Export downloads the order as a vendor-facing XLSX order form
// GET /api/v1/orders/:id/export
func (h *OrderHandler) Export(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	f, filename, err := h.export.BuildOrderWorkbook(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "EXPORT_FAILED", Message: err.Error()},
		})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		h.log.WithError(err).Error("failed to stream order export")
	}
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_ID", Message: name + " must be a UUID"},
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDQuery reads an optional UUID query param. The bool reports whether
// the request should continue (false means a 400 was already written).
func parseUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_ID", Message: name + " must be a UUID"},
		})
		return nil, false
	}
	return &id, true
}
