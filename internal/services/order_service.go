package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"preseason-api/internal/models"
)

// OrderCatalog is what order creation needs from the catalog
type OrderCatalog interface {
	GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error)
	GetSeason(ctx context.Context, id uuid.UUID) (*models.Season, error)
}

// CreateOrderRequest creates one preseason order with its line items
type CreateOrderRequest struct {
	SeasonID   uuid.UUID                `json:"seasonId" binding:"required"`
	BrandID    uuid.UUID                `json:"brandId" binding:"required"`
	LocationID uuid.UUID                `json:"locationId" binding:"required"`
	ShipDate   time.Time                `json:"shipDate" binding:"required"`
	Items      []CreateOrderItemRequest `json:"items"`
	CreatedBy  string                   `json:"-"`
}

type CreateOrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	UnitCost  float64   `json:"unitCost"`
}

// OrderService creates and reads preseason orders
type OrderService struct {
	catalog OrderCatalog
	orders  OrderStore
	log     *logrus.Entry
}

func NewOrderService(catalog OrderCatalog, orders OrderStore, logger *logrus.Logger) *OrderService {
	return &OrderService{
		catalog: catalog,
		orders:  orders,
		log:     logger.WithField("component", "orders"),
	}
}

// OrderNumber builds the buyer-convention order number MONYY-BRAND-LOC, e.g.
// "JUL25-PRA-SLC". Brand falls back to the first three letters of its name
// when no code is set.
func OrderNumber(shipDate time.Time, brand *models.Brand, location *models.Location) string {
	month := strings.ToUpper(shipDate.Format("Jan"))
	year := shipDate.Year() % 100

	brandCode := brand.Code
	if brandCode == "" {
		name := strings.ToUpper(strings.ReplaceAll(brand.Name, " ", ""))
		if len(name) > 3 {
			name = name[:3]
		}
		brandCode = name
	}

	return fmt.Sprintf("%s%02d-%s-%s", month, year, strings.ToUpper(brandCode), strings.ToUpper(location.Code))
}

// Create builds the order, numbers it, and attaches its items.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	brand, err := s.catalog.GetBrand(ctx, req.BrandID)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand: %w", err)
	}
	location, err := s.catalog.GetLocation(ctx, req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load location: %w", err)
	}
	if _, err := s.catalog.GetSeason(ctx, req.SeasonID); err != nil {
		return nil, fmt.Errorf("failed to load season: %w", err)
	}

	base := OrderNumber(req.ShipDate, brand, location)
	orderNumber := base
	count, err := s.orders.CountOrderNumbersLike(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to check order numbers: %w", err)
	}
	if count > 0 {
		orderNumber = fmt.Sprintf("%s-%d", base, count+1)
	}

	order := &models.Order{
		OrderNumber: orderNumber,
		SeasonID:    req.SeasonID,
		BrandID:     req.BrandID,
		LocationID:  req.LocationID,
		ShipDate:    req.ShipDate,
		OrderType:   models.OrderTypePreseason,
		Status:      models.OrderStatusDraft,
		CreatedBy:   req.CreatedBy,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			LineTotal: item.UnitCost * float64(item.Quantity),
		})
	}
	if err := s.orders.CreateItems(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}
	if err := s.orders.RecalculateTotal(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"orderNumber": orderNumber,
		"items":       len(items),
	}).Info("order created")

	return s.orders.GetWithItems(ctx, order.ID)
}
