package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"preseason-api/internal/models"
)

// OrderRepository owns orders and their line items
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return classifyStoreErr(r.db.WithContext(ctx).Create(order).Error)
}

// GetWithItems loads an order with its items and their products
func (r *OrderRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return &order, nil
}

// OrderListFilters narrows List. Nil fields are ignored.
type OrderListFilters struct {
	SeasonID   *uuid.UUID
	BrandID    *uuid.UUID
	LocationID *uuid.UUID
	Status     *models.OrderStatus
}

func (r *OrderRepository) List(ctx context.Context, filters OrderListFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.SeasonID != nil {
		query = query.Where("season_id = ?", *filters.SeasonID)
	}
	if filters.BrandID != nil {
		query = query.Where("brand_id = ?", *filters.BrandID)
	}
	if filters.LocationID != nil {
		query = query.Where("location_id = ?", *filters.LocationID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, classifyStoreErr(err)
	}
	return orders, nil
}

// CountOrderNumbersLike counts existing orders whose number starts with the
// given prefix, used to suffix duplicate order numbers.
func (r *OrderRepository) CountOrderNumbersLike(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return 0, classifyStoreErr(err)
	}
	return count, nil
}

func (r *OrderRepository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return classifyStoreErr(r.db.WithContext(ctx).Create(&items).Error)
}

// RecalculateTotal rolls line totals up into the order's current total.
func (r *OrderRepository) RecalculateTotal(ctx context.Context, orderID uuid.UUID) error {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE orders SET current_total = (
			SELECT COALESCE(SUM(line_total), 0) FROM order_items WHERE order_id = ?
		) WHERE id = ?`, orderID, orderID).Error
	return classifyStoreErr(err)
}

// ListFamiliesForOrder groups an order's line items into product families.
func (r *OrderRepository) ListFamiliesForOrder(ctx context.Context, orderID uuid.UUID) ([]models.ProductFamily, error) {
	order, err := r.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Product != nil {
			products = append(products, *item.Product)
		}
	}
	return models.GroupIntoFamilies(products), nil
}
