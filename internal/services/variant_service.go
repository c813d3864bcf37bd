package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"preseason-api/internal/models"
)

// VariantCatalog is what the copy operation needs from the product catalog
type VariantCatalog interface {
	FindVariant(ctx context.Context, brandID uuid.UUID, baseName, size, color string) (*models.Product, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error)
}

// OrderStore is what the copy operation needs from the order store
type OrderStore interface {
	GetWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	RecalculateTotal(ctx context.Context, orderID uuid.UUID) error
	CountOrderNumbersLike(ctx context.Context, prefix string) (int64, error)
}

// VariantService builds variant mappings and copies orders across locations
type VariantService struct {
	catalog VariantCatalog
	orders  OrderStore
	log     *logrus.Entry
}

func NewVariantService(catalog VariantCatalog, orders OrderStore, logger *logrus.Logger) *VariantService {
	return &VariantService{
		catalog: catalog,
		orders:  orders,
		log:     logger.WithField("component", "variants"),
	}
}

// BuildColorMapping expands the buyer's per-family color choices into a
// per-size mapping table: one entry per size present in the family's items,
// all carrying the same from/to pair. Families without a choice, or listed in
// skipFamilies, are omitted.
func BuildColorMapping(families []models.ProductFamily, colorChoices map[string]models.ColorSwap, skipFamilies []string) models.VariantMapping {
	skip := make(map[string]bool, len(skipFamilies))
	for _, name := range skipFamilies {
		skip[name] = true
	}

	mapping := make(models.VariantMapping)
	for _, family := range families {
		swap, ok := colorChoices[family.BaseName]
		if !ok || skip[family.BaseName] {
			continue
		}
		sizes := make(map[string]models.ColorSwap)
		for _, size := range family.Sizes() {
			sizes[size] = swap
		}
		if len(sizes) > 0 {
			mapping[family.BaseName] = sizes
		}
	}
	return mapping
}

// CopyOrder duplicates an order to another location, applying the buyer's
// color substitutions. A remapped variant missing from the catalog skips that
// item and moves on; only collaborator failures are fatal.
func (s *VariantService) CopyOrder(ctx context.Context, orderID uuid.UUID, req models.CopyOrderRequest) (*models.CopyOrderResult, error) {
	source, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source order: %w", err)
	}

	products := make([]models.Product, 0, len(source.Items))
	for _, item := range source.Items {
		if item.Product != nil {
			products = append(products, *item.Product)
		}
	}
	families := models.GroupIntoFamilies(products)
	mapping := BuildColorMapping(families, req.ColorChoices, req.SkipFamilies)

	skip := make(map[string]bool, len(req.SkipFamilies))
	for _, name := range req.SkipFamilies {
		skip[name] = true
	}

	brand, err := s.catalog.GetBrand(ctx, source.BrandID)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand: %w", err)
	}
	location, err := s.catalog.GetLocation(ctx, req.TargetLocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target location: %w", err)
	}

	orderNumber, err := s.nextOrderNumber(ctx, source, brand, location)
	if err != nil {
		return nil, err
	}

	target := &models.Order{
		OrderNumber: orderNumber,
		SeasonID:    source.SeasonID,
		BrandID:     source.BrandID,
		LocationID:  req.TargetLocationID,
		ShipDate:    source.ShipDate,
		OrderType:   source.OrderType,
		Status:      models.OrderStatusDraft,
		CreatedBy:   source.CreatedBy,
	}
	if err := s.orders.Create(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	result := &models.CopyOrderResult{}
	items := make([]models.OrderItem, 0, len(source.Items))

	for _, item := range source.Items {
		if item.Product == nil {
			result.ItemsSkipped++
			continue
		}
		base := item.Product.BaseName()
		if skip[base] {
			result.ItemsSkipped++
			continue
		}

		product := item.Product
		if sizes, ok := mapping[base]; ok {
			swap, ok := sizes[item.Product.Size]
			if !ok {
				result.ItemsSkipped++
				continue
			}
			remapped, err := s.catalog.FindVariant(ctx, source.BrandID, base, item.Product.Size, swap.To)
			if err != nil {
				return nil, fmt.Errorf("variant lookup failed: %w", err)
			}
			if remapped == nil {
				s.log.WithFields(logrus.Fields{
					"family": base,
					"size":   item.Product.Size,
					"color":  swap.To,
				}).Debug("target variant not in catalog, skipping item")
				result.ItemsSkipped++
				continue
			}
			product = remapped
		}

		unitCost := item.UnitCost
		if product.WholesaleCost != nil {
			unitCost = *product.WholesaleCost
		}
		items = append(items, models.OrderItem{
			OrderID:   target.ID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitCost:  unitCost,
			LineTotal: unitCost * float64(item.Quantity),
		})
		result.ItemsCopied++
	}

	if err := s.orders.CreateItems(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to copy order items: %w", err)
	}
	if err := s.orders.RecalculateTotal(ctx, target.ID); err != nil {
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}

	copied, err := s.orders.GetWithItems(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	result.Order = copied

	s.log.WithFields(logrus.Fields{
		"sourceOrder": source.OrderNumber,
		"targetOrder": target.OrderNumber,
		"copied":      result.ItemsCopied,
		"skipped":     result.ItemsSkipped,
	}).Info("order copied")

	return result, nil
}

func (s *VariantService) nextOrderNumber(ctx context.Context, source *models.Order, brand *models.Brand, location *models.Location) (string, error) {
	base := OrderNumber(source.ShipDate, brand, location)
	count, err := s.orders.CountOrderNumbersLike(ctx, base)
	if err != nil {
		return "", fmt.Errorf("failed to check order numbers: %w", err)
	}
	if count > 0 {
		return fmt.Sprintf("%s-%d", base, count+1), nil
	}
	return base, nil
}
