package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"preseason-api/internal/ingest"
	"preseason-api/internal/models"
)

// SnapshotCacheTTL bounds how stale a cached season price snapshot can get.
// Snapshots only change during ingestion, so a short TTL is enough.
const SnapshotCacheTTL = 5 * time.Minute

// CatalogRepository owns products, season prices, and the surrounding lookup
// tables. It implements ingest.CatalogStore. The redis client may be nil;
// snapshot caching is skipped in that case.
type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	return &CatalogRepository{db: db, redis: redisClient}
}

var _ ingest.CatalogStore = (*CatalogRepository)(nil)

// FindByUPC looks up a product by its (brand, upc) key. Returns nil when no
// record exists.
func (r *CatalogRepository) FindByUPC(ctx context.Context, brandID uuid.UUID, upc string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND upc = ?", brandID, upc).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return &product, nil
}

// Upsert inserts or updates a product keyed by (brand_id, upc) and reports
// which happened. The product's ID is populated either way.
func (r *CatalogRepository) Upsert(ctx context.Context, product *models.Product) (ingest.UpsertOutcome, error) {
	existing, err := r.FindByUPC(ctx, product.BrandID, product.UPC)
	if err != nil {
		return ingest.OutcomeUpdated, err
	}

	if existing == nil {
		if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
			return ingest.OutcomeAdded, classifyStoreErr(err)
		}
		return ingest.OutcomeAdded, nil
	}

	existing.SKU = product.SKU
	existing.Name = product.Name
	existing.Size = product.Size
	existing.Color = product.Color
	existing.Gender = product.Gender
	existing.Category = product.Category
	existing.SubCategory = product.SubCategory
	existing.Inseam = product.Inseam
	existing.Active = true
	if product.WholesaleCost != nil {
		existing.WholesaleCost = product.WholesaleCost
	}
	if product.MSRP != nil {
		existing.MSRP = product.MSRP
	}
	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return ingest.OutcomeUpdated, classifyStoreErr(err)
	}
	product.ID = existing.ID
	return ingest.OutcomeUpdated, nil
}

// SavePriceSnapshot upserts the season-scoped price row for a product.
func (r *CatalogRepository) SavePriceSnapshot(ctx context.Context, snapshot *models.SeasonPrice) error {
	var existing models.SeasonPrice
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND product_id = ?", snapshot.SeasonID, snapshot.ProductID).
		First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
			return classifyStoreErr(err)
		}
	case err != nil:
		return classifyStoreErr(err)
	default:
		existing.Wholesale = snapshot.Wholesale
		existing.MSRP = snapshot.MSRP
		existing.UPC = snapshot.UPC
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return classifyStoreErr(err)
		}
		snapshot.ID = existing.ID
	}

	r.invalidateSnapshotCache(ctx, snapshot.SeasonID)
	return nil
}

// GetPriceSnapshot returns one season's prices keyed by UPC, optionally scoped
// to a brand, with product identity fields joined in. Results are cached in
// redis per (season, brand) for SnapshotCacheTTL.
func (r *CatalogRepository) GetPriceSnapshot(ctx context.Context, seasonID uuid.UUID, brandID *uuid.UUID) (map[string]models.PricePoint, error) {
	cacheKey := snapshotCacheKey(seasonID, brandID)
	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var snapshot map[string]models.PricePoint
			if json.Unmarshal([]byte(cached), &snapshot) == nil {
				return snapshot, nil
			}
		}
	}

	type row struct {
		models.SeasonPrice
		Name  string
		SKU   string
		Color string
		Size  string
	}
	query := r.db.WithContext(ctx).
		Table("season_prices").
		Select("season_prices.*, products.name, products.sku, products.color, products.size").
		Joins("JOIN products ON products.id = season_prices.product_id").
		Where("season_prices.season_id = ?", seasonID)
	if brandID != nil {
		query = query.Where("season_prices.brand_id = ?", *brandID)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		return nil, classifyStoreErr(err)
	}

	snapshot := make(map[string]models.PricePoint, len(rows))
	for _, rec := range rows {
		snapshot[rec.UPC] = models.PricePoint{
			UPC:       rec.UPC,
			ProductID: rec.ProductID,
			BrandID:   rec.BrandID,
			Name:      rec.Name,
			SKU:       rec.SKU,
			Color:     rec.Color,
			Size:      rec.Size,
			Wholesale: rec.Wholesale,
			MSRP:      rec.MSRP,
		}
	}

	if r.redis != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			r.redis.Set(ctx, cacheKey, data, SnapshotCacheTTL)
		}
	}
	return snapshot, nil
}

// ListFamilies groups a brand's active products into variant families.
func (r *CatalogRepository) ListFamilies(ctx context.Context, brandID uuid.UUID) ([]models.ProductFamily, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND active = ?", brandID, true).
		Order("name, color, size").
		Find(&products).Error
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return models.GroupIntoFamilies(products), nil
}

// FindVariant resolves a (base_name, size, color) combination within a brand.
// Base names are derived, not stored, so this filters the brand's products in
// memory. Returns nil on a miss - callers treat that as a recoverable skip.
func (r *CatalogRepository) FindVariant(ctx context.Context, brandID uuid.UUID, baseName, size, color string) (*models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND size = ? AND color = ? AND active = ?", brandID, size, color, true).
		Find(&products).Error
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	for i := range products {
		if products[i].BaseName() == baseName {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (r *CatalogRepository) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, classifyStoreErr(err)
	}
	return &brand, nil
}

func (r *CatalogRepository) GetSeason(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	var season models.Season
	if err := r.db.WithContext(ctx).First(&season, "id = ?", id).Error; err != nil {
		return nil, classifyStoreErr(err)
	}
	return &season, nil
}

func (r *CatalogRepository) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, classifyStoreErr(err)
	}
	return &location, nil
}

func (r *CatalogRepository) invalidateSnapshotCache(ctx context.Context, seasonID uuid.UUID) {
	if r.redis == nil {
		return
	}
	pattern := fmt.Sprintf("preseason:snapshot:%s:*", seasonID)
	iter := r.redis.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		r.redis.Del(ctx, iter.Val())
	}
}

func snapshotCacheKey(seasonID uuid.UUID, brandID *uuid.UUID) string {
	brand := "all"
	if brandID != nil {
		brand = brandID.String()
	}
	return fmt.Sprintf("preseason:snapshot:%s:%s", seasonID, brand)
}

// classifyStoreErr separates systemic failures (connection loss, timeouts)
// from per-row data errors so the ingestion engine can abort on the former
// and keep going on the latter.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ingest.ErrStorageUnavailable, err)
	}
	msg := err.Error()
	for _, marker := range []string{"connection refused", "connection reset", "broken pipe", "bad connection", "server closed"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ingest.ErrStorageUnavailable, err)
		}
	}
	return err
}
