package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"preseason-api/internal/models"
)

// UploadRepository persists the audit trail of ingestion runs
type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	return classifyStoreErr(r.db.WithContext(ctx).Create(upload).Error)
}

// List returns upload history, newest first, optionally scoped to a brand.
func (r *UploadRepository) List(ctx context.Context, brandID *uuid.UUID, limit int) ([]models.Upload, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Model(&models.Upload{})
	if brandID != nil {
		query = query.Where("brand_id = ?", *brandID)
	}

	var uploads []models.Upload
	if err := query.Order("created_at DESC").Limit(limit).Find(&uploads).Error; err != nil {
		return nil, classifyStoreErr(err)
	}
	return uploads, nil
}
