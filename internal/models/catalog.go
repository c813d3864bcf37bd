package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeasonStatus represents the lifecycle state of a buying season
type SeasonStatus string

const (
	SeasonStatusPlanning SeasonStatus = "planning"
	SeasonStatusOrdering SeasonStatus = "ordering"
	SeasonStatusClosed   SeasonStatus = "closed"
)

// Brand represents a vendor brand (Prana, Petzl, Scarpa, ...)
type Brand struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	Code      string    `json:"code" gorm:"size:8"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Location represents a store/gym location orders ship to
type Location struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	Code      string    `json:"code" gorm:"not null;uniqueIndex;size:8"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Season represents a buying season ("Fall 2025", "Spring 2026")
type Season struct {
	ID        uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string       `json:"name" gorm:"not null;uniqueIndex"`
	Status    SeasonStatus `json:"status" gorm:"default:'planning'"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Product is a catalog entry keyed by (brand_id, upc). Vendor files carry the
// same UPC across seasons; season-level pricing lives in SeasonPrice.
type Product struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BrandID       uuid.UUID      `json:"brandId" gorm:"type:uuid;not null;index;uniqueIndex:idx_products_brand_upc"`
	UPC           string         `json:"upc" gorm:"not null;uniqueIndex:idx_products_brand_upc"`
	SKU           string         `json:"sku"`
	Name          string         `json:"name" gorm:"not null"`
	Size          string         `json:"size"`
	Color         string         `json:"color"`
	Gender        string         `json:"gender"`
	Category      string         `json:"category"`
	SubCategory   string         `json:"subCategory"`
	WholesaleCost *float64       `json:"wholesaleCost"`
	MSRP          *float64       `json:"msrp"`
	Inseam        string         `json:"inseam"`
	Active        bool           `json:"active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// SeasonPrice is a season-scoped price snapshot for a product. The same UPC
// may carry different wholesale/MSRP rows per season.
type SeasonPrice struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SeasonID  uuid.UUID `json:"seasonId" gorm:"type:uuid;not null;uniqueIndex:idx_season_prices_season_product"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;uniqueIndex:idx_season_prices_season_product"`
	BrandID   uuid.UUID `json:"brandId" gorm:"type:uuid;not null;index"`
	UPC       string    `json:"upc" gorm:"not null;index"`
	Wholesale *float64  `json:"wholesale"`
	MSRP      *float64  `json:"msrp"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductFamily groups size/color variants sharing a base product name within
// a brand. Families are computed on read, never persisted.
type ProductFamily struct {
	BaseName string    `json:"baseName"`
	BrandID  uuid.UUID `json:"brandId"`
	Items    []Product `json:"items"`
}

// Colors returns the distinct colors present across the family's items.
func (f *ProductFamily) Colors() []string {
	seen := make(map[string]bool)
	colors := make([]string, 0)
	for _, item := range f.Items {
		if item.Color != "" && !seen[item.Color] {
			seen[item.Color] = true
			colors = append(colors, item.Color)
		}
	}
	return colors
}

// Sizes returns the distinct sizes present across the family's items, in
// first-seen order.
func (f *ProductFamily) Sizes() []string {
	seen := make(map[string]bool)
	sizes := make([]string, 0)
	for _, item := range f.Items {
		if item.Size != "" && !seen[item.Size] {
			seen[item.Size] = true
			sizes = append(sizes, item.Size)
		}
	}
	return sizes
}

// BaseName strips the product's own color and size tokens off its name so
// variants of one style group together. Vendor naming is inconsistent
// ("M's Zion Pant - Black - 32", "Zion Pant Black 32"), so this removes the
// known attribute values rather than guessing at separators.
func (p *Product) BaseName() string {
	name := p.Name
	for {
		before := name
		for _, attr := range []string{p.Color, p.Size, p.Inseam} {
			if attr == "" {
				continue
			}
			for _, sep := range []string{" - " + attr, ", " + attr, " / " + attr, " " + attr} {
				if strings.HasSuffix(name, sep) {
					name = strings.TrimSuffix(name, sep)
				}
			}
		}
		if name == before {
			break
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), "-"))
}

// GroupIntoFamilies buckets products by base name, preserving first-seen order.
func GroupIntoFamilies(products []Product) []ProductFamily {
	index := make(map[string]int)
	families := make([]ProductFamily, 0)
	for _, p := range products {
		base := p.BaseName()
		if i, ok := index[base]; ok {
			families[i].Items = append(families[i].Items, p)
			continue
		}
		index[base] = len(families)
		families = append(families, ProductFamily{
			BaseName: base,
			BrandID:  p.BrandID,
			Items:    []Product{p},
		})
	}
	return families
}
