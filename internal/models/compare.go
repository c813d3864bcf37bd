package models

import "github.com/google/uuid"

// ProductStatus classifies a UPC across two compared seasons
type ProductStatus string

const (
	ProductStatusCarryover    ProductStatus = "carryover"
	ProductStatusNew          ProductStatus = "new"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// PricePoint is one UPC's snapshot within a season
type PricePoint struct {
	UPC       string    `json:"upc"`
	ProductID uuid.UUID `json:"productId"`
	BrandID   uuid.UUID `json:"brandId"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	Wholesale *float64  `json:"wholesale"`
	MSRP      *float64  `json:"msrp"`
}

// PriceComparisonRow is the per-UPC outcome of comparing two seasons. Diff
// fields are nil unless the product carries over and both wholesale values are
// present.
type PriceComparisonRow struct {
	UPC                string        `json:"upc"`
	Name               string        `json:"name"`
	SKU                string        `json:"sku"`
	Color              string        `json:"color"`
	Size               string        `json:"size"`
	ProductStatus      ProductStatus `json:"productStatus"`
	Season1Wholesale   *float64      `json:"season1Wholesale"`
	Season1MSRP        *float64      `json:"season1Msrp"`
	Season2Wholesale   *float64      `json:"season2Wholesale"`
	Season2MSRP        *float64      `json:"season2Msrp"`
	WholesaleDiff      *float64      `json:"wholesaleDiff"`
	WholesalePctChange *float64      `json:"wholesalePctChange"`
}

// PriceComparisonSummary aggregates the comparison outcome
type PriceComparisonSummary struct {
	TotalProducts  int `json:"totalProducts"`
	Carryover      int `json:"carryover"`
	New            int `json:"new"`
	Discontinued   int `json:"discontinued"`
	PriceIncreases int `json:"priceIncreases"`
	PriceDecreases int `json:"priceDecreases"`
}

// PriceComparison is the full result of comparing two seasons' prices
type PriceComparison struct {
	Summary  PriceComparisonSummary `json:"summary"`
	Products []PriceComparisonRow   `json:"products"`
}
