package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"preseason-api/internal/models"
)

// SnapshotSource supplies season price snapshots keyed by UPC
type SnapshotSource interface {
	GetPriceSnapshot(ctx context.Context, seasonID uuid.UUID, brandID *uuid.UUID) (map[string]models.PricePoint, error)
}

// CompareService diffs two seasons' price snapshots
type CompareService struct {
	snapshots SnapshotSource
	log       *logrus.Entry
}

func NewCompareService(snapshots SnapshotSource, logger *logrus.Logger) *CompareService {
	return &CompareService{
		snapshots: snapshots,
		log:       logger.WithField("component", "compare"),
	}
}

// Compare classifies every UPC across the union of both seasons as carryover,
// new, or discontinued, and computes wholesale deltas for carryovers. Missing
// price values never fail the comparison; they just leave diffs nil. Rows come
// back sorted by UPC.
func (s *CompareService) Compare(ctx context.Context, season1, season2 uuid.UUID, brandID *uuid.UUID) (*models.PriceComparison, error) {
	prices1, err := s.snapshots.GetPriceSnapshot(ctx, season1, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to load season 1 prices: %w", err)
	}
	prices2, err := s.snapshots.GetPriceSnapshot(ctx, season2, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to load season 2 prices: %w", err)
	}

	comparison := ComparePrices(prices1, prices2)

	s.log.WithFields(logrus.Fields{
		"season1":      season1,
		"season2":      season2,
		"carryover":    comparison.Summary.Carryover,
		"new":          comparison.Summary.New,
		"discontinued": comparison.Summary.Discontinued,
	}).Debug("price comparison computed")

	return comparison, nil
}

// ComparePrices is the pure comparison over two snapshots.
func ComparePrices(prices1, prices2 map[string]models.PricePoint) *models.PriceComparison {
	upcs := make([]string, 0, len(prices1)+len(prices2))
	seen := make(map[string]bool, len(prices1)+len(prices2))
	for upc := range prices1 {
		if !seen[upc] {
			seen[upc] = true
			upcs = append(upcs, upc)
		}
	}
	for upc := range prices2 {
		if !seen[upc] {
			seen[upc] = true
			upcs = append(upcs, upc)
		}
	}
	sort.Strings(upcs)

	comparison := &models.PriceComparison{
		Products: make([]models.PriceComparisonRow, 0, len(upcs)),
	}

	for _, upc := range upcs {
		p1, in1 := prices1[upc]
		p2, in2 := prices2[upc]

		row := models.PriceComparisonRow{UPC: upc}
		switch {
		case in1 && in2:
			row.ProductStatus = models.ProductStatusCarryover
			row.Name, row.SKU, row.Color, row.Size = p2.Name, p2.SKU, p2.Color, p2.Size
			row.Season1Wholesale, row.Season1MSRP = p1.Wholesale, p1.MSRP
			row.Season2Wholesale, row.Season2MSRP = p2.Wholesale, p2.MSRP
			if p1.Wholesale != nil && p2.Wholesale != nil {
				diff := *p2.Wholesale - *p1.Wholesale
				row.WholesaleDiff = &diff
				if *p1.Wholesale > 0 {
					pct := math.Round(diff / *p1.Wholesale * 1000) / 10
					row.WholesalePctChange = &pct
				}
				if diff > 0 {
					comparison.Summary.PriceIncreases++
				} else if diff < 0 {
					comparison.Summary.PriceDecreases++
				}
			}
			comparison.Summary.Carryover++
		case in2:
			row.ProductStatus = models.ProductStatusNew
			row.Name, row.SKU, row.Color, row.Size = p2.Name, p2.SKU, p2.Color, p2.Size
			row.Season2Wholesale, row.Season2MSRP = p2.Wholesale, p2.MSRP
			comparison.Summary.New++
		default:
			row.ProductStatus = models.ProductStatusDiscontinued
			row.Name, row.SKU, row.Color, row.Size = p1.Name, p1.SKU, p1.Color, p1.Size
			row.Season1Wholesale, row.Season1MSRP = p1.Wholesale, p1.MSRP
			comparison.Summary.Discontinued++
		}

		comparison.Products = append(comparison.Products, row)
	}

	comparison.Summary.TotalProducts = len(comparison.Products)
	return comparison
}
