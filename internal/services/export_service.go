package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ExportService renders an order into the vendor-facing XLSX order form
type ExportService struct {
	catalog OrderCatalog
	orders  OrderStore
}

func NewExportService(catalog OrderCatalog, orders OrderStore) *ExportService {
	return &ExportService{catalog: catalog, orders: orders}
}

// BuildOrderWorkbook produces the order as a spreadsheet: styled header row,
// one line per item, totals at the bottom. The caller owns the returned file
// and must Close it.
func (s *ExportService) BuildOrderWorkbook(ctx context.Context, orderID uuid.UUID) (*excelize.File, string, error) {
	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load order: %w", err)
	}
	brand, err := s.catalog.GetBrand(ctx, order.BrandID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load brand: %w", err)
	}
	location, err := s.catalog.GetLocation(ctx, order.LocationID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load location: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Order"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s - %s", brand.Name, order.OrderNumber))
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Ship to %s, ship date %s", location.Name, order.ShipDate.Format("Jan 2006")))

	headers := []string{"UPC", "SKU", "Product", "Color", "Size", "Qty", "Unit Cost", "Line Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	f.SetColWidth(sheetName, "A", "A", 16)
	f.SetColWidth(sheetName, "C", "C", 40)

	row := 5
	for _, item := range order.Items {
		if item.Product == nil {
			continue
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), item.Product.UPC)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), item.Product.SKU)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), item.Product.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), item.Product.Color)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), item.Product.Size)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), item.Quantity)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), item.UnitCost)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), item.LineTotal)
		row++
	}

	f.SetCellValue(sheetName, fmt.Sprintf("G%d", row+1), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", row+1), order.CurrentTotal)

	filename := fmt.Sprintf("%s.xlsx", order.OrderNumber)
	return f, filename, nil
}
