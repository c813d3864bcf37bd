package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"preseason-api/internal/models"
)

var (
	// ErrInvalidMapping means required fields are unmapped; ingestion refuses
	// to start.
	ErrInvalidMapping = errors.New("invalid column mapping")

	// ErrStorageUnavailable marks systemic store failures. Row-level store
	// errors are folded into the result; this one aborts the run.
	ErrStorageUnavailable = errors.New("catalog store unavailable")
)

// UpsertOutcome reports what an upsert did to the catalog
type UpsertOutcome int

const (
	OutcomeAdded UpsertOutcome = iota
	OutcomeUpdated
)

// CatalogStore is the engine's view of the product catalog. Upsert matches on
// (brand_id, upc), fills in the product's ID, and reports whether the record
// was created or updated. Implementations wrap connection-level failures in
// ErrStorageUnavailable.
type CatalogStore interface {
	Upsert(ctx context.Context, product *models.Product) (UpsertOutcome, error)
	SavePriceSnapshot(ctx context.Context, snapshot *models.SeasonPrice) error
}

// Request describes one ingestion run: the selected sheets in user order, the
// confirmed header row (1-based, shared across sheets), the field->column
// mapping, and the brand/season scope.
type Request struct {
	Sheets    []*RawSheet
	HeaderRow int
	Mapping   map[string]string
	BrandID   uuid.UUID
	SeasonID  *uuid.UUID
}

// Engine consumes mapped rows and upserts them into the catalog. It holds no
// per-run state; each Ingest call is independent.
type Engine struct {
	store  CatalogStore
	schema []FieldSpec
	log    *logrus.Entry
}

func NewEngine(store CatalogStore, schema []FieldSpec, logger *logrus.Logger) *Engine {
	return &Engine{
		store:  store,
		schema: schema,
		log:    logger.WithField("component", "ingest"),
	}
}

// Ingest runs the upload. Row errors accumulate without stopping the run; a
// systemic storage failure aborts and returns the partial result with
// Incomplete set. Within one run a UPC is upserted once as an add - repeats
// count as updates.
func (e *Engine) Ingest(ctx context.Context, req Request) (*models.UploadResult, error) {
	if err := ValidateMapping(req.Mapping, e.schema); err != nil {
		return nil, err
	}
	if req.HeaderRow < 1 {
		req.HeaderRow = 1
	}

	for _, field := range e.schema {
		if field.Required && req.Mapping[field.Key] == NotAvailable {
			// Legal, but every ingested row gets an empty value for this
			// field, so leave a trace in the logs.
			e.log.WithField("field", field.Key).Warn("required field marked NOT_AVAILABLE; ingesting empty values")
		}
	}

	// Resolve the mapping against every selected sheet's header up front. A
	// required field whose mapped column is missing from a sheet would
	// otherwise ingest empty values for every row, so the run refuses to
	// start instead.
	resolved := make(map[string][]fieldColumn, len(req.Sheets))
	for _, sheet := range req.Sheets {
		if len(sheet.Rows) < req.HeaderRow {
			continue
		}
		columns := projectColumns(sheet.Rows[req.HeaderRow-1], req.Mapping, e.schema)
		for _, fc := range columns {
			if fc.field.Required && fc.index < 0 && req.Mapping[fc.field.Key] != NotAvailable {
				return nil, fmt.Errorf("%w: required field %q mapped to column %q not found in sheet %q",
					ErrInvalidMapping, fc.field.Key, req.Mapping[fc.field.Key], sheet.Name)
			}
		}
		resolved[sheet.Name] = columns
	}

	result := &models.UploadResult{}
	seenUPCs := make(map[string]bool)

	for _, sheet := range req.Sheets {
		columns, ok := resolved[sheet.Name]
		if !ok {
			continue
		}

		for i, row := range sheet.Rows[req.HeaderRow:] {
			dataRow := i + 1 // 1-based within this sheet's data rows
			result.TotalRows++

			if isEmptyRow(row) {
				continue
			}

			values, rowErrs := e.projectRow(row, columns)
			if len(rowErrs) > 0 {
				result.Errors = append(result.Errors, models.RowError{
					Sheet:  sheet.Name,
					Row:    dataRow,
					Errors: rowErrs,
				})
				result.ErrorCount++
				continue
			}

			outcome, err := e.persistRow(ctx, req, values, seenUPCs)
			if err != nil {
				if errors.Is(err, ErrStorageUnavailable) {
					result.Incomplete = true
					return result, err
				}
				result.Errors = append(result.Errors, models.RowError{
					Sheet:  sheet.Name,
					Row:    dataRow,
					Errors: []string{err.Error()},
				})
				result.ErrorCount++
				continue
			}

			if outcome == OutcomeAdded {
				result.ProductsAdded++
			} else {
				result.ProductsUpdated++
			}
		}
	}

	e.log.WithFields(logrus.Fields{
		"brandId": req.BrandID,
		"total":   result.TotalRows,
		"added":   result.ProductsAdded,
		"updated": result.ProductsUpdated,
		"errors":  result.ErrorCount,
	}).Info("ingestion run completed")

	return result, nil
}

// fieldColumn binds a schema field to its column index in the current sheet.
// Index -1 means NOT_AVAILABLE or unmapped: the field resolves to empty.
type fieldColumn struct {
	field FieldSpec
	index int
}

func projectColumns(header []string, mapping map[string]string, schema []FieldSpec) []fieldColumn {
	columns := make([]fieldColumn, 0, len(schema))
	for _, field := range schema {
		col, ok := mapping[field.Key]
		fc := fieldColumn{field: field, index: -1}
		if ok && col != NotAvailable {
			fc.index = findColumn(header, col)
		}
		columns = append(columns, fc)
	}
	return columns
}

// findColumn locates a mapped column name in the header row, falling back to
// normalized comparison since mapping values may come from an earlier preview
// of the same file.
func findColumn(header []string, name string) int {
	for i, cell := range header {
		if strings.TrimSpace(cell) == strings.TrimSpace(name) {
			return i
		}
	}
	want := Normalize(name)
	for i, cell := range header {
		if Normalize(cell) == want {
			return i
		}
	}
	return -1
}

// projectRow pulls the mapped values out of one data row and validates them.
// A required field whose real source cell is blank is an error; a field mapped
// to NOT_AVAILABLE is legitimately empty.
func (e *Engine) projectRow(row []string, columns []fieldColumn) (map[string]string, []string) {
	values := make(map[string]string, len(columns))
	var errs []string

	for _, fc := range columns {
		value := ""
		if fc.index >= 0 {
			value = Cell(row, fc.index)
		}
		values[fc.field.Key] = value

		if fc.field.Required && value == "" && fc.index >= 0 {
			errs = append(errs, fmt.Sprintf("%s is required", fc.field.Key))
		}
	}

	for _, key := range []string{"wholesale_cost", "msrp"} {
		if v := values[key]; v != "" {
			if _, err := parsePrice(v); err != nil {
				errs = append(errs, fmt.Sprintf("%s must be a number", key))
			}
		}
	}

	return values, errs
}

func (e *Engine) persistRow(ctx context.Context, req Request, values map[string]string, seenUPCs map[string]bool) (UpsertOutcome, error) {
	product := &models.Product{
		BrandID:     req.BrandID,
		UPC:         values["upc"],
		SKU:         values["sku"],
		Name:        values["name"],
		Size:        values["size"],
		Color:       values["color"],
		Gender:      values["gender"],
		Category:    values["category"],
		SubCategory: values["subcategory"],
		Inseam:      values["inseam"],
		Active:      true,
	}
	product.WholesaleCost = optionalPrice(values["wholesale_cost"])
	product.MSRP = optionalPrice(values["msrp"])

	outcome, err := e.store.Upsert(ctx, product)
	if err != nil {
		return outcome, err
	}

	// Second appearance of a UPC in the same file updates the first row's
	// staged record; it must not count as a second add.
	if seenUPCs[product.UPC] {
		outcome = OutcomeUpdated
	}
	seenUPCs[product.UPC] = true

	if req.SeasonID != nil {
		snapshot := &models.SeasonPrice{
			SeasonID:  *req.SeasonID,
			ProductID: product.ID,
			BrandID:   req.BrandID,
			UPC:       product.UPC,
			Wholesale: product.WholesaleCost,
			MSRP:      product.MSRP,
		}
		if err := e.store.SavePriceSnapshot(ctx, snapshot); err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

func parsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	return strconv.ParseFloat(s, 64)
}

func optionalPrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := parsePrice(s)
	if err != nil {
		return nil
	}
	return &v
}
