package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// NotAvailable is the sentinel a caller maps a field to when the vendor file
// simply has no such column. Required fields mapped to it pass validation and
// ingest as empty values.
const NotAvailable = "NOT_AVAILABLE"

// FieldSpec describes one canonical product field and the header spellings
// vendors use for it. Variations are stored pre-normalized (see Normalize).
type FieldSpec struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Required   bool     `json:"required"`
	Variations []string `json:"variations"`
}

// Normalize lowercases a header cell, trims it, and collapses runs of
// underscores, hyphens, and whitespace into single spaces, so "Wholesale_Cost"
// and " wholesale-cost " compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case '_', '-', ' ', '\t', '\n', '\r':
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DefaultProductSchema is the built-in field schema covering the header
// conventions seen across vendor catalogs. It can be replaced wholesale from a
// JSON file (FIELD_SCHEMA_PATH) when a new vendor shows up with yet another
// spelling - no code change needed.
func DefaultProductSchema() []FieldSpec {
	return []FieldSpec{
		{Key: "upc", Label: "UPC", Required: true, Variations: []string{
			"upc", "upc code", "upc #", "upc number", "barcode", "bar code",
			"universal product code", "gtin", "ean",
		}},
		{Key: "name", Label: "Product Name", Required: true, Variations: []string{
			"name", "product name", "description", "desc", "item name",
			"style name", "product description", "item description", "product",
		}},
		{Key: "sku", Label: "SKU", Variations: []string{
			"sku", "product number", "style", "style number", "style #",
			"item number", "item #", "article", "article number", "vendor style",
			"model", "part number",
		}},
		{Key: "size", Label: "Size", Variations: []string{
			"size", "sz", "size name", "size code",
		}},
		{Key: "color", Label: "Color", Variations: []string{
			"color", "colour", "colorway", "color name", "colour name", "clr",
		}},
		{Key: "gender", Label: "Gender", Variations: []string{
			"gender", "sex", "gender group",
		}},
		{Key: "category", Label: "Category", Variations: []string{
			"category", "class", "product class", "product type", "type",
			"product category",
		}},
		{Key: "subcategory", Label: "Subcategory", Variations: []string{
			"subcategory", "sub category", "subclass", "sub class",
			"product subcategory",
		}},
		{Key: "wholesale_cost", Label: "Wholesale Cost", Variations: []string{
			"wholesale", "wholesale cost", "wholesale price", "whsl", "wsp",
			"cost", "unit cost", "dealer price", "net price",
		}},
		{Key: "msrp", Label: "MSRP", Variations: []string{
			"msrp", "retail", "retail price", "suggested retail",
			"suggested retail price", "srp", "rrp", "map", "list price",
		}},
		{Key: "inseam", Label: "Inseam", Variations: []string{
			"inseam", "inseam length", "inside leg",
		}},
	}
}

// LoadSchemaFile reads a field schema from JSON, normalizing every variation.
func LoadSchemaFile(path string) ([]FieldSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field schema: %w", err)
	}
	var schema []FieldSpec
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse field schema: %w", err)
	}
	for i := range schema {
		for j, v := range schema[i].Variations {
			schema[i].Variations[j] = Normalize(v)
		}
	}
	return schema, nil
}

// ValidateMapping checks that every required field resolves to a real column
// or the NOT_AVAILABLE sentinel. The ingestion engine re-runs this even when
// callers validated before invoking it.
func ValidateMapping(mapping map[string]string, schema []FieldSpec) error {
	for _, field := range schema {
		if !field.Required {
			continue
		}
		if mapping[field.Key] == "" {
			return fmt.Errorf("%w: required field %q is not mapped", ErrInvalidMapping, field.Key)
		}
	}
	return nil
}
