package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMapExactVariation(t *testing.T) {
	schema := []FieldSpec{
		{Key: "upc", Required: true, Variations: []string{"upc", "barcode"}},
		{Key: "name", Variations: []string{"description"}},
	}

	mapping := AutoMap([]string{"Barcode", "Desc"}, schema)

	assert.Equal(t, "Barcode", mapping["upc"])
}

func TestAutoMapNormalization(t *testing.T) {
	schema := []FieldSpec{
		{Key: "wholesale_cost", Variations: []string{"wholesale cost"}},
		{Key: "msrp", Variations: []string{"retail price"}},
	}

	mapping := AutoMap([]string{" Wholesale_Cost ", "RETAIL-PRICE"}, schema)

	assert.Equal(t, " Wholesale_Cost ", mapping["wholesale_cost"])
	assert.Equal(t, "RETAIL-PRICE", mapping["msrp"])
}

func TestAutoMapPartialFallback(t *testing.T) {
	schema := []FieldSpec{
		{Key: "upc", Variations: []string{"upc"}},
		{Key: "color", Variations: []string{"color"}},
	}

	// No exact variation matches "Item UPC Code" or "Color Name"; the partial
	// pass picks them up by containment.
	mapping := AutoMap([]string{"Item UPC Code", "Color Name"}, schema)

	assert.Equal(t, "Item UPC Code", mapping["upc"])
	assert.Equal(t, "Color Name", mapping["color"])
}

func TestAutoMapNeverReusesColumn(t *testing.T) {
	schema := []FieldSpec{
		{Key: "wholesale_cost", Required: true, Variations: []string{"cost"}},
		{Key: "msrp", Required: true, Variations: []string{"cost", "retail"}},
	}

	mapping := AutoMap([]string{"Cost"}, schema)

	// One column cannot satisfy two fields; msrp stays unmapped.
	assert.Equal(t, "Cost", mapping["wholesale_cost"])
	_, ok := mapping["msrp"]
	assert.False(t, ok)
}

func TestAutoMapInjective(t *testing.T) {
	schema := DefaultProductSchema()
	columns := []string{
		"UPC", "Product Number", "Description", "Size", "Color",
		"Wholesale", "Retail", "Category", "Sub Category", "Gender", "Inseam",
	}

	mapping := AutoMap(columns, schema)

	used := make(map[string]string)
	for field, col := range mapping {
		prev, dup := used[col]
		require.Falsef(t, dup, "column %q mapped to both %q and %q", col, prev, field)
		used[col] = field
	}
}

func TestAutoMapDeterministic(t *testing.T) {
	schema := DefaultProductSchema()
	columns := []string{"Barcode", "Style #", "Desc", "Colour", "SZ", "WHSL", "SRP"}

	first := AutoMap(columns, schema)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, AutoMap(columns, schema))
	}
}

func TestAutoMapExactBeatsPartial(t *testing.T) {
	schema := []FieldSpec{
		{Key: "color", Variations: []string{"color"}},
	}

	// "Color" matches exactly; "Color Code" would match partially, but the
	// exact pass runs first and consumes the better column.
	mapping := AutoMap([]string{"Color Code", "Color"}, schema)
	assert.Equal(t, "Color", mapping["color"])
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  UPC  ":          "upc",
		"Wholesale_Cost":   "wholesale cost",
		"retail--price":    "retail price",
		"Sub  Category":    "sub category",
		"style_number-two": "style number two",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}
