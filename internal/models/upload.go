package models

import (
	"time"

	"github.com/google/uuid"
)

// Error is the wire shape for a single API error
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

// RowError collects the validation messages for one data row. Row is the
// 1-based data-row number within its sheet (rows after the header row).
type RowError struct {
	Sheet  string   `json:"sheet,omitempty"`
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// UploadResult summarizes one catalog ingestion run. TotalRows counts every
// data row seen, including blank rows that are skipped without being persisted
// or errored, so it can exceed added+updated+errors. Errors always carries the
// full list; truncation for display is the caller's concern. Incomplete is set
// when a storage failure aborted the run partway through.
type UploadResult struct {
	TotalRows       int        `json:"totalRows"`
	ProductsAdded   int        `json:"productsAdded"`
	ProductsUpdated int        `json:"productsUpdated"`
	ErrorCount      int        `json:"errorCount"`
	Errors          []RowError `json:"errors,omitempty"`
	Incomplete      bool       `json:"incomplete,omitempty"`
}

// Upload is the persisted audit record of an ingestion run
type Upload struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BrandID         uuid.UUID  `json:"brandId" gorm:"type:uuid;not null;index"`
	SeasonID        *uuid.UUID `json:"seasonId" gorm:"type:uuid;index"`
	Filename        string     `json:"filename"`
	TotalRows       int        `json:"totalRows"`
	ProductsAdded   int        `json:"productsAdded"`
	ProductsUpdated int        `json:"productsUpdated"`
	ErrorCount      int        `json:"errorCount"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// SheetPreview is what the mapping UI needs for one sheet: a slice of leading
// rows, the detected header row, and the auto-suggested column mapping.
type SheetPreview struct {
	Name              string            `json:"name"`
	Rows              [][]string        `json:"rows"`
	TotalRows         int               `json:"totalRows"`
	DetectedHeaderRow int               `json:"detectedHeaderRow"`
	Columns           []string          `json:"columns"`
	SuggestedMapping  map[string]string `json:"suggestedMapping"`
}

// UploadPreviewResponse is returned by the preview endpoint
type UploadPreviewResponse struct {
	Success    bool           `json:"success"`
	Filename   string         `json:"filename"`
	SheetNames []string       `json:"sheetNames"`
	Sheets     []SheetPreview `json:"sheets"`
}

// IngestOptions is the JSON payload accompanying an upload file. Mapping maps
// canonical field keys to source column names (or "NOT_AVAILABLE").
type IngestOptions struct {
	Sheets    []string          `json:"sheets"`
	HeaderRow int               `json:"headerRow"`
	Mapping   map[string]string `json:"mapping"`
	BrandID   uuid.UUID         `json:"brandId"`
	SeasonID  *uuid.UUID        `json:"seasonId"`
}
