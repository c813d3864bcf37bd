package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"preseason-api/internal/ingest"
	"preseason-api/internal/models"
	"preseason-api/internal/repository"
)

// PreviewRowLimit caps how many leading rows the preview returns per sheet
const PreviewRowLimit = 10

// DisplayErrorLimit caps how many row errors the upload response carries; the
// audit counts stay exact.
const DisplayErrorLimit = 25

type UploadHandler struct {
	engine  *ingest.Engine
	schema  []ingest.FieldSpec
	uploads *repository.UploadRepository
	log     *logrus.Entry
}

func NewUploadHandler(engine *ingest.Engine, schema []ingest.FieldSpec, uploads *repository.UploadRepository, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		engine:  engine,
		schema:  schema,
		uploads: uploads,
		log:     logger.WithField("component", "uploads"),
	}
}

// GetSchema returns the active field schema for the mapping UI
// GET /api/v1/uploads/schema
func (h *UploadHandler) GetSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"fields":  h.schema,
	})
}

// Preview parses an uploaded catalog and returns, per sheet, the leading rows,
// the detected header row, and a suggested column mapping. Nothing is
// persisted; the client posts the file again to ingest.
// POST /api/v1/uploads/preview
func (h *UploadHandler) Preview(c *gin.Context) {
	data, filename, ok := h.readFile(c)
	if !ok {
		return
	}

	wb, err := ingest.Parse(data, filename)
	if err != nil {
		h.parseError(c, err)
		return
	}

	resp := models.UploadPreviewResponse{
		Success:    true,
		Filename:   filename,
		SheetNames: wb.SheetNames,
	}
	for _, name := range wb.SheetNames {
		sheet := wb.Sheets[name]
		headerRow := ingest.DetectHeaderRow(sheet.Rows)

		var columns []string
		if headerRow <= len(sheet.Rows) {
			columns = sheet.Rows[headerRow-1]
		}

		previewRows := sheet.Rows
		if len(previewRows) > PreviewRowLimit {
			previewRows = previewRows[:PreviewRowLimit]
		}

		resp.Sheets = append(resp.Sheets, models.SheetPreview{
			Name:              name,
			Rows:              previewRows,
			TotalRows:         len(sheet.Rows),
			DetectedHeaderRow: headerRow,
			Columns:           columns,
			SuggestedMapping:  ingest.AutoMap(columns, h.schema),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// Ingest runs a confirmed upload against the catalog.
// POST /api/v1/uploads
// Form fields: file (multipart), options (JSON models.IngestOptions).
func (h *UploadHandler) Ingest(c *gin.Context) {
	data, filename, ok := h.readFile(c)
	if !ok {
		return
	}

	var opts models.IngestOptions
	if err := json.Unmarshal([]byte(c.PostForm("options")), &opts); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_OPTIONS",
				Message: "The 'options' field must be valid JSON",
			},
		})
		return
	}
	if opts.BrandID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "BRAND_REQUIRED",
				Message: "brandId is required",
			},
		})
		return
	}

	wb, err := ingest.Parse(data, filename)
	if err != nil {
		h.parseError(c, err)
		return
	}

	selected := opts.Sheets
	if len(selected) == 0 {
		selected = wb.SheetNames
	}
	sheets := make([]*ingest.RawSheet, 0, len(selected))
	for _, name := range selected {
		sheet, ok := wb.Sheets[name]
		if !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNKNOWN_SHEET",
					Message: "Sheet not found in file: " + name,
				},
			})
			return
		}
		sheets = append(sheets, sheet)
	}

	result, err := h.engine.Ingest(c.Request.Context(), ingest.Request{
		Sheets:    sheets,
		HeaderRow: opts.HeaderRow,
		Mapping:   opts.Mapping,
		BrandID:   opts.BrandID,
		SeasonID:  opts.SeasonID,
	})
	if err != nil && errors.Is(err, ingest.ErrInvalidMapping) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_MAPPING",
				Message: err.Error(),
			},
		})
		return
	}

	if result != nil {
		h.recordUpload(c, filename, opts, result)
	}

	if err != nil {
		// Storage failure: surface the partial result so the caller can see
		// how far the run got.
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": models.Error{
				Code:    "STORAGE_ERROR",
				Message: err.Error(),
			},
			"result": truncateErrors(result),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  truncateErrors(result),
	})
}

// List returns upload history.
// GET /api/v1/uploads?brandId=&limit=
func (h *UploadHandler) List(c *gin.Context) {
	var brandID *uuid.UUID
	if raw := c.Query("brandId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "INVALID_BRAND", Message: "brandId must be a UUID"},
			})
			return
		}
		brandID = &id
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	uploads, err := h.uploads.List(c.Request.Context(), brandID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "LIST_FAILED", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "uploads": uploads})
}

func (h *UploadHandler) readFile(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "READ_FAILED",
				Message: "Failed to read uploaded file",
			},
		})
		return nil, "", false
	}
	return data, header.Filename, true
}

func (h *UploadHandler) parseError(c *gin.Context, err error) {
	code := "CORRUPT_FILE"
	if errors.Is(err, ingest.ErrUnsupportedFormat) {
		code = "UNSUPPORTED_FORMAT"
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: code, Message: err.Error()},
	})
}

func (h *UploadHandler) recordUpload(c *gin.Context, filename string, opts models.IngestOptions, result *models.UploadResult) {
	upload := &models.Upload{
		BrandID:         opts.BrandID,
		SeasonID:        opts.SeasonID,
		Filename:        filename,
		TotalRows:       result.TotalRows,
		ProductsAdded:   result.ProductsAdded,
		ProductsUpdated: result.ProductsUpdated,
		ErrorCount:      result.ErrorCount,
		CreatedBy:       c.GetString("user_id"),
	}
	if err := h.uploads.Create(c.Request.Context(), upload); err != nil {
		h.log.WithError(err).Warn("failed to persist upload audit record")
	}
}

// truncateErrors caps the error list for display; ErrorCount keeps the real
// total.
func truncateErrors(result *models.UploadResult) *models.UploadResult {
	if result == nil || len(result.Errors) <= DisplayErrorLimit {
		return result
	}
	capped := *result
	capped.Errors = capped.Errors[:DisplayErrorLimit]
	return &capped
}
