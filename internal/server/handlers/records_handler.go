package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/service/images"
)

// RecordService is the CRUD surface exposed over HTTP.
type RecordService interface {
	Schema(module string) (models.Schema, error)
	List(ctx context.Context, module string) ([]models.Record, error)
	Get(ctx context.Context, module, id string) (models.Record, error)
	Create(ctx context.Context, module string, fields models.Record) (models.Record, error)
	Update(ctx context.Context, module, id string, fields models.Record) (models.Record, error)
	Delete(ctx context.Context, module, id string) error
	Search(ctx context.Context, module, term string) ([]models.Record, error)
	Stats(ctx context.Context, module string) (models.Stats, error)
}

// RecordsHandler serves the resource-per-module REST endpoints.
type RecordsHandler struct {
	svc        RecordService
	compressor *images.Compressor
	logger     *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc RecordService, compressor *images.Compressor, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, compressor: compressor, logger: logger}
}

// List returns every record of a module.
func (h *RecordsHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Param("module"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, nonNil(list), "")
}

// Get returns a single record.
func (h *RecordsHandler) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("module"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, rec, "")
}

// Create stores a new record.
func (h *RecordsHandler) Create(c *gin.Context) {
	var fields models.Record
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Warn("invalid record payload", zap.Error(err))
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), c.Param("module"), fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, rec, "Record created successfully")
}

// Update merges the payload into an existing record.
func (h *RecordsHandler) Update(c *gin.Context) {
	var fields models.Record
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Warn("invalid record payload", zap.Error(err))
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), c.Param("module"), c.Param("id"), fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, rec, "Record updated successfully")
}

// Delete removes a record.
func (h *RecordsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("module"), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK[any](c, http.StatusOK, nil, "Record deleted successfully")
}

// Search filters a module by the q query parameter.
func (h *RecordsHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), c.Param("module"), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, nonNil(list), "")
}

// Stats aggregates a module.
func (h *RecordsHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.Param("module"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, stats, "")
}

// UploadPhoto compresses the multipart "photo" file and stores it on the record.
func (h *RecordsHandler) UploadPhoto(c *gin.Context) {
	module, id := c.Param("module"), c.Param("id")

	schema, err := h.svc.Schema(module)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if schema.Photo == "" {
		respondFail(c, http.StatusBadRequest, fmt.Sprintf("%s records do not take photos", module))
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "photo file is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("open upload: %w", err))
		return
	}
	defer src.Close()

	compressed, err := h.compressor.Compress(src)
	if err != nil {
		if errors.Is(err, images.ErrTooLarge) {
			respondError(c, h.logger, err)
			return
		}
		h.logger.Warn("rejected photo upload", zap.String("module", module), zap.String("id", id), zap.Error(err))
		respondFail(c, http.StatusBadRequest, "photo must be a JPEG, PNG or GIF image")
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), module, id, models.Record{schema.Photo: compressed.DataURI})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("photo stored",
		zap.String("module", module),
		zap.String("id", id),
		zap.Int("width", compressed.Width),
		zap.Int("height", compressed.Height),
		zap.Int("bytes", compressed.Bytes))
	respondOK(c, http.StatusOK, rec, "Photo uploaded successfully")
}

func nonNil(list []models.Record) []models.Record {
	if list == nil {
		return []models.Record{}
	}
	return list
}
