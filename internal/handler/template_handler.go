package handler

import (
	"errors"
	"net/http"
	"strconv"

	"label-service/internal/designer"
	"label-service/internal/middleware"
	"label-service/internal/repository"
	"label-service/pkg/logger"
	"label-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SaveTemplateRequest carries a template document to persist. When
// PopulateDefaults is set and the document has no elements, the default
// elements gated by the document's include toggles are added first.
type SaveTemplateRequest struct {
	Document         designer.TemplateDocument `json:"document"`
	PopulateDefaults bool                      `json:"populateDefaults"`
}

// TemplateHandler exposes the template persistence operations.
type TemplateHandler struct {
	store repository.TemplateStore
}

// NewTemplateHandler creates a handler over the given store.
func NewTemplateHandler(store repository.TemplateStore) *TemplateHandler {
	return &TemplateHandler{store: store}
}

// SaveTemplate handles persisting a new template document
func (h *TemplateHandler) SaveTemplate(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Saving new label template")

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		log.Warn("Missing tenant context")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	var req SaveTemplateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	doc := req.Document
	if err := validateDocument(&doc); err != nil {
		log.Warn("Invalid template document", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if req.PopulateDefaults && len(doc.Elements) == 0 {
		doc.PopulateDefaults()
		log.Info("Populated default elements",
			zap.Int("count", len(doc.Elements)))
	}

	id, err := h.store.Save(c.Request().Context(), tenantID, &doc)
	if err != nil {
		log.Error("Failed to save template",
			zap.String("name", doc.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save template"})
	}

	prometheus.RecordTemplateOperation("save")
	log.Info("Template saved successfully",
		zap.Uint("template_id", id),
		zap.String("name", doc.Name))
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// GetTemplate handles loading a single template document by ID
func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Loading template by ID", zap.String("template_id", id))

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	templateID, err := parseID(id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}

	doc, err := h.store.Load(c.Request().Context(), tenantID, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			log.Warn("Template not found", zap.String("template_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Template not found"})
		}
		log.Error("Failed to load template",
			zap.String("template_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load template"})
	}

	prometheus.RecordTemplateOperation("load")
	log.Info("Template loaded successfully",
		zap.String("template_id", id),
		zap.String("name", doc.Name))
	return c.JSON(http.StatusOK, echo.Map{"id": templateID, "document": doc})
}

// ListTemplates handles listing the tenant's templates
func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing label templates")

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	rows, err := h.store.List(c.Request().Context(), tenantID)
	if err != nil {
		log.Error("Failed to list templates", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve templates"})
	}

	prometheus.RecordTemplateOperation("list")
	log.Info("Templates retrieved successfully", zap.Int("count", len(rows)))
	return c.JSON(http.StatusOK, rows)
}

// UpdateTemplate handles replacing an existing template document
func (h *TemplateHandler) UpdateTemplate(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Updating template", zap.String("template_id", id))

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	templateID, err := parseID(id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}

	var req SaveTemplateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("template_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	doc := req.Document
	if err := validateDocument(&doc); err != nil {
		log.Warn("Invalid template document", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.store.Update(c.Request().Context(), tenantID, templateID, &doc); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			log.Warn("Template not found for update", zap.String("template_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Template not found"})
		}
		log.Error("Failed to update template",
			zap.String("template_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update template"})
	}

	prometheus.RecordTemplateOperation("update")
	log.Info("Template updated successfully",
		zap.String("template_id", id),
		zap.String("name", doc.Name))
	return c.JSON(http.StatusOK, echo.Map{"id": templateID})
}

// DeleteTemplate handles deleting a template (soft delete)
func (h *TemplateHandler) DeleteTemplate(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Deleting template", zap.String("template_id", id))

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	templateID, err := parseID(id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}

	if err := h.store.Delete(c.Request().Context(), tenantID, templateID); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			log.Warn("Template not found for deletion", zap.String("template_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Template not found"})
		}
		log.Error("Failed to delete template",
			zap.String("template_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete template"})
	}

	prometheus.RecordTemplateOperation("delete")
	log.Info("Template deleted successfully", zap.String("template_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Template deleted successfully"})
}

func validateDocument(doc *designer.TemplateDocument) error {
	if doc.Name == "" {
		return errors.New("template name is required")
	}
	if doc.WidthMm <= 0 || doc.HeightMm <= 0 {
		return errors.New("template dimensions must be positive")
	}
	return nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
