package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"label-service/internal/designer"
	"label-service/internal/middleware"
	"label-service/internal/repository"
	"label-service/pkg/catalog"
	"label-service/pkg/logger"
	"label-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductSource fetches product records from the remote catalog service.
type ProductSource interface {
	GetProductBySKU(ctx context.Context, sku string) (*designer.ProductRecord, error)
}

// RenderRequest carries the render inputs. Either an inline product record or
// a SKU to resolve through the catalog service must be supplied; the inline
// record wins when both are present.
type RenderRequest struct {
	Document *designer.TemplateDocument `json:"document,omitempty"`
	Product  *designer.ProductRecord    `json:"product,omitempty"`
	SKU      string                     `json:"sku,omitempty"`
}

// RenderResponse carries the rendered markup and any recoverable per-element
// errors.
type RenderResponse struct {
	SVG      string                  `json:"svg"`
	WidthMm  float64                 `json:"width_mm"`
	HeightMm float64                 `json:"height_mm"`
	Errors   []designer.ElementError `json:"errors,omitempty"`
}

// RenderHandler exposes the template render pipeline.
type RenderHandler struct {
	store    repository.TemplateStore
	products ProductSource
	currency string
}

// NewRenderHandler creates a handler over the given store and product source.
func NewRenderHandler(store repository.TemplateStore, products ProductSource, currency string) *RenderHandler {
	return &RenderHandler{store: store, products: products, currency: currency}
}

// RenderInline handles rendering an inline document against a product record
func (h *RenderHandler) RenderInline(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Rendering inline template")

	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Document == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "document is required"})
	}

	product, err := h.resolveProduct(c, &req)
	if err != nil {
		return err
	}

	return h.render(c, req.Document, product)
}

// RenderStored handles rendering a persisted template against a product record
func (h *RenderHandler) RenderStored(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Rendering stored template", zap.String("template_id", id))

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	templateID, err := parseID(id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}

	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
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

	product, err := h.resolveProduct(c, &req)
	if err != nil {
		return err
	}

	return h.render(c, doc, product)
}

// resolveProduct picks the inline product record or fetches one from the
// catalog service by SKU. The returned error, when non-nil, is the already
// written HTTP response.
func (h *RenderHandler) resolveProduct(c echo.Context, req *RenderRequest) (*designer.ProductRecord, error) {
	log := logger.FromContext(c)

	if req.Product != nil {
		return req.Product, nil
	}
	if req.SKU == "" {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "product or sku is required"})
	}
	if h.products == nil {
		log.Error("Catalog client not configured")
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog not configured"})
	}

	product, err := h.products.GetProductBySKU(c.Request().Context(), req.SKU)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			prometheus.RecordCatalogLookup("not_found")
			log.Warn("Product not found in catalog", zap.String("sku", req.SKU))
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		prometheus.RecordCatalogLookup("error")
		log.Error("Catalog lookup failed",
			zap.String("sku", req.SKU),
			zap.Error(err))
		return nil, c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to fetch product from catalog"})
	}

	prometheus.RecordCatalogLookup("ok")
	return product, nil
}

func (h *RenderHandler) render(c echo.Context, doc *designer.TemplateDocument, product *designer.ProductRecord) error {
	log := logger.FromContext(c)

	start := time.Now()
	result := designer.Render(doc, *product, designer.RenderOptions{CurrencySymbol: h.currency})
	prometheus.ObserveRender(start, len(doc.Elements))

	for range result.Errors {
		prometheus.RecordBarcodeFailure()
	}

	prometheus.RecordTemplateOperation("render")
	log.Info("Template rendered",
		zap.String("name", doc.Name),
		zap.Int("elements", len(doc.Elements)),
		zap.Int("element_errors", len(result.Errors)))

	return c.JSON(http.StatusOK, RenderResponse{
		SVG:      result.SVG,
		WidthMm:  doc.WidthMm,
		HeightMm: doc.HeightMm,
		Errors:   result.Errors,
	})
}
