package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"label-service/internal/designer"
	"label-service/internal/testutil"
	"label-service/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductSource struct {
	product *designer.ProductRecord
	err     error
	lastSKU string
}

func (s *stubProductSource) GetProductBySKU(_ context.Context, sku string) (*designer.ProductRecord, error) {
	s.lastSKU = sku
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func renderProduct() *designer.ProductRecord {
	return &designer.ProductRecord{
		Name:    "Basmati Rice 5kg",
		SKU:     "SKU123",
		Price:   45,
		MRP:     55,
		Barcode: "8901234567890",
	}
}

func TestRenderInline(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewRenderHandler(store, &stubProductSource{}, "₹")

	req := RenderRequest{
		Document: designer.NewDocument("Shelf Label", 150, 100),
		Product:  renderProduct(),
	}
	req.Document.AddElement(designer.Element{
		Type:     designer.ElementText,
		Geometry: designer.Geometry{X: 10, Y: 10, Width: 100, Height: 20},
		Style:    designer.Style{Opacity: 1},
		Content:  "{{product.name}}",
	})
	body, err := json.Marshal(req)
	require.NoError(t, err)

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/render", string(body))

	require.NoError(t, h.RenderInline(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.SVG, "Basmati Rice 5kg")
	assert.Equal(t, 150.0, resp.WidthMm)
	assert.Equal(t, 100.0, resp.HeightMm)
	assert.Empty(t, resp.Errors)
}

func TestRenderInlineRequiresDocument(t *testing.T) {
	h := NewRenderHandler(testutil.NewMockTemplateStore(), &stubProductSource{}, "₹")

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/render", `{"sku":"SKU123"}`)

	require.NoError(t, h.RenderInline(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderInlineRequiresProductOrSKU(t *testing.T) {
	h := NewRenderHandler(testutil.NewMockTemplateStore(), &stubProductSource{}, "₹")

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/render",
		`{"document":{"name":"x","widthMm":150,"heightMm":100}}`)

	require.NoError(t, h.RenderInline(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderInlineResolvesSKUThroughCatalog(t *testing.T) {
	source := &stubProductSource{product: renderProduct()}
	h := NewRenderHandler(testutil.NewMockTemplateStore(), source, "₹")

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/render",
		`{"document":{"name":"x","widthMm":150,"heightMm":100,"elements":[{"id":"e1","type":"text","x":10,"y":10,"width":100,"height":20,"opacity":1,"zIndex":1,"content":"{{product.name}}"}]},"sku":"SKU123"}`)

	require.NoError(t, h.RenderInline(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SKU123", source.lastSKU)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.SVG, "Basmati Rice 5kg")
}

func TestRenderInlineCatalogNotFound(t *testing.T) {
	source := &stubProductSource{err: catalog.ErrProductNotFound}
	h := NewRenderHandler(testutil.NewMockTemplateStore(), source, "₹")

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/render",
		`{"document":{"name":"x","widthMm":150,"heightMm":100},"sku":"NOPE"}`)

	require.NoError(t, h.RenderInline(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderInlineCatalogUnavailable(t *testing.T) {
	source := &stubProductSource{err: errors.New("connection refused")}
	h := NewRenderHandler(testutil.NewMockTemplateStore(), source, "₹")

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/render",
		`{"document":{"name":"x","widthMm":150,"heightMm":100},"sku":"SKU123"}`)

	require.NoError(t, h.RenderInline(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRenderInlineReportsElementErrors(t *testing.T) {
	h := NewRenderHandler(testutil.NewMockTemplateStore(), &stubProductSource{}, "₹")

	doc := designer.NewDocument("x", 150, 100)
	doc.AddElement(designer.Element{
		Type:     designer.ElementBarcode,
		Geometry: designer.Geometry{X: 10, Y: 10, Width: 120, Height: 60},
		Style:    designer.Style{Opacity: 1},
		Content:  "",
	})
	body, err := json.Marshal(RenderRequest{Document: doc, Product: renderProduct()})
	require.NoError(t, err)

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/render", string(body))

	require.NoError(t, h.RenderInline(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "barcode data is empty")
	assert.Contains(t, resp.SVG, "<svg ")
}

func TestRenderStored(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewRenderHandler(store, &stubProductSource{}, "₹")
	saveTestTemplate(t, store, testTenantID)

	body, err := json.Marshal(RenderRequest{Product: renderProduct()})
	require.NoError(t, err)

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/1/render", string(body))
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.RenderStored(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.SVG, "Basmati Rice 5kg")
	assert.Contains(t, resp.SVG, "₹45.00")
	assert.Contains(t, resp.SVG, "Save ₹10.00")
	assert.Empty(t, resp.Errors)
}

func TestRenderStoredNotFound(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewRenderHandler(store, &stubProductSource{}, "₹")

	body, err := json.Marshal(RenderRequest{Product: renderProduct()})
	require.NoError(t, err)

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/9/render", string(body))
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.RenderStored(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderStoredInvalidID(t *testing.T) {
	h := NewRenderHandler(testutil.NewMockTemplateStore(), &stubProductSource{}, "₹")

	body, err := json.Marshal(RenderRequest{Product: renderProduct()})
	require.NoError(t, err)

	c, rec := newTestContext(t, http.MethodPost, "/api/templates/abc/render", string(body))
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.RenderStored(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
