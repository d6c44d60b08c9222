package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"label-service/internal/designer"
	"label-service/internal/model"
	"label-service/internal/testutil"
	"label-service/pkg/config"
	"label-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTenantID = uint(1)

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	prometheus.InitMetrics(cfg)
	os.Exit(m.Run())
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("logger", zap.NewNop())
	c.Set("tenant_id", testTenantID)
	return c, rec
}

func saveTestTemplate(t *testing.T, store *testutil.MockTemplateStore, tenantID uint) uint {
	t.Helper()
	doc := designer.NewDocument("Shelf Label", 150, 100)
	doc.IncludeBarcode = true
	doc.IncludePrice = true
	doc.IncludeMrp = true
	doc.PopulateDefaults()
	id, err := store.Save(context.Background(), tenantID, doc)
	require.NoError(t, err)
	return id
}

func TestSaveTemplate(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)

	body := `{"document":{"name":"Shelf Label","widthMm":150,"heightMm":100}}`
	c, rec := newTestContext(t, http.MethodPost, "/api/templates", body)

	require.NoError(t, h.SaveTemplate(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]uint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp["id"])
	assert.Contains(t, store.Templates, uint(1))
	assert.Equal(t, testTenantID, store.Templates[1].TenantID)
}

func TestSaveTemplatePopulatesDefaults(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)

	body := `{"document":{"name":"Shelf Label","widthMm":150,"heightMm":100,"includeBarcode":true,"includePrice":true,"includeMrp":true},"populateDefaults":true}`
	c, rec := newTestContext(t, http.MethodPost, "/api/templates", body)

	require.NoError(t, h.SaveTemplate(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	doc, err := store.Load(context.Background(), testTenantID, 1)
	require.NoError(t, err)
	assert.Len(t, doc.Elements, 4)
}

func TestSaveTemplateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"document":{"widthMm":150,"heightMm":100}}`},
		{name: "zero width", body: `{"document":{"name":"x","widthMm":0,"heightMm":100}}`},
		{name: "negative height", body: `{"document":{"name":"x","widthMm":150,"heightMm":-1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockTemplateStore()
			h := NewTemplateHandler(store)
			c, rec := newTestContext(t, http.MethodPost, "/api/templates", tt.body)

			require.NoError(t, h.SaveTemplate(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, store.Templates)
		})
	}
}

func TestSaveTemplateMissingTenant(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/templates", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("logger", zap.NewNop())

	require.NoError(t, h.SaveTemplate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTemplate(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)
	id := saveTestTemplate(t, store, testTenantID)

	c, rec := newTestContext(t, http.MethodGet, "/api/templates/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.GetTemplate(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID       uint                      `json:"id"`
		Document designer.TemplateDocument `json:"document"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "Shelf Label", resp.Document.Name)
	assert.Len(t, resp.Document.Elements, 4)
}

func TestGetTemplateNotFound(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)

	c, rec := newTestContext(t, http.MethodGet, "/api/templates/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.GetTemplate(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTemplateWrongTenant(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)
	saveTestTemplate(t, store, 2)

	c, rec := newTestContext(t, http.MethodGet, "/api/templates/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.GetTemplate(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTemplateInvalidID(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)

	c, rec := newTestContext(t, http.MethodGet, "/api/templates/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.GetTemplate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTemplates(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)
	saveTestTemplate(t, store, testTenantID)
	saveTestTemplate(t, store, testTenantID)
	saveTestTemplate(t, store, 2)

	c, rec := newTestContext(t, http.MethodGet, "/api/templates", "")

	require.NoError(t, h.ListTemplates(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []model.LabelTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestUpdateTemplate(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)
	saveTestTemplate(t, store, testTenantID)

	body := `{"document":{"name":"Renamed","widthMm":80,"heightMm":50}}`
	c, rec := newTestContext(t, http.MethodPut, "/api/templates/1", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.UpdateTemplate(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	doc, err := store.Load(context.Background(), testTenantID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", doc.Name)
	assert.Equal(t, 80.0, doc.WidthMm)
}

func TestUpdateTemplateNotFound(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)

	body := `{"document":{"name":"Renamed","widthMm":80,"heightMm":50}}`
	c, rec := newTestContext(t, http.MethodPut, "/api/templates/7", body)
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.UpdateTemplate(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTemplate(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)
	saveTestTemplate(t, store, testTenantID)

	c, rec := newTestContext(t, http.MethodDelete, "/api/templates/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.DeleteTemplate(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.Templates)
}

func TestDeleteTemplateNotFound(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	h := NewTemplateHandler(store)

	c, rec := newTestContext(t, http.MethodDelete, "/api/templates/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.DeleteTemplate(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveTemplateStoreFailure(t *testing.T) {
	store := testutil.NewMockTemplateStore()
	store.SaveErr = errors.New("connection refused")
	h := NewTemplateHandler(store)

	body := `{"document":{"name":"x","widthMm":150,"heightMm":100}}`
	c, rec := newTestContext(t, http.MethodPost, "/api/templates", body)

	require.NoError(t, h.SaveTemplate(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
