package testutil

import (
	"context"
	"encoding/json"
	"time"

	"label-service/internal/designer"
	"label-service/internal/model"
	"label-service/internal/repository"
)

// MockTemplateStore is an in-memory TemplateStore for handler tests. Error
// fields, when set, are returned by the matching method instead of touching
// the map.
type MockTemplateStore struct {
	Templates map[uint]model.LabelTemplate
	NextID    uint

	SaveErr   error
	LoadErr   error
	ListErr   error
	UpdateErr error
	DeleteErr error
}

// NewMockTemplateStore creates an empty in-memory store.
func NewMockTemplateStore() *MockTemplateStore {
	return &MockTemplateStore{
		Templates: make(map[uint]model.LabelTemplate),
		NextID:    1,
	}
}

func (m *MockTemplateStore) Save(_ context.Context, tenantID uint, doc *designer.TemplateDocument) (uint, error) {
	if m.SaveErr != nil {
		return 0, m.SaveErr
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return 0, err
	}
	id := m.NextID
	m.NextID++
	now := time.Now()
	m.Templates[id] = model.LabelTemplate{
		ID:        id,
		Name:      doc.Name,
		TenantID:  tenantID,
		WidthMm:   doc.WidthMm,
		HeightMm:  doc.HeightMm,
		Document:  string(raw),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (m *MockTemplateStore) Load(_ context.Context, tenantID, id uint) (*designer.TemplateDocument, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	row, ok := m.Templates[id]
	if !ok || row.TenantID != tenantID {
		return nil, repository.ErrTemplateNotFound
	}
	doc := &designer.TemplateDocument{}
	if err := json.Unmarshal([]byte(row.Document), doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *MockTemplateStore) List(_ context.Context, tenantID uint) ([]model.LabelTemplate, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var rows []model.LabelTemplate
	for id := uint(1); id < m.NextID; id++ {
		row, ok := m.Templates[id]
		if !ok || row.TenantID != tenantID {
			continue
		}
		row.Document = ""
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *MockTemplateStore) Update(_ context.Context, tenantID, id uint, doc *designer.TemplateDocument) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	row, ok := m.Templates[id]
	if !ok || row.TenantID != tenantID {
		return repository.ErrTemplateNotFound
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	row.Name = doc.Name
	row.WidthMm = doc.WidthMm
	row.HeightMm = doc.HeightMm
	row.Document = string(raw)
	row.UpdatedAt = time.Now()
	m.Templates[id] = row
	return nil
}

func (m *MockTemplateStore) Delete(_ context.Context, tenantID, id uint) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	row, ok := m.Templates[id]
	if !ok || row.TenantID != tenantID {
		return repository.ErrTemplateNotFound
	}
	delete(m.Templates, id)
	return nil
}
