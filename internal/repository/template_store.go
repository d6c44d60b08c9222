package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"label-service/internal/designer"
	"label-service/internal/model"
	"label-service/prometheus"

	"gorm.io/gorm"
)

// ErrTemplateNotFound is returned when no template exists for the given id
// within the tenant.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateStore persists label template documents. The designer core consumes
// only Save and Load; the service surface additionally uses List, Update and
// Delete. A failed Load never touches any in-memory document held by the
// caller.
type TemplateStore interface {
	Save(ctx context.Context, tenantID uint, doc *designer.TemplateDocument) (uint, error)
	Load(ctx context.Context, tenantID, id uint) (*designer.TemplateDocument, error)
	List(ctx context.Context, tenantID uint) ([]model.LabelTemplate, error)
	Update(ctx context.Context, tenantID, id uint, doc *designer.TemplateDocument) error
	Delete(ctx context.Context, tenantID, id uint) error
}

// GormTemplateStore is the Postgres-backed TemplateStore.
type GormTemplateStore struct {
	db *gorm.DB
}

// NewGormTemplateStore creates a store over the given gorm connection.
func NewGormTemplateStore(db *gorm.DB) *GormTemplateStore {
	return &GormTemplateStore{db: db}
}

// Save persists a new template document and returns its id.
func (s *GormTemplateStore) Save(ctx context.Context, tenantID uint, doc *designer.TemplateDocument) (uint, error) {
	defer prometheus.TrackDBOperation("save_template")(time.Now())

	raw, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize template document: %w", err)
	}

	row := model.LabelTemplate{
		Name:     doc.Name,
		TenantID: tenantID,
		WidthMm:  doc.WidthMm,
		HeightMm: doc.HeightMm,
		Document: string(raw),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to save template: %w", err)
	}
	return row.ID, nil
}

// Load fetches and deserializes a template document. On any failure the
// returned document is nil; nothing held by the caller is overwritten.
func (s *GormTemplateStore) Load(ctx context.Context, tenantID, id uint) (*designer.TemplateDocument, error) {
	defer prometheus.TrackDBOperation("load_template")(time.Now())

	var row model.LabelTemplate
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	doc := &designer.TemplateDocument{}
	if err := json.Unmarshal([]byte(row.Document), doc); err != nil {
		return nil, fmt.Errorf("failed to deserialize template document: %w", err)
	}
	return doc, nil
}

// List returns the tenant's templates without their document payloads.
func (s *GormTemplateStore) List(ctx context.Context, tenantID uint) ([]model.LabelTemplate, error) {
	defer prometheus.TrackDBOperation("list_templates")(time.Now())

	var rows []model.LabelTemplate
	err := s.db.WithContext(ctx).
		Select("id", "name", "tenant_id", "width_mm", "height_mm", "created_at", "updated_at").
		Where("tenant_id = ?", tenantID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return rows, nil
}

// Update replaces an existing template's document.
func (s *GormTemplateStore) Update(ctx context.Context, tenantID, id uint, doc *designer.TemplateDocument) error {
	defer prometheus.TrackDBOperation("update_template")(time.Now())

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize template document: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&model.LabelTemplate{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{
			"name":      doc.Name,
			"width_mm":  doc.WidthMm,
			"height_mm": doc.HeightMm,
			"document":  string(raw),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// Delete soft-deletes a template.
func (s *GormTemplateStore) Delete(ctx context.Context, tenantID, id uint) error {
	defer prometheus.TrackDBOperation("delete_template")(time.Now())

	result := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&model.LabelTemplate{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
