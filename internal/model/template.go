package model

import (
	"time"

	"gorm.io/gorm"
)

// LabelTemplate is the persisted form of a label template document.
// The full document (dimensions, style defaults, elements) is stored as a
// JSON column; the scalar columns exist for listing and filtering.
type LabelTemplate struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null;comment:'Tenant this template belongs to'"`
	WidthMm   float64        `json:"width_mm" gorm:"not null"`
	HeightMm  float64        `json:"height_mm" gorm:"not null"`
	Document  string         `json:"document" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
