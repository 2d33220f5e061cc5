package models

import (
	"time"

	"gorm.io/gorm"
)

// Template is a persisted affidavit template. Structure holds the
// positioned placeholders/text blocks as JSON (see schema.Structure);
// Version increases on every structural mutation so generated documents can
// pin the version in effect at generation time.
type Template struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Structure string         `gorm:"type:json" json:"structure"`
	Version   int            `gorm:"not null;default:1" json:"version"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Affidavits []Affidavit `gorm:"foreignKey:TemplateID" json:"affidavits,omitempty"`
}

func (Template) TableName() string {
	return "affidavit_templates"
}
