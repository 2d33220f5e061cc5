package models

import (
	"time"

	"gorm.io/gorm"
)

// Affidavit is a generated or in-progress document instance. Content is the
// JSON map of placeholder values at the time of last edit/generation.
// TemplateID is nullable: a draft can begin before a template is chosen.
// VerificationCode and GeneratedFilePath are populated exactly once, when
// generation succeeds, and are immutable thereafter; regeneration creates a
// new record instead of mutating a sent one.
type Affidavit struct {
	ID                string         `gorm:"primaryKey" json:"id"`
	PatientID         string         `gorm:"not null;index" json:"patient_id"`
	ProviderID        string         `gorm:"not null;index" json:"provider_id"`
	TemplateID        *string        `gorm:"index" json:"template_id,omitempty"`
	TemplateVersion   int            `json:"template_version"`
	Content           string         `gorm:"type:json" json:"content"`
	Status            string         `gorm:"not null;default:'DRAFT'" json:"status"`
	VerificationCode  *string        `gorm:"uniqueIndex" json:"-"`
	GeneratedFilePath *string        `json:"generated_file_path,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Patient  Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Provider Provider  `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Template *Template `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (Affidavit) TableName() string {
	return "affidavits"
}
