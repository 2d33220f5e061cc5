package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient and Provider are the two parties an affidavit binds together.
// The core only needs their display names (verification summaries and
// binding contexts); the rest is routine record keeping.

type Patient struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	FirstName   string         `gorm:"not null" json:"first_name"`
	LastName    string         `gorm:"not null" json:"last_name"`
	DateOfBirth *time.Time     `json:"date_of_birth,omitempty"`
	Email       string         `json:"email,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (p *Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

type Provider struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Specialty     string         `json:"specialty,omitempty"`
	LicenseNumber string         `json:"license_number,omitempty"`
	Email         string         `json:"email,omitempty"`
	Fax           string         `json:"fax,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
