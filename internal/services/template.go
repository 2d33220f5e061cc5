package services

import (
	"encoding/json"
	"fmt"

	"AFD-SVC/internal"
	"AFD-SVC/internal/models"
	"AFD-SVC/internal/schema"

	"github.com/google/uuid"
)

type TemplateService struct{}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

// CreateTemplate validates and persists a new template at version 1.
func (s *TemplateService) CreateTemplate(name string, structure *schema.Structure) (*models.Template, error) {
	if name == "" {
		return nil, &schema.ValidationError{Field: "name", Message: "template name is required"}
	}
	if err := schema.ValidateStructure(structure); err != nil {
		return nil, err
	}

	structureJSON, err := json.Marshal(structure)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template structure: %w", err)
	}

	template := &models.Template{
		ID:        uuid.New().String(),
		Name:      name,
		Structure: string(structureJSON),
		Version:   1,
		IsActive:  true,
	}

	if err := internal.DB.Create(template).Error; err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	return template, nil
}

func (s *TemplateService) GetTemplate(templateID string) (*models.Template, error) {
	var template models.Template
	if err := internal.DB.First(&template, "id = ?", templateID).Error; err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	return &template, nil
}

// GetStructure decodes a template's persisted structure through the
// validating parser, so untyped JSON never leaks past this point.
func (s *TemplateService) GetStructure(template *models.Template) (*schema.Structure, error) {
	structure, err := schema.ParseStructure([]byte(template.Structure))
	if err != nil {
		return nil, fmt.Errorf("stored structure for template %s is invalid: %w", template.ID, err)
	}
	return structure, nil
}

// ListTemplates returns templates, optionally only active ones. Inactive
// templates are excluded from new-document flows but remain resolvable for
// already-generated affidavits.
func (s *TemplateService) ListTemplates(activeOnly bool) ([]models.Template, error) {
	var templates []models.Template
	query := internal.DB.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateStructure replaces a template's structure and bumps its version.
// Affidavits generated against earlier versions keep the version they were
// generated with.
func (s *TemplateService) UpdateStructure(templateID string, structure *schema.Structure) (*models.Template, error) {
	if err := schema.ValidateStructure(structure); err != nil {
		return nil, err
	}

	template, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}

	structureJSON, err := json.Marshal(structure)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template structure: %w", err)
	}

	template.Structure = string(structureJSON)
	template.Version++

	if err := internal.DB.Save(template).Error; err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return template, nil
}

func (s *TemplateService) RenameTemplate(templateID, name string) (*models.Template, error) {
	if name == "" {
		return nil, &schema.ValidationError{Field: "name", Message: "template name is required"}
	}

	template, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}

	template.Name = name
	if err := internal.DB.Save(template).Error; err != nil {
		return nil, fmt.Errorf("failed to rename template: %w", err)
	}
	return template, nil
}

// CloneTemplate creates a new template with a fresh id, a derived name, and
// a deep, independent copy of the source structure. Clones never share
// identity with their source.
func (s *TemplateService) CloneTemplate(templateID string) (*models.Template, error) {
	source, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}

	structure, err := s.GetStructure(source)
	if err != nil {
		return nil, err
	}

	cloneJSON, err := json.Marshal(structure.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cloned structure: %w", err)
	}

	clone := &models.Template{
		ID:        uuid.New().String(),
		Name:      source.Name + " (Copy)",
		Structure: string(cloneJSON),
		Version:   1,
		IsActive:  true,
	}

	if err := internal.DB.Create(clone).Error; err != nil {
		return nil, fmt.Errorf("failed to save cloned template: %w", err)
	}

	return clone, nil
}

func (s *TemplateService) SetActive(templateID string, active bool) error {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return err
	}

	if err := internal.DB.Model(template).Update("is_active", active).Error; err != nil {
		return fmt.Errorf("failed to update template active flag: %w", err)
	}
	return nil
}

func (s *TemplateService) DeleteTemplate(templateID string) error {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return err
	}

	// Soft delete; generated affidavits keep their snapshot version.
	return internal.DB.Delete(template).Error
}
