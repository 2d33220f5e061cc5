package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"AFD-SVC/internal"
	"AFD-SVC/internal/binding"
	"AFD-SVC/internal/lifecycle"
	"AFD-SVC/internal/models"
	"AFD-SVC/internal/renderer"
	"AFD-SVC/internal/storage"
	"AFD-SVC/internal/verification"

	"github.com/google/uuid"
)

const signedURLExpiry = 15 * time.Minute

// GenerationError carries the complete list of binding failures from one
// generation attempt, so the caller sees every missing required field in a
// single response.
type GenerationError struct {
	Errors []binding.BindingError `json:"errors"`
}

func (e *GenerationError) Error() string {
	fields := make([]string, len(e.Errors))
	for i, be := range e.Errors {
		fields[i] = be.Field
	}
	return "generation blocked by missing required fields: " + strings.Join(fields, ", ")
}

// Sender transmits a generated affidavit over a delivery channel (email or
// fax). Transmission is an external collaborator; failures leave the
// affidavit in GENERATED.
type Sender interface {
	Send(ctx context.Context, affidavit *models.Affidavit, fileURL, channel string) error
}

type AffidavitService struct {
	gcsClient       *storage.GCSClient
	templateService *TemplateService
	renderer        *renderer.Renderer
	sender          Sender
	verifyBaseURL   string
}

func NewAffidavitService(gcsClient *storage.GCSClient, templateService *TemplateService, sender Sender, verifyBaseURL string) *AffidavitService {
	return &AffidavitService{
		gcsClient:       gcsClient,
		templateService: templateService,
		renderer:        renderer.New(),
		sender:          sender,
		verifyBaseURL:   verifyBaseURL,
	}
}

// CreateAffidavit opens a new DRAFT. The template may be chosen later and
// content may start empty or partially filled.
func (s *AffidavitService) CreateAffidavit(patientID, providerID string, templateID *string, content map[string]interface{}) (*models.Affidavit, error) {
	if patientID == "" || providerID == "" {
		return nil, fmt.Errorf("patient id and provider id are required")
	}

	if content == nil {
		content = map[string]interface{}{}
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}

	affidavit := &models.Affidavit{
		ID:         uuid.New().String(),
		PatientID:  patientID,
		ProviderID: providerID,
		TemplateID: templateID,
		Content:    string(contentJSON),
		Status:     string(lifecycle.StatusDraft),
	}

	if err := internal.DB.Create(affidavit).Error; err != nil {
		return nil, fmt.Errorf("failed to save affidavit: %w", err)
	}

	return affidavit, nil
}

func (s *AffidavitService) GetAffidavit(affidavitID string) (*models.Affidavit, error) {
	var affidavit models.Affidavit
	if err := internal.DB.First(&affidavit, "id = ?", affidavitID).Error; err != nil {
		return nil, fmt.Errorf("affidavit not found: %w", err)
	}
	return &affidavit, nil
}

func (s *AffidavitService) ListByPatient(patientID string) ([]models.Affidavit, error) {
	var affidavits []models.Affidavit
	if err := internal.DB.Where("patient_id = ?", patientID).Order("created_at DESC").Find(&affidavits).Error; err != nil {
		return nil, fmt.Errorf("failed to list affidavits: %w", err)
	}
	return affidavits, nil
}

// UpdateContent replaces the draft content. Edits are only permitted in
// DRAFT or REJECTED; editing a REJECTED affidavit returns it to DRAFT.
func (s *AffidavitService) UpdateContent(affidavitID string, content map[string]interface{}, templateID *string) (*models.Affidavit, error) {
	affidavit, err := s.GetAffidavit(affidavitID)
	if err != nil {
		return nil, err
	}

	status := lifecycle.Status(affidavit.Status)
	if !lifecycle.CanEditContent(status) {
		return nil, &lifecycle.InvalidTransitionError{From: status, To: lifecycle.StatusDraft}
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}

	affidavit.Content = string(contentJSON)
	if templateID != nil {
		affidavit.TemplateID = templateID
	}
	if status == lifecycle.StatusRejected {
		affidavit.Status = string(lifecycle.StatusDraft)
	}

	if err := internal.DB.Save(affidavit).Error; err != nil {
		return nil, fmt.Errorf("failed to update affidavit: %w", err)
	}
	return affidavit, nil
}

// Submit, Approve, Reject and MarkReceived are plain transitions; the state
// machine rejects anything illegal before any mutation happens.

func (s *AffidavitService) Submit(affidavitID string) (*models.Affidavit, error) {
	return s.transition(affidavitID, lifecycle.StatusSubmitted)
}

func (s *AffidavitService) Approve(affidavitID string) (*models.Affidavit, error) {
	return s.transition(affidavitID, lifecycle.StatusApproved)
}

func (s *AffidavitService) Reject(affidavitID string) (*models.Affidavit, error) {
	return s.transition(affidavitID, lifecycle.StatusRejected)
}

func (s *AffidavitService) MarkReceived(affidavitID string) (*models.Affidavit, error) {
	return s.transition(affidavitID, lifecycle.StatusReceived)
}

func (s *AffidavitService) MarkError(affidavitID string) (*models.Affidavit, error) {
	return s.transition(affidavitID, lifecycle.StatusError)
}

func (s *AffidavitService) transition(affidavitID string, to lifecycle.Status) (*models.Affidavit, error) {
	affidavit, err := s.GetAffidavit(affidavitID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.Transition(lifecycle.Status(affidavit.Status), to)
	if err != nil {
		return nil, err
	}

	// The status guard in the WHERE clause makes concurrent drivers of the
	// same affidavit serialize on the persistence layer.
	result := internal.DB.Model(affidavit).
		Where("status = ?", affidavit.Status).
		Update("status", string(next))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update affidavit status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("affidavit %s was modified concurrently", affidavitID)
	}

	affidavit.Status = string(next)
	return affidavit, nil
}

// Generate runs the full pipeline: snapshot the template version, bind the
// content context, refuse on any binding error, render, upload, transition
// to GENERATED and issue the verification code. Rendering is atomic from
// the caller's view: either everything succeeds and the status moves, or
// the affidavit is left untouched.
func (s *AffidavitService) Generate(ctx context.Context, affidavitID string) (*models.Affidavit, error) {
	affidavit, err := s.GetAffidavit(affidavitID)
	if err != nil {
		return nil, err
	}

	from := lifecycle.Status(affidavit.Status)
	if _, err := lifecycle.Transition(from, lifecycle.StatusGenerated); err != nil {
		return nil, err
	}

	// Generated output is immutable; regenerating requires a new record
	// (see RegenerateAsNew).
	if affidavit.VerificationCode != nil || affidavit.GeneratedFilePath != nil {
		return nil, verification.ErrAlreadyIssued
	}

	if affidavit.TemplateID == nil {
		return nil, fmt.Errorf("affidavit %s has no template selected", affidavitID)
	}

	template, err := s.templateService.GetTemplate(*affidavit.TemplateID)
	if err != nil {
		return nil, err
	}
	structure, err := s.templateService.GetStructure(template)
	if err != nil {
		return nil, err
	}

	var content map[string]interface{}
	if err := json.Unmarshal([]byte(affidavit.Content), &content); err != nil {
		return nil, fmt.Errorf("stored content for affidavit %s is invalid: %w", affidavitID, err)
	}

	resolved, bindErrs := binding.Bind(structure, content)
	if len(bindErrs) > 0 {
		return nil, &GenerationError{Errors: bindErrs}
	}

	code, err := verification.Issue("")
	if err != nil {
		return nil, err
	}
	verifyURL := verification.URL(s.verifyBaseURL, affidavit.ID, code)

	pdfBytes, err := s.renderer.Render(resolved, verifyURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render affidavit: %w", err)
	}

	objectName := storage.GenerateAffidavitObjectName(affidavit.ID, "affidavit.pdf")
	if _, err := s.gcsClient.UploadFile(ctx, bytes.NewReader(pdfBytes), objectName, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to upload rendered affidavit: %w", err)
	}

	// Single guarded update: status, file path, code and version snapshot
	// land together or not at all.
	result := internal.DB.Model(affidavit).
		Where("status = ? AND verification_code IS NULL", affidavit.Status).
		Updates(map[string]interface{}{
			"status":              string(lifecycle.StatusGenerated),
			"generated_file_path": objectName,
			"verification_code":   code,
			"template_version":    template.Version,
		})
	if result.Error != nil {
		s.gcsClient.DeleteFile(ctx, objectName)
		return nil, fmt.Errorf("failed to finalize generation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		s.gcsClient.DeleteFile(ctx, objectName)
		return nil, fmt.Errorf("affidavit %s was generated concurrently", affidavitID)
	}

	affidavit.Status = string(lifecycle.StatusGenerated)
	affidavit.GeneratedFilePath = &objectName
	affidavit.VerificationCode = &code
	affidavit.TemplateVersion = template.Version
	return affidavit, nil
}

// Send transmits the generated document over the requested channel. On
// failure the status stays GENERATED and the error names the channel.
func (s *AffidavitService) Send(ctx context.Context, affidavitID, channel string) (*models.Affidavit, error) {
	affidavit, err := s.GetAffidavit(affidavitID)
	if err != nil {
		return nil, err
	}

	if _, err := lifecycle.Transition(lifecycle.Status(affidavit.Status), lifecycle.StatusSent); err != nil {
		return nil, err
	}
	if affidavit.GeneratedFilePath == nil {
		return nil, fmt.Errorf("affidavit %s has no generated file", affidavitID)
	}

	if s.sender != nil {
		fileURL, err := s.gcsClient.GetSignedURL(*affidavit.GeneratedFilePath, signedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("failed to sign download URL: %w", err)
		}
		if err := s.sender.Send(ctx, affidavit, fileURL, channel); err != nil {
			return nil, fmt.Errorf("transmission over %s failed: %w", channel, err)
		}
	}

	return s.transition(affidavitID, lifecycle.StatusSent)
}

// RegenerateAsNew clones a generated or sent affidavit into a fresh DRAFT.
// Past output is never mutated: the new record re-runs the pipeline with
// its own file and code.
func (s *AffidavitService) RegenerateAsNew(affidavitID string) (*models.Affidavit, error) {
	source, err := s.GetAffidavit(affidavitID)
	if err != nil {
		return nil, err
	}

	status := lifecycle.Status(source.Status)
	if status != lifecycle.StatusGenerated && status != lifecycle.StatusSent && status != lifecycle.StatusReceived {
		return nil, errors.New("only generated, sent or received affidavits can be regenerated")
	}

	clone := &models.Affidavit{
		ID:         uuid.New().String(),
		PatientID:  source.PatientID,
		ProviderID: source.ProviderID,
		TemplateID: source.TemplateID,
		Content:    source.Content,
		Status:     string(lifecycle.StatusDraft),
	}

	if err := internal.DB.Create(clone).Error; err != nil {
		return nil, fmt.Errorf("failed to save regenerated affidavit: %w", err)
	}
	return clone, nil
}
