package services

import (
	"context"
	"fmt"

	"AFD-SVC/internal"
	"AFD-SVC/internal/lifecycle"
	"AFD-SVC/internal/models"
	"AFD-SVC/internal/verification"
)

// affidavitStore adapts the database to the verification.Store read model.
// It only surfaces affidavits that actually hold a code; drafts are not
// verifiable.
type affidavitStore struct{}

func (affidavitStore) FindVerifiable(ctx context.Context, documentID string) (*verification.Record, error) {
	var affidavit models.Affidavit
	err := internal.DB.WithContext(ctx).
		Preload("Patient").
		Preload("Provider").
		First(&affidavit, "id = ?", documentID).Error
	if err != nil {
		return nil, fmt.Errorf("affidavit not found: %w", err)
	}

	if affidavit.VerificationCode == nil {
		return nil, fmt.Errorf("affidavit %s has no verification code", documentID)
	}

	status, err := lifecycle.ParseStatus(affidavit.Status)
	if err != nil {
		return nil, err
	}

	return &verification.Record{
		AffidavitID:  affidavit.ID,
		Code:         *affidavit.VerificationCode,
		Status:       status,
		CreatedAt:    affidavit.CreatedAt,
		PatientName:  affidavit.Patient.DisplayName(),
		ProviderName: affidavit.Provider.Name,
	}, nil
}

// NewVerificationService wires the public lookup against the affidavits
// table.
func NewVerificationService() *verification.Service {
	return verification.NewService(affidavitStore{})
}
