package verification

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"AFD-SVC/internal/lifecycle"
)

// ErrAlreadyIssued is returned when a code is requested for an affidavit
// that already holds one. Issuance is at-most-once per document.
var ErrAlreadyIssued = errors.New("verification code already issued for this affidavit")

// Record is the read model the store supplies for the public lookup: the
// stored code plus the display summary returned on a successful match.
type Record struct {
	AffidavitID  string
	Code         string
	Status       lifecycle.Status
	CreatedAt    time.Time
	PatientName  string
	ProviderName string
}

// Store fetches verification records by document id. Implementations return
// any error for unknown ids; the service folds every failure into the same
// uniform not-verified result.
type Store interface {
	FindVerifiable(ctx context.Context, documentID string) (*Record, error)
}

// Summary is the read-only view exposed to a verifier on a successful
// match. The raw code is never echoed back.
type Summary struct {
	Status       lifecycle.Status `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	PatientName  string           `json:"patient_name"`
	ProviderName string           `json:"provider_name"`
}

// Result is the uniform verification response. A wrong code and an unknown
// document id both produce {Verified: false} with no distinguishing detail,
// so the endpoint cannot be used to enumerate ids.
type Result struct {
	Verified bool     `json:"verified"`
	Summary  *Summary `json:"affidavit,omitempty"`
}

// NewCode mints an opaque, unguessable verification token.
func NewCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue mints a code for an affidavit that has none. Callers pass the code
// currently stored on the record; a non-empty value means one was already
// issued and re-issuance is refused.
func Issue(existingCode string) (string, error) {
	if existingCode != "" {
		return "", ErrAlreadyIssued
	}
	return NewCode()
}

// URL builds the public verification URL for a document/code pair.
func URL(baseURL, documentID, code string) string {
	return fmt.Sprintf("%s/verify/%s/%s", baseURL, documentID, code)
}

// Service answers public verification lookups. Lookups for recently
// verified documents are served from an in-memory cache; the short TTL
// bounds how stale a cached status summary can be.
type Service struct {
	store Store
	cache *gocache.Cache
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Verify is a pure lookup: fetch the record, compare codes exactly, and on
// match return the read-only summary. Both documentID and code are required
// regardless of how the transport packed them.
func (s *Service) Verify(ctx context.Context, documentID, code string) Result {
	if documentID == "" || code == "" {
		return Result{Verified: false}
	}

	rec := s.lookup(ctx, documentID)
	if rec == nil || rec.Code == "" {
		return Result{Verified: false}
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return Result{Verified: false}
	}

	return Result{
		Verified: true,
		Summary: &Summary{
			Status:       rec.Status,
			CreatedAt:    rec.CreatedAt,
			PatientName:  rec.PatientName,
			ProviderName: rec.ProviderName,
		},
	}
}

func (s *Service) lookup(ctx context.Context, documentID string) *Record {
	if cached, found := s.cache.Get(documentID); found {
		if rec, ok := cached.(*Record); ok {
			return rec
		}
	}

	rec, err := s.store.FindVerifiable(ctx, documentID)
	if err != nil || rec == nil {
		return nil
	}

	s.cache.Set(documentID, rec, gocache.DefaultExpiration)
	return rec
}
