package verification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AFD-SVC/internal/lifecycle"
)

type fakeStore struct {
	records map[string]*Record
	calls   int
}

func (f *fakeStore) FindVerifiable(ctx context.Context, documentID string) (*Record, error) {
	f.calls++
	rec, ok := f.records[documentID]
	if !ok {
		return nil, fmt.Errorf("affidavit not found")
	}
	return rec, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string]*Record{
			"doc-1": {
				AffidavitID:  "doc-1",
				Code:         "a3f8c2d91b4e5f60718293a4b5c6d7e8",
				Status:       lifecycle.StatusGenerated,
				CreatedAt:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
				PatientName:  "John Doe",
				ProviderName: "Dr. Reyes",
			},
		},
	}
}

func TestNewCode(t *testing.T) {
	code, err := NewCode()
	require.NoError(t, err)
	assert.Len(t, code, 32)

	other, err := NewCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestIssue_AtMostOnce(t *testing.T) {
	code, err := Issue("")
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	_, err = Issue(code)
	assert.ErrorIs(t, err, ErrAlreadyIssued)
}

func TestURL(t *testing.T) {
	url := URL("https://affidavits.example.com", "doc-1", "abc123")
	assert.Equal(t, "https://affidavits.example.com/verify/doc-1/abc123", url)
}

func TestVerify_Match(t *testing.T) {
	svc := NewService(newFakeStore())

	result := svc.Verify(context.Background(), "doc-1", "a3f8c2d91b4e5f60718293a4b5c6d7e8")

	require.True(t, result.Verified)
	require.NotNil(t, result.Summary)
	assert.Equal(t, lifecycle.StatusGenerated, result.Summary.Status)
	assert.Equal(t, "John Doe", result.Summary.PatientName)
	assert.Equal(t, "Dr. Reyes", result.Summary.ProviderName)
}

func TestVerify_UniformNotVerified(t *testing.T) {
	svc := NewService(newFakeStore())

	// Wrong code and unknown id must be indistinguishable in the response.
	wrongCode := svc.Verify(context.Background(), "doc-1", "totally-wrong-code")
	unknownID := svc.Verify(context.Background(), "nonexistent", "a3f8c2d91b4e5f60718293a4b5c6d7e8")

	assert.Equal(t, wrongCode, unknownID)
	assert.False(t, wrongCode.Verified)
	assert.Nil(t, wrongCode.Summary)
}

func TestVerify_ExactMatchOnly(t *testing.T) {
	svc := NewService(newFakeStore())

	for _, code := range []string{
		"a3f8c2d91b4e5f60718293a4b5c6d7e",   // truncated
		"A3F8C2D91B4E5F60718293A4B5C6D7E8",  // case variant
		"a3f8c2d91b4e5f60718293a4b5c6d7e8 ", // trailing space
		"",
	} {
		result := svc.Verify(context.Background(), "doc-1", code)
		assert.False(t, result.Verified, "code %q must not verify", code)
	}
}

func TestVerify_RequiresBothInputs(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	assert.False(t, svc.Verify(context.Background(), "", "some-code").Verified)
	assert.False(t, svc.Verify(context.Background(), "doc-1", "").Verified)
	// Missing inputs never reach the store.
	assert.Equal(t, 0, store.calls)
}

func TestVerify_CachesLookups(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	svc.Verify(context.Background(), "doc-1", "a3f8c2d91b4e5f60718293a4b5c6d7e8")
	svc.Verify(context.Background(), "doc-1", "a3f8c2d91b4e5f60718293a4b5c6d7e8")

	assert.Equal(t, 1, store.calls)
}

func TestQRCode(t *testing.T) {
	png, err := QRCode("https://affidavits.example.com", "doc-1", "abc123", 256)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
