package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AFD-SVC/internal/lifecycle"
	"AFD-SVC/internal/verification"
)

type stubVerifier struct {
	documentID string
	code       string
}

func (s *stubVerifier) Verify(ctx context.Context, documentID, code string) verification.Result {
	if documentID == s.documentID && code == s.code {
		return verification.Result{
			Verified: true,
			Summary: &verification.Summary{
				Status:       lifecycle.StatusSent,
				PatientName:  "John Doe",
				ProviderName: "Dr. Reyes",
			},
		}
	}
	return verification.Result{Verified: false}
}

func newVerifyRouter(v Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVerifyHandler(v, nil, "http://localhost:8080", 256)
	r := gin.New()
	r.GET("/verify/:documentId/:code", h.Verify)
	r.GET("/verify", h.Verify)
	return r
}

func TestVerifyEndpoint_PathParams(t *testing.T) {
	r := newVerifyRouter(&stubVerifier{documentID: "doc-1", code: "abc123"})

	req := httptest.NewRequest(http.MethodGet, "/verify/doc-1/abc123", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var result verification.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.Verified)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "John Doe", result.Summary.PatientName)
}

func TestVerifyEndpoint_QueryParams(t *testing.T) {
	r := newVerifyRouter(&stubVerifier{documentID: "doc-1", code: "abc123"})

	req := httptest.NewRequest(http.MethodGet, "/verify?documentId=doc-1&code=abc123", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var result verification.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.Verified)
}

func TestVerifyEndpoint_NotVerifiedIsUniform(t *testing.T) {
	r := newVerifyRouter(&stubVerifier{documentID: "doc-1", code: "abc123"})

	wrongCode := httptest.NewRecorder()
	r.ServeHTTP(wrongCode, httptest.NewRequest(http.MethodGet, "/verify/doc-1/nope", nil))

	unknownID := httptest.NewRecorder()
	r.ServeHTTP(unknownID, httptest.NewRequest(http.MethodGet, "/verify/ghost/abc123", nil))

	// Same status, same body: no signal distinguishing wrong code from
	// unknown document.
	require.Equal(t, http.StatusOK, wrongCode.Code)
	require.Equal(t, http.StatusOK, unknownID.Code)
	assert.JSONEq(t, `{"verified":false}`, wrongCode.Body.String())
	assert.Equal(t, wrongCode.Body.String(), unknownID.Body.String())
}
