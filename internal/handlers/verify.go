package handlers

import (
	"context"
	"net/http"

	"AFD-SVC/internal/services"
	"AFD-SVC/internal/verification"

	"github.com/gin-gonic/gin"
)

// Verifier answers public verification lookups. The concrete implementation
// lives in services; the interface keeps the handler testable.
type Verifier interface {
	Verify(ctx context.Context, documentID, code string) verification.Result
}

type VerifyHandler struct {
	verifier         Verifier
	affidavitService *services.AffidavitService
	baseURL          string
	qrSize           int
}

func NewVerifyHandler(verifier Verifier, affidavitService *services.AffidavitService, baseURL string, qrSize int) *VerifyHandler {
	return &VerifyHandler{
		verifier:         verifier,
		affidavitService: affidavitService,
		baseURL:          baseURL,
		qrSize:           qrSize,
	}
}

// Verify is the public endpoint behind the QR code. Wrong codes and unknown
// ids produce the same response; the status code is always 200 so the shape
// itself carries no enumeration signal. Both path and query packing are
// accepted.
func (h *VerifyHandler) Verify(c *gin.Context) {
	documentID := c.Param("documentId")
	code := c.Param("code")
	if documentID == "" {
		documentID = c.Query("documentId")
	}
	if code == "" {
		code = c.Query("code")
	}

	result := h.verifier.Verify(c.Request.Context(), documentID, code)
	c.JSON(http.StatusOK, result)
}

// QRCode renders the verification QR for a generated affidavit. It needs
// the stored code to build the URL, so it lives on the authenticated
// affidavit API, not the public verify path.
func (h *VerifyHandler) QRCode(c *gin.Context) {
	affidavit, err := h.affidavitService.GetAffidavit(c.Param("affidavitId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Affidavit not found"})
		return
	}
	if affidavit.VerificationCode == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Affidavit has not been generated"})
		return
	}

	png, err := verification.QRCode(h.baseURL, affidavit.ID, *affidavit.VerificationCode, h.qrSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
