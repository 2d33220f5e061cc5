package handlers

import (
	"errors"
	"net/http"
	"time"

	"AFD-SVC/internal/lifecycle"
	"AFD-SVC/internal/models"
	"AFD-SVC/internal/services"
	"AFD-SVC/internal/storage"

	"github.com/gin-gonic/gin"
)

type AffidavitsHandler struct {
	affidavitService *services.AffidavitService
	gcsClient        *storage.GCSClient
}

func NewAffidavitsHandler(affidavitService *services.AffidavitService, gcsClient *storage.GCSClient) *AffidavitsHandler {
	return &AffidavitsHandler{
		affidavitService: affidavitService,
		gcsClient:        gcsClient,
	}
}

type createAffidavitRequest struct {
	PatientID  string                 `json:"patient_id"`
	ProviderID string                 `json:"provider_id"`
	TemplateID *string                `json:"template_id,omitempty"`
	Content    map[string]interface{} `json:"content,omitempty"`
}

type updateContentRequest struct {
	Content    map[string]interface{} `json:"content"`
	TemplateID *string                `json:"template_id,omitempty"`
}

type sendRequest struct {
	Channel string `json:"channel"`
}

func (h *AffidavitsHandler) Create(c *gin.Context) {
	var req createAffidavitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	affidavit, err := h.affidavitService.CreateAffidavit(req.PatientID, req.ProviderID, req.TemplateID, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, affidavit)
}

func (h *AffidavitsHandler) Get(c *gin.Context) {
	affidavit, err := h.affidavitService.GetAffidavit(c.Param("affidavitId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Affidavit not found"})
		return
	}
	c.JSON(http.StatusOK, affidavit)
}

func (h *AffidavitsHandler) ListByPatient(c *gin.Context) {
	affidavits, err := h.affidavitService.ListByPatient(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list affidavits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"affidavits": affidavits})
}

func (h *AffidavitsHandler) UpdateContent(c *gin.Context) {
	var req updateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	affidavit, err := h.affidavitService.UpdateContent(c.Param("affidavitId"), req.Content, req.TemplateID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, affidavit)
}

func (h *AffidavitsHandler) Submit(c *gin.Context) {
	h.doTransition(c, h.affidavitService.Submit)
}

func (h *AffidavitsHandler) Approve(c *gin.Context) {
	h.doTransition(c, h.affidavitService.Approve)
}

func (h *AffidavitsHandler) Reject(c *gin.Context) {
	h.doTransition(c, h.affidavitService.Reject)
}

func (h *AffidavitsHandler) MarkReceived(c *gin.Context) {
	h.doTransition(c, h.affidavitService.MarkReceived)
}

func (h *AffidavitsHandler) Generate(c *gin.Context) {
	affidavit, err := h.affidavitService.Generate(c.Request.Context(), c.Param("affidavitId"))
	if err != nil {
		var genErr *services.GenerationError
		if errors.As(err, &genErr) {
			// Every missing required field in one response.
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":          "Generation blocked by missing required fields",
				"binding_errors": genErr.Errors,
			})
			return
		}
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, affidavit)
}

func (h *AffidavitsHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery channel is required"})
		return
	}

	affidavit, err := h.affidavitService.Send(c.Request.Context(), c.Param("affidavitId"), req.Channel)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, affidavit)
}

func (h *AffidavitsHandler) Regenerate(c *gin.Context) {
	clone, err := h.affidavitService.RegenerateAsNew(c.Param("affidavitId"))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, clone)
}

// Download hands out a short-lived signed URL for the generated PDF.
func (h *AffidavitsHandler) Download(c *gin.Context) {
	affidavit, err := h.affidavitService.GetAffidavit(c.Param("affidavitId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Affidavit not found"})
		return
	}
	if affidavit.GeneratedFilePath == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Affidavit has not been generated"})
		return
	}

	url, err := h.gcsClient.GetSignedURL(*affidavit.GeneratedFilePath, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign download URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *AffidavitsHandler) doTransition(c *gin.Context, fn func(string) (*models.Affidavit, error)) {
	affidavit, err := fn(c.Param("affidavitId"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, affidavit)
}

func respondLifecycleError(c *gin.Context, err error) {
	var transErr *lifecycle.InvalidTransitionError
	if errors.As(err, &transErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error": transErr.Error(),
			"from":  transErr.From,
			"to":    transErr.To,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
