package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"AFD-SVC/internal/binding"
	"AFD-SVC/internal/layout"
	"AFD-SVC/internal/schema"
	"AFD-SVC/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplatesHandler struct {
	templateService *services.TemplateService
}

func NewTemplatesHandler(templateService *services.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templateService: templateService}
}

type createTemplateRequest struct {
	Name      string            `json:"name"`
	Structure *schema.Structure `json:"structure"`
}

type previewRequest struct {
	Data        map[string]interface{} `json:"data"`
	TargetWidth float64                `json:"target_width"`
}

type previewResponse struct {
	Resolved    *binding.ResolvedDocument `json:"resolved"`
	Errors      []binding.BindingError    `json:"errors,omitempty"`
	ScaleFactor float64                   `json:"scale_factor"`
	PageWidth   float64                   `json:"page_width_pt"`
	PageHeight  float64                   `json:"page_height_pt"`
}

func (h *TemplatesHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	template, err := h.templateService.CreateTemplate(req.Name, req.Structure)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (h *TemplatesHandler) Get(c *gin.Context) {
	template, err := h.templateService.GetTemplate(c.Param("templateId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"
	templates, err := h.templateService.ListTemplates(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *TemplatesHandler) UpdateStructure(c *gin.Context) {
	var structure schema.Structure
	if err := c.ShouldBindJSON(&structure); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	template, err := h.templateService.UpdateStructure(c.Param("templateId"), &structure)
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) Clone(c *gin.Context) {
	clone, err := h.templateService.CloneTemplate(c.Param("templateId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusCreated, clone)
}

func (h *TemplatesHandler) Deactivate(c *gin.Context) {
	if err := h.templateService.SetActive(c.Param("templateId"), false); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deactivated"})
}

// Validate checks a structure without persisting anything. The editor calls
// this on save to surface schema problems early.
func (h *TemplatesHandler) Validate(c *gin.Context) {
	var structure schema.Structure
	if err := c.ShouldBindJSON(&structure); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := schema.ValidateStructure(&structure); err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "field": verr.Field, "error": verr.Message})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// ValidateElements validates the flatter custom-template element array.
func (h *TemplatesHandler) ValidateElements(c *gin.Context) {
	var elements []schema.Element
	if err := c.ShouldBindJSON(&elements); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := schema.ValidateElements(elements); err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "field": verr.Field, "error": verr.Message})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "page_count": layout.ElementPageCount(elements)})
}

// Preview binds a data context against a template and returns the resolved
// document with its preview scale. Binding errors are reported alongside the
// partial resolution; they only block final generation, not previewing.
func (h *TemplatesHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.TargetWidth == 0 {
		if w, err := strconv.ParseFloat(c.DefaultQuery("target_width", "1000"), 64); err == nil {
			req.TargetWidth = w
		}
	}

	template, err := h.templateService.GetTemplate(c.Param("templateId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	structure, err := h.templateService.GetStructure(template)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored template structure is invalid"})
		return
	}

	pageW, pageH := layout.PageSizePt(structure.DocumentSettings)
	scale, err := layout.ScaleFactor(pageW, req.TargetWidth)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	resolved, bindErrs := binding.Bind(structure, req.Data)
	c.JSON(http.StatusOK, previewResponse{
		Resolved:    resolved,
		Errors:      bindErrs,
		ScaleFactor: scale,
		PageWidth:   pageW,
		PageHeight:  pageH,
	})
}

func respondTemplateError(c *gin.Context, err error) {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"field": verr.Field, "error": verr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
