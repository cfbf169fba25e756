package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/response"
	"github.com/markbook/markbook-backend/internal/service"
	"github.com/markbook/markbook-backend/internal/validator"
)

// AssessmentTypeHandler handles the assessment type catalogue.
type AssessmentTypeHandler struct {
	typeService *service.AssessmentTypeService
}

// NewAssessmentTypeHandler creates a new AssessmentTypeHandler.
func NewAssessmentTypeHandler(typeService *service.AssessmentTypeService) *AssessmentTypeHandler {
	return &AssessmentTypeHandler{typeService: typeService}
}

// ListTypes godoc
// GET /api/v1/staff/assessment-types
func (h *AssessmentTypeHandler) ListTypes(c *gin.Context) {
	types, err := h.typeService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment_types": types})
}

// CreateType godoc
// POST /api/v1/staff/assessment-types
func (h *AssessmentTypeHandler) CreateType(c *gin.Context) {
	var req model.CreateAssessmentTypeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.typeService.Create(c.Request.Context(), req.Name)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assessment_type": t})
}

// RenameType godoc
// PUT /api/v1/staff/assessment-types/:id
func (h *AssessmentTypeHandler) RenameType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateAssessmentTypeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.typeService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment_type": t})
}

// DeleteType godoc
// DELETE /api/v1/staff/assessment-types/:id
// Fails with a conflict while columns or weight configs reference the type.
func (h *AssessmentTypeHandler) DeleteType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.typeService.Delete(c.Request.Context(), id); err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "assessment type deleted successfully"})
}
