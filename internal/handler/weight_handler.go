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

// WeightHandler handles per-course weight configuration.
type WeightHandler struct {
	weightService *service.WeightService
}

// NewWeightHandler creates a new WeightHandler.
func NewWeightHandler(weightService *service.WeightService) *WeightHandler {
	return &WeightHandler{weightService: weightService}
}

// ListWeights godoc
// GET /api/v1/staff/courses/:id/weights
func (h *WeightHandler) ListWeights(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	weights, err := h.weightService.ListForCourse(c.Request.Context(), courseID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"weights": weights})
}

// ReplaceWeights godoc
// PUT /api/v1/staff/courses/:id/weights
// Replaces the course's full weight configuration and queues final-mark
// recomputation across all of its sections.
func (h *WeightHandler) ReplaceWeights(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.PutWeightConfigRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	weights, err := h.weightService.Replace(c.Request.Context(), courseID, req.Weights)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"weights": weights})
}

// AuditWeights godoc
// GET /api/v1/staff/courses/:id/weights/audit
// Reports weight configuration gaps: assessment types with active columns
// but no weight, and a weight sum away from 1.0.
func (h *WeightHandler) AuditWeights(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	audit, err := h.weightService.Audit(c.Request.Context(), courseID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"audit": audit})
}
