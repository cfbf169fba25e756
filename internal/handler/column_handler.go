package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbook/markbook-backend/internal/middleware"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/response"
	"github.com/markbook/markbook-backend/internal/service"
	"github.com/markbook/markbook-backend/internal/validator"
)

// ColumnHandler handles gradebook column management.
type ColumnHandler struct {
	columnService *service.ColumnService
}

// NewColumnHandler creates a new ColumnHandler.
func NewColumnHandler(columnService *service.ColumnService) *ColumnHandler {
	return &ColumnHandler{columnService: columnService}
}

// ListColumns godoc
// GET /api/v1/staff/sections/:id/columns
// Lists a section's active columns in display order.
func (h *ColumnHandler) ListColumns(c *gin.Context) {
	sectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	columns, err := h.columnService.ListActive(c.Request.Context(), sectionID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"columns": columns})
}

// CreateColumn godoc
// POST /api/v1/staff/sections/:id/columns
// Adds a column; the course must already weight the assessment type.
func (h *ColumnHandler) CreateColumn(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateColumnRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	column, err := h.columnService.AddColumn(c.Request.Context(), sectionID, req.AssessmentTypeID, req.Label, claims.UserID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"column": column})
}

// RenameColumn godoc
// PUT /api/v1/staff/columns/:column_id
func (h *ColumnHandler) RenameColumn(c *gin.Context) {
	columnID, err := uuid.Parse(c.Param("column_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RenameColumnRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	column, err := h.columnService.RenameColumn(c.Request.Context(), columnID, req.Label)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"column": column})
}

// DeleteColumn godoc
// DELETE /api/v1/staff/columns/:column_id
// Soft-deletes a column; rejected while it still holds entered scores.
func (h *ColumnHandler) DeleteColumn(c *gin.Context) {
	columnID, err := uuid.Parse(c.Param("column_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.columnService.DeleteColumn(c.Request.Context(), columnID); err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "column deleted successfully"})
}
