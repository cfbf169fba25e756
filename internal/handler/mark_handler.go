package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/markbook/markbook-backend/internal/middleware"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/response"
	"github.com/markbook/markbook-backend/internal/service"
	"github.com/markbook/markbook-backend/internal/validator"
)

// MarkHandler handles score entry, grading views, and audit history.
type MarkHandler struct {
	markService      *service.MarkService
	gradebookService *service.GradebookService
}

// NewMarkHandler creates a new MarkHandler.
func NewMarkHandler(markService *service.MarkService, gradebookService *service.GradebookService) *MarkHandler {
	return &MarkHandler{markService: markService, gradebookService: gradebookService}
}

// UpdateScores godoc
// PUT /api/v1/staff/sections/:id/students/:student_id/scores
// Applies a batch of score changes atomically and returns the refreshed
// grading view. Any invalid entry rejects the whole batch.
func (h *MarkHandler) UpdateScores(c *gin.Context) {
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
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateScoresRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	detail, err := h.markService.UpdateScores(c.Request.Context(), sectionID, studentID, req.Entries, req.Reason, claims.UserID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"detail": detail})
}

// GetStudentDetail godoc
// GET /api/v1/staff/sections/:id/students/:student_id/marks
// Returns the full per-student grading view with history.
func (h *MarkHandler) GetStudentDetail(c *gin.Context) {
	sectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	detail, err := h.gradebookService.DetailFor(c.Request.Context(), sectionID, studentID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"detail": detail})
}

// GetHistory godoc
// GET /api/v1/staff/sections/:id/students/:student_id/history?page=N&per_page=M
// Returns the student's audit trail, newest first.
func (h *MarkHandler) GetHistory(c *gin.Context) {
	sectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))

	history, err := h.markService.HistoryFor(c.Request.Context(), sectionID, studentID, page, perPage)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"history": history})
}

// GetGradebook godoc
// GET /api/v1/staff/sections/:id/gradebook
// Returns the tabular section view: column definitions plus one row per
// actively enrolled student.
func (h *MarkHandler) GetGradebook(c *gin.Context) {
	sectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	gradebook, err := h.gradebookService.GradebookFor(c.Request.Context(), sectionID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"gradebook": gradebook})
}

// GetOwnDetail godoc
// GET /api/v1/student/sections/:id/marks
// Returns the authenticated student's own grading view for a section.
func (h *MarkHandler) GetOwnDetail(c *gin.Context) {
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

	detail, err := h.gradebookService.DetailFor(c.Request.Context(), sectionID, claims.UserID)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"detail": detail})
}
