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

// SectionHandler handles staff-facing section and enrollment management.
type SectionHandler struct {
	sectionService *service.SectionService
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(sectionService *service.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

// ListSections godoc
// GET /api/v1/staff/sections?course_id=N
func (h *SectionHandler) ListSections(c *gin.Context) {
	courseID := 0
	if raw := c.Query("course_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = id
	}

	sections, err := h.sectionService.List(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sections": sections})
}

// GetSection godoc
// GET /api/v1/staff/sections/:id
func (h *SectionHandler) GetSection(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	section, err := h.sectionService.GetByID(c.Request.Context(), id)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"section": section})
}

// CreateSection godoc
// POST /api/v1/staff/sections
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.sectionService.Create(c.Request.Context(), &req)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"section": section})
}

// UpdateSection godoc
// PUT /api/v1/staff/sections/:id
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.sectionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"section": section})
}

// ListRoster godoc
// GET /api/v1/staff/sections/:id/students
// Lists the actively enrolled students of a section.
func (h *SectionHandler) ListRoster(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	students, err := h.sectionService.ActiveStudents(c.Request.Context(), id)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// EnrollStudent godoc
// POST /api/v1/staff/sections/:id/students
// Enrolls (or reactivates) a student and initializes their grading state.
func (h *SectionHandler) EnrollStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.sectionService.Enroll(c.Request.Context(), id, req.StudentID); err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "student enrolled successfully"})
}

// WithdrawStudent godoc
// DELETE /api/v1/staff/sections/:id/students/:student_id
// Deactivates the enrollment; grading data is retained.
func (h *SectionHandler) WithdrawStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.sectionService.Withdraw(c.Request.Context(), id, studentID); err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "student withdrawn successfully"})
}
