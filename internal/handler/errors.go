package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/markbook/markbook-backend/internal/response"
	"github.com/markbook/markbook-backend/internal/service"
)

// failServiceError maps service sentinel errors onto the response envelope.
// Anything unmapped is an internal error.
func failServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrColumnNotFound),
		errors.Is(err, service.ErrAssessmentTypeNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)

	case errors.Is(err, service.ErrWeightConfigMissing):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrWeightConfigMissing)
	case errors.Is(err, service.ErrColumnNotInSection):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrColumnNotInSection)
	case errors.Is(err, service.ErrColumnDeleted):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrColumnDeleted)
	case errors.Is(err, service.ErrScoreOutOfRange):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrScoreOutOfRange)
	case errors.Is(err, service.ErrNotEnrolled):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrDuplicateWeightType):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)

	case errors.Is(err, service.ErrColumnHasScores):
		response.Fail(c, http.StatusConflict, response.ErrColumnHasScores)
	case errors.Is(err, service.ErrTypeInUse):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)

	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				response.Fail(c, http.StatusConflict, response.ErrConflict)
				return
			case "23503":
				response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
				return
			}
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
