package service

import "errors"

// Domain errors shared across the grading services. Handlers map these to
// response codes; everything else surfaces as an internal error.
var (
	// Not found.
	ErrCourseNotFound         = errors.New("course not found")
	ErrSectionNotFound        = errors.New("section not found")
	ErrStudentNotFound        = errors.New("student not found")
	ErrColumnNotFound         = errors.New("column not found")
	ErrAssessmentTypeNotFound = errors.New("assessment type not found")
	// AddColumn requires the course to have a weight config for the
	// column's assessment type.
	ErrWeightConfigMissing = errors.New("no weight config for assessment type")

	// Invalid input.
	ErrColumnNotInSection = errors.New("column does not belong to the section")
	ErrColumnDeleted      = errors.New("column is deleted")
	ErrScoreOutOfRange    = errors.New("score outside the [0,10] range")
	ErrNotEnrolled        = errors.New("student not actively enrolled in the section")
	// A replace-set weight update must name each assessment type once.
	ErrDuplicateWeightType = errors.New("assessment type listed more than once")

	// Conflict.
	ErrColumnHasScores = errors.New("column has non-null scores")
	ErrTypeInUse       = errors.New("assessment type is referenced by columns or weight configs")
)
