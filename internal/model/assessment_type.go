package model

import "time"

// AssessmentType is a global grading category (e.g. "Quiz", "Final Exam"),
// reusable across courses.
type AssessmentType struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAssessmentTypeRequest is the payload for creating or renaming an
// assessment type.
type CreateAssessmentTypeRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}
