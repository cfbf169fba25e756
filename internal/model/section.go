package model

import "time"

// Section represents one offering/run of a course with enrolled students.
type Section struct {
	ID          int       `json:"id"`
	CourseID    int       `json:"course_id"`
	Term        string    `json:"term"`
	GroupNumber int       `json:"group_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSectionRequest is the payload for creating or updating a section.
type CreateSectionRequest struct {
	CourseID    int    `json:"course_id" binding:"required"`
	Term        string `json:"term" binding:"required,min=2,max=20"`
	GroupNumber int    `json:"group_number" binding:"required,min=1"`
}

// Enrollment links a student to a section. Withdrawn students keep their
// row (and all grading data) with active = false.
type Enrollment struct {
	SectionID  int       `json:"section_id"`
	StudentID  int       `json:"student_id"`
	Active     bool      `json:"active"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// EnrollRequest is the payload for enrolling a student into a section.
type EnrollRequest struct {
	StudentID int `json:"student_id" binding:"required"`
}
