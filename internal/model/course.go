package model

import "time"

// Course represents a course offering grading configuration lives under.
type Course struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	// MinGpaToPass is the final-score threshold for a pass verdict.
	// When nil the course cannot be passed.
	MinGpaToPass *float64  `json:"min_gpa_to_pass"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCourseRequest is the payload for creating a new course.
type CreateCourseRequest struct {
	Code         string   `json:"code" binding:"required,min=2,max=20"`
	Name         string   `json:"name" binding:"required,min=2,max=255"`
	MinGpaToPass *float64 `json:"min_gpa_to_pass" binding:"omitempty,min=0,max=10"`
}

// UpdateCourseRequest is the payload for updating an existing course.
type UpdateCourseRequest struct {
	Code         string   `json:"code" binding:"required,min=2,max=20"`
	Name         string   `json:"name" binding:"required,min=2,max=255"`
	MinGpaToPass *float64 `json:"min_gpa_to_pass" binding:"omitempty,min=0,max=10"`
}
