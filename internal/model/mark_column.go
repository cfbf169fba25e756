package model

import (
	"time"

	"github.com/google/uuid"
)

// MarkColumn is one gradable column in a section's gradebook. It belongs to
// exactly one (section, assessment type) pair and carries a 1-based ordinal
// unique within that scope. Columns are soft-deleted: the flag hides them
// from active views while entries and history stay on disk.
type MarkColumn struct {
	ID               uuid.UUID `json:"id"`
	SectionID        int       `json:"section_id"`
	AssessmentTypeID int       `json:"assessment_type_id"`
	Label            string    `json:"label"`
	Ordinal          int       `json:"ordinal"`
	Deleted          bool      `json:"deleted"`
	CreatedBy        int       `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateColumnRequest is the payload for adding a column to a section.
type CreateColumnRequest struct {
	AssessmentTypeID int    `json:"assessment_type_id" binding:"required"`
	Label            string `json:"label" binding:"required,min=1,max=255"`
}

// RenameColumnRequest is the payload for relabeling a column.
type RenameColumnRequest struct {
	Label string `json:"label" binding:"required,min=1,max=255"`
}
