package model

import "github.com/google/uuid"

// ColumnScore is one column cell in a detail or gradebook view.
type ColumnScore struct {
	ColumnID uuid.UUID `json:"column_id"`
	Label    string    `json:"label"`
	Ordinal  int       `json:"ordinal"`
	Score    *float64  `json:"score"`
}

// SectionBlock groups one assessment type's columns in a student detail
// view. SectionScore is nil until every column of the type is graded.
type SectionBlock struct {
	AssessmentTypeID   int           `json:"assessment_type_id"`
	AssessmentTypeName string        `json:"assessment_type_name"`
	Weight             *float64      `json:"weight"`
	Method             string        `json:"method,omitempty"`
	Columns            []ColumnScore `json:"columns"`
	SectionScore       *float64      `json:"section_score"`
}

// StudentDetail is the full per-student grading view: per-type sections with
// per-column scores, the overall final mark, and the audit history.
type StudentDetail struct {
	SectionID  int                 `json:"section_id"`
	Student    Student             `json:"student"`
	Blocks     []SectionBlock      `json:"blocks"`
	FinalScore *float64            `json:"final_score"`
	Passed     bool                `json:"passed"`
	History    []EntryChangeDetail `json:"history"`
}

// GradebookRow is one student's row in the tabular gradebook view.
type GradebookRow struct {
	Student    Student              `json:"student"`
	Scores     map[string]*float64  `json:"scores"` // keyed by column ID
	FinalScore *float64             `json:"final_score"`
	Passed     bool                 `json:"passed"`
}

// Gradebook is the bulk tabular view of a section: the active column
// definitions plus one row per actively enrolled student.
type Gradebook struct {
	SectionID int            `json:"section_id"`
	Columns   []MarkColumn   `json:"columns"`
	Rows      []GradebookRow `json:"rows"`
}
