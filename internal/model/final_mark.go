package model

import "time"

// FinalMark holds the computed final score and pass verdict for one
// (section, student). FinalScore is nil whenever any active column's entry
// is null. Recomputed after every applied score batch; never deleted.
type FinalMark struct {
	ID         int       `json:"id"`
	SectionID  int       `json:"section_id"`
	StudentID  int       `json:"student_id"`
	FinalScore *float64  `json:"final_score"`
	Passed     bool      `json:"passed"`
	ComputedAt time.Time `json:"computed_at"`
}
