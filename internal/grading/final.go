package grading

import "github.com/google/uuid"

// Score bounds for a single entry. Fixed, not configurable per course.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Column is the slice of a gradebook column the aggregation needs.
type Column struct {
	ID      uuid.UUID
	TypeID  int
	Ordinal int
}

// Weight is one assessment type's configured contribution.
type Weight struct {
	Fraction float64
	Method   Method
}

// Section is the aggregated result for one assessment type.
type Section struct {
	TypeID   int
	Score    float64
	Weight   float64
	Weighted float64
}

// Outcome is the result of a final-mark computation.
type Outcome struct {
	// FinalScore is nil when at least one active column has no score yet.
	// Partial credit is never extrapolated.
	FinalScore *float64
	Passed     bool
	Sections   []Section
	// MissingWeightTypes lists assessment types that have active columns but
	// no configured weight. Their contribution is zero; callers should log
	// this as a likely misconfiguration.
	MissingWeightTypes []int
}

// ValidScore reports whether a requested score is acceptable: nil (clear the
// entry) or a value within [MinScore, MaxScore].
func ValidScore(score *float64) bool {
	if score == nil {
		return true
	}
	return *score >= MinScore && *score <= MaxScore
}

// ScoreChanged compares an entry's current score with a requested one using
// value equality. nil == nil counts as unchanged, so re-submitting the same
// score produces no audit record.
func ScoreChanged(old, new *float64) bool {
	if old == nil && new == nil {
		return false
	}
	if old == nil || new == nil {
		return true
	}
	return *old != *new
}

// ComputeFinal computes the weighted final score and pass verdict for one
// student in one section.
//
// columns must be the section's active columns in display order: grouped by
// first-seen assessment type, ordinal ascending within each group (the order
// the column registry lists them in). scores maps column ID to the student's
// entry score; a missing key counts as a null entry. passThreshold is the
// course's minimum passing score; nil means the course cannot be passed.
func ComputeFinal(columns []Column, scores map[uuid.UUID]*float64, weights map[int]Weight, passThreshold *float64) Outcome {
	// A single null entry blocks the entire final score.
	for _, col := range columns {
		if s, ok := scores[col.ID]; !ok || s == nil {
			return Outcome{FinalScore: nil, Passed: false}
		}
	}

	var (
		out      Outcome
		total    float64
		typeSeen = make(map[int]bool)
		order    []int
		byType   = make(map[int][]float64)
	)

	for _, col := range columns {
		if !typeSeen[col.TypeID] {
			typeSeen[col.TypeID] = true
			order = append(order, col.TypeID)
		}
		byType[col.TypeID] = append(byType[col.TypeID], *scores[col.ID])
	}

	for _, typeID := range order {
		w, ok := weights[typeID]
		if !ok {
			out.MissingWeightTypes = append(out.MissingWeightTypes, typeID)
			continue
		}

		sectionScore := SectionScore(w.Method, byType[typeID])
		weighted := sectionScore * w.Fraction
		total += weighted

		out.Sections = append(out.Sections, Section{
			TypeID:   typeID,
			Score:    sectionScore,
			Weight:   w.Fraction,
			Weighted: weighted,
		})
	}

	out.FinalScore = &total
	out.Passed = passThreshold != nil && total >= *passThreshold
	return out
}
