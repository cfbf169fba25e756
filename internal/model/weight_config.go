package model

import (
	"time"

	"github.com/markbook/markbook-backend/internal/grading"
)

// WeightConfig fixes how one assessment type contributes to a course's final
// score: a weight fraction in [0,1] and an aggregation method.
//
// The engine does not enforce that a course's weights sum to 1.0 — that is a
// convention of correct configuration, surfaced by the weight audit.
type WeightConfig struct {
	ID               int            `json:"id"`
	CourseID         int            `json:"course_id"`
	AssessmentTypeID int            `json:"assessment_type_id"`
	Weight           float64        `json:"weight"`
	Method           grading.Method `json:"method"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// WeightConfigItem is one entry of a replace-set weight update.
type WeightConfigItem struct {
	AssessmentTypeID int     `json:"assessment_type_id" binding:"required"`
	Weight           float64 `json:"weight" binding:"min=0,max=1"`
	Method           string  `json:"method" binding:"required,oneof=HIGHEST AVERAGE LATEST"`
}

// PutWeightConfigRequest replaces a course's full weight configuration.
type PutWeightConfigRequest struct {
	Weights []WeightConfigItem `json:"weights" binding:"required,min=1,dive"`
}

// WeightAudit reports configuration problems that the engine tolerates at
// computation time but that usually indicate a misconfigured course: active
// assessment types with no weight entry, and a weight sum far from 1.0.
type WeightAudit struct {
	CourseID          int              `json:"course_id"`
	WeightSum         float64          `json:"weight_sum"`
	SumIsConventional bool             `json:"sum_is_conventional"`
	UnweightedTypes   []AssessmentType `json:"unweighted_types"`
	ConfiguredTypeIDs []int            `json:"configured_type_ids"`
}
