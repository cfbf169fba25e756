package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/grading"
	"github.com/markbook/markbook-backend/internal/model"
)

// WeightConfigRepository handles per-course weight configuration access.
type WeightConfigRepository struct {
	db Querier
}

// NewWeightConfigRepository creates a new WeightConfigRepository.
func NewWeightConfigRepository(pool *pgxpool.Pool) *WeightConfigRepository {
	return &WeightConfigRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *WeightConfigRepository) WithTx(tx pgx.Tx) *WeightConfigRepository {
	return &WeightConfigRepository{db: tx}
}

// ListByCourse retrieves a course's weight configs.
func (r *WeightConfigRepository) ListByCourse(ctx context.Context, courseID int) ([]model.WeightConfig, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, course_id, assessment_type_id, weight, method, created_at, updated_at
		 FROM weight_configs WHERE course_id = $1 ORDER BY assessment_type_id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []model.WeightConfig
	for rows.Next() {
		var w model.WeightConfig
		if err := rows.Scan(&w.ID, &w.CourseID, &w.AssessmentTypeID, &w.Weight, &w.Method, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, w)
	}
	return configs, rows.Err()
}

// MapByCourse retrieves a course's weight configs keyed by assessment type,
// in the shape the aggregation core consumes.
func (r *WeightConfigRepository) MapByCourse(ctx context.Context, courseID int) (map[int]grading.Weight, error) {
	configs, err := r.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	weights := make(map[int]grading.Weight, len(configs))
	for _, w := range configs {
		weights[w.AssessmentTypeID] = grading.Weight{Fraction: w.Weight, Method: w.Method}
	}
	return weights, nil
}

// Exists reports whether a weight config exists for (course, assessment type).
func (r *WeightConfigRepository) Exists(ctx context.Context, courseID, assessmentTypeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM weight_configs WHERE course_id = $1 AND assessment_type_id = $2)`,
		courseID, assessmentTypeID,
	).Scan(&exists)
	return exists, err
}

// ReplaceForCourse atomically replaces a course's full weight configuration.
func (r *WeightConfigRepository) ReplaceForCourse(ctx context.Context, courseID int, configs []model.WeightConfig) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM weight_configs WHERE course_id = $1`, courseID); err != nil {
		return err
	}
	for i := range configs {
		w := &configs[i]
		err := r.db.QueryRow(ctx,
			`INSERT INTO weight_configs (course_id, assessment_type_id, weight, method)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at, updated_at`,
			courseID, w.AssessmentTypeID, w.Weight, w.Method,
		).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}
