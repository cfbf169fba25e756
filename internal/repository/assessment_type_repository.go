package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// AssessmentTypeRepository handles assessment type data access.
type AssessmentTypeRepository struct {
	db Querier
}

// NewAssessmentTypeRepository creates a new AssessmentTypeRepository.
func NewAssessmentTypeRepository(pool *pgxpool.Pool) *AssessmentTypeRepository {
	return &AssessmentTypeRepository{db: pool}
}

// GetByID retrieves an assessment type by its ID.
func (r *AssessmentTypeRepository) GetByID(ctx context.Context, id int) (*model.AssessmentType, error) {
	t := &model.AssessmentType{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM assessment_types WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List retrieves all assessment types ordered by name.
func (r *AssessmentTypeRepository) List(ctx context.Context) ([]model.AssessmentType, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM assessment_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []model.AssessmentType
	for rows.Next() {
		var t model.AssessmentType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Create inserts a new assessment type.
func (r *AssessmentTypeRepository) Create(ctx context.Context, t *model.AssessmentType) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO assessment_types (name) VALUES ($1)
		 RETURNING id, created_at, updated_at`, t.Name,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Rename updates an assessment type's name.
func (r *AssessmentTypeRepository) Rename(ctx context.Context, id int, name string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE assessment_types SET name = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		name, id)
	return err
}

// InUse reports whether any column or weight config references the type.
func (r *AssessmentTypeRepository) InUse(ctx context.Context, id int) (bool, error) {
	var used bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM mark_columns WHERE assessment_type_id = $1)
		     OR EXISTS (SELECT 1 FROM weight_configs WHERE assessment_type_id = $1)`, id,
	).Scan(&used)
	return used, err
}

// Delete removes an assessment type.
func (r *AssessmentTypeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM assessment_types WHERE id = $1`, id)
	return err
}
