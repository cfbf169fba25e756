package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// ColumnRepository handles gradebook column data access.
type ColumnRepository struct {
	db Querier
}

// NewColumnRepository creates a new ColumnRepository.
func NewColumnRepository(pool *pgxpool.Pool) *ColumnRepository {
	return &ColumnRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ColumnRepository) WithTx(tx pgx.Tx) *ColumnRepository {
	return &ColumnRepository{db: tx}
}

const columnFields = `id, section_id, assessment_type_id, label, ordinal, deleted, created_by, created_at, updated_at`

func scanColumn(row pgx.Row, c *model.MarkColumn) error {
	return row.Scan(&c.ID, &c.SectionID, &c.AssessmentTypeID, &c.Label, &c.Ordinal,
		&c.Deleted, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a column by its ID, deleted or not.
func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MarkColumn, error) {
	c := &model.MarkColumn{}
	row := r.db.QueryRow(ctx, `SELECT `+columnFields+` FROM mark_columns WHERE id = $1`, id)
	if err := scanColumn(row, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new column, assigning the next ordinal within the
// (section, assessment type) scope. The aggregate subquery plus the unique
// constraint on (section, type, ordinal) keep concurrent creations from
// sharing an ordinal.
func (r *ColumnRepository) Create(ctx context.Context, c *model.MarkColumn) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO mark_columns (section_id, assessment_type_id, label, ordinal, created_by)
		 VALUES ($1, $2, $3,
		         (SELECT COALESCE(MAX(ordinal), 0) + 1 FROM mark_columns
		          WHERE section_id = $1 AND assessment_type_id = $2),
		         $4)
		 RETURNING id, ordinal, deleted, created_at, updated_at`,
		c.SectionID, c.AssessmentTypeID, c.Label, c.CreatedBy,
	).Scan(&c.ID, &c.Ordinal, &c.Deleted, &c.CreatedAt, &c.UpdatedAt)
}

// Rename updates a column's label only.
func (r *ColumnRepository) Rename(ctx context.Context, id uuid.UUID, label string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE mark_columns SET label = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		label, id)
	return err
}

// SoftDelete hides a column from active views. Entries and history remain.
func (r *ColumnRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE mark_columns SET deleted = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

// ActiveTypesByCourse retrieves the assessment types that have at least one
// non-deleted column in any section of the course.
func (r *ColumnRepository) ActiveTypesByCourse(ctx context.Context, courseID int) ([]model.AssessmentType, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT t.id, t.name, t.created_at, t.updated_at
		 FROM mark_columns c
		 JOIN sections s ON s.id = c.section_id
		 JOIN assessment_types t ON t.id = c.assessment_type_id
		 WHERE s.course_id = $1 AND NOT c.deleted
		 ORDER BY t.id`, courseID)
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

// ListActive retrieves a section's non-deleted columns in display order:
// assessment types in first-seen order (earliest active column first), then
// ordinal ascending within each type.
func (r *ColumnRepository) ListActive(ctx context.Context, sectionID int) ([]model.MarkColumn, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+columnFields+`
		 FROM mark_columns c
		 WHERE section_id = $1 AND NOT deleted
		 ORDER BY
		   (SELECT MIN(c2.created_at) FROM mark_columns c2
		    WHERE c2.section_id = c.section_id
		      AND c2.assessment_type_id = c.assessment_type_id
		      AND NOT c2.deleted),
		   c.assessment_type_id,
		   c.ordinal`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []model.MarkColumn
	for rows.Next() {
		var c model.MarkColumn
		if err := scanColumn(rows, &c); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}
