package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// EntryRepository handles mark entry data access. Entries are created
// lazily with a null score and never deleted; scores change only through
// the engine's update flow so every change is audited.
type EntryRepository struct {
	db Querier
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *EntryRepository) WithTx(tx pgx.Tx) *EntryRepository {
	return &EntryRepository{db: tx}
}

// GetOrCreate returns the entry for (column, student), materializing a
// null-score row if none exists yet. Idempotent.
func (r *EntryRepository) GetOrCreate(ctx context.Context, columnID uuid.UUID, studentID int) (*model.MarkEntry, error) {
	e := &model.MarkEntry{ColumnID: columnID, StudentID: studentID}
	err := r.db.QueryRow(ctx,
		`INSERT INTO mark_entries (column_id, student_id)
		 VALUES ($1, $2)
		 ON CONFLICT (column_id, student_id) DO UPDATE SET column_id = EXCLUDED.column_id
		 RETURNING id, score, created_at, updated_at`,
		columnID, studentID,
	).Scan(&e.ID, &e.Score, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// SetScore overwrites an entry's score. Callers must have recorded the
// change first; this is a pure state transition.
func (r *EntryRepository) SetScore(ctx context.Context, entryID uuid.UUID, score *float64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE mark_entries SET score = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		score, entryID)
	return err
}

// BackfillForColumn creates null entries for every actively enrolled student
// of the column's section. Existing rows are left untouched.
func (r *EntryRepository) BackfillForColumn(ctx context.Context, columnID uuid.UUID, sectionID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO mark_entries (column_id, student_id)
		 SELECT $1, e.student_id FROM enrollments e
		 WHERE e.section_id = $2 AND e.active
		 ON CONFLICT (column_id, student_id) DO NOTHING`,
		columnID, sectionID)
	return err
}

// BackfillForStudent creates null entries for every active column of a
// section for one student. Used when a student enrolls.
func (r *EntryRepository) BackfillForStudent(ctx context.Context, sectionID, studentID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO mark_entries (column_id, student_id)
		 SELECT c.id, $2 FROM mark_columns c
		 WHERE c.section_id = $1 AND NOT c.deleted
		 ON CONFLICT (column_id, student_id) DO NOTHING`,
		sectionID, studentID)
	return err
}

// ColumnHasScores reports whether any entry under the column holds a
// non-null score. Guards column deletion.
func (r *EntryRepository) ColumnHasScores(ctx context.Context, columnID uuid.UUID) (bool, error) {
	var has bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM mark_entries WHERE column_id = $1 AND score IS NOT NULL)`,
		columnID,
	).Scan(&has)
	return has, err
}

// ScoresForStudent retrieves a student's scores across a section's active
// columns, keyed by column ID. Columns without a materialized row are
// simply absent from the map.
func (r *EntryRepository) ScoresForStudent(ctx context.Context, sectionID, studentID int) (map[uuid.UUID]*float64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.column_id, e.score
		 FROM mark_entries e
		 JOIN mark_columns c ON c.id = e.column_id
		 WHERE c.section_id = $1 AND NOT c.deleted AND e.student_id = $2`,
		sectionID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[uuid.UUID]*float64)
	for rows.Next() {
		var columnID uuid.UUID
		var score *float64
		if err := rows.Scan(&columnID, &score); err != nil {
			return nil, err
		}
		scores[columnID] = score
	}
	return scores, rows.Err()
}

// ScoresForSection retrieves all scores of a section's active columns,
// keyed by student then column. Feeds the tabular gradebook view.
func (r *EntryRepository) ScoresForSection(ctx context.Context, sectionID int) (map[int]map[uuid.UUID]*float64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.student_id, e.column_id, e.score
		 FROM mark_entries e
		 JOIN mark_columns c ON c.id = e.column_id
		 WHERE c.section_id = $1 AND NOT c.deleted`,
		sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[int]map[uuid.UUID]*float64)
	for rows.Next() {
		var studentID int
		var columnID uuid.UUID
		var score *float64
		if err := rows.Scan(&studentID, &columnID, &score); err != nil {
			return nil, err
		}
		if scores[studentID] == nil {
			scores[studentID] = make(map[uuid.UUID]*float64)
		}
		scores[studentID][columnID] = score
	}
	return scores, rows.Err()
}
