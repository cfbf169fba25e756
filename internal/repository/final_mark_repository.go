package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// FinalMarkRepository handles computed final mark data access.
type FinalMarkRepository struct {
	db Querier
}

// NewFinalMarkRepository creates a new FinalMarkRepository.
func NewFinalMarkRepository(pool *pgxpool.Pool) *FinalMarkRepository {
	return &FinalMarkRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *FinalMarkRepository) WithTx(tx pgx.Tx) *FinalMarkRepository {
	return &FinalMarkRepository{db: tx}
}

// Get retrieves the final mark row for (section, student).
func (r *FinalMarkRepository) Get(ctx context.Context, sectionID, studentID int) (*model.FinalMark, error) {
	f := &model.FinalMark{}
	err := r.db.QueryRow(ctx,
		`SELECT id, section_id, student_id, final_score, passed, computed_at
		 FROM final_marks WHERE section_id = $1 AND student_id = $2`,
		sectionID, studentID,
	).Scan(&f.ID, &f.SectionID, &f.StudentID, &f.FinalScore, &f.Passed, &f.ComputedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// EnsureAndLock creates the final mark row if missing, then takes a row
// lock on it. Concurrent score updates for the same (section, student)
// serialize on this lock, so the read-diff-write-recompute sequence never
// loses an update.
func (r *FinalMarkRepository) EnsureAndLock(ctx context.Context, sectionID, studentID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO final_marks (section_id, student_id)
		 VALUES ($1, $2)
		 ON CONFLICT (section_id, student_id) DO NOTHING`,
		sectionID, studentID)
	if err != nil {
		return err
	}
	var id int
	return r.db.QueryRow(ctx,
		`SELECT id FROM final_marks WHERE section_id = $1 AND student_id = $2 FOR UPDATE`,
		sectionID, studentID,
	).Scan(&id)
}

// Store writes a recomputed final score and verdict.
func (r *FinalMarkRepository) Store(ctx context.Context, sectionID, studentID int, finalScore *float64, passed bool) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO final_marks (section_id, student_id, final_score, passed, computed_at)
		 VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		 ON CONFLICT (section_id, student_id) DO UPDATE
		 SET final_score = EXCLUDED.final_score,
		     passed = EXCLUDED.passed,
		     computed_at = EXCLUDED.computed_at`,
		sectionID, studentID, finalScore, passed)
	return err
}

// MapForSection retrieves all final marks of a section keyed by student ID.
func (r *FinalMarkRepository) MapForSection(ctx context.Context, sectionID int) (map[int]model.FinalMark, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, section_id, student_id, final_score, passed, computed_at
		 FROM final_marks WHERE section_id = $1`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marks := make(map[int]model.FinalMark)
	for rows.Next() {
		var f model.FinalMark
		if err := rows.Scan(&f.ID, &f.SectionID, &f.StudentID, &f.FinalScore, &f.Passed, &f.ComputedAt); err != nil {
			return nil, err
		}
		marks[f.StudentID] = f
	}
	return marks, rows.Err()
}
