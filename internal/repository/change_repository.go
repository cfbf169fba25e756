package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// ChangeRepository handles the append-only score change log. Records are
// inserted once and never updated or deleted.
type ChangeRepository struct {
	db Querier
}

// NewChangeRepository creates a new ChangeRepository.
func NewChangeRepository(pool *pgxpool.Pool) *ChangeRepository {
	return &ChangeRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ChangeRepository) WithTx(tx pgx.Tx) *ChangeRepository {
	return &ChangeRepository{db: tx}
}

// Record appends one change record for an entry.
func (r *ChangeRepository) Record(ctx context.Context, c *model.EntryChange) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO entry_changes (entry_id, old_score, new_score, reason, actor_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, changed_at`,
		c.EntryID, c.OldScore, c.NewScore, c.Reason, c.ActorID,
	).Scan(&c.ID, &c.ChangedAt)
}

// HistoryFor retrieves a student's change records within a section,
// newest first, joined with column label and actor name for display.
func (r *ChangeRepository) HistoryFor(ctx context.Context, sectionID, studentID, limit, offset int) ([]model.EntryChangeDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ch.id, ch.entry_id, ch.old_score, ch.new_score, ch.reason, ch.actor_id, ch.changed_at,
		        c.id, c.label, st.name
		 FROM entry_changes ch
		 JOIN mark_entries e ON e.id = ch.entry_id
		 JOIN mark_columns c ON c.id = e.column_id
		 JOIN staff st ON st.id = ch.actor_id
		 WHERE c.section_id = $1 AND e.student_id = $2
		 ORDER BY ch.changed_at DESC, ch.id DESC
		 LIMIT $3 OFFSET $4`,
		sectionID, studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.EntryChangeDetail
	for rows.Next() {
		var d model.EntryChangeDetail
		if err := rows.Scan(&d.ID, &d.EntryID, &d.OldScore, &d.NewScore, &d.Reason, &d.ActorID,
			&d.ChangedAt, &d.ColumnID, &d.ColumnLabel, &d.ActorName); err != nil {
			return nil, err
		}
		history = append(history, d)
	}
	return history, rows.Err()
}
