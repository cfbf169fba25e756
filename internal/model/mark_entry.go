package model

import (
	"time"

	"github.com/google/uuid"
)

// MarkEntry is one score slot per (column, student). The score is nullable
// until entered; rows are created lazily and never deleted individually.
type MarkEntry struct {
	ID        uuid.UUID `json:"id"`
	ColumnID  uuid.UUID `json:"column_id"`
	StudentID int       `json:"student_id"`
	Score     *float64  `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryChange is one immutable audit record of a score transition. Written
// once per value-changing write, never updated or deleted.
type EntryChange struct {
	ID        uuid.UUID `json:"id"`
	EntryID   uuid.UUID `json:"entry_id"`
	OldScore  *float64  `json:"old_score"`
	NewScore  *float64  `json:"new_score"`
	Reason    string    `json:"reason"`
	ActorID   int       `json:"actor_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// EntryChangeDetail is an EntryChange joined with its column and actor for
// audit display.
type EntryChangeDetail struct {
	EntryChange
	ColumnID    uuid.UUID `json:"column_id"`
	ColumnLabel string    `json:"column_label"`
	ActorName   string    `json:"actor_name"`
}

// ScoreUpdate is one (column, score) pair of an update batch.
type ScoreUpdate struct {
	ColumnID uuid.UUID `json:"column_id" binding:"required"`
	Score    *float64  `json:"score"`
}

// UpdateScoresRequest is the payload for the score-update operation. Entries
// are applied in the order supplied; recomputation runs once at the end.
type UpdateScoresRequest struct {
	Entries []ScoreUpdate `json:"entries" binding:"required,min=1,dive"`
	Reason  string        `json:"reason" binding:"max=500"`
}
