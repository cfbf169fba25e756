package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ColumnService manages the set of active gradebook columns for a section.
type ColumnService struct {
	pool        *pgxpool.Pool
	sectionRepo *repository.SectionRepository
	columnRepo  *repository.ColumnRepository
	entryRepo   *repository.EntryRepository
	weightRepo  *repository.WeightConfigRepository
	queue       *RecomputeQueue
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewColumnService creates a new ColumnService.
func NewColumnService(
	pool *pgxpool.Pool,
	sectionRepo *repository.SectionRepository,
	columnRepo *repository.ColumnRepository,
	entryRepo *repository.EntryRepository,
	weightRepo *repository.WeightConfigRepository,
	queue *RecomputeQueue,
	rdb *redis.Client,
	log zerolog.Logger,
) *ColumnService {
	return &ColumnService{
		pool:        pool,
		sectionRepo: sectionRepo,
		columnRepo:  columnRepo,
		entryRepo:   entryRepo,
		weightRepo:  weightRepo,
		queue:       queue,
		rdb:         rdb,
		log:         log.With().Str("component", "column_service").Logger(),
	}
}

// AddColumn creates a new gradebook column and materializes a null entry
// for every actively enrolled student. The section's course must already
// have a weight config for the assessment type; the next ordinal within the
// (section, type) scope is assigned automatically.
func (s *ColumnService) AddColumn(ctx context.Context, sectionID, assessmentTypeID int, label string, actorID int) (*model.MarkColumn, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	configured, err := s.weightRepo.Exists(ctx, section.CourseID, assessmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("check weight config: %w", err)
	}
	if !configured {
		return nil, ErrWeightConfigMissing
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	column := &model.MarkColumn{
		SectionID:        sectionID,
		AssessmentTypeID: assessmentTypeID,
		Label:            label,
		CreatedBy:        actorID,
	}
	if err := s.columnRepo.WithTx(tx).Create(ctx, column); err != nil {
		return nil, fmt.Errorf("create column: %w", err)
	}
	if err := s.entryRepo.WithTx(tx).BackfillForColumn(ctx, column.ID, sectionID); err != nil {
		return nil, fmt.Errorf("backfill entries: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Str("column_id", column.ID.String()).
		Int("section_id", sectionID).
		Int("assessment_type_id", assessmentTypeID).
		Int("actor_id", actorID).
		Msg("Column added")

	// Every enrolled student now has a null entry, so stored finals for the
	// section are stale until recomputed.
	s.staleSection(ctx, sectionID)
	return column, nil
}

// RenameColumn updates a column's label. Pure metadata; no recomputation.
func (s *ColumnService) RenameColumn(ctx context.Context, columnID uuid.UUID, label string) (*model.MarkColumn, error) {
	column, err := s.columnRepo.GetByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrColumnNotFound
		}
		return nil, fmt.Errorf("get column: %w", err)
	}
	if column.Deleted {
		return nil, ErrColumnDeleted
	}

	if err := s.columnRepo.Rename(ctx, columnID, label); err != nil {
		return nil, fmt.Errorf("rename column: %w", err)
	}
	column.Label = label

	if err := s.rdb.Del(ctx, config.GradebookKey(column.SectionID)).Err(); err != nil {
		s.log.Warn().Err(err).Int("section_id", column.SectionID).Msg("Gradebook cache invalidation failed")
	}
	return column, nil
}

// DeleteColumn soft-deletes a column. Rejected while any entry under the
// column holds a non-null score: hiding entered data would silently change
// final marks without an audit trail.
func (s *ColumnService) DeleteColumn(ctx context.Context, columnID uuid.UUID) error {
	column, err := s.columnRepo.GetByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrColumnNotFound
		}
		return fmt.Errorf("get column: %w", err)
	}
	if column.Deleted {
		return ErrColumnNotFound
	}

	hasScores, err := s.entryRepo.ColumnHasScores(ctx, columnID)
	if err != nil {
		return fmt.Errorf("check scores: %w", err)
	}
	if hasScores {
		return ErrColumnHasScores
	}

	if err := s.columnRepo.SoftDelete(ctx, columnID); err != nil {
		return fmt.Errorf("soft delete: %w", err)
	}

	s.log.Info().Str("column_id", columnID.String()).Int("section_id", column.SectionID).Msg("Column deleted")

	// Dropping a null column may complete previously blocked finals.
	s.staleSection(ctx, column.SectionID)
	return nil
}

// ListActive retrieves a section's non-deleted columns in display order.
func (s *ColumnService) ListActive(ctx context.Context, sectionID int) ([]model.MarkColumn, error) {
	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	columns, err := s.columnRepo.ListActive(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if columns == nil {
		columns = []model.MarkColumn{}
	}
	return columns, nil
}

// staleSection invalidates the cached gradebook and queues a final-mark
// recomputation for every actively enrolled student.
func (s *ColumnService) staleSection(ctx context.Context, sectionID int) {
	if err := s.rdb.Del(ctx, config.GradebookKey(sectionID)).Err(); err != nil {
		s.log.Warn().Err(err).Int("section_id", sectionID).Msg("Gradebook cache invalidation failed")
	}

	studentIDs, err := s.sectionRepo.ActiveStudentIDs(ctx, sectionID)
	if err != nil {
		s.log.Error().Err(err).Int("section_id", sectionID).Msg("Failed to list students for recompute")
		return
	}
	s.queue.Enqueue(ctx, sectionID, studentIDs)
}
