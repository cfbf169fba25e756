package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/grading"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MarkService is the score-update and final-mark recomputation engine. All
// score writes go through UpdateScores so every change is audited and the
// final mark never drifts from the entries it is derived from.
type MarkService struct {
	pool        *pgxpool.Pool
	sectionRepo *repository.SectionRepository
	courseRepo  *repository.CourseRepository
	columnRepo  *repository.ColumnRepository
	entryRepo   *repository.EntryRepository
	changeRepo  *repository.ChangeRepository
	finalRepo   *repository.FinalMarkRepository
	weightRepo  *repository.WeightConfigRepository
	gradebook   *GradebookService
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewMarkService creates a new MarkService.
func NewMarkService(
	pool *pgxpool.Pool,
	sectionRepo *repository.SectionRepository,
	courseRepo *repository.CourseRepository,
	columnRepo *repository.ColumnRepository,
	entryRepo *repository.EntryRepository,
	changeRepo *repository.ChangeRepository,
	finalRepo *repository.FinalMarkRepository,
	weightRepo *repository.WeightConfigRepository,
	gradebook *GradebookService,
	rdb *redis.Client,
	log zerolog.Logger,
) *MarkService {
	return &MarkService{
		pool:        pool,
		sectionRepo: sectionRepo,
		courseRepo:  courseRepo,
		columnRepo:  columnRepo,
		entryRepo:   entryRepo,
		changeRepo:  changeRepo,
		finalRepo:   finalRepo,
		weightRepo:  weightRepo,
		gradebook:   gradebook,
		rdb:         rdb,
		log:         log.With().Str("component", "mark_service").Logger(),
	}
}

// UpdateScores applies a batch of score changes for one student in one
// section and recomputes the final mark, all within a single transaction.
//
// Validation covers the whole batch before anything is written: a column
// that does not belong to the section, is soft-deleted, or a score outside
// [0,10] aborts the entire call. Unchanged scores (value equality, with
// null == null counting as unchanged) are skipped without an audit record.
// Recomputation runs once, after every requested entry has been applied.
func (s *MarkService) UpdateScores(ctx context.Context, sectionID, studentID int, updates []model.ScoreUpdate, reason string, actorID int) (*model.StudentDetail, error) {
	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	enrolled, err := s.sectionRepo.IsActivelyEnrolled(ctx, sectionID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		columnRepo = s.columnRepo.WithTx(tx)
		entryRepo  = s.entryRepo.WithTx(tx)
		changeRepo = s.changeRepo.WithTx(tx)
		finalRepo  = s.finalRepo.WithTx(tx)
	)

	// Serialize concurrent updates for the same (section, student).
	if err := finalRepo.EnsureAndLock(ctx, sectionID, studentID); err != nil {
		return nil, fmt.Errorf("lock final mark: %w", err)
	}

	// Validate the whole batch up front: no partial application.
	for _, u := range updates {
		col, err := columnRepo.GetByID(ctx, u.ColumnID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrColumnNotFound
			}
			return nil, fmt.Errorf("get column: %w", err)
		}
		if col.SectionID != sectionID {
			return nil, ErrColumnNotInSection
		}
		if col.Deleted {
			return nil, ErrColumnDeleted
		}
		if !grading.ValidScore(u.Score) {
			return nil, ErrScoreOutOfRange
		}
	}

	applied := 0
	for _, u := range updates {
		entry, err := entryRepo.GetOrCreate(ctx, u.ColumnID, studentID)
		if err != nil {
			return nil, fmt.Errorf("get or create entry: %w", err)
		}

		if !grading.ScoreChanged(entry.Score, u.Score) {
			continue
		}

		change := &model.EntryChange{
			EntryID:  entry.ID,
			OldScore: entry.Score,
			NewScore: u.Score,
			Reason:   reason,
			ActorID:  actorID,
		}
		if err := changeRepo.Record(ctx, change); err != nil {
			return nil, fmt.Errorf("record change: %w", err)
		}
		if err := entryRepo.SetScore(ctx, entry.ID, u.Score); err != nil {
			return nil, fmt.Errorf("set score: %w", err)
		}
		applied++
	}

	if err := s.recomputeInTx(ctx, tx, sectionID, studentID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Int("section_id", sectionID).
		Int("student_id", studentID).
		Int("requested", len(updates)).
		Int("applied", applied).
		Msg("Scores updated")

	if applied > 0 {
		s.afterWrite(ctx, sectionID, studentID)
	}

	return s.gradebook.DetailFor(ctx, sectionID, studentID)
}

// RecomputeFinal recomputes one student's final mark in its own
// transaction. Used by the background worker and the enrollment/column
// flows; score updates recompute inside their own transaction instead.
func (s *MarkService) RecomputeFinal(ctx context.Context, sectionID, studentID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.finalRepo.WithTx(tx).EnsureAndLock(ctx, sectionID, studentID); err != nil {
		return fmt.Errorf("lock final mark: %w", err)
	}
	if err := s.recomputeInTx(ctx, tx, sectionID, studentID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// InitStudent materializes null entries for every active column and an
// initial final mark for a newly enrolled student.
func (s *MarkService) InitStudent(ctx context.Context, sectionID, studentID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.entryRepo.WithTx(tx).BackfillForStudent(ctx, sectionID, studentID); err != nil {
		return fmt.Errorf("backfill entries: %w", err)
	}
	if err := s.finalRepo.WithTx(tx).EnsureAndLock(ctx, sectionID, studentID); err != nil {
		return fmt.Errorf("init final mark: %w", err)
	}
	if err := s.recomputeInTx(ctx, tx, sectionID, studentID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.afterWrite(ctx, sectionID, studentID)
	return nil
}

// HistoryFor retrieves a student's audit trail in a section, newest first.
func (s *MarkService) HistoryFor(ctx context.Context, sectionID, studentID, page, perPage int) ([]model.EntryChangeDetail, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 200 {
		perPage = 200
	}
	history, err := s.changeRepo.HistoryFor(ctx, sectionID, studentID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []model.EntryChangeDetail{}
	}
	return history, nil
}

// recomputeInTx recomputes and stores the final mark using the given
// transaction. Assumes the caller already holds the final-mark row lock.
func (s *MarkService) recomputeInTx(ctx context.Context, tx pgx.Tx, sectionID, studentID int) error {
	course, err := s.courseRepo.GetBySectionID(ctx, sectionID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}

	columns, err := s.columnRepo.WithTx(tx).ListActive(ctx, sectionID)
	if err != nil {
		return fmt.Errorf("list columns: %w", err)
	}
	scores, err := s.entryRepo.WithTx(tx).ScoresForStudent(ctx, sectionID, studentID)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}
	weights, err := s.weightRepo.WithTx(tx).MapByCourse(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("load weights: %w", err)
	}

	gcols := make([]grading.Column, 0, len(columns))
	for _, c := range columns {
		gcols = append(gcols, grading.Column{ID: c.ID, TypeID: c.AssessmentTypeID, Ordinal: c.Ordinal})
	}

	outcome := grading.ComputeFinal(gcols, scores, weights, course.MinGpaToPass)

	// Tolerated for compatibility with imported configurations, but almost
	// always a misconfigured course: the final score is silently
	// under-weighted. The weight audit endpoint reports the same gap.
	for _, typeID := range outcome.MissingWeightTypes {
		s.log.Warn().
			Int("course_id", course.ID).
			Int("section_id", sectionID).
			Int("assessment_type_id", typeID).
			Msg("Assessment type has active columns but no weight config; contributes 0 to final score")
	}

	if err := s.finalRepo.WithTx(tx).Store(ctx, sectionID, studentID, outcome.FinalScore, outcome.Passed); err != nil {
		return fmt.Errorf("store final mark: %w", err)
	}
	return nil
}

// afterWrite invalidates the section's cached gradebook snapshot and
// publishes the student's refreshed row to live watchers. Best effort —
// the durable state is already committed.
func (s *MarkService) afterWrite(ctx context.Context, sectionID, studentID int) {
	if err := s.rdb.Del(ctx, config.GradebookKey(sectionID)).Err(); err != nil {
		s.log.Warn().Err(err).Int("section_id", sectionID).Msg("Gradebook cache invalidation failed")
	}

	row, err := s.gradebook.RowFor(ctx, sectionID, studentID)
	if err != nil {
		s.log.Warn().Err(err).Int("section_id", sectionID).Int("student_id", studentID).
			Msg("Failed to build live gradebook row")
		return
	}
	payload, err := json.Marshal(row)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.GradebookChannel(sectionID), payload).Err(); err != nil {
		s.log.Warn().Err(err).Int("section_id", sectionID).Msg("Live gradebook publish failed")
	}
}
