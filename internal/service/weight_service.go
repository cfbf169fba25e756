package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/grading"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// WeightService manages per-course weight configuration. A weight edit
// invalidates every stored final mark of the course, so replacement fans out
// recompute jobs for all sections.
type WeightService struct {
	pool        *pgxpool.Pool
	courseRepo  *repository.CourseRepository
	sectionRepo *repository.SectionRepository
	typeRepo    *repository.AssessmentTypeRepository
	columnRepo  *repository.ColumnRepository
	weightRepo  *repository.WeightConfigRepository
	queue       *RecomputeQueue
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewWeightService creates a new WeightService.
func NewWeightService(
	pool *pgxpool.Pool,
	courseRepo *repository.CourseRepository,
	sectionRepo *repository.SectionRepository,
	typeRepo *repository.AssessmentTypeRepository,
	columnRepo *repository.ColumnRepository,
	weightRepo *repository.WeightConfigRepository,
	queue *RecomputeQueue,
	rdb *redis.Client,
	log zerolog.Logger,
) *WeightService {
	return &WeightService{
		pool:        pool,
		courseRepo:  courseRepo,
		sectionRepo: sectionRepo,
		typeRepo:    typeRepo,
		columnRepo:  columnRepo,
		weightRepo:  weightRepo,
		queue:       queue,
		rdb:         rdb,
		log:         log.With().Str("component", "weight_service").Logger(),
	}
}

// ListForCourse retrieves a course's weight configuration.
func (s *WeightService) ListForCourse(ctx context.Context, courseID int) ([]model.WeightConfig, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	configs, err := s.weightRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if configs == nil {
		configs = []model.WeightConfig{}
	}
	return configs, nil
}

// Replace swaps a course's full weight configuration in one transaction,
// then queues final-mark recomputation for every student of every section.
func (s *WeightService) Replace(ctx context.Context, courseID int, items []model.WeightConfigItem) ([]model.WeightConfig, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	seen := make(map[int]bool, len(items))
	configs := make([]model.WeightConfig, 0, len(items))
	for _, item := range items {
		if seen[item.AssessmentTypeID] {
			return nil, ErrDuplicateWeightType
		}
		seen[item.AssessmentTypeID] = true

		if _, err := s.typeRepo.GetByID(ctx, item.AssessmentTypeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrAssessmentTypeNotFound
			}
			return nil, fmt.Errorf("get assessment type: %w", err)
		}

		method, err := grading.ParseMethod(item.Method)
		if err != nil {
			return nil, err
		}
		configs = append(configs, model.WeightConfig{
			CourseID:         courseID,
			AssessmentTypeID: item.AssessmentTypeID,
			Weight:           item.Weight,
			Method:           method,
		})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.weightRepo.WithTx(tx).ReplaceForCourse(ctx, courseID, configs); err != nil {
		return nil, fmt.Errorf("replace weights: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().Int("course_id", courseID).Int("entries", len(configs)).Msg("Weight configuration replaced")

	s.staleCourse(ctx, courseID)
	return configs, nil
}

// Audit reports weight configuration gaps for a course: assessment types with
// active columns but no weight entry, and a weight sum away from 1.0. The
// engine tolerates both (unweighted types contribute 0), so the audit is the
// place where a misconfiguration becomes visible.
func (s *WeightService) Audit(ctx context.Context, courseID int) (*model.WeightAudit, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	configs, err := s.weightRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	activeTypes, err := s.columnRepo.ActiveTypesByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load active types: %w", err)
	}

	audit := &model.WeightAudit{
		CourseID:          courseID,
		UnweightedTypes:   []model.AssessmentType{},
		ConfiguredTypeIDs: make([]int, 0, len(configs)),
	}

	configured := make(map[int]bool, len(configs))
	for _, w := range configs {
		configured[w.AssessmentTypeID] = true
		audit.ConfiguredTypeIDs = append(audit.ConfiguredTypeIDs, w.AssessmentTypeID)
		audit.WeightSum += w.Weight
	}
	audit.SumIsConventional = math.Abs(audit.WeightSum-1.0) < 1e-9

	for _, t := range activeTypes {
		if !configured[t.ID] {
			audit.UnweightedTypes = append(audit.UnweightedTypes, t)
		}
	}
	return audit, nil
}

// staleCourse invalidates caches and queues recomputation for every section
// of the course.
func (s *WeightService) staleCourse(ctx context.Context, courseID int) {
	sectionIDs, err := s.sectionRepo.ListIDsByCourse(ctx, courseID)
	if err != nil {
		s.log.Error().Err(err).Int("course_id", courseID).Msg("Failed to list sections for recompute")
		return
	}
	for _, sectionID := range sectionIDs {
		if err := s.rdb.Del(ctx, config.GradebookKey(sectionID)).Err(); err != nil {
			s.log.Warn().Err(err).Int("section_id", sectionID).Msg("Gradebook cache invalidation failed")
		}
		studentIDs, err := s.sectionRepo.ActiveStudentIDs(ctx, sectionID)
		if err != nil {
			s.log.Error().Err(err).Int("section_id", sectionID).Msg("Failed to list students for recompute")
			continue
		}
		s.queue.Enqueue(ctx, sectionID, studentIDs)
	}
}
