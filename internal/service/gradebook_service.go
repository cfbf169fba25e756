package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/grading"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// GradebookService assembles read-only grading views. It performs no
// aggregation of its own: section scores come from the same grading
// functions the update engine uses, and final scores are read back from the
// stored final marks the engine computed.
type GradebookService struct {
	cfg         *config.Config
	sectionRepo *repository.SectionRepository
	courseRepo  *repository.CourseRepository
	studentRepo *repository.StudentRepository
	typeRepo    *repository.AssessmentTypeRepository
	columnRepo  *repository.ColumnRepository
	entryRepo   *repository.EntryRepository
	changeRepo  *repository.ChangeRepository
	finalRepo   *repository.FinalMarkRepository
	weightRepo  *repository.WeightConfigRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewGradebookService creates a new GradebookService.
func NewGradebookService(
	cfg *config.Config,
	sectionRepo *repository.SectionRepository,
	courseRepo *repository.CourseRepository,
	studentRepo *repository.StudentRepository,
	typeRepo *repository.AssessmentTypeRepository,
	columnRepo *repository.ColumnRepository,
	entryRepo *repository.EntryRepository,
	changeRepo *repository.ChangeRepository,
	finalRepo *repository.FinalMarkRepository,
	weightRepo *repository.WeightConfigRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *GradebookService {
	return &GradebookService{
		cfg:         cfg,
		sectionRepo: sectionRepo,
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
		typeRepo:    typeRepo,
		columnRepo:  columnRepo,
		entryRepo:   entryRepo,
		changeRepo:  changeRepo,
		finalRepo:   finalRepo,
		weightRepo:  weightRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "gradebook_service").Logger(),
	}
}

// DetailFor builds the full per-student grading view: per-assessment-type
// blocks with column scores and section score, the stored final mark, and
// the audit history (newest first).
func (s *GradebookService) DetailFor(ctx context.Context, sectionID, studentID int) (*model.StudentDetail, error) {
	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}

	course, err := s.courseRepo.GetBySectionID(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	columns, err := s.columnRepo.ListActive(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	scores, err := s.entryRepo.ScoresForStudent(ctx, sectionID, studentID)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	weights, err := s.weightRepo.MapByCourse(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	typeNames, err := s.typeNames(ctx)
	if err != nil {
		return nil, err
	}

	detail := &model.StudentDetail{
		SectionID: sectionID,
		Student:   *student,
		Blocks:    buildBlocks(columns, scores, weights, typeNames),
	}

	final, err := s.finalRepo.Get(ctx, sectionID, studentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get final mark: %w", err)
	}
	if final != nil {
		detail.FinalScore = final.FinalScore
		detail.Passed = final.Passed
	}

	history, err := s.changeRepo.HistoryFor(ctx, sectionID, studentID, 50, 0)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if history == nil {
		history = []model.EntryChangeDetail{}
	}
	detail.History = history

	return detail, nil
}

// GradebookFor builds the tabular section view: active column definitions
// plus one row per actively enrolled student. Snapshots are cached in Redis
// and invalidated on every write, so repeated reads skip the store.
func (s *GradebookService) GradebookFor(ctx context.Context, sectionID int) (*model.Gradebook, error) {
	cacheKey := config.GradebookKey(sectionID)
	if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var cached model.Gradebook
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Int("section_id", sectionID).Msg("Gradebook cache read failed")
	}

	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	columns, err := s.columnRepo.ListActive(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	students, err := s.sectionRepo.ActiveStudents(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	allScores, err := s.entryRepo.ScoresForSection(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	finals, err := s.finalRepo.MapForSection(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("load final marks: %w", err)
	}

	book := &model.Gradebook{
		SectionID: sectionID,
		Columns:   columns,
		Rows:      make([]model.GradebookRow, 0, len(students)),
	}
	for _, st := range students {
		book.Rows = append(book.Rows, buildRow(st, columns, allScores[st.ID], finals[st.ID]))
	}

	if raw, err := json.Marshal(book); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, s.cfg.GradebookCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Int("section_id", sectionID).Msg("Gradebook cache write failed")
		}
	}

	return book, nil
}

// RowFor rebuilds a single student's gradebook row. Feeds the live
// gradebook fan-out after a score write.
func (s *GradebookService) RowFor(ctx context.Context, sectionID, studentID int) (*model.GradebookRow, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	columns, err := s.columnRepo.ListActive(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	scores, err := s.entryRepo.ScoresForStudent(ctx, sectionID, studentID)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}

	var final model.FinalMark
	if f, err := s.finalRepo.Get(ctx, sectionID, studentID); err == nil {
		final = *f
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get final mark: %w", err)
	}

	row := buildRow(*student, columns, scores, final)
	return &row, nil
}

func (s *GradebookService) typeNames(ctx context.Context) (map[int]string, error) {
	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assessment types: %w", err)
	}
	names := make(map[int]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}
	return names, nil
}

// buildBlocks groups active columns into per-assessment-type blocks in
// first-seen type order. A block's section score is computed with the same
// aggregation function the engine uses, and only once every column of the
// type is graded.
func buildBlocks(columns []model.MarkColumn, scores map[uuid.UUID]*float64, weights map[int]grading.Weight, typeNames map[int]string) []model.SectionBlock {
	var (
		blocks []model.SectionBlock
		index  = make(map[int]int)
	)

	for _, col := range columns {
		i, ok := index[col.AssessmentTypeID]
		if !ok {
			block := model.SectionBlock{
				AssessmentTypeID:   col.AssessmentTypeID,
				AssessmentTypeName: typeNames[col.AssessmentTypeID],
			}
			if w, ok := weights[col.AssessmentTypeID]; ok {
				fraction := w.Fraction
				block.Weight = &fraction
				block.Method = string(w.Method)
			}
			blocks = append(blocks, block)
			i = len(blocks) - 1
			index[col.AssessmentTypeID] = i
		}

		blocks[i].Columns = append(blocks[i].Columns, model.ColumnScore{
			ColumnID: col.ID,
			Label:    col.Label,
			Ordinal:  col.Ordinal,
			Score:    scores[col.ID],
		})
	}

	for i := range blocks {
		block := &blocks[i]
		w, ok := weights[block.AssessmentTypeID]
		if !ok {
			continue
		}

		values := make([]float64, 0, len(block.Columns))
		complete := true
		for _, cs := range block.Columns {
			if cs.Score == nil {
				complete = false
				break
			}
			values = append(values, *cs.Score)
		}
		if complete {
			score := grading.SectionScore(w.Method, values)
			block.SectionScore = &score
		}
	}

	return blocks
}

func buildRow(student model.Student, columns []model.MarkColumn, scores map[uuid.UUID]*float64, final model.FinalMark) model.GradebookRow {
	row := model.GradebookRow{
		Student:    student,
		Scores:     make(map[string]*float64, len(columns)),
		FinalScore: final.FinalScore,
		Passed:     final.Passed,
	}
	for _, col := range columns {
		row.Scores[col.ID.String()] = scores[col.ID]
	}
	return row
}
