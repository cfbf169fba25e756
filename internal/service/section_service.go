package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SectionService manages sections and enrollment.
type SectionService struct {
	sectionRepo *repository.SectionRepository
	courseRepo  *repository.CourseRepository
	studentRepo *repository.StudentRepository
	marks       *MarkService
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewSectionService creates a new SectionService.
func NewSectionService(
	sectionRepo *repository.SectionRepository,
	courseRepo *repository.CourseRepository,
	studentRepo *repository.StudentRepository,
	marks *MarkService,
	rdb *redis.Client,
	log zerolog.Logger,
) *SectionService {
	return &SectionService{
		sectionRepo: sectionRepo,
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
		marks:       marks,
		rdb:         rdb,
		log:         log.With().Str("component", "section_service").Logger(),
	}
}

// GetByID retrieves a section.
func (s *SectionService) GetByID(ctx context.Context, id int) (*model.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return section, nil
}

// List retrieves sections, optionally filtered by course (0 means all).
func (s *SectionService) List(ctx context.Context, courseID int) ([]model.Section, error) {
	sections, err := s.sectionRepo.List(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []model.Section{}
	}
	return sections, nil
}

// Create inserts a new section for an existing course.
func (s *SectionService) Create(ctx context.Context, req *model.CreateSectionRequest) (*model.Section, error) {
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	section := &model.Section{
		CourseID:    req.CourseID,
		Term:        req.Term,
		GroupNumber: req.GroupNumber,
	}
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// Update modifies an existing section.
func (s *SectionService) Update(ctx context.Context, id int, req *model.CreateSectionRequest) (*model.Section, error) {
	section, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	section.CourseID = req.CourseID
	section.Term = req.Term
	section.GroupNumber = req.GroupNumber
	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// Enroll adds (or reactivates) a student in a section and initializes their
// grading state: one null entry per active column plus an initial final mark.
func (s *SectionService) Enroll(ctx context.Context, sectionID, studentID int) error {
	if _, err := s.GetByID(ctx, sectionID); err != nil {
		return err
	}
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("get student: %w", err)
	}

	if err := s.sectionRepo.Enroll(ctx, sectionID, studentID); err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	if err := s.marks.InitStudent(ctx, sectionID, studentID); err != nil {
		return fmt.Errorf("init grading state: %w", err)
	}

	s.log.Info().Int("section_id", sectionID).Int("student_id", studentID).Msg("Student enrolled")
	return nil
}

// Withdraw deactivates a student's enrollment. Entries, history, and the
// stored final mark are retained.
func (s *SectionService) Withdraw(ctx context.Context, sectionID, studentID int) error {
	if _, err := s.GetByID(ctx, sectionID); err != nil {
		return err
	}

	withdrawn, err := s.sectionRepo.Withdraw(ctx, sectionID, studentID)
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	if !withdrawn {
		return ErrNotEnrolled
	}

	if err := s.rdb.Del(ctx, config.GradebookKey(sectionID)).Err(); err != nil {
		s.log.Warn().Err(err).Int("section_id", sectionID).Msg("Gradebook cache invalidation failed")
	}

	s.log.Info().Int("section_id", sectionID).Int("student_id", studentID).Msg("Student withdrawn")
	return nil
}

// ActiveStudents retrieves a section's active roster.
func (s *SectionService) ActiveStudents(ctx context.Context, sectionID int) ([]model.Student, error) {
	if _, err := s.GetByID(ctx, sectionID); err != nil {
		return nil, err
	}
	students, err := s.sectionRepo.ActiveStudents(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}
