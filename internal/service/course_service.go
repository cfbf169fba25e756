package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/rs/zerolog"
)

// CourseService manages course records.
type CourseService struct {
	courseRepo  *repository.CourseRepository
	sectionRepo *repository.SectionRepository
	queue       *RecomputeQueue
	log         zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courseRepo *repository.CourseRepository,
	sectionRepo *repository.SectionRepository,
	queue *RecomputeQueue,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		sectionRepo: sectionRepo,
		queue:       queue,
		log:         log.With().Str("component", "course_service").Logger(),
	}
}

// GetByID retrieves a course.
func (s *CourseService) GetByID(ctx context.Context, id int) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// List retrieves all courses.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

// Create inserts a new course.
func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Code:         req.Code,
		Name:         req.Name,
		MinGpaToPass: req.MinGpaToPass,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update modifies an existing course. A pass-threshold change flips pass
// verdicts without touching any score, so the course's sections are queued
// for recomputation.
func (s *CourseService) Update(ctx context.Context, id int, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	thresholdChanged := !equalThreshold(course.MinGpaToPass, req.MinGpaToPass)

	course.Code = req.Code
	course.Name = req.Name
	course.MinGpaToPass = req.MinGpaToPass
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	if thresholdChanged {
		s.log.Info().Int("course_id", id).Msg("Pass threshold changed, queueing recompute")
		s.staleCourse(ctx, id)
	}
	return course, nil
}

// Delete removes a course. Foreign keys reject deletion while sections exist;
// the handler maps that violation to a conflict response.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.courseRepo.Delete(ctx, id)
}

func (s *CourseService) staleCourse(ctx context.Context, courseID int) {
	sectionIDs, err := s.sectionRepo.ListIDsByCourse(ctx, courseID)
	if err != nil {
		s.log.Error().Err(err).Int("course_id", courseID).Msg("Failed to list sections for recompute")
		return
	}
	for _, sectionID := range sectionIDs {
		studentIDs, err := s.sectionRepo.ActiveStudentIDs(ctx, sectionID)
		if err != nil {
			s.log.Error().Err(err).Int("section_id", sectionID).Msg("Failed to list students for recompute")
			continue
		}
		s.queue.Enqueue(ctx, sectionID, studentIDs)
	}
}

func equalThreshold(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
