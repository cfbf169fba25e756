package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/rs/zerolog"
)

// StudentService manages student accounts and student login.
type StudentService struct {
	studentRepo *repository.StudentRepository
	auth        *AuthService
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, auth *AuthService, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		auth:        auth,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// Login authenticates a student by student number and password.
func (s *StudentService) Login(ctx context.Context, nis, password string) (*model.StudentLoginResponse, error) {
	student, err := s.studentRepo.GetByNIS(ctx, nis)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	if err := s.auth.CheckPassword(student.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateStudentToken(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return &model.StudentLoginResponse{Token: token, Student: *student}, nil
}

// GetByID retrieves a student account.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// List retrieves a page of student accounts plus the total count.
func (s *StudentService) List(ctx context.Context, page, perPage int) ([]model.Student, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 200 {
		perPage = 200
	}

	students, total, err := s.studentRepo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, total, nil
}

// Create registers a new student account.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{NIS: req.NIS, Name: req.Name, PasswordHash: hash}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Update modifies a student account. An empty password keeps the current one.
func (s *StudentService) Update(ctx context.Context, id int, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student.NIS = req.NIS
	student.Name = req.Name
	student.PasswordHash = ""
	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		student.PasswordHash = hash
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// ResetSession clears a student's active login session.
func (s *StudentService) ResetSession(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.auth.ResetStudentSession(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("student_id", id).Msg("Student session reset")
	return nil
}
