package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/markbook/markbook-backend/internal/model"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/rs/zerolog"
)

// AssessmentTypeService manages the assessment type catalogue.
type AssessmentTypeService struct {
	typeRepo *repository.AssessmentTypeRepository
	log      zerolog.Logger
}

// NewAssessmentTypeService creates a new AssessmentTypeService.
func NewAssessmentTypeService(typeRepo *repository.AssessmentTypeRepository, log zerolog.Logger) *AssessmentTypeService {
	return &AssessmentTypeService{
		typeRepo: typeRepo,
		log:      log.With().Str("component", "assessment_type_service").Logger(),
	}
}

// List retrieves all assessment types.
func (s *AssessmentTypeService) List(ctx context.Context) ([]model.AssessmentType, error) {
	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []model.AssessmentType{}
	}
	return types, nil
}

// Create inserts a new assessment type.
func (s *AssessmentTypeService) Create(ctx context.Context, name string) (*model.AssessmentType, error) {
	t := &model.AssessmentType{Name: name}
	if err := s.typeRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Rename updates an assessment type's name.
func (s *AssessmentTypeService) Rename(ctx context.Context, id int, name string) (*model.AssessmentType, error) {
	t, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssessmentTypeNotFound
		}
		return nil, err
	}

	if err := s.typeRepo.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

// Delete removes an assessment type. Rejected while any column or weight
// config still references it.
func (s *AssessmentTypeService) Delete(ctx context.Context, id int) error {
	if _, err := s.typeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssessmentTypeNotFound
		}
		return err
	}

	used, err := s.typeRepo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrTypeInUse
	}
	return s.typeRepo.Delete(ctx, id)
}
