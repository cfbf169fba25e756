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

// StaffService manages staff accounts and staff login.
type StaffService struct {
	staffRepo *repository.StaffRepository
	auth      *AuthService
	log       zerolog.Logger
}

// NewStaffService creates a new StaffService.
func NewStaffService(staffRepo *repository.StaffRepository, auth *AuthService, log zerolog.Logger) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		auth:      auth,
		log:       log.With().Str("component", "staff_service").Logger(),
	}
}

// Login authenticates a staff member by email and password.
func (s *StaffService) Login(ctx context.Context, email, password string) (*model.StaffLoginResponse, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}
	if err := s.auth.CheckPassword(staff.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateStaffToken(staff.ID, staff.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &model.StaffLoginResponse{Token: token, Staff: *staff}, nil
}

// GetByID retrieves a staff account.
func (s *StaffService) GetByID(ctx context.Context, id int) (*model.Staff, error) {
	return s.staffRepo.GetByID(ctx, id)
}
