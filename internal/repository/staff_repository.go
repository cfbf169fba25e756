package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// StaffRepository handles staff account data access.
type StaffRepository struct {
	db Querier
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{db: pool}
}

// GetByID retrieves a staff member by ID.
func (r *StaffRepository) GetByID(ctx context.Context, id int) (*model.Staff, error) {
	s := &model.Staff{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, is_admin, created_at, updated_at
		 FROM staff WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.IsAdmin, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByEmail retrieves a staff member by email.
func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	s := &model.Staff{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, is_admin, created_at, updated_at
		 FROM staff WHERE email = $1`, email,
	).Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.IsAdmin, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new staff member.
func (r *StaffRepository) Create(ctx context.Context, s *model.Staff) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO staff (name, email, password_hash, is_admin)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.Email, s.PasswordHash, s.IsAdmin,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}
