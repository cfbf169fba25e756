package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// StudentRepository handles student data access.
type StudentRepository struct {
	db Querier
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: pool}
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := r.db.QueryRow(ctx,
		`SELECT id, nis, name, password_hash, created_at, updated_at
		 FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.NIS, &s.Name, &s.PasswordHash, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByNIS retrieves a student by student number.
func (r *StudentRepository) GetByNIS(ctx context.Context, nis string) (*model.Student, error) {
	s := &model.Student{}
	err := r.db.QueryRow(ctx,
		`SELECT id, nis, name, password_hash, created_at, updated_at
		 FROM students WHERE nis = $1`, nis,
	).Scan(&s.ID, &s.NIS, &s.Name, &s.PasswordHash, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves a paginated list of students ordered by name.
func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]model.Student, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, nis, name, password_hash, created_at, updated_at
		 FROM students ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.NIS, &s.Name, &s.PasswordHash, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO students (nis, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.NIS, s.Name, s.PasswordHash,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update modifies an existing student. An empty password hash keeps the
// current one.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.db.Exec(ctx,
		`UPDATE students
		 SET nis = $1, name = $2,
		     password_hash = CASE WHEN $3 = '' THEN password_hash ELSE $3 END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		s.NIS, s.Name, s.PasswordHash, s.ID,
	)
	return err
}
