package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	db Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: pool}
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	err := r.db.QueryRow(ctx,
		`SELECT id, code, name, min_gpa_to_pass, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.MinGpaToPass, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetBySectionID retrieves the course a section belongs to.
func (r *CourseRepository) GetBySectionID(ctx context.Context, sectionID int) (*model.Course, error) {
	c := &model.Course{}
	err := r.db.QueryRow(ctx,
		`SELECT c.id, c.code, c.name, c.min_gpa_to_pass, c.created_at, c.updated_at
		 FROM courses c
		 JOIN sections s ON s.course_id = c.id
		 WHERE s.id = $1`, sectionID,
	).Scan(&c.ID, &c.Code, &c.Name, &c.MinGpaToPass, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all courses ordered by code.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, code, name, min_gpa_to_pass, created_at, updated_at
		 FROM courses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.MinGpaToPass, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO courses (code, name, min_gpa_to_pass)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Code, c.Name, c.MinGpaToPass,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update modifies an existing course.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	_, err := r.db.Exec(ctx,
		`UPDATE courses SET code = $1, name = $2, min_gpa_to_pass = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		c.Code, c.Name, c.MinGpaToPass, c.ID,
	)
	return err
}

// Delete removes a course by its ID.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
