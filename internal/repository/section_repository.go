package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbook/markbook-backend/internal/model"
)

// SectionRepository handles section and enrollment data access.
type SectionRepository struct {
	db Querier
}

// NewSectionRepository creates a new SectionRepository.
func NewSectionRepository(pool *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *SectionRepository) WithTx(tx pgx.Tx) *SectionRepository {
	return &SectionRepository{db: tx}
}

// GetByID retrieves a section by its ID.
func (r *SectionRepository) GetByID(ctx context.Context, id int) (*model.Section, error) {
	s := &model.Section{}
	err := r.db.QueryRow(ctx,
		`SELECT id, course_id, term, group_number, created_at, updated_at
		 FROM sections WHERE id = $1`, id,
	).Scan(&s.ID, &s.CourseID, &s.Term, &s.GroupNumber, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves all sections, optionally filtered by course.
func (r *SectionRepository) List(ctx context.Context, courseID int) ([]model.Section, error) {
	query := `SELECT id, course_id, term, group_number, created_at, updated_at FROM sections`
	args := []any{}
	if courseID > 0 {
		query += ` WHERE course_id = $1`
		args = append(args, courseID)
	}
	query += ` ORDER BY term DESC, course_id, group_number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Term, &s.GroupNumber, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// ListIDsByCourse retrieves the IDs of all sections of a course.
func (r *SectionRepository) ListIDsByCourse(ctx context.Context, courseID int) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM sections WHERE course_id = $1 ORDER BY id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts a new section.
func (r *SectionRepository) Create(ctx context.Context, s *model.Section) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO sections (course_id, term, group_number)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.CourseID, s.Term, s.GroupNumber,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update modifies an existing section.
func (r *SectionRepository) Update(ctx context.Context, s *model.Section) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sections SET course_id = $1, term = $2, group_number = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		s.CourseID, s.Term, s.GroupNumber, s.ID,
	)
	return err
}

// Enroll inserts (or reactivates) a student's enrollment in a section.
func (r *SectionRepository) Enroll(ctx context.Context, sectionID, studentID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO enrollments (section_id, student_id, active)
		 VALUES ($1, $2, TRUE)
		 ON CONFLICT (section_id, student_id) DO UPDATE SET active = TRUE`,
		sectionID, studentID,
	)
	return err
}

// Withdraw marks a student's enrollment inactive. Grading data is retained.
func (r *SectionRepository) Withdraw(ctx context.Context, sectionID, studentID int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE enrollments SET active = FALSE WHERE section_id = $1 AND student_id = $2`,
		sectionID, studentID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// IsActivelyEnrolled reports whether a student is actively enrolled in a section.
func (r *SectionRepository) IsActivelyEnrolled(ctx context.Context, sectionID, studentID int) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx,
		`SELECT active FROM enrollments WHERE section_id = $1 AND student_id = $2`,
		sectionID, studentID,
	).Scan(&active)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return active, nil
}

// ActiveStudents retrieves the actively enrolled students of a section,
// ordered by name.
func (r *SectionRepository) ActiveStudents(ctx context.Context, sectionID int) ([]model.Student, error) {
	rows, err := r.db.Query(ctx,
		`SELECT st.id, st.nis, st.name, st.password_hash, st.created_at, st.updated_at
		 FROM students st
		 JOIN enrollments e ON e.student_id = st.id
		 WHERE e.section_id = $1 AND e.active
		 ORDER BY st.name, st.id`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.NIS, &s.Name, &s.PasswordHash, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// ActiveStudentIDs retrieves the IDs of actively enrolled students.
func (r *SectionRepository) ActiveStudentIDs(ctx context.Context, sectionID int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT student_id FROM enrollments WHERE section_id = $1 AND active ORDER BY student_id`,
		sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
