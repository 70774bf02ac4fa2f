package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coursehub/coursehub-api/internal/models"
)

// EnrollmentRepository manages persistence for enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a new enrollment. Returns ErrDuplicate when the
// (user_id, course_id) pair already exists and ErrMissingReference when the
// user or course row is gone.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusActive
	}
	const query = `INSERT INTO enrollments (id, user_id, course_id, payment_id, status, progress, enrolled_at)
        VALUES (:id, :user_id, :course_id, :payment_id, :status, :progress, :enrolled_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return ErrMissingReference
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByID fetches an enrollment by ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, user_id, course_id, payment_id, status, progress, enrolled_at FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// FindByUserAndCourse fetches the enrollment for a (user, course) pair.
func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, user_id, course_id, payment_id, status, progress, enrolled_at
        FROM enrollments WHERE user_id = $1 AND course_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find enrollment by user and course: %w", err)
	}
	return &enrollment, nil
}

// ListByUser returns the user's enrollments with course context.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.user_id, e.course_id, e.payment_id, e.status, e.progress, e.enrolled_at,
        c.title AS course_title, c.category AS course_category, c.image_url AS course_image_url, c.price AS course_price
        FROM enrollments e JOIN courses c ON c.id = e.course_id
        WHERE e.user_id = $1 ORDER BY e.enrolled_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, userID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// UpdateProgress sets the completion percentage, flipping status to
// completed at 100.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	status := models.EnrollmentStatusActive
	if progress >= 100 {
		status = models.EnrollmentStatusCompleted
	}
	const query = `UPDATE enrollments SET progress = $2, status = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, progress, status)
	if err != nil {
		return fmt.Errorf("update enrollment progress: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListReportRows returns flattened enrollment rows for tabular exports.
func (r *EnrollmentRepository) ListReportRows(ctx context.Context) ([]models.EnrollmentReportRow, error) {
	const query = `SELECT u.name AS student_name, u.email AS student_email, c.title AS course_title,
        e.status, e.progress, e.payment_id, c.price, e.enrolled_at
        FROM enrollments e
        JOIN users u ON u.id = e.user_id
        JOIN courses c ON c.id = e.course_id
        ORDER BY e.enrolled_at DESC`
	var rows []models.EnrollmentReportRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list enrollment report rows: %w", err)
	}
	return rows, nil
}

// CountByStatus groups enrollment counts by status.
func (r *EnrollmentRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	const query = `SELECT status AS key, COUNT(*) AS count FROM enrollments GROUP BY status`
	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count enrollments by status: %w", err)
	}
	return counts, nil
}
