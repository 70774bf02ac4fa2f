package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursehub/coursehub-api/internal/models"
	"github.com/coursehub/coursehub-api/internal/repository"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
	UpdateProgress(ctx context.Context, id string, progress int) error
}

type enrollmentCourseLookup interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

// EnrollmentService handles course membership use-cases. Paid flows reach
// Enroll through the payment service; direct enrollment is only for free
// courses.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   enrollmentCourseLookup
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseLookup, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, validator: validate, logger: logger, now: time.Now}
}

// Enroll registers the user on a free course. Paid courses must go through
// checkout; a duplicate pair is a client error here.
func (s *EnrollmentService) Enroll(ctx context.Context, userID string, req models.EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if course.Price > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "paid course requires checkout")
	}

	enrollment := &models.Enrollment{
		UserID:    userID,
		CourseID:  req.CourseID,
		PaymentID: fmt.Sprintf("free-%d", s.now().UnixMilli()),
		Status:    models.EnrollmentStatusActive,
		Progress:  0,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.logger.Info("free enrollment created",
		zap.String("user_id", userID), zap.String("course_id", req.CourseID))
	return enrollment, nil
}

// EnrollFromPayment records a paid enrollment. A duplicate pair is an
// idempotent no-op so webhook retries and the verify-session race both
// settle on a single row. A missing user or course row (deleted after
// checkout started) is also a no-op: the payment is authentic but
// undeliverable, and failing would only make the provider retry forever.
func (s *EnrollmentService) EnrollFromPayment(ctx context.Context, userID, courseID, paymentID string) error {
	enrollment := &models.Enrollment{
		UserID:    userID,
		CourseID:  courseID,
		PaymentID: paymentID,
		Status:    models.EnrollmentStatusActive,
		Progress:  0,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Debug("enrollment already exists, skipping",
				zap.String("user_id", userID), zap.String("course_id", courseID))
			return nil
		}
		if errors.Is(err, repository.ErrMissingReference) {
			s.logger.Warn("paid enrollment references a deleted row, dropping",
				zap.String("user_id", userID), zap.String("course_id", courseID), zap.String("payment_id", paymentID))
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record paid enrollment")
	}
	s.logger.Info("paid enrollment created",
		zap.String("user_id", userID), zap.String("course_id", courseID), zap.String("payment_id", paymentID))
	return nil
}

// ListByUser returns the caller's enrollments with course context.
func (s *EnrollmentService) ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// UpdateProgress moves the completion percentage for an enrollment owned by
// the caller, or any enrollment when the caller is an admin.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, id, callerID string, callerRole models.UserRole, req models.UpdateProgressRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress payload")
	}

	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if enrollment.UserID != callerID && callerRole != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot modify another user's enrollment")
	}

	progress := *req.Progress
	if err := s.repo.UpdateProgress(ctx, id, progress); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progress")
	}
	enrollment.Progress = progress
	if progress >= 100 {
		enrollment.Status = models.EnrollmentStatusCompleted
	}
	return enrollment, nil
}
