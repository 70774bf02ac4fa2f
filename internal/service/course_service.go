package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursehub/coursehub-api/internal/models"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

const courseCachePattern = "courses:list:*"

type cachedCourseList struct {
	Courses    []models.CourseDetail `json:"courses"`
	Pagination models.Pagination     `json:"pagination"`
}

// CourseService handles course catalogue use-cases. Published listings are
// served from Redis when possible; any mutation invalidates the whole
// listing keyspace.
type CourseService struct {
	repo      courseRepository
	users     courseTeacherLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, users courseTeacherLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, users: users, cache: cache, validator: validate, logger: logger}
}

// List returns courses matching the filter. Published-only listings are the
// hot path and go through the cache.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	cacheable := filter.Status == models.CourseStatusPublished && filter.TeacherID == "" && filter.Category == ""
	cacheKey := fmt.Sprintf("courses:list:published:%d:%d", filter.Page, filter.Limit)
	if cacheable {
		var cached cachedCourseList
		if s.cache.Get(ctx, cacheKey, &cached) {
			return cached.Courses, &cached.Pagination, nil
		}
	}

	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	pagination := &models.Pagination{Page: filter.Page, Limit: filter.Limit, TotalCount: total}

	if cacheable {
		s.cache.Set(ctx, cacheKey, cachedCourseList{Courses: courses, Pagination: *pagination}, 0)
	}
	return courses, pagination, nil
}

// Get returns a course with teacher context.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

// Create registers a new draft course.
func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	teacher, err := s.users.FindByID(ctx, req.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher")
	}
	if teacher == nil || (teacher.Role != models.RoleTeacher && teacher.Role != models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher_id must reference a teacher account")
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		TeacherID:   req.TeacherID,
		Modules:     req.Modules,
		Status:      models.CourseStatusDraft,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.cache.Invalidate(ctx, courseCachePattern)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("teacher_id", course.TeacherID))
	return course, nil
}

// Update applies partial changes to a course.
func (s *CourseService) Update(ctx context.Context, id string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	course := existing.Course
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.ImageURL != nil {
		course.ImageURL = *req.ImageURL
	}
	if req.Modules != nil {
		course.Modules = *req.Modules
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	if err := s.repo.Update(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.cache.Invalidate(ctx, courseCachePattern)
	return &course, nil
}

// Delete removes a course. Enrollments and materials referencing it are left
// in place.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if existing == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.cache.Invalidate(ctx, courseCachePattern)
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}
