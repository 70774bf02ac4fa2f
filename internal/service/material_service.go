package service

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursehub/coursehub-api/internal/models"
	"github.com/coursehub/coursehub-api/pkg/config"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
	"github.com/coursehub/coursehub-api/pkg/media"
)

type materialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	FindByID(ctx context.Context, id string) (*models.Material, error)
	List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error)
	Delete(ctx context.Context, id string) error
}

type materialCourseLookup interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

type mediaStore interface {
	Upload(ctx context.Context, folder, filename string, body io.Reader) (*media.Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// UploadFile carries the binary part of a multipart material upload.
type UploadFile struct {
	Name string
	MIME string
	Size int64
	Body io.Reader
}

// MaterialService handles course material use-cases. All request validation
// runs before the media host is contacted so rejected uploads never leave
// the process.
type MaterialService struct {
	repo      materialRepository
	courses   materialCourseLookup
	media     mediaStore
	metrics   *MetricsService
	cfg       config.MaterialsConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaterialService constructs the material service.
func NewMaterialService(repo materialRepository, courses materialCourseLookup, store mediaStore, metrics *MetricsService, cfg config.MaterialsConfig, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 100 * 1024 * 1024
	}
	return &MaterialService{
		repo:      repo,
		courses:   courses,
		media:     store,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
	}
}

func (s *MaterialService) mimeAllowed(mime string) bool {
	for _, allowed := range s.cfg.AllowedMIMEs {
		if mime == allowed {
			return true
		}
	}
	return false
}

// Upload validates the metadata and file, pushes the file to the media host
// under the course's folder, and persists the material record.
func (s *MaterialService) Upload(ctx context.Context, uploaderID string, req models.UploadMaterialRequest, file UploadFile) (*models.Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}
	if file.Body == nil || file.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if !s.mimeAllowed(file.MIME) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s is not allowed", file.MIME))
	}
	if file.Size > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file exceeds the maximum upload size")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	folder := fmt.Sprintf("courses/%s", req.CourseID)
	asset, err := s.media.Upload(ctx, folder, file.Name, file.Body)
	s.metrics.RecordProviderCall("media", err)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to upload file")
	}
	s.metrics.RecordUploadBytes(file.Size)

	material := &models.Material{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     asset.URL,
		PublicID:    asset.PublicID,
		FileType:    media.FileTypeForMIME(file.MIME),
		FileName:    file.Name,
		FileSize:    file.Size,
		Category:    req.Category,
		Week:        req.Week,
		UploadedBy:  uploaderID,
	}
	if err := s.repo.Create(ctx, material); err != nil {
		// The hosted file is now orphaned; log it for manual cleanup.
		s.logger.Error("material record write failed after upload",
			zap.String("public_id", asset.PublicID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save material")
	}

	s.logger.Info("material uploaded",
		zap.String("material_id", material.ID), zap.String("course_id", material.CourseID), zap.Int64("size", file.Size))
	return material, nil
}

// CreateMetadata registers a material whose file is already hosted.
func (s *MaterialService) CreateMetadata(ctx context.Context, uploaderID string, req models.CreateMaterialRequest) (*models.Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	material := &models.Material{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		FileType:    req.FileType,
		FileName:    req.FileName,
		Category:    req.Category,
		Week:        req.Week,
		UploadedBy:  uploaderID,
	}
	if err := s.repo.Create(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save material")
	}
	return material, nil
}

// List returns materials for a course ordered by week.
func (s *MaterialService) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error) {
	if filter.CourseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId is required")
	}
	materials, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	return materials, nil
}

// Delete removes a material. The hosted file is destroyed best-effort; the
// row is deleted regardless.
func (s *MaterialService) Delete(ctx context.Context, id string) error {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	if material == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "material not found")
	}

	if material.PublicID != "" {
		destroyErr := s.media.Destroy(ctx, material.PublicID)
		s.metrics.RecordProviderCall("media", destroyErr)
		if destroyErr != nil {
			s.logger.Warn("media destroy failed, deleting record anyway",
				zap.String("public_id", material.PublicID), zap.Error(destroyErr))
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete material")
	}
	return nil
}
