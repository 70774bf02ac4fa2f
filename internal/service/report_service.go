package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/coursehub/coursehub-api/internal/models"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
	"github.com/coursehub/coursehub-api/pkg/export"
)

type reportEnrollmentRepository interface {
	ListReportRows(ctx context.Context) ([]models.EnrollmentReportRow, error)
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

type reportUserRepository interface {
	CountByRole(ctx context.Context) ([]models.StatusCount, error)
}

type reportCourseRepository interface {
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

// ReportDocument is a rendered export ready to stream to the client.
type ReportDocument struct {
	Body        []byte
	ContentType string
	Filename    string
}

// ReportService produces admin-facing exports and dashboard summaries.
type ReportService struct {
	enrollments reportEnrollmentRepository
	users       reportUserRepository
	courses     reportCourseRepository
	exporters   map[string]export.Exporter
	logger      *zap.Logger
}

// NewReportService constructs the report service with CSV and PDF renderers.
func NewReportService(enrollments reportEnrollmentRepository, users reportUserRepository, courses reportCourseRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		enrollments: enrollments,
		users:       users,
		courses:     courses,
		exporters: map[string]export.Exporter{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
	}
}

var enrollmentReportColumns = []string{"Student", "Email", "Course", "Status", "Progress", "Payment ID", "Price", "Enrolled At"}

// EnrollmentReport renders the full enrollment table in the requested
// format (csv or pdf).
func (s *ReportService) EnrollmentReport(ctx context.Context, format string) (*ReportDocument, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}

	rows, err := s.enrollments.ListReportRows(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment rows")
	}

	table := export.Table{Title: "Enrollment Report", Columns: enrollmentReportColumns}
	for _, row := range rows {
		table.Rows = append(table.Rows, map[string]string{
			"Student":     row.StudentName,
			"Email":       row.StudentEmail,
			"Course":      row.CourseTitle,
			"Status":      row.Status,
			"Progress":    strconv.Itoa(row.Progress) + "%",
			"Payment ID":  row.PaymentID,
			"Price":       fmt.Sprintf("%.2f", row.Price),
			"Enrolled At": row.EnrolledAt.Format("2006-01-02"),
		})
	}

	body, err := exporter.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	s.logger.Info("enrollment report rendered", zap.String("format", format), zap.Int("rows", len(rows)))
	return &ReportDocument{
		Body:        body,
		ContentType: exporter.ContentType(),
		Filename:    "enrollment-report." + exporter.FileExtension(),
	}, nil
}

// Summary aggregates platform counts for the admin dashboard.
func (s *ReportService) Summary(ctx context.Context) (*models.SummaryReport, error) {
	usersByRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count users")
	}
	coursesByStatus, err := s.courses.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	enrollmentsByStatus, err := s.enrollments.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}

	report := &models.SummaryReport{
		UsersByRole:         map[string]int{},
		CoursesByStatus:     map[string]int{},
		EnrollmentsByStatus: map[string]int{},
	}
	for _, c := range usersByRole {
		report.UsersByRole[c.Key] = c.Count
		report.TotalUsers += c.Count
	}
	for _, c := range coursesByStatus {
		report.CoursesByStatus[c.Key] = c.Count
		report.TotalCourses += c.Count
	}
	for _, c := range enrollmentsByStatus {
		report.EnrollmentsByStatus[c.Key] = c.Count
		report.TotalEnrollments += c.Count
	}
	return report, nil
}
