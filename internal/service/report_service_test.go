package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/coursehub-api/internal/models"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
)

type mockReportEnrollments struct {
	rows   []models.EnrollmentReportRow
	counts []models.StatusCount
}

func (m *mockReportEnrollments) ListReportRows(ctx context.Context) ([]models.EnrollmentReportRow, error) {
	return m.rows, nil
}

func (m *mockReportEnrollments) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return m.counts, nil
}

type mockReportUsers struct{ counts []models.StatusCount }

func (m *mockReportUsers) CountByRole(ctx context.Context) ([]models.StatusCount, error) {
	return m.counts, nil
}

type mockReportCourses struct{ counts []models.StatusCount }

func (m *mockReportCourses) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return m.counts, nil
}

func newReportService() *ReportService {
	enrollments := &mockReportEnrollments{
		rows: []models.EnrollmentReportRow{
			{StudentName: "Ada", StudentEmail: "ada@example.com", CourseTitle: "Algorithms", Status: "active", Progress: 40, PaymentID: "cs_123", Price: 49.99, EnrolledAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
		counts: []models.StatusCount{{Key: "active", Count: 3}, {Key: "completed", Count: 1}},
	}
	users := &mockReportUsers{counts: []models.StatusCount{{Key: "student", Count: 10}, {Key: "teacher", Count: 2}}}
	courses := &mockReportCourses{counts: []models.StatusCount{{Key: "published", Count: 4}}}
	return NewReportService(enrollments, users, courses, nil)
}

func TestEnrollmentReportCSV(t *testing.T) {
	svc := newReportService()

	doc, err := svc.EnrollmentReport(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.Equal(t, "enrollment-report.csv", doc.Filename)
	assert.Contains(t, string(doc.Body), "Ada,ada@example.com,Algorithms,active,40%,cs_123,49.99,2026-03-01")
}

func TestEnrollmentReportPDF(t *testing.T) {
	svc := newReportService()

	doc, err := svc.EnrollmentReport(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF")))
}

func TestEnrollmentReportUnknownFormat(t *testing.T) {
	svc := newReportService()

	_, err := svc.EnrollmentReport(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSummary(t *testing.T) {
	svc := newReportService()

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TotalUsers)
	assert.Equal(t, 4, summary.TotalCourses)
	assert.Equal(t, 4, summary.TotalEnrollments)
	assert.Equal(t, 3, summary.EnrollmentsByStatus["active"])
	assert.Equal(t, 10, summary.UsersByRole["student"])
}
