package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/coursehub-api/internal/service"
	"github.com/coursehub/coursehub-api/pkg/response"
)

// ReportHandler exposes admin reporting endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Enrollments godoc
// @Summary Export the enrollment report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv|pdf)" default(csv)
// @Success 200 {file} file
// @Router /reports/enrollments [get]
func (h *ReportHandler) Enrollments(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	doc, err := h.reports.EnrollmentReport(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, doc.Filename, doc.ContentType, doc.Body)
}

// Summary godoc
// @Summary Platform-wide count summary
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
