package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/coursehub-api/internal/models"
	"github.com/coursehub/coursehub-api/internal/service"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
	"github.com/coursehub/coursehub-api/pkg/response"
)

// MaterialHandler manages course material endpoints.
type MaterialHandler struct {
	materials *service.MaterialService
}

// NewMaterialHandler constructs MaterialHandler.
func NewMaterialHandler(materials *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

// Upload godoc
// @Summary Upload a course material file
// @Tags Materials
// @Accept multipart/form-data
// @Produce json
// @Param courseId formData string true "Course ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param category formData string true "Category (Lecture|Lab|Assignment|Exam)"
// @Param week formData int true "Week 1-52"
// @Param file formData file true "Material file"
// @Success 201 {object} response.Envelope
// @Router /materials/upload [post]
func (h *MaterialHandler) Upload(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req models.UploadMaterialRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid material payload"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	material, err := h.materials.Upload(c.Request.Context(), claims.UserID, req, service.UploadFile{
		Name: fileHeader.Filename,
		MIME: fileHeader.Header.Get("Content-Type"),
		Size: fileHeader.Size,
		Body: src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// Create godoc
// @Summary Register a material with an already-hosted file
// @Tags Materials
// @Accept json
// @Produce json
// @Param payload body models.CreateMaterialRequest true "Material payload"
// @Success 201 {object} response.Envelope
// @Router /materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req models.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	material, err := h.materials.CreateMetadata(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// List godoc
// @Summary List materials for a course
// @Tags Materials
// @Produce json
// @Param courseId query string true "Course ID"
// @Param category query string false "Filter by category"
// @Param week query int false "Filter by week"
// @Success 200 {object} response.Envelope
// @Router /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	filter := models.MaterialFilter{
		CourseID: c.Query("courseId"),
		Category: models.MaterialCategory(c.Query("category")),
	}
	if week, err := strconv.Atoi(c.Query("week")); err == nil {
		filter.Week = week
	}

	materials, err := h.materials.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials, nil)
}

// Delete godoc
// @Summary Delete a material
// @Tags Materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Router /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.materials.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "material deleted"}, nil)
}
