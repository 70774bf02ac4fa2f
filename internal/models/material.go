package models

import "time"

// MaterialCategory classifies a course material.
type MaterialCategory string

const (
	MaterialCategoryLecture    MaterialCategory = "Lecture"
	MaterialCategoryLab        MaterialCategory = "Lab"
	MaterialCategoryAssignment MaterialCategory = "Assignment"
	MaterialCategoryExam       MaterialCategory = "Exam"
)

// Material represents an uploaded course file. Rows are immutable after
// creation; there is no update operation.
type Material struct {
	ID          string           `db:"id" json:"id"`
	CourseID    string           `db:"course_id" json:"course_id"`
	Title       string           `db:"title" json:"title"`
	Description string           `db:"description" json:"description"`
	FileURL     string           `db:"file_url" json:"file_url"`
	PublicID    string           `db:"public_id" json:"-"`
	FileType    string           `db:"file_type" json:"file_type"`
	FileName    string           `db:"file_name" json:"file_name"`
	FileSize    int64            `db:"file_size" json:"file_size"`
	Category    MaterialCategory `db:"category" json:"category"`
	Week        int              `db:"week" json:"week"`
	UploadedBy  string           `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// UploadMaterialRequest carries the metadata fields of a multipart upload.
type UploadMaterialRequest struct {
	CourseID    string           `json:"courseId" form:"courseId" validate:"required,uuid4"`
	Title       string           `json:"title" form:"title" validate:"required,min=2,max=200"`
	Description string           `json:"description" form:"description" validate:"max=2000"`
	Category    MaterialCategory `json:"category" form:"category" validate:"required,oneof=Lecture Lab Assignment Exam"`
	Week        int              `json:"week" form:"week" validate:"required,min=1,max=52"`
}

// CreateMaterialRequest registers a material whose file already lives on the
// media host.
type CreateMaterialRequest struct {
	CourseID    string           `json:"courseId" validate:"required,uuid4"`
	Title       string           `json:"title" validate:"required,min=2,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	FileURL     string           `json:"fileUrl" validate:"required,url"`
	FileType    string           `json:"fileType" validate:"required,max=20"`
	FileName    string           `json:"fileName" validate:"required,max=255"`
	Category    MaterialCategory `json:"category" validate:"required,oneof=Lecture Lab Assignment Exam"`
	Week        int              `json:"week" validate:"required,min=1,max=52"`
}

// MaterialFilter provides filters for listing materials.
type MaterialFilter struct {
	CourseID string
	Category MaterialCategory
	Week     int
}
