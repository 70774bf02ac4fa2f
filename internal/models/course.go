package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CourseStatus represents the publication state of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
)

// CourseModule is a single syllabus entry persisted inside the modules JSONB
// column.
type CourseModule struct {
	Week  int    `json:"week" validate:"required,min=1,max=52"`
	Title string `json:"title" validate:"required,max=200"`
}

// CourseModules is the ordered syllabus stored as JSONB.
type CourseModules []CourseModule

// Value marshals the module list to JSON for persistence.
func (m CourseModules) Value() (driver.Value, error) {
	if m == nil {
		m = CourseModules{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal course modules: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the module list.
func (m *CourseModules) Scan(value interface{}) error {
	if value == nil {
		*m = CourseModules{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for CourseModules", value)
	}
	if len(data) == 0 {
		*m = CourseModules{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Course represents a course offering stored in the courses table.
type Course struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	Category    string        `db:"category" json:"category"`
	Price       float64       `db:"price" json:"price"`
	ImageURL    string        `db:"image_url" json:"image_url"`
	TeacherID   string        `db:"teacher_id" json:"teacher_id"`
	Modules     CourseModules `db:"modules" json:"modules"`
	Status      CourseStatus  `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// CourseDetail enriches Course with the owning teacher's identity.
type CourseDetail struct {
	Course
	TeacherName  string `db:"teacher_name" json:"teacher_name"`
	TeacherEmail string `db:"teacher_email" json:"teacher_email"`
}

// CreateCourseRequest is the payload for registering a new course.
type CreateCourseRequest struct {
	Title       string        `json:"title" validate:"required,min=3,max=200"`
	Description string        `json:"description" validate:"max=5000"`
	Category    string        `json:"category" validate:"required,max=100"`
	Price       float64       `json:"price" validate:"gte=0"`
	ImageURL    string        `json:"image_url" validate:"omitempty,url"`
	TeacherID   string        `json:"teacher_id" validate:"required,uuid4"`
	Modules     CourseModules `json:"modules" validate:"dive"`
}

// UpdateCourseRequest carries partial course updates.
type UpdateCourseRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=5000"`
	Category    *string        `json:"category" validate:"omitempty,max=100"`
	Price       *float64       `json:"price" validate:"omitempty,gte=0"`
	ImageURL    *string        `json:"image_url" validate:"omitempty,url"`
	Modules     *CourseModules `json:"modules" validate:"omitempty,dive"`
	Status      *CourseStatus  `json:"status" validate:"omitempty,oneof=draft published"`
}

// CourseFilter provides typed filters for listing courses.
type CourseFilter struct {
	Status    CourseStatus
	TeacherID string
	Category  string
	Page      int
	Limit     int
}
