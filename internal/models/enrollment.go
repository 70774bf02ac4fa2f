package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// Enrollment records a user's membership in a course. The (user_id,
// course_id) pair is unique; payment flows rely on that index for
// idempotency.
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	UserID     string           `db:"user_id" json:"user_id"`
	CourseID   string           `db:"course_id" json:"course_id"`
	PaymentID  string           `db:"payment_id" json:"payment_id"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	Progress   int              `db:"progress" json:"progress"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollmentDetail enriches Enrollment with course context for listings.
type EnrollmentDetail struct {
	Enrollment
	CourseTitle    string  `db:"course_title" json:"course_title"`
	CourseCategory string  `db:"course_category" json:"course_category"`
	CourseImageURL string  `db:"course_image_url" json:"course_image_url"`
	CoursePrice    float64 `db:"course_price" json:"course_price"`
}

// EnrollRequest is the payload for direct (free) enrollment.
type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required,uuid4"`
}

// UpdateProgressRequest moves an enrollment's completion percentage.
type UpdateProgressRequest struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	UserID   string
	CourseID string
	Status   EnrollmentStatus
	Page     int
	Limit    int
}

// EnrollmentReportRow is the flattened shape used by tabular exports.
type EnrollmentReportRow struct {
	StudentName  string    `db:"student_name"`
	StudentEmail string    `db:"student_email"`
	CourseTitle  string    `db:"course_title"`
	Status       string    `db:"status"`
	Progress     int       `db:"progress"`
	PaymentID    string    `db:"payment_id"`
	Price        float64   `db:"price"`
	EnrolledAt   time.Time `db:"enrolled_at"`
}
