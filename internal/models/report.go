package models

// SummaryReport aggregates platform-wide counts for the admin dashboard.
type SummaryReport struct {
	UsersByRole         map[string]int `json:"users_by_role"`
	CoursesByStatus     map[string]int `json:"courses_by_status"`
	EnrollmentsByStatus map[string]int `json:"enrollments_by_status"`
	TotalUsers          int            `json:"total_users"`
	TotalCourses        int            `json:"total_courses"`
	TotalEnrollments    int            `json:"total_enrollments"`
}

// StatusCount is a generic grouped-count row.
type StatusCount struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}
