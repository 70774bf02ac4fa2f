package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub/coursehub-api/internal/middleware"
	"github.com/coursehub/coursehub-api/internal/models"
)

// Handlers bundles every HTTP handler wired by Register.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Courses    *CourseHandler
	Enrollment *EnrollmentHandler
	Payments   *PaymentHandler
	Materials  *MaterialHandler
	Reports    *ReportHandler
	Health     *HealthHandler
}

// Register mounts all API routes under prefix. The token validator backs the
// JWT middleware for the authenticated groups; role checks sit per-group so
// the table below is the single place the access rules live.
func Register(r *gin.Engine, prefix string, h Handlers, validator middleware.TokenValidator) {
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/metrics", h.Health.Prometheus)

	api := r.Group(prefix)

	// Public routes. The payment webhook authenticates via its signature
	// header, not a JWT.
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/courses", h.Courses.List)
	api.GET("/courses/:id", h.Courses.Get)
	api.GET("/materials", h.Materials.List)
	api.POST("/payment/webhook", h.Payments.Webhook)

	authed := api.Group("", middleware.JWT(validator))
	authed.POST("/enrollments", h.Enrollment.Enroll)
	authed.GET("/enrollments", h.Enrollment.ListMine)
	authed.PATCH("/enrollments/:id/progress", h.Enrollment.UpdateProgress)
	authed.POST("/payment/checkout", h.Payments.Checkout)
	authed.POST("/payment/verify-session", h.Payments.VerifySession)

	staff := api.Group("", middleware.JWT(validator), middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	staff.POST("/materials/upload", h.Materials.Upload)
	staff.POST("/materials", h.Materials.Create)
	staff.DELETE("/materials/:id", h.Materials.Delete)
	staff.PUT("/courses/:id", h.Courses.Update)

	admin := api.Group("", middleware.JWT(validator), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/users", h.Users.List)
	admin.POST("/courses", h.Courses.Create)
	admin.DELETE("/courses/:id", h.Courses.Delete)
	admin.GET("/reports/enrollments", h.Reports.Enrollments)
	admin.GET("/reports/summary", h.Reports.Summary)
}
