// Package web is the request boundary: it authenticates the caller,
// resolves the role, and routes to the read/write operations. It renders
// JSON and, matching the original portal, answers every failed role
// check with a redirect to the login page rather than a 403.
package web

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"gradebook/internal/auth"
	"gradebook/internal/cloudinary"
	"gradebook/internal/config"
	"gradebook/internal/identity"
	"gradebook/internal/notify"
	"gradebook/internal/records"
)

// Handler carries the services behind the exposed operations.
type Handler struct {
	cfg      config.App
	users    *identity.Service
	records  *records.Service
	dispatch *notify.Dispatcher
	images   *cloudinary.Client // nil when not configured
	log      *zap.Logger
}

// NewHandler creates the boundary handler.
func NewHandler(cfg config.App, users *identity.Service, recs *records.Service, dispatch *notify.Dispatcher, images *cloudinary.Client, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{cfg: cfg, users: users, records: recs, dispatch: dispatch, images: images, log: log}
}

// RegisterRoutes mounts every operation on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET(auth.LoginPath, h.loginForm)
	r.POST(auth.LoginPath, h.login)
	r.POST("/logout", h.logout)

	teacher := r.Group("/teacher", auth.RequireRole(h.cfg.JWTSigningKey, h.cfg.JWTIssuer, h.users, identity.RoleTeacher))
	teacher.GET("/dashboard", h.teacherDashboard)
	teacher.GET("/students", h.listStudents)
	teacher.GET("/students/:id", h.studentDetail)
	teacher.POST("/announcements", h.createGlobalAnnouncement)
	teacher.POST("/students/:id/announcements", h.createStudentAnnouncement)
	teacher.POST("/students/:id/results", h.publishResult)
	teacher.GET("/announcements", h.teacherAnnouncements)
	teacher.GET("/results", h.teacherResults)

	student := r.Group("/student", auth.RequireRole(h.cfg.JWTSigningKey, h.cfg.JWTIssuer, h.users, identity.RoleStudent))
	student.GET("/dashboard", h.studentDashboard)
	student.GET("/announcements", h.studentAnnouncements)
	student.GET("/results", h.studentResults)
	student.GET("/profile", h.profile)
	student.POST("/profile", h.editProfile)

	admin := r.Group("/admin", auth.RequireRole(h.cfg.JWTSigningKey, h.cfg.JWTIssuer, h.users, identity.RoleAdmin))
	admin.GET("", h.adminLanding)
}

// landingPath maps a role to its post-login route.
func landingPath(role identity.Role) string {
	switch role {
	case identity.RoleTeacher:
		return "/teacher/dashboard"
	case identity.RoleStudent:
		return "/student/dashboard"
	default:
		return "/admin"
	}
}
