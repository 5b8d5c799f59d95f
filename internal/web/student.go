package web

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gradebook/internal/auth"
	"gradebook/internal/identity"
	"gradebook/internal/policy"
)

func (h *Handler) studentDashboard(c *gin.Context) {
	student, _ := auth.CurrentUser(c)
	results, err := h.records.StudentResults(c.Request.Context(), student.ID)
	if err != nil {
		h.serverError(c, "load dashboard results failed", err)
		return
	}
	anns, err := h.records.VisibleAnnouncements(c.Request.Context(), student.ID)
	if err != nil {
		h.serverError(c, "load dashboard announcements failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          student,
		"results":       len(results),
		"announcements": len(anns),
	})
}

func (h *Handler) studentAnnouncements(c *gin.Context) {
	student, _ := auth.CurrentUser(c)
	anns, err := h.records.VisibleAnnouncements(c.Request.Context(), student.ID)
	if err != nil {
		h.serverError(c, "list visible announcements failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": policy.FilterAnnouncements(student, anns)})
}

func (h *Handler) studentResults(c *gin.Context) {
	student, _ := auth.CurrentUser(c)
	results, err := h.records.StudentResults(c.Request.Context(), student.ID)
	if err != nil {
		h.serverError(c, "list own results failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": viewResults(policy.FilterResults(student, results))})
}

func (h *Handler) profile(c *gin.Context) {
	student, _ := auth.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": student})
}

// editProfile updates full name and bio, and stores an uploaded profile
// image when one is attached and image storage is configured.
func (h *Handler) editProfile(c *gin.Context) {
	student, _ := auth.CurrentUser(c)

	upd := identity.ProfileUpdate{}
	if fullName := c.PostForm("full_name"); fullName != "" {
		upd.FullName = &fullName
	}
	if bio := c.PostForm("bio"); bio != "" {
		upd.Bio = &bio
	}

	if file, header, err := c.Request.FormFile("profile_image"); err == nil {
		defer file.Close()
		if h.images == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			h.serverError(c, "read profile image failed", err)
			return
		}
		uploaded, err := h.images.Upload(data, header.Filename)
		if err != nil {
			h.log.Warn("profile image upload failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		upd.ProfileImage = &uploaded.SecureURL
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), student.ID, upd)
	if err != nil {
		h.serverError(c, "profile update failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully.", "user": updated})
}
