package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gradebook/internal/auth"
	"gradebook/internal/identity"
	"gradebook/internal/records"
)

func (h *Handler) teacherDashboard(c *gin.Context) {
	h.listStudents(c)
}

func (h *Handler) listStudents(c *gin.Context) {
	students, err := h.users.Students(c.Request.Context())
	if err != nil {
		h.serverError(c, "list students failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (h *Handler) studentDetail(c *gin.Context) {
	student, ok := h.lookupStudent(c)
	if !ok {
		return
	}
	results, err := h.records.StudentResults(c.Request.Context(), student.ID)
	if err != nil {
		h.serverError(c, "load student results failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": student, "results": viewResults(results)})
}

func (h *Handler) createGlobalAnnouncement(c *gin.Context) {
	teacher, _ := auth.CurrentUser(c)
	ann, err := h.records.CreateAnnouncement(c.Request.Context(),
		c.PostForm("title"), c.PostForm("content"),
		records.Priority(c.PostForm("priority")), teacher.ID, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if wantsEmail(c) {
		emails, err := h.users.ActiveStudentEmails(c.Request.Context())
		if err != nil {
			h.log.Warn("student email fan-out lookup failed", zap.Error(err))
		} else {
			h.dispatch.GlobalAnnouncement(c.Request.Context(), ann, emails)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Global announcement created successfully!", "announcement": ann})
}

func (h *Handler) createStudentAnnouncement(c *gin.Context) {
	teacher, _ := auth.CurrentUser(c)
	student, ok := h.lookupStudent(c)
	if !ok {
		return
	}

	ann, err := h.records.CreateAnnouncement(c.Request.Context(),
		c.PostForm("title"), c.PostForm("content"),
		records.Priority(c.PostForm("priority")), teacher.ID, &student.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if wantsEmail(c) {
		h.dispatch.TargetedAnnouncement(c.Request.Context(), ann, *student)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Personal announcement created for " + student.DisplayName() + "!",
		"announcement": ann,
	})
}

func (h *Handler) publishResult(c *gin.Context) {
	teacher, _ := auth.CurrentUser(c)
	student, ok := h.lookupStudent(c)
	if !ok {
		return
	}

	marks, err := decimal.NewFromString(c.PostForm("marks"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid marks"})
		return
	}
	total := decimal.Zero
	if raw := c.PostForm("total_marks"); raw != "" {
		if total, err = decimal.NewFromString(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid total marks"})
			return
		}
	}
	var remarks *string
	if raw := c.PostForm("remarks"); raw != "" {
		remarks = &raw
	}

	res, err := h.records.PublishResult(c.Request.Context(), student.ID, c.PostForm("subject"),
		marks, total, c.PostForm("grade"), remarks, teacher.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The write is durable by now; mail is best-effort and cannot undo it.
	if wantsEmail(c) {
		h.dispatch.ResultPublished(c.Request.Context(), res, *student)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Result saved successfully!", "result": viewResult(res)})
}

func (h *Handler) teacherAnnouncements(c *gin.Context) {
	anns, err := h.records.AllAnnouncements(c.Request.Context())
	if err != nil {
		h.serverError(c, "list announcements failed", err)
		return
	}
	global := make([]records.Announcement, 0, len(anns))
	targeted := make([]records.Announcement, 0)
	for _, a := range anns {
		if a.Targeted() {
			targeted = append(targeted, a)
		} else {
			global = append(global, a)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"announcements":                  anns,
		"global_announcements":           global,
		"student_specific_announcements": targeted,
	})
}

func (h *Handler) teacherResults(c *gin.Context) {
	results, err := h.records.AllResults(c.Request.Context())
	if err != nil {
		h.serverError(c, "list results failed", err)
		return
	}
	students, err := h.users.Students(c.Request.Context())
	if err != nil {
		h.serverError(c, "list students failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students, "results": viewResults(results)})
}

// lookupStudent resolves the :id path param to a student account,
// answering 404 itself when the lookup misses.
func (h *Handler) lookupStudent(c *gin.Context) (*identity.User, bool) {
	student, err := h.users.Student(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		} else {
			h.serverError(c, "student lookup failed", err)
		}
		return nil, false
	}
	return student, true
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func wantsEmail(c *gin.Context) bool {
	return c.PostForm("send_email") == "on"
}
