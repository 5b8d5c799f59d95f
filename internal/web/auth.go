package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gradebook/internal/auth"
	"gradebook/internal/identity"
)

func (h *Handler) loginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "sign in with email and password"})
}

// login authenticates form credentials and issues the session cookie.
// A failed attempt re-lands on the login form with no session issued.
func (h *Handler) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.log.Error("login lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, expiresAt, err := auth.IssueSession(user.ID, string(user.Role), h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.SessionTTL)
	if err != nil {
		h.log.Error("session issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	maxAge := int(h.cfg.SessionTTL.Seconds())
	c.SetCookie(auth.SessionCookie, token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"role":       user.Role,
		"redirect":   landingPath(user.Role),
		"expires_at": expiresAt.Unix(),
	})
}

func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "You have been successfully logged out."})
}

func (h *Handler) adminLanding(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "admin console is managed outside the portal"})
}
